package main

import (
	"os"

	"github.com/hpc-bio/mdsub/cmd"
	"github.com/hpc-bio/mdsub/logger"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		logger.PrintSimpleError(err)
		os.Exit(1)
	}
}
