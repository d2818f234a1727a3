// Package version contains the "version" command.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hpc-bio/mdsub/logger"
	"github.com/hpc-bio/mdsub/version"
)

// Cmd represents the "version" command.
var Cmd = &cobra.Command{
	Use: "version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

// Log logs build and version information to the given logger.
func Log(l *logger.Logger) {
	l.Info("version", version.LogFields()...)
}
