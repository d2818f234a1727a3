// Package cmd contains the mdsub CLI commands.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hpc-bio/mdsub/cmd/fill"
	"github.com/hpc-bio/mdsub/cmd/submit"
	"github.com/hpc-bio/mdsub/cmd/template"
	"github.com/hpc-bio/mdsub/cmd/version"
)

// RootCmd represents the root command.
var RootCmd = &cobra.Command{
	Use:           "mdsub",
	Short:         "Fill batch submission and simulation input templates, and queue the result.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCmd.AddCommand(fill.NewCommand())
	RootCmd.AddCommand(submit.NewCommand())
	RootCmd.AddCommand(template.NewCommand())
	RootCmd.AddCommand(version.Cmd)
	RootCmd.AddCommand(configCmd)
	RootCmd.AddCommand(completionCmd)
	RootCmd.AddCommand(genMarkdownCmd)
}
