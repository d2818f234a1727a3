// Package template contains the "template" command, which lists and
// prints the built-in templates.
package template

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hpc-bio/mdsub/tpl"
)

// NewCommand returns the "template" subcommand.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect the built-in templates.",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the names of the built-in templates.",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range tpl.BuiltinNames() {
				fmt.Println(name)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show [name]",
		Short: "Print a built-in template.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := tpl.BuiltinText(args[0])
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		},
	}

	keys := &cobra.Command{
		Use:   "keys [name]",
		Short: "List the placeholders a built-in template expects.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tpl.Builtin(args[0])
			if err != nil {
				return err
			}
			for _, key := range t.Placeholders() {
				fmt.Println(key)
			}
			return nil
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(show)
	cmd.AddCommand(keys)
	return cmd
}
