package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hpc-bio/mdsub/config"
)

// configCmd dumps the resolved configuration, defaults included, so a
// config file can be started from it.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := config.DefaultConfig()
		if err := config.ParseFile(configDumpFile, &conf); err != nil {
			return err
		}
		if configDumpOut != "" {
			return config.ToYamlFile(conf, configDumpOut)
		}
		b, err := config.ToYaml(conf)
		if err != nil {
			return err
		}
		fmt.Print(string(b))
		return nil
	},
}

var (
	configDumpFile string
	configDumpOut  string
)

func init() {
	f := configCmd.Flags()
	f.StringVarP(&configDumpFile, "config", "c", "", "mdsub config file (YAML) to resolve against the defaults")
	f.StringVarP(&configDumpOut, "output", "o", "", "write the YAML to a file instead of stdout")
}
