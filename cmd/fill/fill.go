// Package fill contains the "fill" command.
package fill

import (
	"fmt"
	"strings"

	"github.com/imdario/mergo"
	"github.com/spf13/cobra"

	"github.com/hpc-bio/mdsub/config"
	"github.com/hpc-bio/mdsub/fill"
	"github.com/hpc-bio/mdsub/logger"
)

// NewCommand returns the "fill" subcommand.
func NewCommand() *cobra.Command {
	var (
		configFile string
		iniFile    string
		flagConf   config.Config
		flagJob    config.FillJob
		sets       []string
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a template with substitution values and write the result.",
		Long: `Fill a template with substitution values and write the result.

Values come from an mdsub YAML config, a classic fill INI config, or
--set flags. A comma-separated value produces one filled file per
value. The output filename is itself a template filled from the same
values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// classic fill configs are INI files passed with -c
			if strings.HasSuffix(configFile, ".ini") && iniFile == "" {
				iniFile = configFile
				configFile = ""
			}

			conf := config.DefaultConfig()
			if err := config.ParseFile(configFile, &conf); err != nil {
				return err
			}
			// file vals <- cli vals
			if err := mergo.MergeWithOverwrite(&conf, flagConf); err != nil {
				return err
			}

			log := logger.New("mdsub")
			log.Configure(conf.Logger)

			job := &conf.Fill
			if iniFile != "" {
				var err error
				job, err = config.LoadFillINI(iniFile)
				if err != nil {
					return err
				}
			}
			if flagJob.TplFile != "" {
				job.TplFile = flagJob.TplFile
			}
			// command line takes precedence over the fill config
			if flagJob.FilledName != "" {
				job.FilledName = flagJob.FilledName
			}
			if flagJob.OutDir != "" {
				job.OutDir = flagJob.OutDir
			}
			for _, s := range sets {
				k, v, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf("bad --set %q, expected key=value", s)
				}
				vals := strings.Split(v, ",")
				for i := range vals {
					vals[i] = strings.TrimSpace(vals[i])
				}
				job.Set(strings.TrimSpace(k), vals...)
			}

			r := fill.NewRunner(conf, log)
			paths, err := r.Run(job)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Println(p)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "mdsub config file (YAML)")
	f.StringVarP(&iniFile, "ini", "i", "", "fill config file (classic INI layout)")
	f.StringVar(&flagJob.TplFile, "tpl", "", "template file, or builtin:NAME")
	f.StringVarP(&flagJob.FilledName, "filled-name", "f", "", "name template for the filled file")
	f.StringVar(&flagJob.OutDir, "out-dir", "", "directory to write filled files to")
	f.StringArrayVar(&sets, "set", nil, "substitution value, key=value (repeatable)")
	f.BoolVar(&flagConf.Strict, "strict", false, "fail on substitution values the template doesn't use")
	f.StringVar(&flagConf.Logger.Level, "log-level", "", "level of logging")

	return cmd
}
