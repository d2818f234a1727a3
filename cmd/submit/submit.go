// Package submit contains the "submit" command.
package submit

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/imdario/mergo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hpc-bio/mdsub/config"
	"github.com/hpc-bio/mdsub/logger"
	"github.com/hpc-bio/mdsub/submit"
	"github.com/hpc-bio/mdsub/submit/gridengine"
	"github.com/hpc-bio/mdsub/submit/htcondor"
	"github.com/hpc-bio/mdsub/submit/pbs"
	"github.com/hpc-bio/mdsub/submit/slurm"
	"github.com/hpc-bio/mdsub/util"
)

var loaders = map[string]func(config.Config, *logger.Logger) *submit.Backend{
	pbs.Name:        pbs.NewBackend,
	slurm.Name:      slurm.NewBackend,
	gridengine.Name: gridengine.NewBackend,
	htcondor.Name:   htcondor.NewBackend,
}

func loadBackend(conf config.Config, log *logger.Logger) (*submit.Backend, error) {
	loader, ok := loaders[conf.Scheduler]
	if !ok {
		var known []string
		for name := range loaders {
			known = append(known, name)
		}
		return nil, fmt.Errorf("unknown scheduler %q, expected one of: %s",
			conf.Scheduler, strings.Join(known, ", "))
	}
	return loader(conf, log), nil
}

// NewCommand returns the "submit" subcommand.
func NewCommand() *cobra.Command {
	var (
		configFile string
		flagConf   config.Config
		jobName    string
		scriptPath string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "submit [flags] -- command args...",
		Short: "Fill a submission script template and hand it to the scheduler.",
		Long: `Fill a submission script template and hand it to the scheduler.

The command and its arguments are quoted and placed into the script's
command placeholder. With --script, an already-filled script is
submitted as-is instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := config.DefaultConfig()
			if err := config.ParseFile(configFile, &conf); err != nil {
				return err
			}
			// file vals <- cli vals
			if err := mergo.MergeWithOverwrite(&conf, flagConf); err != nil {
				return err
			}
			if err := conf.Validate(); err != nil {
				return err
			}

			log := logger.New("mdsub")
			log.Configure(conf.Logger)

			backend, err := loadBackend(conf, log)
			if err != nil {
				return err
			}

			if scriptPath == "" && len(args) == 0 {
				return fmt.Errorf("no command given; pass one after --, or use --script")
			}

			ctx := util.SignalContext(
				context.Background(), time.Millisecond, syscall.SIGINT, syscall.SIGTERM)

			script := scriptPath
			if script == "" {
				name := jobName
				if name == "" {
					name = "mdsub"
				}
				command := submit.JoinCommand(args)

				if dryRun {
					text, err := backend.Render(name, command, conf.Resources)
					if err != nil {
						return err
					}
					fmt.Print(text)
					return nil
				}

				dir := conf.OutDir
				if dir == "" {
					dir = "."
				}
				script, err = backend.WriteScript(dir, name, command, conf.Resources)
				if err != nil {
					return err
				}
			} else if dryRun {
				b, err := os.ReadFile(script)
				if err != nil {
					return err
				}
				fmt.Print(string(b))
				return nil
			}

			id, err := backend.Submit(ctx, script)
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}

	cmd.AddCommand(newCancelCommand(&configFile, &flagConf))
	cmd.AddCommand(newStatusCommand(&configFile, &flagConf))

	f := cmd.Flags()
	addSharedFlags(f, &configFile, &flagConf)
	f.StringVarP(&jobName, "name", "N", "", "job name placed into the script preamble")
	f.StringVar(&scriptPath, "script", "", "submit an already-filled script")
	f.BoolVar(&dryRun, "dry-run", false, "print the filled script instead of submitting")
	f.IntVar(&flagConf.Resources.Nodes, "nodes", 0, "node count")
	f.IntVar(&flagConf.Resources.PPN, "ppn", 0, "processors per node")
	f.IntVar(&flagConf.Resources.Walltime, "walltime", 0, "walltime in hours")
	f.StringVar(&flagConf.Resources.Mem, "mem", "", "memory request, e.g. 9gb")
	f.StringVar(&flagConf.Resources.Queue, "queue", "", "queue / partition name")
	f.StringVar(&flagConf.OutDir, "out-dir", "", "directory generated scripts are written to")

	return cmd
}

func addSharedFlags(f *pflag.FlagSet, configFile *string, flagConf *config.Config) {
	f.StringVarP(configFile, "config", "c", "", "mdsub config file (YAML)")
	f.StringVar(&flagConf.Scheduler, "scheduler", "", "scheduler backend: pbs, slurm, gridengine, htcondor")
	f.StringVar(&flagConf.Logger.Level, "log-level", "", "level of logging")
}

func newCancelCommand(configFile *string, flagConf *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel job-id...",
		Short: "Cancel queued jobs.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := setup(*configFile, *flagConf)
			if err != nil {
				return err
			}
			ctx := context.Background()
			for _, id := range args {
				if err := backend.Cancel(ctx, id); err != nil {
					return err
				}
			}
			return nil
		},
	}
	addSharedFlags(cmd.Flags(), configFile, flagConf)
	return cmd
}

func newStatusCommand(configFile *string, flagConf *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status job-id...",
		Short: "Report scheduler state for jobs.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := setup(*configFile, *flagConf)
			if err != nil {
				return err
			}
			states, err := backend.States(args)
			if err != nil {
				return err
			}
			for _, s := range states {
				if s.Reason != "" {
					fmt.Printf("%s\t%s\t%s\n", s.ID, s.State, s.Reason)
				} else {
					fmt.Printf("%s\t%s\n", s.ID, s.State)
				}
			}
			return nil
		},
	}
	addSharedFlags(cmd.Flags(), configFile, flagConf)
	return cmd
}

func setup(configFile string, flagConf config.Config) (*submit.Backend, error) {
	conf := config.DefaultConfig()
	if err := config.ParseFile(configFile, &conf); err != nil {
		return nil, err
	}
	if err := mergo.MergeWithOverwrite(&conf, flagConf); err != nil {
		return nil, err
	}
	log := logger.New("mdsub")
	log.Configure(conf.Logger)
	return loadBackend(conf, log)
}
