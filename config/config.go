// Package config describes configuration for mdsub.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/units"
	"github.com/hashicorp/go-multierror"

	"github.com/hpc-bio/mdsub/logger"
	"github.com/hpc-bio/mdsub/tpl"
)

// Config describes configuration for mdsub.
type Config struct {
	// Scheduler is the active scheduler backend for "mdsub submit":
	// pbs, slurm, gridengine or htcondor.
	Scheduler string
	// OutDir is the directory filled artifacts are written to.
	// Empty means alongside the template.
	OutDir string
	// Strict makes unused substitution values fatal.
	Strict bool

	// SubmitMaxTries caps retries of the scheduler submit command.
	// SubmitTimeout bounds the total time spent retrying.
	SubmitMaxTries int
	SubmitTimeout  Duration

	Logger logger.Config
	Fill   FillJob

	Resources Resources

	PBS        SchedulerConfig
	Slurm      SchedulerConfig
	GridEngine SchedulerConfig
	HTCondor   SchedulerConfig
}

// FillJob describes one template fill: the template file, the output
// name and the substitution values. The output name is itself a
// template filled from the same value set. Keys with multiple values
// produce one filled artifact per value.
type FillJob struct {
	TplFile    string
	FilledName string
	OutDir     string

	// Order preserves the key order of the source config so
	// multi-value expansion is deterministic.
	Order  []string `json:"-"`
	Values map[string][]string
}

// Set stores a single-valued key, keeping order.
func (j *FillJob) Set(key string, vals ...string) {
	if j.Values == nil {
		j.Values = map[string][]string{}
	}
	if _, ok := j.Values[key]; !ok {
		j.Order = append(j.Order, key)
	}
	j.Values[key] = vals
}

// Keys returns the value keys in source order. Configs parsed from
// YAML carry no source order, so those keys come back sorted; the
// expansion order must be the same on every run.
func (j *FillJob) Keys() []string {
	if len(j.Order) == len(j.Values) {
		return j.Order
	}
	keys := make([]string, 0, len(j.Values))
	for k := range j.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// First returns a substitution set built from the first value of every
// key, the starting point of multi-value expansion.
func (j *FillJob) First() tpl.Values {
	vals := tpl.Values{}
	for k, vs := range j.Values {
		if len(vs) > 0 {
			vals[k] = vs[0]
		}
	}
	return vals
}

// Resources describes the static resource request declared in
// submission script preambles.
type Resources struct {
	Nodes    int
	PPN      int
	Walltime int // hours
	Mem      string
	Queue    string
}

// SchedulerConfig describes one scheduler backend.
type SchedulerConfig struct {
	// Template is the submission script template text. TemplateFile,
	// when set, is read at startup and takes precedence.
	Template     string
	TemplateFile string
	SubmitCmd    string
	CancelCmd    string
	StatusCmd    string
}

// DefaultConfig returns configuration with simple defaults.
// Scheduler templates default to the built-in template texts.
func DefaultConfig() Config {
	pbsTpl, _ := tpl.BuiltinText("pbs-submit")
	slurmTpl, _ := tpl.BuiltinText("slurm-submit")
	geTpl, _ := tpl.BuiltinText("gridengine-submit")
	condorTpl, _ := tpl.BuiltinText("htcondor-submit")

	return Config{
		Scheduler:      "pbs",
		Logger:         logger.DefaultConfig(),
		SubmitMaxTries: 5,
		SubmitTimeout:  Duration(time.Minute * 5),
		Resources: Resources{
			Nodes:    1,
			PPN:      1,
			Walltime: 4,
			Mem:      "2gb",
			Queue:    "batch",
		},
		PBS: SchedulerConfig{
			Template:  pbsTpl,
			SubmitCmd: "qsub",
			CancelCmd: "qdel",
			StatusCmd: "qstat",
		},
		Slurm: SchedulerConfig{
			Template:  slurmTpl,
			SubmitCmd: "sbatch",
			CancelCmd: "scancel",
			StatusCmd: "squeue",
		},
		GridEngine: SchedulerConfig{
			Template:  geTpl,
			SubmitCmd: "qsub",
			CancelCmd: "qdel",
			StatusCmd: "qstat",
		},
		HTCondor: SchedulerConfig{
			Template:  condorTpl,
			SubmitCmd: "condor_submit",
			CancelCmd: "condor_rm",
			StatusCmd: "condor_q",
		},
	}
}

// Validate checks the configuration for problems that would only
// surface after a job is queued, such as a memory request the
// scheduler can't parse. All problems are reported at once.
func (c Config) Validate() error {
	var errs *multierror.Error

	switch c.Scheduler {
	case "", "pbs", "slurm", "gridengine", "htcondor":
	default:
		errs = multierror.Append(errs, fmt.Errorf(
			"unknown scheduler %q, expected pbs, slurm, gridengine or htcondor", c.Scheduler))
	}

	if c.Resources.Nodes < 0 || c.Resources.PPN < 0 {
		errs = multierror.Append(errs, fmt.Errorf("negative node or ppn count"))
	}
	if c.Resources.Walltime < 0 {
		errs = multierror.Append(errs, fmt.Errorf("negative walltime"))
	}
	if c.Resources.Mem != "" {
		if _, err := ParseMem(c.Resources.Mem); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// ParseMem parses a scheduler memory request such as "9gb" or "512mb"
// into bytes. Scheduler directives are case-insensitive about the
// unit, so normalize before handing the value to the units parser.
func ParseMem(s string) (int64, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasSuffix(norm, "B") {
		norm += "B"
	}
	n, err := units.ParseStrictBytes(norm)
	if err != nil {
		return 0, fmt.Errorf("can't parse memory request %q: %v", s, err)
	}
	return n, nil
}
