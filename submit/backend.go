// Package submit hands filled submission scripts to a batch scheduler
// such as PBS/Torque, Slurm, Grid Engine or HTCondor.
package submit

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/hpc-bio/mdsub/config"
	"github.com/hpc-bio/mdsub/logger"
	"github.com/hpc-bio/mdsub/tpl"
	"github.com/hpc-bio/mdsub/util"
	"github.com/hpc-bio/mdsub/util/fsutil"
)

// Backend submits scripts to a batch scheduler via its command line
// tools, e.g. "qsub", "sbatch", "condor_submit".
type Backend struct {
	Name string
	Conf config.SchedulerConfig
	Log  *logger.Logger

	// ExtractID pulls the scheduler job ID out of the submit
	// command's stdout.
	ExtractID func(string) string
	// MapStates queries the scheduler for the state of the given job
	// IDs. Nil when the scheduler doesn't support it.
	MapStates func(ids []string) ([]*JobState, error)

	Retrier *util.Retrier
}

// JobState is the scheduler-reported state of one submitted job.
type JobState struct {
	ID     string
	State  string
	Reason string
}

// NewRetrier builds the submit retrier from config.
func NewRetrier(conf config.Config) *util.Retrier {
	r := util.NewRetrier()
	if conf.SubmitMaxTries > 0 {
		r.MaxTries = conf.SubmitMaxTries
	}
	if conf.SubmitTimeout > 0 {
		r.MaxElapsedTime = time.Duration(conf.SubmitTimeout)
	}
	r.ShouldRetry = func(err error) bool {
		// a missing scheduler binary won't appear on retry
		return !strings.Contains(err.Error(), exec.ErrNotFound.Error())
	}
	return r
}

// Render fills the backend's submission script template for one job.
func (b *Backend) Render(jobName, command string, res config.Resources) (string, error) {
	if b.Conf.Template == "" {
		return "", fmt.Errorf("%s: no submission template configured", b.Name)
	}
	tmpl, err := tpl.Parse(b.Name+" submit template", b.Conf.Template)
	if err != nil {
		return "", err
	}
	return tmpl.Fill(ScriptValues(jobName, command, res))
}

// WriteScript renders the submission script and writes it under dir,
// tagged with a unique run ID so repeated submissions never collide.
func (b *Backend) WriteScript(dir, jobName, command string, res config.Resources) (string, error) {
	text, err := b.Render(jobName, command, res)
	if err != nil {
		return "", err
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.%s.submit", jobName, util.GenRunID(), b.Name))
	if err := fsutil.WriteFile(path, text, true); err != nil {
		return "", err
	}
	return path, nil
}

// Submit hands a submission script to the scheduler and returns the
// scheduler's job ID. Transient submit failures are retried with
// exponential backoff until the context is canceled or the retrier
// gives up.
func (b *Backend) Submit(ctx context.Context, scriptPath string) (string, error) {
	// check up front; the scheduler's own "no such file" output is cryptic
	if ok, err := fsutil.Exists(scriptPath); err != nil {
		return "", err
	} else if !ok {
		return "", fmt.Errorf("submission script %s does not exist", scriptPath)
	}

	var stdout, stderr bytes.Buffer

	run := func() error {
		stdout.Reset()
		stderr.Reset()
		cmd := exec.CommandContext(ctx, b.Conf.SubmitCmd, scriptPath)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		return cmd.Run()
	}

	var err error
	if b.Retrier != nil {
		err = b.Retrier.Retry(ctx, run)
	} else {
		err = run()
	}
	if err != nil {
		b.Log.Error("error submitting script to "+b.Name,
			"error", err, "stderr", stderr.String(), "stdout", stdout.String())
		return "", fmt.Errorf("%s %s: %v", b.Conf.SubmitCmd, scriptPath, err)
	}

	id := strings.TrimSpace(stdout.String())
	if b.ExtractID != nil {
		id = b.ExtractID(stdout.String())
	}
	b.Log.Info("submitted", "scheduler", b.Name, "script", scriptPath, b.Name+"_id", id)
	return id, nil
}

// Cancel cancels a queued job via "qdel", "scancel", "condor_rm", etc.
func (b *Backend) Cancel(ctx context.Context, jobID string) error {
	if jobID == "" {
		return fmt.Errorf("no %s job ID to cancel", b.Name)
	}
	cmd := exec.CommandContext(ctx, b.Conf.CancelCmd, jobID)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s %s: %v: %s", b.Conf.CancelCmd, jobID, err, out)
	}
	return nil
}

// States queries the scheduler for the state of the given job IDs.
func (b *Backend) States(ids []string) ([]*JobState, error) {
	if b.MapStates == nil {
		return nil, fmt.Errorf("%s backend doesn't support state queries", b.Name)
	}
	return b.MapStates(ids)
}

// ScriptValues builds the substitution set for a submission script
// template from a job name, the command to run and the declared
// resource request.
func ScriptValues(jobName, command string, res config.Resources) tpl.Values {
	return tpl.Values{
		"job_name": jobName,
		"command":  command,
		"walltime": res.Walltime,
		"nodes":    res.Nodes,
		"ppn":      res.PPN,
		"mem":      res.Mem,
		"queue":    res.Queue,
	}
}

// JoinCommand quotes and joins a command and its arguments so the
// generated script survives spaces and shell metacharacters in user
// input.
func JoinCommand(args []string) string {
	return shellquote.Join(args...)
}
