// Package slurm submits jobs to Slurm clusters.
package slurm

import (
	"regexp"
	"strings"

	"github.com/hpc-bio/mdsub/config"
	"github.com/hpc-bio/mdsub/logger"
	"github.com/hpc-bio/mdsub/submit"
)

// Name of the backend.
const Name = "slurm"

// NewBackend returns a new Slurm backend instance.
func NewBackend(conf config.Config, log *logger.Logger) *submit.Backend {
	return &submit.Backend{
		Name:      Name,
		Conf:      conf.Slurm,
		Log:       log.Sub(Name),
		ExtractID: extractID,
		Retrier:   submit.NewRetrier(conf),
	}
}

var submitRe = regexp.MustCompile(`Submitted batch job ([0-9]+)`)

// extractID extracts the job id from the response returned by the
// `sbatch` command. Example response:
// Submitted batch job 2
func extractID(in string) string {
	if m := submitRe.FindStringSubmatch(in); m != nil {
		return m[1]
	}
	return strings.TrimSpace(in)
}
