// Package htcondor submits jobs to HTCondor pools.
package htcondor

import (
	"regexp"
	"strings"

	"github.com/hpc-bio/mdsub/config"
	"github.com/hpc-bio/mdsub/logger"
	"github.com/hpc-bio/mdsub/submit"
)

// Name of the backend.
const Name = "htcondor"

// NewBackend returns a new HTCondor backend instance.
func NewBackend(conf config.Config, log *logger.Logger) *submit.Backend {
	return &submit.Backend{
		Name:      Name,
		Conf:      conf.HTCondor,
		Log:       log.Sub(Name),
		ExtractID: extractID,
		Retrier:   submit.NewRetrier(conf),
	}
}

var submitRe = regexp.MustCompile(`submitted to cluster ([0-9]+)`)

// extractID extracts the cluster id from the response returned by the
// `condor_submit` command. Example response:
// 1 job(s) submitted to cluster 8.
func extractID(in string) string {
	if m := submitRe.FindStringSubmatch(in); m != nil {
		return m[1]
	}
	return strings.TrimSpace(in)
}
