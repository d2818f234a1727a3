// Package gridengine submits jobs to (Sun/Open) Grid Engine clusters.
package gridengine

import (
	"regexp"
	"strings"

	"github.com/hpc-bio/mdsub/config"
	"github.com/hpc-bio/mdsub/logger"
	"github.com/hpc-bio/mdsub/submit"
)

// Name of the backend.
const Name = "gridengine"

// NewBackend returns a new Grid Engine backend instance.
func NewBackend(conf config.Config, log *logger.Logger) *submit.Backend {
	return &submit.Backend{
		Name:      Name,
		Conf:      conf.GridEngine,
		Log:       log.Sub(Name),
		ExtractID: extractID,
		// grid engine doesn't support state reconciliation
		MapStates: nil,
		Retrier:   submit.NewRetrier(conf),
	}
}

var submitRe = regexp.MustCompile(`Your job ([0-9]+) \(".*"\) has been submitted`)

func extractID(in string) string {
	if m := submitRe.FindStringSubmatch(in); m != nil {
		return m[1]
	}
	return strings.TrimSpace(in)
}
