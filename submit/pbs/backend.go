// Package pbs submits jobs to PBS/Torque clusters.
package pbs

import (
	"encoding/xml"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hpc-bio/mdsub/config"
	"github.com/hpc-bio/mdsub/logger"
	"github.com/hpc-bio/mdsub/submit"
)

// Name of the backend.
const Name = "pbs"

// NewBackend returns a new PBS (Portable Batch System) backend
// instance.
func NewBackend(conf config.Config, log *logger.Logger) *submit.Backend {
	return &submit.Backend{
		Name:      Name,
		Conf:      conf.PBS,
		Log:       log.Sub(Name),
		ExtractID: extractID,
		MapStates: mapStates(conf.PBS.StatusCmd),
		Retrier:   submit.NewRetrier(conf),
	}
}

// extractID extracts the job id from the response returned by the
// `qsub` command. For PBS / Torque systems, `qsub` prints the job id.
func extractID(in string) string {
	return strings.TrimSpace(in)
}

type job struct {
	JobID      string `xml:"Job_Id"`
	JobState   string `xml:"job_state"`
	ExitStatus int    `xml:"exit_status"`
}

type xmlRecord struct {
	XMLName xml.Name `xml:"Data"`
	Job     []job
}

func mapStates(statusCmd string) func(ids []string) ([]*submit.JobState, error) {
	return func(ids []string) ([]*submit.JobState, error) {
		out, err := exec.Command(statusCmd, "-x").Output()
		if err != nil {
			return nil, fmt.Errorf("%s command failed: %v", statusCmd, err)
		}
		return parseStates(out, ids)
	}
}

func parseStates(out []byte, ids []string) ([]*submit.JobState, error) {
	res := xmlRecord{}
	if err := xml.Unmarshal(out, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal qstat output: %v", err)
	}

	idSet := make(map[string]bool)
	for _, i := range ids {
		idSet[i] = true
	}

	var output []*submit.JobState
	for _, j := range res.Job {
		if !idSet[j.JobID] {
			continue
		}
		state := stateMap[j.JobState]
		if state == "" {
			state = j.JobState
		}
		s := &submit.JobState{ID: j.JobID, State: state}
		if state == "Complete" && j.ExitStatus != 0 {
			s.Reason = fmt.Sprintf("job exited with status %d", j.ExitStatus)
		}
		output = append(output, s)
	}
	return output, nil
}

var stateMap = map[string]string{
	"C": "Complete",
	"E": "Exiting",
	"H": "Held",
	"Q": "Queued",
	"R": "Running",
	"S": "Suspended",
	"T": "Moving",
	"W": "Waiting",
}
