package config

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/hpc-bio/mdsub/logger"
)

// Section names of the fill config file format carried over from the
// original md_utils tooling. [tpl_equations] is accepted for
// compatibility with legacy configs but its keys are not evaluated.
const (
	mainSec    = "main"
	tplValsSec = "tpl_vals"
	tplEqsSec  = "tpl_equations"
)

// Keys of the [main] section.
const (
	keyTplFile    = "tpl_file"
	keyFilledName = "filled_tpl_name"
	keyOutDir     = "out_dir"
)

// LoadFillINI reads a fill config in the classic INI layout:
//
//	[main]
//	tpl_file = sub_wham.tpl
//	filled_tpl_name = {job_name}.job
//	out_dir = filled
//
//	[tpl_vals]
//	job_name = analysis
//	walltime = 30
//	run = 1,2,3
//
// Comma-separated values mean one filled artifact per value. Section
// names outside the known set are fatal, with a hint when a value key
// strays into [main].
func LoadFillINI(path string) (*FillJob, error) {
	f, err := ini.LoadSources(ini.LoadOptions{}, path)
	if err != nil {
		return nil, fmt.Errorf("could not read fill config %s: %v", path, err)
	}

	job := &FillJob{Values: map[string][]string{}}
	sawMain := false

	for _, sec := range f.Sections() {
		switch sec.Name() {
		case ini.DefaultSection:
			if len(sec.Keys()) > 0 {
				return nil, fmt.Errorf(
					"fill config %s has keys before a section header; expected a '[%s]' section",
					path, mainSec)
			}

		case mainSec:
			sawMain = true
			for _, k := range sec.Keys() {
				switch k.Name() {
				case keyTplFile:
					job.TplFile = k.String()
				case keyFilledName:
					job.FilledName = k.String()
				case keyOutDir:
					job.OutDir = k.String()
				default:
					return nil, fmt.Errorf(
						"unexpected key %q in section '[%s]' of %s. Does this belong in a template value section such as '[%s]'?",
						k.Name(), mainSec, path, tplValsSec)
				}
			}

		case tplValsSec:
			for _, k := range sec.Keys() {
				vals := splitVals(k.String())
				job.Set(k.Name(), vals...)
			}

		case tplEqsSec:
			if len(sec.Keys()) > 0 {
				logger.Warn("ignoring template equations in fill config",
					"path", path, "keys", len(sec.Keys()))
			}

		default:
			return nil, fmt.Errorf(
				"section name '%s' in %s is not one of the valid section names: %s, %s, %s",
				sec.Name(), path, mainSec, tplValsSec, tplEqsSec)
		}
	}

	if !sawMain {
		return nil, fmt.Errorf("fill config %s is missing the required '[%s]' section", path, mainSec)
	}
	return job, nil
}

func splitVals(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
