// Package fill runs template fill jobs: it fills a template with a
// substitution set and writes the concrete artifact, expanding
// multi-valued keys into one artifact per value.
package fill

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hpc-bio/mdsub/config"
	"github.com/hpc-bio/mdsub/logger"
	"github.com/hpc-bio/mdsub/tpl"
	"github.com/hpc-bio/mdsub/util/fsutil"
)

// Runner fills templates according to a FillJob.
type Runner struct {
	Strict bool
	OutDir string
	Log    *logger.Logger
}

// NewRunner returns a Runner configured from conf.
func NewRunner(conf config.Config, log *logger.Logger) *Runner {
	return &Runner{
		Strict: conf.Strict,
		OutDir: conf.OutDir,
		Log:    log,
	}
}

// Run fills the job's template and writes the filled artifacts,
// returning the paths written. The output filename is itself a
// template filled from the same substitution set. Keys holding
// multiple values produce one artifact per value: the first pass uses
// the first value of every key, then each extra value is substituted
// in turn, in key order.
func (r *Runner) Run(job *config.FillJob) ([]string, error) {
	if job.TplFile == "" {
		return nil, fmt.Errorf("no template file given")
	}
	if job.FilledName == "" {
		return nil, fmt.Errorf(
			"missing required filled name; set it on the command line or in the fill config")
	}

	tmpl, err := parseTplRef(job.TplFile)
	if err != nil {
		return nil, err
	}
	nameTmpl, err := tpl.Parse("filled name", job.FilledName)
	if err != nil {
		return nil, err
	}

	vals := job.First()
	if err := r.checkUnused(tmpl, nameTmpl, vals); err != nil {
		return nil, err
	}

	outDir := job.OutDir
	if outDir == "" {
		outDir = r.OutDir
	}

	var written []string
	save := func() error {
		path, err := r.fillSave(tmpl, nameTmpl, vals, outDir)
		if err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if err := save(); err != nil {
		return nil, err
	}

	// each extra value of a multi-valued key produces another artifact
	for _, key := range job.Keys() {
		extra := job.Values[key]
		if len(extra) < 2 {
			continue
		}
		for _, v := range extra[1:] {
			vals[key] = v
			if err := save(); err != nil {
				return nil, err
			}
		}
	}

	return written, nil
}

// parseTplRef resolves a template reference: a file path, or
// "builtin:NAME" for a built-in template.
func parseTplRef(ref string) (*tpl.Template, error) {
	if name, ok := strings.CutPrefix(ref, "builtin:"); ok {
		return tpl.Builtin(name)
	}
	return tpl.ParseFile(ref)
}

func (r *Runner) fillSave(tmpl, nameTmpl *tpl.Template, vals tpl.Values, outDir string) (string, error) {
	filled, err := tmpl.Fill(vals)
	if err != nil {
		return "", err
	}
	name, err := nameTmpl.Fill(vals)
	if err != nil {
		return "", err
	}

	path := name
	if !filepath.IsAbs(path) && outDir != "" {
		path = filepath.Join(outDir, name)
	}

	// scripts keep their executable bit
	executable := strings.HasPrefix(filled, "#!")
	if err := fsutil.WriteFile(path, filled, executable); err != nil {
		return "", fmt.Errorf("writing filled template: %v", err)
	}

	r.Log.Info("wrote filled template", "tpl", tmpl.Name(), "path", path)
	return path, nil
}

// checkUnused warns about substitution values no placeholder uses,
// or fails in strict mode. A key used only by the filename template
// still counts as used.
func (r *Runner) checkUnused(tmpl, nameTmpl *tpl.Template, vals tpl.Values) error {
	nameKeys := make(map[string]bool)
	for _, k := range nameTmpl.Placeholders() {
		nameKeys[k] = true
	}

	var unused []string
	for _, k := range tmpl.Unused(vals) {
		if !nameKeys[k] {
			unused = append(unused, k)
		}
	}
	if len(unused) == 0 {
		return nil
	}
	if r.Strict {
		return &tpl.UnusedKeyError{Name: tmpl.Name(), Keys: unused}
	}
	r.Log.Warn("substitution values not used by the template",
		"tpl", tmpl.Name(), "keys", strings.Join(unused, ", "))
	return nil
}
