package fill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/require"

	"github.com/hpc-bio/mdsub/config"
	"github.com/hpc-bio/mdsub/logger"
	"github.com/hpc-bio/mdsub/tpl"
)

func testRunner(t *testing.T) *Runner {
	t.Helper()
	log := logger.New("fill test")
	log.Discard()
	return &Runner{OutDir: t.TempDir(), Log: log}
}

func writeTpl(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tpl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunSingle(t *testing.T) {
	r := testRunner(t)
	job := &config.FillJob{
		TplFile:    writeTpl(t, "#!/bin/bash\n#PBS -N {job_name}\n#PBS -l walltime={walltime}:00:00\n"),
		FilledName: "{job_name}.job",
	}
	job.Set("job_name", "analysis")
	job.Set("walltime", "30")

	paths, err := r.Run(job)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Equal(t, "analysis.job", filepath.Base(paths[0]))

	b, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	require.Equal(t,
		"#!/bin/bash\n#PBS -N analysis\n#PBS -l walltime=30:00:00\n",
		string(b))

	// scripts are written executable
	info, err := os.Stat(paths[0])
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&0111)
}

func TestRunMultiValue(t *testing.T) {
	r := testRunner(t)
	job := &config.FillJob{
		TplFile:    writeTpl(t, "run {run:>8};\n"),
		FilledName: "wham_{run}.inp",
	}
	job.Set("run", "1", "2", "3")

	paths, err := r.Run(job)
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	if d := deep.Equal(names, []string{"wham_1.inp", "wham_2.inp", "wham_3.inp"}); d != nil {
		t.Error(d)
	}

	b, err := os.ReadFile(paths[2])
	require.NoError(t, err)
	require.Equal(t, "run        3;\n", string(b))
}

func TestRunMissingKeyWritesNothing(t *testing.T) {
	r := testRunner(t)
	job := &config.FillJob{
		TplFile:    writeTpl(t, "{job_name} {walltime}"),
		FilledName: "out.txt",
	}
	job.Set("job_name", "analysis")

	_, err := r.Run(job)
	require.Error(t, err)
	var mke *tpl.MissingKeyError
	require.ErrorAs(t, err, &mke)

	_, statErr := os.Stat(filepath.Join(r.OutDir, "out.txt"))
	require.True(t, os.IsNotExist(statErr), "no output should be written on a missing key")
}

func TestRunUnusedKeyStrict(t *testing.T) {
	r := testRunner(t)
	job := &config.FillJob{
		TplFile:    writeTpl(t, "{a}"),
		FilledName: "out.txt",
	}
	job.Set("a", "1")
	job.Set("mystery", "2")

	// default policy: warn, still fill
	paths, err := r.Run(job)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	r.Strict = true
	_, err = r.Run(job)
	var uke *tpl.UnusedKeyError
	require.ErrorAs(t, err, &uke)
	require.Equal(t, []string{"mystery"}, uke.Keys)
}

func TestRunFilenameOnlyKeyNotUnused(t *testing.T) {
	r := testRunner(t)
	job := &config.FillJob{
		TplFile:    writeTpl(t, "{a}"),
		FilledName: "{tag}_out.txt",
	}
	job.Set("a", "1")
	job.Set("tag", "t1")

	r.Strict = true
	paths, err := r.Run(job)
	require.NoError(t, err)
	require.Equal(t, "t1_out.txt", filepath.Base(paths[0]))
}

func TestRunMissingConfig(t *testing.T) {
	r := testRunner(t)

	_, err := r.Run(&config.FillJob{FilledName: "x"})
	require.Error(t, err)

	_, err = r.Run(&config.FillJob{TplFile: "x.tpl"})
	require.Error(t, err)
}
