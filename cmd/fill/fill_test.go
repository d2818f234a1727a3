package fill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFillCommand(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "line.tpl")
	err := os.WriteFile(tplPath, []byte("run {run:>8};\n"), 0644)
	require.NoError(t, err)

	c := NewCommand()
	c.SetArgs([]string{
		"--tpl", tplPath,
		"-f", "run{run}.txt",
		"--out-dir", dir,
		"--set", "run=5",
	})
	err = c.Execute()
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "run5.txt"))
	require.NoError(t, err)
	require.Equal(t, "run        5;\n", string(b))
}

func TestFillCommandINIConfig(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "wham.tpl")
	err := os.WriteFile(tplPath, []byte("temp {temp}\n"), 0644)
	require.NoError(t, err)

	iniPath := filepath.Join(dir, "fill.ini")
	ini := "[main]\n" +
		"tpl_file = " + tplPath + "\n" +
		"filled_tpl_name = wham_{temp}.inp\n" +
		"out_dir = " + dir + "\n" +
		"[tpl_vals]\n" +
		"temp = 300, 310\n"
	err = os.WriteFile(iniPath, []byte(ini), 0644)
	require.NoError(t, err)

	// the classic tool takes the INI with -c
	c := NewCommand()
	c.SetArgs([]string{"-c", iniPath})
	err = c.Execute()
	require.NoError(t, err)

	for _, name := range []string{"wham_300.inp", "wham_310.inp"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
}

func TestFillCommandMissingValue(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "line.tpl")
	err := os.WriteFile(tplPath, []byte("run {run};\n"), 0644)
	require.NoError(t, err)

	c := NewCommand()
	c.SetArgs([]string{"--tpl", tplPath, "-f", "out.txt", "--out-dir", dir})
	err = c.Execute()
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "out.txt"))
	require.True(t, os.IsNotExist(err))
}
