package tpl

import (
	"strings"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/go-test/deep"
)

func TestFillRightJustified(t *testing.T) {
	tmpl, err := Parse("line", "run {run:>8};")
	if err != nil {
		t.Fatal(err)
	}
	out, err := tmpl.Fill(Values{"run": 5})
	if err != nil {
		t.Fatal(err)
	}
	want := "run        5;"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestFillPBSDirectives(t *testing.T) {
	text := `#!/bin/bash
#PBS -N {job_name}
#PBS -l walltime={walltime}:00:00

cd $PBS_O_WORKDIR
`
	tmpl, err := Parse("submit", text)
	if err != nil {
		t.Fatal(err)
	}
	out, err := tmpl.Fill(Values{"job_name": "analysis", "walltime": 30})
	if err != nil {
		t.Fatal(err)
	}
	want := `#!/bin/bash
#PBS -N analysis
#PBS -l walltime=30:00:00

cd $PBS_O_WORKDIR
`
	if out != want {
		t.Errorf("unexpected output:\n%s", diff.LineDiff(want, out))
	}
}

func TestFillIsIdempotent(t *testing.T) {
	tmpl, err := Parse("t", "a {x} b {y:>4} c {x}")
	if err != nil {
		t.Fatal(err)
	}
	vals := Values{"x": "one", "y": 2}
	first, err := tmpl.Fill(vals)
	if err != nil {
		t.Fatal(err)
	}
	second, err := tmpl.Fill(vals)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("fill not idempotent: %q vs %q", first, second)
	}
	if strings.ContainsAny(first, "{}") {
		t.Errorf("placeholder tokens remain: %q", first)
	}
}

func TestFillMissingKey(t *testing.T) {
	tmpl, err := Parse("t", "{job_name} {walltime} {nodes}")
	if err != nil {
		t.Fatal(err)
	}
	out, err := tmpl.Fill(Values{"walltime": 30})
	if err == nil {
		t.Fatalf("expected error, got output %q", out)
	}
	if out != "" {
		t.Errorf("expected no output on missing key, got %q", out)
	}
	mke, ok := err.(*MissingKeyError)
	if !ok {
		t.Fatalf("expected MissingKeyError, got %T: %v", err, err)
	}
	if d := deep.Equal(mke.Keys, []string{"job_name", "nodes"}); d != nil {
		t.Error(d)
	}
}

func TestFillStrictUnusedKey(t *testing.T) {
	tmpl, err := Parse("t", "{a}")
	if err != nil {
		t.Fatal(err)
	}
	vals := Values{"a": 1, "zap": 2, "extra": 3}

	// plain fill ignores the extra values
	if _, err := tmpl.Fill(vals); err != nil {
		t.Fatal(err)
	}
	if d := deep.Equal(tmpl.Unused(vals), []string{"extra", "zap"}); d != nil {
		t.Error(d)
	}

	_, err = tmpl.FillStrict(vals)
	uke, ok := err.(*UnusedKeyError)
	if !ok {
		t.Fatalf("expected UnusedKeyError, got %T: %v", err, err)
	}
	if d := deep.Equal(uke.Keys, []string{"extra", "zap"}); d != nil {
		t.Error(d)
	}
}

func TestPlaceholders(t *testing.T) {
	tmpl, err := Parse("t", "{b} {a:>3} {b} {c:.2f}")
	if err != nil {
		t.Fatal(err)
	}
	if d := deep.Equal(tmpl.Placeholders(), []string{"b", "a", "c"}); d != nil {
		t.Error(d)
	}
}

func TestBraceEscapes(t *testing.T) {
	tmpl, err := Parse("t", "awk '{{print $1}}' {file}")
	if err != nil {
		t.Fatal(err)
	}
	out, err := tmpl.Fill(Values{"file": "rmsd.txt"})
	if err != nil {
		t.Fatal(err)
	}
	want := "awk '{print $1}' rmsd.txt"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestShellVarsPassThrough(t *testing.T) {
	// $name references are resolved by the batch system at run time,
	// never by the fill pass.
	tmpl, err := Parse("t", "cd $PBS_O_WORKDIR && mkdir -p $TMPDIR/{job_name}")
	if err != nil {
		t.Fatal(err)
	}
	out, err := tmpl.Fill(Values{"job_name": "wham"})
	if err != nil {
		t.Fatal(err)
	}
	want := "cd $PBS_O_WORKDIR && mkdir -p $TMPDIR/wham"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestBracedShellVarsPassThrough(t *testing.T) {
	// ${name} is the braced form of a run-time shell reference and is
	// not a placeholder.
	tmpl, err := Parse("t", "cd ${PBS_O_WORKDIR}\n")
	if err != nil {
		t.Fatal(err)
	}
	if keys := tmpl.Placeholders(); len(keys) != 0 {
		t.Fatalf("expected no placeholders, got %v", keys)
	}
	out, err := tmpl.Fill(Values{})
	if err != nil {
		t.Fatal(err)
	}
	if want := "cd ${PBS_O_WORKDIR}\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}

	tmpl, err = Parse("t", "cp {inp} ${SCRATCH}/run{run}.in")
	if err != nil {
		t.Fatal(err)
	}
	out, err = tmpl.Fill(Values{"inp": "a.in", "run": 5})
	if err != nil {
		t.Fatal(err)
	}
	if want := "cp a.in ${SCRATCH}/run5.in"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	bad := []string{
		"run {run",
		"oops } here",
		"{}",
		"{bad name}",
		"{x:%}",
		"{x:8.}",
		"line one\nrun {run:>8",
	}
	for _, text := range bad {
		_, err := Parse("t", text)
		if err == nil {
			t.Errorf("expected syntax error for %q", text)
			continue
		}
		if _, ok := err.(*SyntaxError); !ok {
			t.Errorf("expected SyntaxError for %q, got %T", text, err)
		}
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := Parse("t", "ok line\nrun {run\n")
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("expected SyntaxError, got %T: %v", err, err)
	}
	if se.Line != 2 {
		t.Errorf("got line %d, want 2", se.Line)
	}
	if se.Col != 5 {
		t.Errorf("got col %d, want 5", se.Col)
	}
}

func TestValueError(t *testing.T) {
	tmpl, err := Parse("t", "run {steps:d}")
	if err != nil {
		t.Fatal(err)
	}
	_, err = tmpl.Fill(Values{"steps": "ten"})
	if err == nil {
		t.Fatal("expected error for non-integer value with d verb")
	}
}

func TestBuiltinTemplatesParse(t *testing.T) {
	names := BuiltinNames()
	if len(names) == 0 {
		t.Fatal("no built-in templates")
	}
	for _, name := range names {
		tmpl, err := Builtin(name)
		if err != nil {
			t.Errorf("builtin %q: %v", name, err)
			continue
		}
		if len(tmpl.Placeholders()) == 0 {
			t.Errorf("builtin %q has no placeholders", name)
		}
	}
}

func TestBuiltinPBSSubmit(t *testing.T) {
	tmpl, err := Builtin("pbs-submit")
	if err != nil {
		t.Fatal(err)
	}
	out, err := tmpl.Fill(Values{
		"job_name": "analysis",
		"walltime": 30,
		"nodes":    1,
		"ppn":      16,
		"mem":      "9gb",
		"queue":    "batch",
		"command":  "bash run_wham.sh",
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"#PBS -N analysis\n",
		"#PBS -l walltime=30:00:00\n",
		"#PBS -l nodes=1:ppn=16\n",
		"#PBS -l mem=9gb\n",
		"cd $PBS_O_WORKDIR\n",
		"bash run_wham.sh\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBuiltinUnknown(t *testing.T) {
	if _, err := Builtin("nope"); err == nil {
		t.Fatal("expected error for unknown built-in")
	}
}
