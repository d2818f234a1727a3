package slurm

import "testing"

func TestExtractID(t *testing.T) {
	cases := map[string]string{
		"Submitted batch job 2\n":        "2",
		"Submitted batch job 49229449\n": "49229449",
		"2\n":                            "2",
	}
	for in, want := range cases {
		if got := extractID(in); got != want {
			t.Errorf("extractID(%q) = %q, want %q", in, got, want)
		}
	}
}
