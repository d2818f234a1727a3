package gridengine

import "testing"

func TestExtractID(t *testing.T) {
	in := "Your job 42 (\"analysis.submit\") has been submitted\n"
	if got := extractID(in); got != "42" {
		t.Errorf("got %q, want 42", got)
	}
}
