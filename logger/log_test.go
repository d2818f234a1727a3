package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New("test", "runID", "abc123")
	log.SetFormatter(&jsonFormatter{})
	log.SetOutput(&buf)

	log.Info("filled template", "tpl", "pbs-submit")

	out := buf.String()
	for _, want := range []string{`"ns":"test"`, `"runID":"abc123"`, `"tpl":"pbs-submit"`, `"msg":"filled template"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestErrorShortcut(t *testing.T) {
	var buf bytes.Buffer
	log := New("test")
	log.SetFormatter(&jsonFormatter{})
	log.SetOutput(&buf)

	log.Error("fill failed", errTest{})
	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Errorf("expected error field, got %s", buf.String())
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New("test")
	log.SetFormatter(&jsonFormatter{})
	log.SetOutput(&buf)
	log.SetLevel("warn")

	log.Info("should be dropped")
	log.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info message not filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message missing")
	}
}

type errTest struct{}

func (errTest) Error() string { return "boom" }
