package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	var buf bytes.Buffer
	if _, ok := NewReporter(&buf, "Quick table").(*CIReporter); !ok {
		t.Fatal("expected a CIReporter when CI is set")
	}
}

func TestNewReporterInTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	var buf bytes.Buffer
	if _, ok := NewReporter(&buf, "Quick table").(*TerminalReporter); !ok {
		t.Fatal("expected a TerminalReporter outside CI")
	}
}

func TestCIReporterOutput(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{w: &buf, description: "Quick table"}
	r.Start(2)
	r.Update(1, "1 m")
	r.Update(2, "5 m")
	r.Finish()

	out := buf.String()
	for _, want := range []string{"Quick table: 2 requests", "[1/2] 1 m", "[2/2] 5 m", "Quick table: done"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTerminalReporterWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{w: &buf, description: "Quick table"}
	r.Start(6)
	for i := 1; i <= 6; i++ {
		r.Update(i, "row")
	}
	r.Finish()
	if buf.Len() == 0 {
		t.Error("expected progress output")
	}
}
