package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ziadkadry99/smartcalc/internal/apitest"
	"github.com/ziadkadry99/smartcalc/internal/app"
	"github.com/ziadkadry99/smartcalc/internal/config"
)

func setupTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	srv := apitest.New(t)

	cfg := config.DefaultConfig()
	cfg.APIURL = srv.URL
	cfg.DataDir = t.TempDir()

	a, err := app.New(cfg,
		app.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		app.WithOutput(nil),
	)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	var out bytes.Buffer
	return &shell{app: a, feature: "calculator", out: &out}, &out
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line, word, arg string
	}{
		{"", "", ""},
		{"  quit  ", "quit", ""},
		{"Number 7", "number", "7"},
		{"input  sin(30) + 1 ", "input", "sin(30) + 1"},
		{"key ctrl+d", "key", "ctrl+d"},
	}
	for _, tt := range tests {
		word, arg := parseLine(tt.line)
		if word != tt.word || arg != tt.arg {
			t.Errorf("parseLine(%q) = (%q, %q), want (%q, %q)", tt.line, word, arg, tt.word, tt.arg)
		}
	}
}

func TestShellRunsActions(t *testing.T) {
	sh, out := setupTestShell(t)
	ctx := context.Background()

	for _, line := range []string{"number 7", "operator +", "number 5", "equals"} {
		if _, err := sh.exec(ctx, line); err != nil {
			t.Fatalf("exec(%q): %v", line, err)
		}
	}
	if got := sh.app.Calculator.State().CurrentValue; got != "12" {
		t.Errorf("current value = %q, want 12", got)
	}
	if !strings.Contains(out.String(), "7 + 5 =") {
		t.Errorf("output missing expression: %q", out.String())
	}

	if _, err := sh.exec(ctx, "key escape"); err != nil {
		t.Fatalf("key escape: %v", err)
	}
	if got := sh.app.Calculator.State().CurrentValue; got != "0" {
		t.Errorf("after escape = %q, want 0", got)
	}
}

func TestShellBuiltins(t *testing.T) {
	sh, out := setupTestShell(t)
	ctx := context.Background()

	if quit, err := sh.exec(ctx, ""); quit || err != nil {
		t.Errorf("empty line = (%v, %v)", quit, err)
	}
	if quit, _ := sh.exec(ctx, "exit"); !quit {
		t.Error("exit did not quit")
	}

	if _, err := sh.exec(ctx, "use scientific"); err != nil {
		t.Fatalf("use scientific: %v", err)
	}
	if sh.feature != "scientific" {
		t.Errorf("feature = %q, want scientific", sh.feature)
	}
	if !strings.Contains(out.String(), "[DEG]") {
		t.Errorf("scientific state not printed: %q", out.String())
	}

	if _, err := sh.exec(ctx, "use abacus"); err == nil {
		t.Error("expected error for unknown feature")
	}
	if sh.feature != "scientific" {
		t.Errorf("feature changed to %q after failed use", sh.feature)
	}

	out.Reset()
	if _, err := sh.exec(ctx, "help"); err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(out.String(), "Actions (scientific)") {
		t.Errorf("help output: %q", out.String())
	}

	before := sh.app.Theme.Current()
	if _, err := sh.exec(ctx, "theme"); err != nil {
		t.Fatalf("theme: %v", err)
	}
	if sh.app.Theme.Current() == before {
		t.Error("theme was not toggled")
	}
}

func TestShellErrors(t *testing.T) {
	sh, _ := setupTestShell(t)
	ctx := context.Background()

	if _, err := sh.exec(ctx, "levitate"); err == nil {
		t.Error("expected error for unknown action")
	}

	_, err := sh.exec(ctx, "key f12")
	if err == nil || !strings.Contains(err.Error(), "no binding") {
		t.Errorf("key f12 err = %v", err)
	}

	table, err := sh.app.Table("calculator")
	if err != nil {
		t.Fatal(err)
	}
	table.Register("boom", func(context.Context, string) error { panic("boom") })
	if _, err := sh.exec(ctx, "boom"); !errors.Is(err, app.ErrUnexpected) {
		t.Errorf("boom err = %v, want ErrUnexpected", err)
	}
}

func TestShellConvertsTypedInputImmediately(t *testing.T) {
	sh, out := setupTestShell(t)
	ctx := context.Background()

	for _, line := range []string{"use converter", "category Longueur", "input 100"} {
		if _, err := sh.exec(ctx, line); err != nil {
			t.Fatalf("exec(%q): %v", line, err)
		}
	}
	if sh.app.Converter.Pending() {
		t.Error("conversion still pending after the prompt returned")
	}
	if !strings.Contains(out.String(), "100 m -> 0.1 km") {
		t.Errorf("output = %q", out.String())
	}
}
