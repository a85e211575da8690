package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ziadkadry99/smartcalc/internal/apitest"
	"github.com/ziadkadry99/smartcalc/internal/calculator"
	"github.com/ziadkadry99/smartcalc/internal/config"
	"github.com/ziadkadry99/smartcalc/internal/dispatch"
	"github.com/ziadkadry99/smartcalc/internal/history"
	"github.com/ziadkadry99/smartcalc/internal/notify"
	"github.com/ziadkadry99/smartcalc/internal/scientific"
	"github.com/ziadkadry99/smartcalc/internal/theme"
)

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.APIURL = apiURL
	cfg.DataDir = t.TempDir()
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestApp(t *testing.T, cfg *config.Config, opts ...Option) *App {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger()), WithOutput(nil)}, opts...)
	a, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerVerbose(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "error", false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug line written at error level: %q", buf.String())
	}
	NewLogger(&buf, "error", true).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("verbose logger dropped debug line: %q", buf.String())
	}
}

func TestRunCalculatorThroughTable(t *testing.T) {
	srv := apitest.New(t)

	var mu sync.Mutex
	var historyEvents []string
	var stateEvents []string
	a := setupTestApp(t, testConfig(t, srv.URL),
		WithHistoryListener(func(feature string) {
			mu.Lock()
			historyEvents = append(historyEvents, feature)
			mu.Unlock()
		}),
		WithStateListener(func(feature string, _ any) {
			mu.Lock()
			stateEvents = append(stateEvents, feature)
			mu.Unlock()
		}),
	)
	ctx := context.Background()

	for _, step := range [][2]string{{"number", "2"}, {"operator", "+"}, {"number", "3"}, {"equals", ""}} {
		if err := a.Run(ctx, "calculator", step[0], step[1]); err != nil {
			t.Fatalf("Run(%s %s): %v", step[0], step[1], err)
		}
	}

	st, err := a.State("calculator")
	if err != nil {
		t.Fatal(err)
	}
	if got := st.(calculator.State).CurrentValue; got != "5" {
		t.Errorf("CurrentValue = %q, want 5", got)
	}

	book, err := a.History("calculator")
	if err != nil {
		t.Fatal(err)
	}
	if book.Len() != 1 {
		t.Errorf("history length = %d, want 1", book.Len())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(historyEvents) != 1 || historyEvents[0] != "calculator" {
		t.Errorf("history events = %v", historyEvents)
	}
	if len(stateEvents) != 4 {
		t.Errorf("expected 4 state events, got %v", stateEvents)
	}
}

func TestUnknownFeature(t *testing.T) {
	a := setupTestApp(t, testConfig(t, apitest.New(t).URL))

	if _, err := a.Table("graphing"); err == nil {
		t.Error("Table: expected error")
	}
	if _, err := a.Keymap("graphing"); err == nil {
		t.Error("Keymap: expected error")
	}
	if _, err := a.History("graphing"); err == nil {
		t.Error("History: expected error")
	}
	if _, err := a.State("graphing"); err == nil {
		t.Error("State: expected error")
	}
	if err := a.Run(context.Background(), "calculator", "launch", ""); !errors.Is(err, dispatch.ErrUnknownAction) {
		t.Errorf("Run unknown action: %v", err)
	}
}

func TestKeymapsAreWired(t *testing.T) {
	a := setupTestApp(t, testConfig(t, apitest.New(t).URL))
	for _, f := range history.Features() {
		km, err := a.Keymap(f.Name)
		if err != nil {
			t.Fatalf("Keymap(%s): %v", f.Name, err)
		}
		if len(km.Keys()) == 0 {
			t.Errorf("%s has no key bindings", f.Name)
		}
	}
}

func TestHistoryBookExportImport(t *testing.T) {
	srv := apitest.New(t)
	a := setupTestApp(t, testConfig(t, srv.URL))
	ctx := context.Background()

	a.Scientific.SetInput("2+2")
	if err := a.Scientific.Calculate(ctx); err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	book, err := a.History("scientific")
	if err != nil {
		t.Fatal(err)
	}
	var exported bytes.Buffer
	if err := book.WriteExport(&exported); err != nil {
		t.Fatalf("WriteExport: %v", err)
	}
	if !strings.Contains(exported.String(), `"angleMode": "DEG"`) {
		t.Errorf("export is missing the angle mode setting:\n%s", exported.String())
	}

	book.Clear(ctx)
	if book.Len() != 0 {
		t.Fatalf("Clear left %d entries", book.Len())
	}

	n, err := book.Import(ctx, exported.Bytes())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n != 1 {
		t.Errorf("imported %d entries, want 1", n)
	}

	if _, err := book.Import(ctx, []byte(`{"type":"SmartCalc Calculator History","history":[]}`)); !errors.Is(err, history.ErrInvalidFormat) {
		t.Errorf("wrong-tag import: %v", err)
	}
	if book.Len() != 1 {
		t.Errorf("rejected import changed the list")
	}
	if n, _ := a.Banners.Last(); n.Severity != notify.SeverityError || !strings.HasPrefix(n.Message, "Import failed") {
		t.Errorf("last banner = %+v", n)
	}

	entries := book.Entries().([]history.Entry[scientific.Record])
	if err := book.Use(ctx, entries[0].ID); err != nil {
		t.Fatalf("Use: %v", err)
	}
	if got := a.Scientific.State().Input; got != "2+2" {
		t.Errorf("Input = %q after Use", got)
	}

	if err := book.Remove(42); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("Remove unknown: %v", err)
	}
	if err := book.Remove(entries[0].ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if book.Len() != 0 {
		t.Errorf("Remove left %d entries", book.Len())
	}

	var rendered bytes.Buffer
	book.Render(&rendered)
	if !strings.Contains(rendered.String(), "No calculations in history") {
		t.Errorf("Render = %q", rendered.String())
	}
}

func TestBannerAreaIsBounded(t *testing.T) {
	srv := apitest.New(t)
	srv.Calc = func(string, string) (int, any) {
		return http.StatusInternalServerError, map[string]any{"success": false, "error": "boom"}
	}
	a := setupTestApp(t, testConfig(t, srv.URL))

	for i := 0; i < notify.DefaultRecorderLimit+50; i++ {
		_ = a.Calculator.Number(context.Background(), "1")
	}

	if got := len(a.Banners.All()); got != notify.DefaultRecorderLimit {
		t.Errorf("banner area holds %d, want %d", got, notify.DefaultRecorderLimit)
	}
}

func TestErrorBannersUseConfiguredDuration(t *testing.T) {
	srv := apitest.New(t)
	srv.Calc = func(string, string) (int, any) {
		return http.StatusInternalServerError, map[string]any{"success": false, "error": "boom"}
	}
	cfg := testConfig(t, srv.URL)
	cfg.NotifyDurationMS = 1500
	a := setupTestApp(t, cfg)

	_ = a.Calculator.Number(context.Background(), "1")

	n, ok := a.Banners.Last()
	if !ok {
		t.Fatal("no banner recorded")
	}
	if n.Severity != notify.SeverityError || n.Message != "boom" {
		t.Errorf("banner = %+v", n)
	}
	if n.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %s, want 1.5s", n.Duration)
	}

	recent, err := a.Notifications.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 {
		t.Errorf("notification log has %d entries, want 1", len(recent))
	}
}

func TestStatePersistsAcrossRestart(t *testing.T) {
	srv := apitest.New(t)
	cfg := testConfig(t, srv.URL)
	ctx := context.Background()

	first, err := New(cfg, WithLogger(quietLogger()), WithOutput(nil))
	if err != nil {
		t.Fatal(err)
	}
	first.Theme.Toggle()
	if err := first.Scientific.SetAngleMode(ctx, "RAD"); err != nil {
		t.Fatal(err)
	}
	first.Scientific.SetInput("2+2")
	if err := first.Scientific.Calculate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := setupTestApp(t, cfg)
	if got := second.Theme.Current(); got != theme.Light {
		t.Errorf("theme = %q, want light", got)
	}
	if got := second.Scientific.AngleMode(); got != scientific.Radians {
		t.Errorf("angle mode = %q, want RAD", got)
	}
	book, _ := second.History("scientific")
	if book.Len() != 1 {
		t.Errorf("history length = %d after restart", book.Len())
	}
}

func TestGuardRecoversPanic(t *testing.T) {
	a := setupTestApp(t, testConfig(t, apitest.New(t).URL))
	ctx := context.Background()

	err := a.Guard(ctx, "explode", func() error { panic("boom") })
	if !errors.Is(err, ErrUnexpected) {
		t.Fatalf("Guard = %v, want ErrUnexpected", err)
	}
	if n, _ := a.Banners.Last(); n.Message != UnexpectedMessage {
		t.Errorf("banner = %+v", n)
	}

	want := errors.New("plain")
	if err := a.Guard(ctx, "plain", func() error { return want }); err != want {
		t.Errorf("Guard = %v, want %v", err, want)
	}
}

func TestShortcutsKeyInEveryFeature(t *testing.T) {
	srv := apitest.New(t)
	a := setupTestApp(t, testConfig(t, srv.URL))
	ctx := context.Background()

	for _, feature := range []string{"calculator", "converter", "scientific"} {
		km, err := a.Keymap(feature)
		if err != nil {
			t.Fatal(err)
		}
		handled, err := km.Dispatch(ctx, ShortcutsKey)
		if !handled || err != nil {
			t.Fatalf("%s: Dispatch(%s) = %v, %v", feature, ShortcutsKey, handled, err)
		}
		n, _ := a.Banners.Last()
		if n.Severity != notify.SeverityInfo || !strings.Contains(n.Message, "enter") || !strings.Contains(n.Message, ShortcutsKey) {
			t.Errorf("%s banner = %+v", feature, n)
		}
	}
}
