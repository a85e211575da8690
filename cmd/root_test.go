package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/smartcalc/internal/config"
	"github.com/ziadkadry99/smartcalc/internal/db"
)

func executeArgs(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		cfgFile = config.DefaultPath
	})
	return Execute()
}

func TestExecuteReturnsErrors(t *testing.T) {
	if err := executeArgs(t, "frobnicate"); err == nil {
		t.Error("expected error for unknown command")
	}

	path := filepath.Join(t.TempDir(), "smartcalc.yml")
	if err := os.WriteFile(path, []byte("theme: purple\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := executeArgs(t, "--config", path, "theme", "show")
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("err = %v, want invalid config", err)
	}
}

func TestStorageDeleteResetsTheme(t *testing.T) {
	dataDir := t.TempDir()
	path := filepath.Join(t.TempDir(), "smartcalc.yml")
	if err := os.WriteFile(path, []byte("data_dir: "+dataDir+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := executeArgs(t, "--config", path, "theme", "set", "light"); err != nil {
		t.Fatalf("theme set: %v", err)
	}
	if n := storedKeys(t, dataDir, "smartcalc_theme"); n != 1 {
		t.Fatalf("theme rows = %d, want 1", n)
	}

	if err := executeArgs(t, "--config", path, "storage", "delete", "smartcalc_theme"); err != nil {
		t.Fatalf("storage delete: %v", err)
	}
	if n := storedKeys(t, dataDir, "smartcalc_theme"); n != 0 {
		t.Errorf("theme rows = %d after delete, want 0", n)
	}
}

func storedKeys(t *testing.T, dataDir, key string) int {
	t.Helper()
	d, err := db.Open(filepath.Join(dataDir, "smartcalc.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	var n int
	if err := d.QueryRow("SELECT COUNT(*) FROM kv_store WHERE key = ?", key).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}
