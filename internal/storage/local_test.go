package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ziadkadry99/smartcalc/internal/db"
)

func setupTestStore(t *testing.T, opts ...Option) (*Local, *bytes.Buffer) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	return NewLocal(database, append([]Option{WithLogger(logger)}, opts...)...), &logs
}

func TestSaveAndLoad(t *testing.T) {
	store, _ := setupTestStore(t)

	type prefs struct {
		Theme string `json:"theme"`
		Count int    `json:"count"`
	}
	if !store.Save("prefs", prefs{Theme: "light", Count: 3}) {
		t.Fatal("Save returned false")
	}

	var got prefs
	if !store.Load("prefs", &got) {
		t.Fatal("Load returned false")
	}
	if got.Theme != "light" || got.Count != 3 {
		t.Errorf("Load = %+v", got)
	}
}

func TestLoadMissingKeepsDefault(t *testing.T) {
	store, logs := setupTestStore(t)

	value := "dark"
	if store.Load("smartcalc_theme", &value) {
		t.Fatal("expected false for missing key")
	}
	if value != "dark" {
		t.Errorf("default overwritten: %q", value)
	}
	if logs.Len() != 0 {
		t.Errorf("missing key should not warn, got %q", logs.String())
	}
}

func TestLoadCorruptValueWarns(t *testing.T) {
	store, logs := setupTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "broken", []byte("{not json")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var v map[string]any
	if store.Load("broken", &v) {
		t.Fatal("expected false for corrupt value")
	}
	if !strings.Contains(logs.String(), "could not decode") {
		t.Errorf("expected decode warning, got %q", logs.String())
	}
}

func TestSaveUnencodableValue(t *testing.T) {
	store, logs := setupTestStore(t)

	if store.Save("fn", func() {}) {
		t.Fatal("expected false for unencodable value")
	}
	if !strings.Contains(logs.String(), "could not save") {
		t.Errorf("expected save warning, got %q", logs.String())
	}
}

func TestQuota(t *testing.T) {
	store, logs := setupTestStore(t, WithQuota(16))
	ctx := context.Background()

	if !store.Save("a", "12345") { // 7 bytes encoded
		t.Fatal("first save should fit")
	}
	if store.Save("b", "1234567890") { // 12 bytes, total 19
		t.Fatal("second save should exceed the quota")
	}
	if !strings.Contains(logs.String(), "could not save") {
		t.Errorf("expected quota warning, got %q", logs.String())
	}

	// Overwriting an existing key only counts the new value.
	if !store.Save("a", "1234567890123") {
		t.Fatal("overwrite within quota should succeed")
	}

	err := store.Put(ctx, "c", []byte(`"xxxx"`))
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Put error = %v, want ErrQuotaExceeded", err)
	}
}

func TestDeleteAndKeys(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	store.Save("b", 1)
	store.Save("a", 2)

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys = %v, want [a b]", keys)
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}

	var v int
	if store.Load("a", &v) {
		t.Error("deleted key still loads")
	}
}
