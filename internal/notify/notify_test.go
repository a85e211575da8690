package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/smartcalc/internal/db"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatchStampsAndPrints(t *testing.T) {
	var out bytes.Buffer
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d := NewDispatcher(WithWriter(&out), WithClock(func() time.Time { return now }))

	ch, cancel := d.Subscribe(1)
	defer cancel()

	d.Notify(context.Background(), Error("network error"))

	if got := out.String(); got != "[error] network error\n" {
		t.Errorf("output = %q", got)
	}

	select {
	case n := <-ch:
		if n.ID == "" {
			t.Error("expected generated ID")
		}
		if !n.CreatedAt.Equal(now) {
			t.Errorf("CreatedAt = %v", n.CreatedAt)
		}
		if n.Duration != DefaultDuration {
			t.Errorf("Duration = %v", n.Duration)
		}
	default:
		t.Fatal("subscriber did not receive the notification")
	}
}

func TestDispatchRecordsInStore(t *testing.T) {
	store := setupTestStore(t)
	d := NewDispatcher(WithStore(store))
	ctx := context.Background()

	d.Notify(ctx, Success("History cleared", 2*time.Second))
	d.Notify(ctx, Error("boom"))

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].Message != "boom" || got[0].Severity != SeverityError {
		t.Errorf("newest = %+v", got[0])
	}
	if got[1].Duration != 2*time.Second {
		t.Errorf("Duration = %v", got[1].Duration)
	}
}

func TestDispatchWebhook(t *testing.T) {
	received := make(chan Notification, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		var n Notification
		json.NewDecoder(r.Body).Decode(&n)
		received <- n
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDispatcher(WithWebhook(srv.URL), WithLogger(quietLogger()))
	d.Notify(context.Background(), Info("Angle mode changed to RAD", 2*time.Second))

	select {
	case n := <-received:
		if n.Message != "Angle mode changed to RAD" {
			t.Errorf("Message = %q", n.Message)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook not called")
	}
}

func TestWebhookFailureIsLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var logs bytes.Buffer
	d := NewDispatcher(WithWebhook(srv.URL), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	d.Notify(context.Background(), Error("x"))

	if !strings.Contains(logs.String(), "status 502") {
		t.Errorf("expected logged webhook failure, got %q", logs.String())
	}
}

func TestUnsubscribe(t *testing.T) {
	d := NewDispatcher()
	ch, cancel := d.Subscribe(1)
	cancel()
	cancel()

	d.Notify(context.Background(), Error("after cancel"))

	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}
}

func TestRecorderActive(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRecorder(WithRecorderClock(func() time.Time { return base }))

	r.Notify(context.Background(), Notification{Message: "short", Duration: time.Second})
	r.Notify(context.Background(), Notification{Message: "long", Duration: time.Minute})
	r.Notify(context.Background(), Notification{Message: "sticky"})

	active := r.Active(base.Add(10 * time.Second))
	if len(active) != 2 || active[0].Message != "long" || active[1].Message != "sticky" {
		t.Errorf("Active = %+v", active)
	}
	if len(r.All()) != 2 {
		t.Errorf("expired banners not forgotten")
	}

	last, ok := r.Last()
	if !ok || last.Message != "sticky" {
		t.Errorf("Last = %+v, %v", last, ok)
	}
}

func TestRecorderDropsExpiredOnNotify(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRecorder(WithRecorderClock(func() time.Time { return now }))

	for i := 0; i < 1000; i++ {
		r.Notify(context.Background(), Error("service down"))
		now = now.Add(time.Second)
	}

	// Error banners last five seconds, so only the last five are on screen.
	if got := len(r.All()); got != 5 {
		t.Errorf("held %d banners, want 5", got)
	}
}

func TestRecorderLimit(t *testing.T) {
	r := NewRecorder(WithLimit(3))
	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		r.Notify(context.Background(), Notification{Message: msg})
	}

	all := r.All()
	if len(all) != 3 || all[0].Message != "c" || all[2].Message != "e" {
		t.Errorf("All = %+v, want the newest three", all)
	}
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	Multi(a, b).Notify(context.Background(), Error("both"))

	if len(a.All()) != 1 || len(b.All()) != 1 {
		t.Error("Multi did not deliver to every notifier")
	}
}
