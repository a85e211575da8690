package notify

import (
	"context"
	"sync"
	"time"
)

// DefaultRecorderLimit bounds how many banners a Recorder holds.
const DefaultRecorderLimit = 100

// Recorder keeps the banners still on screen in memory. The app uses it as
// its banner area; tests use it to assert on what the user would have seen.
// Expired banners are dropped as new ones arrive, and the oldest go first
// once the limit is reached.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
	clock func() time.Time
	limit int
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderClock sets the clock used to stamp and expire banners.
func WithRecorderClock(clock func() time.Time) RecorderOption {
	return func(r *Recorder) { r.clock = clock }
}

// WithLimit caps the number of banners held. Values <= 0 are ignored.
func WithLimit(n int) RecorderOption {
	return func(r *Recorder) {
		if n > 0 {
			r.limit = n
		}
	}
}

// NewRecorder creates an empty Recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{clock: time.Now, limit: DefaultRecorderLimit}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	r.pruneLocked(now)
	r.items = append(r.items, n)
	if over := len(r.items) - r.limit; over > 0 {
		r.items = append(r.items[:0], r.items[over:]...)
	}
}

func (r *Recorder) pruneLocked(now time.Time) {
	kept := r.items[:0]
	for _, n := range r.items {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	clear(r.items[len(kept):])
	r.items = kept
}

// All returns the held banners in arrival order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Active returns the banners still on screen at now and forgets the rest.
func (r *Recorder) Active(now time.Time) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(now)
	return append([]Notification(nil), r.items...)
}

// Reset forgets everything.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}

// Multi delivers to every notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	return NotifierFunc(func(ctx context.Context, n Notification) {
		for _, nt := range notifiers {
			nt.Notify(ctx, n)
		}
	})
}
