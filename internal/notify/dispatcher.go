package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Dispatcher stamps notifications and fans them out to the terminal, the
// notification log, an optional webhook, and live subscribers. Delivery
// problems are logged and never returned to the code that raised the
// notification.
type Dispatcher struct {
	out        io.Writer
	store      *Store
	webhookURL string
	client     *http.Client
	logger     *slog.Logger
	clock      func() time.Time

	mu     sync.Mutex
	nextID int
	subs   map[int]chan Notification
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithWriter prints each banner to w.
func WithWriter(w io.Writer) DispatcherOption {
	return func(d *Dispatcher) { d.out = w }
}

// WithStore records each banner in the notification log.
func WithStore(s *Store) DispatcherOption {
	return func(d *Dispatcher) { d.store = s }
}

// WithWebhook POSTs each banner as JSON to url.
func WithWebhook(url string) DispatcherOption {
	return func(d *Dispatcher) { d.webhookURL = url }
}

// WithLogger sets the logger for delivery failures.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.clock = clock }
}

// NewDispatcher creates a Dispatcher with the given sinks.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: slog.Default(),
		clock:  time.Now,
		subs:   map[int]chan Notification{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify stamps n and delivers it to every sink.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = d.clock()
	}
	if n.Severity == "" {
		n.Severity = SeverityError
	}

	if d.out != nil {
		fmt.Fprintf(d.out, "%s %s\n", badge(n.Severity), n.Message)
	}

	if d.store != nil {
		if err := d.store.Create(ctx, n); err != nil {
			d.logger.Warn("could not record notification", "err", err)
		}
	}

	if d.webhookURL != "" {
		payload, err := json.Marshal(n)
		if err == nil {
			err = d.SendWebhook(ctx, d.webhookURL, payload)
		}
		if err != nil {
			d.logger.Warn("notification webhook failed", "url", d.webhookURL, "err", err)
		}
	}

	d.mu.Lock()
	for _, ch := range d.subs {
		select {
		case ch <- n:
		default:
			// Slow subscriber; it will miss this banner.
		}
	}
	d.mu.Unlock()
}

// Subscribe returns a channel that receives every later notification and
// a function that ends the subscription.
func (d *Dispatcher) Subscribe(buffer int) (<-chan Notification, func()) {
	ch := make(chan Notification, buffer)

	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = ch
	d.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, id)
			d.mu.Unlock()
			close(ch)
		})
	}
}

// SendWebhook POSTs payload to the given URL.
func (d *Dispatcher) SendWebhook(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func badge(s Severity) string {
	switch s {
	case SeveritySuccess:
		return "[ok]"
	case SeverityInfo:
		return "[info]"
	default:
		return "[error]"
	}
}
