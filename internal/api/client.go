// Package api talks to the SmartCalc calculation service. Every call is a
// single JSON request/response exchange: no retries, no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ziadkadry99/smartcalc/internal/notify"
)

// ErrMalformedResponse is returned when a response body is not valid JSON.
var ErrMalformedResponse = errors.New("malformed response from server")

// genericNetworkMessage is used when a failed response carries no error text.
const genericNetworkMessage = "network error"

// fallbackMessage is shown when a failure has no message of its own.
const fallbackMessage = "error communicating with the server"

// Error is a non-2xx response from the service.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// RequestOptions describes one call. Zero values mean GET with no body.
type RequestOptions struct {
	Method string
	// Headers are applied over the default Content-Type header.
	Headers map[string]string
	// Body is encoded as JSON when non-nil.
	Body any
}

// Client is the remote call adapter. Failures are reported to the
// notifier and then returned to the caller.
type Client struct {
	baseURL  string
	http     *http.Client
	notifier notify.Notifier
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithNotifier sets the channel failures are reported on.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithLogger sets the logger for request timings and failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     http.DefaultClient,
		notifier: notify.Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Do performs one exchange with the service and decodes the response into
// out (which may be nil).
func (c *Client) Do(ctx context.Context, path string, opts RequestOptions, out any) error {
	if err := c.do(ctx, path, opts, out); err != nil {
		c.logger.Error("api call failed", "path", path, "err", err)
		c.notifier.Notify(ctx, notify.Error(userMessage(err)))
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, opts RequestOptions, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	c.logger.Debug("api call", "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := genericNetworkMessage
		if gjson.ValidBytes(data) {
			if e := gjson.GetBytes(data, "error"); e.Exists() && e.String() != "" {
				msg = e.String()
			}
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%s %s: %w", method, path, ErrMalformedResponse)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: %w: %v", method, path, ErrMalformedResponse, err)
		}
	}
	return nil
}

// userMessage is the banner text for a failed call.
func userMessage(err error) string {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, ErrMalformedResponse):
		return ErrMalformedResponse.Error()
	default:
		return fallbackMessage
	}
}

// Message extracts the text a controller should show for err.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
