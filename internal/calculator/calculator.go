// Package calculator drives the standard calculator. Every button press is
// forwarded to the remote service, which owns the display state.
package calculator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ziadkadry99/smartcalc/internal/api"
	"github.com/ziadkadry99/smartcalc/internal/history"
	"github.com/ziadkadry99/smartcalc/internal/notify"
)

// Actions understood by the service.
const (
	ActionNumber     = "number"
	ActionOperator   = "operator"
	ActionEquals     = "equals"
	ActionDecimal    = "decimal"
	ActionPercentage = "percentage"
	ActionToggleSign = "toggle_sign"
	ActionClear      = "clear"
)

// ErrorValue is the display value after a failed computation.
const ErrorValue = "Error"

// API is the part of the remote service the calculator needs.
type API interface {
	Calculate(ctx context.Context, action, value string) (api.CalcResult, error)
}

// Record is one finished computation kept in history.
type Record struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
	Type       string `json:"type"`
}

// State is what the display shows.
type State struct {
	CurrentValue string `json:"current_value"`
	Expression   string `json:"expression"`
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithNotifier sets where success banners go.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Calculator) { c.notifier = n }
}

// WithOnChange registers a callback invoked with the new state after every
// display change.
func WithOnChange(fn func(State)) Option {
	return func(c *Calculator) { c.onChange = fn }
}

// Calculator is the standard calculator controller. Calls are serialized
// because the service keeps per-session calculator state and applies
// actions in arrival order.
type Calculator struct {
	callMu   sync.Mutex
	mu       sync.Mutex
	api      API
	history  *history.Manager[Record]
	notifier notify.Notifier
	onChange func(State)
	state    State
}

// New creates a calculator showing "0".
func New(client API, hist *history.Manager[Record], opts ...Option) *Calculator {
	c := &Calculator{
		api:      client,
		history:  hist,
		notifier: notify.Discard,
		state:    State{CurrentValue: "0"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current display.
func (c *Calculator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// History returns the calculator's history list.
func (c *Calculator) History() *history.Manager[Record] {
	return c.history
}

// Press forwards one action to the service and adopts the returned
// display. A failed call shows ErrorValue and returns the error; the API
// client has already told the user what went wrong.
func (c *Calculator) Press(ctx context.Context, action, value string) error {
	c.callMu.Lock()
	defer c.callMu.Unlock()

	res, err := c.api.Calculate(ctx, action, value)
	if err != nil {
		c.update(func(s *State) { s.CurrentValue = ErrorValue })
		return fmt.Errorf("%s: %w", action, err)
	}
	if !res.Success {
		return nil
	}

	c.update(func(s *State) {
		s.CurrentValue = res.CurrentValue
		s.Expression = res.Expression
	})
	if action == ActionEquals && res.CurrentValue != ErrorValue {
		c.history.Add(Record{Expression: res.Expression, Result: res.CurrentValue, Type: "standard"})
	}
	return nil
}

func (c *Calculator) Number(ctx context.Context, digit string) error {
	return c.Press(ctx, ActionNumber, digit)
}

func (c *Calculator) Operator(ctx context.Context, op string) error {
	return c.Press(ctx, ActionOperator, op)
}

func (c *Calculator) Equals(ctx context.Context) error {
	return c.Press(ctx, ActionEquals, "")
}

func (c *Calculator) Decimal(ctx context.Context) error {
	return c.Press(ctx, ActionDecimal, "")
}

func (c *Calculator) Percentage(ctx context.Context) error {
	return c.Press(ctx, ActionPercentage, "")
}

func (c *Calculator) ToggleSign(ctx context.Context) error {
	return c.Press(ctx, ActionToggleSign, "")
}

func (c *Calculator) Clear(ctx context.Context) error {
	return c.Press(ctx, ActionClear, "")
}

// Backspace drops the last character of the display without calling the
// service. A single remaining character becomes "0".
func (c *Calculator) Backspace() {
	c.update(func(s *State) {
		if r := []rune(s.CurrentValue); len(r) > 1 {
			s.CurrentValue = string(r[:len(r)-1])
		} else {
			s.CurrentValue = "0"
		}
	})
}

// UseHistory puts the result of a past computation on the display.
func (c *Calculator) UseHistory(ctx context.Context, id int64) error {
	entry, ok := c.history.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", history.ErrNotFound, id)
	}
	c.update(func(s *State) {
		s.CurrentValue = entry.Record.Result
		s.Expression = ""
	})
	c.notifier.Notify(ctx, notify.Success("Result loaded into the calculator", 2*time.Second))
	return nil
}

// ClearHistory empties the history list.
func (c *Calculator) ClearHistory(ctx context.Context) {
	c.history.Clear()
	c.notifier.Notify(ctx, notify.Success("History cleared", 2*time.Second))
}

func (c *Calculator) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	s := c.state
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(s)
	}
}
