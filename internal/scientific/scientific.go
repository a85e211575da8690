// Package scientific drives the scientific calculator: a free-text
// expression editor whose evaluation happens on the remote service, plus
// the angle mode the service applies to trigonometric functions.
package scientific

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ziadkadry99/smartcalc/internal/api"
	"github.com/ziadkadry99/smartcalc/internal/format"
	"github.com/ziadkadry99/smartcalc/internal/history"
	"github.com/ziadkadry99/smartcalc/internal/notify"
)

var (
	ErrEmptyExpression  = errors.New("please enter an expression")
	ErrInvalidAngleMode = errors.New("angle mode must be DEG, RAD or GRAD")
)

// Angle modes.
const (
	Degrees  = "DEG"
	Radians  = "RAD"
	Gradians = "GRAD"
)

// AngleModeKey is the storage key of the persisted angle mode.
const AngleModeKey = "scientific_angle_mode"

// Placeholder is shown in the result area before any calculation.
const Placeholder = "Result will appear here"

// API is the part of the remote service the calculator needs.
type API interface {
	ScientificCalculate(ctx context.Context, expression string, variables map[string]float64) (api.NumberResult, error)
	SetAngleMode(ctx context.Context, mode string) (api.AngleModeResult, error)
	ScientificFunction(ctx context.Context, name string, value float64) (api.NumberResult, error)
}

// Prefs persists small scalar settings.
type Prefs interface {
	Load(key string, dst any) bool
	Save(key string, v any) bool
}

// Record is one successful evaluation kept in history.
type Record struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
	AngleMode  string `json:"angleMode"`
}

// State is what the calculator shows. Cursor counts runes.
type State struct {
	Input     string `json:"input"`
	Cursor    int    `json:"cursor"`
	Result    string `json:"result"`
	ResultOK  bool   `json:"result_ok"`
	AngleMode string `json:"angle_mode"`
}

// ValidAngleMode reports whether mode is DEG, RAD or GRAD.
func ValidAngleMode(mode string) bool {
	switch mode {
	case Degrees, Radians, Gradians:
		return true
	}
	return false
}

// Option configures a Calculator.
type Option func(*Calculator)

func WithNotifier(n notify.Notifier) Option {
	return func(c *Calculator) { c.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) { c.logger = l }
}

// WithPrefs sets where the angle mode is persisted.
func WithPrefs(p Prefs) Option {
	return func(c *Calculator) { c.prefs = p }
}

// WithDefaultAngleMode sets the mode used when none is persisted.
func WithDefaultAngleMode(mode string) Option {
	return func(c *Calculator) {
		if ValidAngleMode(mode) {
			c.state.AngleMode = mode
		}
	}
}

func WithOnChange(fn func(State)) Option {
	return func(c *Calculator) { c.onChange = fn }
}

// Calculator is the scientific calculator controller.
type Calculator struct {
	mu       sync.Mutex
	api      API
	history  *history.Manager[Record]
	prefs    Prefs
	notifier notify.Notifier
	logger   *slog.Logger
	onChange func(State)

	state State
	input []rune
	gen   uint64
}

// New creates a calculator and restores the persisted angle mode.
func New(client API, hist *history.Manager[Record], opts ...Option) *Calculator {
	c := &Calculator{
		api:      client,
		history:  hist,
		notifier: notify.Discard,
		logger:   slog.Default(),
		state:    State{Result: Placeholder, AngleMode: Degrees},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.prefs != nil {
		var saved string
		if c.prefs.Load(AngleModeKey, &saved) && ValidAngleMode(saved) {
			c.state.AngleMode = saved
		}
	}
	return c
}

// State returns the current display.
func (c *Calculator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// AngleMode returns the current angle mode.
func (c *Calculator) AngleMode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.AngleMode
}

// History returns the scientific history list.
func (c *Calculator) History() *history.Manager[Record] {
	return c.history
}

// ExportSettings is stored alongside exported history.
func (c *Calculator) ExportSettings() map[string]string {
	return map[string]string{"angleMode": c.AngleMode()}
}

// Calculate evaluates the current input on the service. A failure shows
// "Error: <message>" and is not recorded in history.
func (c *Calculator) Calculate(ctx context.Context) error {
	c.mu.Lock()
	expr := strings.TrimSpace(string(c.input))
	if expr == "" {
		c.mu.Unlock()
		c.notifier.Notify(ctx, notify.Error("Please enter an expression"))
		return ErrEmptyExpression
	}
	c.gen++
	gen := c.gen
	mode := c.state.AngleMode
	c.mu.Unlock()

	res, err := c.api.ScientificCalculate(ctx, expr, nil)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.state.Result = "Error: " + api.Message(err)
		c.state.ResultOK = false
		s := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(s)
		return fmt.Errorf("evaluating %q: %w", expr, err)
	}
	if !res.Success {
		c.mu.Unlock()
		return nil
	}
	result := format.Default(res.Result)
	c.state.Result = "= " + result
	c.state.ResultOK = true
	s := c.snapshotLocked()
	c.mu.Unlock()

	c.history.Add(Record{Expression: expr, Result: result, AngleMode: mode})
	c.emit(s)
	return nil
}

// SetAngleMode switches, persists and pushes the angle mode. A failed
// push is logged; the local mode still changes.
func (c *Calculator) SetAngleMode(ctx context.Context, mode string) error {
	mode = strings.ToUpper(strings.TrimSpace(mode))
	if !ValidAngleMode(mode) {
		return fmt.Errorf("%w: %q", ErrInvalidAngleMode, mode)
	}

	c.mu.Lock()
	c.state.AngleMode = mode
	c.gen++
	s := c.snapshotLocked()
	c.mu.Unlock()

	if c.prefs != nil {
		c.prefs.Save(AngleModeKey, mode)
	}
	c.emit(s)

	if _, err := c.api.SetAngleMode(ctx, mode); err != nil {
		c.logger.Warn("changing angle mode on the service failed", "mode", mode, "error", err)
		return nil
	}
	c.notifier.Notify(ctx, notify.Success("Angle mode changed to "+mode, 2*time.Second))
	return nil
}

// SyncAngleMode pushes the local angle mode to the service without any
// notification, so a fresh session evaluates in the persisted mode.
func (c *Calculator) SyncAngleMode(ctx context.Context) error {
	mode := c.AngleMode()
	if _, err := c.api.SetAngleMode(ctx, mode); err != nil {
		return fmt.Errorf("syncing angle mode %s: %w", mode, err)
	}
	return nil
}

// Function applies a single named function on the service and returns
// the formatted result.
func (c *Calculator) Function(ctx context.Context, name string, value float64) (string, error) {
	res, err := c.api.ScientificFunction(ctx, name, value)
	if err != nil {
		return "", fmt.Errorf("error in %s: %w", name, err)
	}
	if !res.Success {
		return "", nil
	}
	return format.Default(res.Result), nil
}

// UseHistory loads a past expression into the input.
func (c *Calculator) UseHistory(ctx context.Context, id int64) error {
	entry, ok := c.history.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", history.ErrNotFound, id)
	}
	c.SetInput(entry.Record.Expression)
	c.notifier.Notify(ctx, notify.Success("Expression loaded", 1500*time.Millisecond))
	return nil
}

// ClearHistory empties the scientific history.
func (c *Calculator) ClearHistory(ctx context.Context) {
	c.history.Clear()
	c.notifier.Notify(ctx, notify.Success("History cleared", 2*time.Second))
}

func (c *Calculator) snapshotLocked() State {
	s := c.state
	s.Input = string(c.input)
	return s
}

func (c *Calculator) emit(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
