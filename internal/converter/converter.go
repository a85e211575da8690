// Package converter drives the unit converter. Conversions run on the
// remote service; this package keeps the selections, the debounced input
// trigger and the conversion history.
package converter

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ziadkadry99/smartcalc/internal/api"
	"github.com/ziadkadry99/smartcalc/internal/debounce"
	"github.com/ziadkadry99/smartcalc/internal/format"
	"github.com/ziadkadry99/smartcalc/internal/history"
	"github.com/ziadkadry99/smartcalc/internal/notify"
)

var (
	ErrUnitsNotSelected = errors.New("please select the conversion units")
	ErrUnknownUnit      = errors.New("unknown unit")
)

// DefaultDebounce is the quiet period before typed input is converted.
const DefaultDebounce = 500 * time.Millisecond

const (
	outputError   = "Error"
	outputPending = "Converting..."
)

// API is the part of the remote service the converter needs.
type API interface {
	Units(ctx context.Context, category string) (api.UnitsResult, error)
	Convert(ctx context.Context, req api.ConvertRequest) (api.NumberResult, error)
}

// Record is one successful conversion kept in history.
type Record struct {
	Value    float64 `json:"value"`
	FromUnit string  `json:"fromUnit"`
	ToUnit   string  `json:"toUnit"`
	Result   string  `json:"result"`
	Category string  `json:"category"`
}

// State is what the converter shows.
type State struct {
	Category string   `json:"category"`
	Units    []string `json:"units"`
	FromUnit string   `json:"from_unit"`
	ToUnit   string   `json:"to_unit"`
	Input    string   `json:"input"`
	Output   string   `json:"output"`
	// Info is the formula of the last successful conversion.
	Info string `json:"info"`
}

// Option configures a Converter.
type Option func(*Converter)

func WithNotifier(n notify.Notifier) Option {
	return func(c *Converter) { c.notifier = n }
}

// WithDebounce sets the input quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Converter) { c.delay = d }
}

func WithOnChange(fn func(State)) Option {
	return func(c *Converter) { c.onChange = fn }
}

// WithQuickTable rebuilds the quick conversion table in the background
// whenever the category, the units or their order change, and passes the
// rows to fn. A table superseded by a newer change is never delivered.
func WithQuickTable(fn func([]QuickRow)) Option {
	return func(c *Converter) { c.onQuick = fn }
}

// Converter is the unit converter controller.
type Converter struct {
	mu       sync.Mutex
	api      API
	history  *history.Manager[Record]
	notifier notify.Notifier
	onChange func(State)
	onQuick  func([]QuickRow)
	delay    time.Duration
	input    *debounce.Debouncer
	inputCtx context.Context

	state State
	// gen increases with every conversion or category change; a response
	// carrying an older generation is dropped.
	gen uint64
	// quickGen plays the same role for background quick tables.
	quickGen uint64
	// quickMu orders deliveries so an older table never lands after a
	// newer one.
	quickMu sync.Mutex
	bg      sync.WaitGroup
}

// New creates a converter with no category loaded.
func New(client API, hist *history.Manager[Record], opts ...Option) *Converter {
	c := &Converter{
		api:      client,
		history:  hist,
		notifier: notify.Discard,
		delay:    DefaultDebounce,
		inputCtx: context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.input = debounce.New(c.delay, c.convertTyped)
	return c
}

// State returns a copy of the converter's state.
func (c *Converter) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// History returns the conversion history list.
func (c *Converter) History() *history.Manager[Record] {
	return c.history
}

// LoadUnits selects category and fetches its units. The first two units
// become the default from and to selections.
func (c *Converter) LoadUnits(ctx context.Context, category string) error {
	c.mu.Lock()
	c.state.Category = category
	c.gen++
	c.mu.Unlock()

	res, err := c.api.Units(ctx, category)
	if err != nil {
		c.notifier.Notify(ctx, notify.Error("Error while loading units"))
		return fmt.Errorf("loading units for %s: %w", category, err)
	}
	if !res.Success {
		return nil
	}

	c.mu.Lock()
	if c.state.Category != category {
		c.mu.Unlock()
		return nil
	}
	c.state.Units = slices.Clone(res.Units)
	c.state.FromUnit, c.state.ToUnit = "", ""
	if len(res.Units) > 0 {
		c.state.FromUnit = res.Units[0]
		c.state.ToUnit = res.Units[0]
	}
	if len(res.Units) > 1 {
		c.state.ToUnit = res.Units[1]
	}
	s := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(s)
	c.refreshQuickTable(ctx)
	return nil
}

// SetInput stores the typed value and schedules a debounced conversion
// when it is a number. Blank or non-numeric input clears the output and
// drops any pending conversion.
func (c *Converter) SetInput(ctx context.Context, value string) {
	valid := format.ValidNumber(strings.TrimSpace(value))

	c.mu.Lock()
	c.state.Input = value
	c.inputCtx = context.WithoutCancel(ctx)
	if !valid {
		c.state.Output = ""
	}
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(s)

	if !valid {
		c.input.Cancel()
		return
	}
	c.input.Call()
}

// Submit converts the current input right away, dropping any pending
// debounced conversion.
func (c *Converter) Submit(ctx context.Context) error {
	c.input.Cancel()
	return c.Convert(ctx)
}

// Pending reports whether a debounced conversion is waiting to run.
func (c *Converter) Pending() bool {
	return c.input.Pending()
}

// Flush runs a pending debounced conversion now instead of waiting for the
// quiet period.
func (c *Converter) Flush() {
	c.input.Flush()
}

func (c *Converter) convertTyped() {
	c.mu.Lock()
	ctx := c.inputCtx
	c.mu.Unlock()
	// Failures are already visible through the output and the notifier.
	_ = c.Convert(ctx)
}

// SetUnits changes both selections and converts when there is input.
func (c *Converter) SetUnits(ctx context.Context, from, to string) error {
	c.mu.Lock()
	if len(c.state.Units) > 0 {
		for _, u := range []string{from, to} {
			if !slices.Contains(c.state.Units, u) {
				c.mu.Unlock()
				return fmt.Errorf("%w %q in %s", ErrUnknownUnit, u, c.state.Category)
			}
		}
	}
	c.state.FromUnit, c.state.ToUnit = from, to
	hasInput := strings.TrimSpace(c.state.Input) != ""
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(s)
	c.refreshQuickTable(ctx)

	if hasInput {
		return c.Convert(ctx)
	}
	return nil
}

// Convert sends the current input to the service. Blank or non-numeric
// input clears the output without a call.
func (c *Converter) Convert(ctx context.Context) error {
	c.mu.Lock()
	raw := strings.TrimSpace(c.state.Input)
	value, ok := format.ParseNumber(raw)
	if raw == "" || !ok {
		c.state.Output = ""
		s := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(s)
		return nil
	}
	if c.state.FromUnit == "" || c.state.ToUnit == "" {
		c.mu.Unlock()
		c.notifier.Notify(ctx, notify.Error(ErrUnitsNotSelected.Error()))
		return ErrUnitsNotSelected
	}

	req := api.ConvertRequest{
		Value:    value,
		FromUnit: c.state.FromUnit,
		ToUnit:   c.state.ToUnit,
		Category: c.state.Category,
	}
	c.gen++
	gen := c.gen
	c.state.Output = outputPending
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(s)

	res, err := c.api.Convert(ctx, req)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.state.Output = outputError
		s := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(s)
		return fmt.Errorf("converting %s to %s: %w", req.FromUnit, req.ToUnit, err)
	}
	if !res.Success {
		c.state.Output = ""
		s := c.snapshotLocked()
		c.mu.Unlock()
		c.emit(s)
		return nil
	}

	out := format.Default(res.Result)
	c.state.Output = out
	c.state.Info = fmt.Sprintf("%s %s = %s %s", format.Default(value), req.FromUnit, out, req.ToUnit)
	s = c.snapshotLocked()
	c.mu.Unlock()

	c.history.Add(Record{
		Value:    value,
		FromUnit: req.FromUnit,
		ToUnit:   req.ToUnit,
		Result:   out,
		Category: req.Category,
	})
	c.emit(s)
	return nil
}

// Swap exchanges the unit selections and the input and output values,
// then converts the new input.
func (c *Converter) Swap(ctx context.Context) error {
	c.mu.Lock()
	if c.state.FromUnit == "" || c.state.ToUnit == "" {
		c.mu.Unlock()
		return nil
	}
	c.state.FromUnit, c.state.ToUnit = c.state.ToUnit, c.state.FromUnit
	c.state.Input, c.state.Output = c.state.Output, c.state.Input
	hasInput := strings.TrimSpace(c.state.Input) != ""
	s := c.snapshotLocked()
	c.mu.Unlock()
	c.emit(s)
	c.refreshQuickTable(ctx)

	var err error
	if hasInput {
		err = c.Convert(ctx)
	}
	c.notifier.Notify(ctx, notify.Success("Units swapped", 1500*time.Millisecond))
	return err
}

// UseHistory reloads a past conversion, switching category first when
// needed.
func (c *Converter) UseHistory(ctx context.Context, id int64) error {
	entry, ok := c.history.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", history.ErrNotFound, id)
	}
	rec := entry.Record

	c.mu.Lock()
	sameCategory := rec.Category == c.state.Category
	c.mu.Unlock()
	if !sameCategory {
		if err := c.LoadUnits(ctx, rec.Category); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.state.Input = format.Default(rec.Value)
	c.state.FromUnit, c.state.ToUnit = rec.FromUnit, rec.ToUnit
	c.mu.Unlock()
	c.refreshQuickTable(ctx)

	err := c.Convert(ctx)
	c.notifier.Notify(ctx, notify.Success("Conversion loaded from history", 2*time.Second))
	return err
}

// ClearHistory empties the conversion history.
func (c *Converter) ClearHistory(ctx context.Context) {
	c.history.Clear()
	c.notifier.Notify(ctx, notify.Success("Conversion history cleared", 2*time.Second))
}

// Close drops any pending debounced conversion and waits for background
// quick tables to finish.
func (c *Converter) Close() {
	c.input.Cancel()
	c.bg.Wait()
}

func (c *Converter) refreshQuickTable(ctx context.Context) {
	if c.onQuick == nil {
		return
	}
	c.mu.Lock()
	c.quickGen++
	gen := c.quickGen
	c.mu.Unlock()

	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		rows, err := c.QuickTable(context.WithoutCancel(ctx), nil)
		if err != nil {
			return
		}
		c.quickMu.Lock()
		defer c.quickMu.Unlock()
		c.mu.Lock()
		current := gen == c.quickGen
		c.mu.Unlock()
		if current {
			c.onQuick(rows)
		}
	}()
}

func (c *Converter) snapshotLocked() State {
	s := c.state
	s.Units = slices.Clone(c.state.Units)
	return s
}

func (c *Converter) emit(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
