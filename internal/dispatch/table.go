// Package dispatch maps action names and keyboard shortcuts to controller
// handlers so the same commands can be driven from the CLI, the shell and
// the websocket bridge.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownAction is returned by Run for an unregistered action.
var ErrUnknownAction = errors.New("unknown action")

// Handler executes one action with an optional argument.
type Handler func(ctx context.Context, arg string) error

// Table is a registry of named actions.
type Table struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{handlers: make(map[string]Handler)}
}

// Register binds name to h, replacing any previous binding.
func (t *Table) Register(name string, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[name] = h
}

// Has reports whether name is registered.
func (t *Table) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.handlers[name]
	return ok
}

// Run invokes the handler registered for name.
func (t *Table) Run(ctx context.Context, name, arg string) error {
	t.mu.RLock()
	h, ok := t.handlers[name]
	t.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return h(ctx, arg)
}

// Actions returns the registered action names, sorted.
func (t *Table) Actions() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.handlers))
	for name := range t.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
