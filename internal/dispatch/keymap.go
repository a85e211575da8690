package dispatch

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Binding is the action a key triggers, with a fixed argument.
type Binding struct {
	Action string
	Arg    string
}

// KeyString normalises a key press: the key is lower-cased and modifiers
// are prefixed ctrl, then alt, then shift, each applied outermost last.
// KeyString("X", true, true, true) is "shift+alt+ctrl+x".
func KeyString(key string, ctrl, alt, shift bool) string {
	s := strings.ToLower(key)
	if ctrl {
		s = "ctrl+" + s
	}
	if alt {
		s = "alt+" + s
	}
	if shift {
		s = "shift+" + s
	}
	return s
}

// Keymap binds normalised key strings to actions of a Table.
type Keymap struct {
	mu       sync.RWMutex
	table    *Table
	bindings map[string]Binding
}

// NewKeymap returns an empty keymap dispatching into table.
func NewKeymap(table *Table) *Keymap {
	return &Keymap{table: table, bindings: make(map[string]Binding)}
}

// Add binds key to action with arg.
func (k *Keymap) Add(key, action, arg string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.bindings[strings.ToLower(key)] = Binding{Action: action, Arg: arg}
}

// Remove drops the binding for key.
func (k *Keymap) Remove(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.bindings, strings.ToLower(key))
}

// Lookup returns the binding for key.
func (k *Keymap) Lookup(key string) (Binding, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	b, ok := k.bindings[strings.ToLower(key)]
	return b, ok
}

// Keys returns every bound key, sorted.
func (k *Keymap) Keys() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	keys := make([]string, 0, len(k.bindings))
	for key := range k.bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Dispatch runs the action bound to key. It reports false when the key is
// unbound, in which case nothing runs.
func (k *Keymap) Dispatch(ctx context.Context, key string) (bool, error) {
	b, ok := k.Lookup(key)
	if !ok {
		return false, nil
	}
	return true, k.table.Run(ctx, b.Action, b.Arg)
}
