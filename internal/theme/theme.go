// Package theme tracks the dark or light colour scheme preference.
package theme

import (
	"fmt"
	"sync"
)

const (
	Dark  = "dark"
	Light = "light"
)

// Key is the storage key of the persisted theme.
const Key = "smartcalc_theme"

// Prefs persists the chosen theme.
type Prefs interface {
	Load(key string, dst any) bool
	Save(key string, v any) bool
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	return name == Dark || name == Light
}

// Manager holds the current theme.
type Manager struct {
	mu      sync.Mutex
	prefs   Prefs
	current string
}

// New restores the persisted theme, falling back to def (or dark when def
// is not a known theme).
func New(prefs Prefs, def string) *Manager {
	if !Valid(def) {
		def = Dark
	}
	m := &Manager{prefs: prefs, current: def}
	if prefs != nil {
		var saved string
		if prefs.Load(Key, &saved) && Valid(saved) {
			m.current = saved
		}
	}
	return m
}

// Current returns the active theme.
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Set switches to name and persists it.
func (m *Manager) Set(name string) error {
	if !Valid(name) {
		return fmt.Errorf("unknown theme %q: must be dark or light", name)
	}
	m.mu.Lock()
	m.current = name
	m.mu.Unlock()
	if m.prefs != nil {
		m.prefs.Save(Key, name)
	}
	return nil
}

// Toggle flips between dark and light and returns the new theme.
func (m *Manager) Toggle() string {
	m.mu.Lock()
	next := Light
	if m.current == Light {
		next = Dark
	}
	m.current = next
	m.mu.Unlock()
	if m.prefs != nil {
		m.prefs.Save(Key, next)
	}
	return next
}
