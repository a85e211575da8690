// Package history keeps a bounded, newest-first list of records for one
// feature and mirrors every change into persistent storage.
package history

import (
	"sync"
	"time"
)

// Store is the persistence the manager writes through to. Implementations
// swallow their own failures; a false return only means the write was lost.
type Store interface {
	Load(key string, dst any) bool
	Save(key string, v any) bool
}

// RenderFunc receives a snapshot of the list after every mutation.
type RenderFunc[T any] func(entries []Entry[T])

// Options configures a Manager.
type Options[T any] struct {
	// Key is the storage key for the persisted list.
	Key string
	// Max bounds the list length. Values <= 0 use DefaultMax.
	Max int
	Store  Store
	Render RenderFunc[T]
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// DefaultMax is the bound used when Options.Max is not set.
const DefaultMax = 50

// Manager is a size-bounded, persisted history list parameterized over the
// record shape. It is safe for concurrent use.
type Manager[T any] struct {
	mu      sync.Mutex
	key     string
	max     int
	store   Store
	render  RenderFunc[T]
	clock   func() time.Time
	entries []Entry[T]
	lastID  int64
}

// New creates a manager and loads any list already persisted under
// opts.Key.
func New[T any](opts Options[T]) *Manager[T] {
	m := &Manager[T]{
		key:    opts.Key,
		max:    opts.Max,
		store:  opts.Store,
		render: opts.Render,
		clock:  opts.Clock,
	}
	if m.max <= 0 {
		m.max = DefaultMax
	}
	if m.clock == nil {
		m.clock = time.Now
	}

	if m.store != nil {
		var loaded []Entry[T]
		if m.store.Load(m.key, &loaded) {
			m.entries = truncate(loaded, m.max)
		}
	}
	m.stampLocked()
	return m
}

// Key returns the storage key.
func (m *Manager[T]) Key() string { return m.key }

// Max returns the list bound.
func (m *Manager[T]) Max() int { return m.max }

// Add stamps rec with a creation id and timestamp, puts it at the head of
// the list, drops entries past the bound, persists, and renders.
func (m *Manager[T]) Add(rec T) Entry[T] {
	m.mu.Lock()
	now := m.clock().UTC().Truncate(time.Millisecond)
	entry := Entry[T]{ID: m.nextIDLocked(now), Timestamp: now, Record: rec}
	next := make([]Entry[T], 0, len(m.entries)+1)
	next = append(next, entry)
	next = append(next, m.entries...)
	m.entries = truncate(next, m.max)
	snapshot := m.commitLocked()
	m.mu.Unlock()

	m.emit(snapshot)
	return entry
}

// Remove deletes the first entry with the given id. Removing an id that is
// not present still persists and renders, and changes nothing.
func (m *Manager[T]) Remove(id int64) {
	m.mu.Lock()
	for i, e := range m.entries {
		if e.ID == id {
			next := make([]Entry[T], 0, len(m.entries)-1)
			next = append(next, m.entries[:i]...)
			m.entries = append(next, m.entries[i+1:]...)
			break
		}
	}
	snapshot := m.commitLocked()
	m.mu.Unlock()

	m.emit(snapshot)
}

// Clear empties the list.
func (m *Manager[T]) Clear() {
	m.mu.Lock()
	m.entries = nil
	snapshot := m.commitLocked()
	m.mu.Unlock()

	m.emit(snapshot)
}

// Replace swaps in a whole new list, bounded like any other mutation.
// Entries without an id are given fresh ones.
func (m *Manager[T]) Replace(entries []Entry[T]) {
	m.mu.Lock()
	m.entries = truncate(append([]Entry[T](nil), entries...), m.max)
	m.stampLocked()
	snapshot := m.commitLocked()
	m.mu.Unlock()

	m.emit(snapshot)
}

// List returns a copy of the list, newest first.
func (m *Manager[T]) List() []Entry[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Get returns the entry with the given id.
func (m *Manager[T]) Get(id int64) (Entry[T], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry[T]{}, false
}

// Len returns the number of entries.
func (m *Manager[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// nextIDLocked returns a creation-time id for an entry made at now, bumped
// past the last id handed out so ids stay unique and increasing.
func (m *Manager[T]) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return id
}

// stampLocked raises lastID past every id in the list, then numbers the
// entries that have none, oldest first.
func (m *Manager[T]) stampLocked() {
	for _, e := range m.entries {
		if e.ID > m.lastID {
			m.lastID = e.ID
		}
	}
	now := m.clock().UTC()
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].ID == 0 {
			m.entries[i].ID = m.nextIDLocked(now)
		}
	}
}

// commitLocked writes the list through to the store and returns the
// snapshot to render. A failed write leaves the in-memory list in charge.
func (m *Manager[T]) commitLocked() []Entry[T] {
	snapshot := m.snapshotLocked()
	if m.store != nil {
		m.store.Save(m.key, snapshot)
	}
	return snapshot
}

func (m *Manager[T]) snapshotLocked() []Entry[T] {
	out := make([]Entry[T], len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *Manager[T]) emit(snapshot []Entry[T]) {
	if m.render != nil {
		m.render(snapshot)
	}
}

func truncate[T any](entries []Entry[T], max int) []Entry[T] {
	if len(entries) > max {
		return entries[:max]
	}
	return entries
}
