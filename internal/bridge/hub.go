package bridge

import (
	"sync"

	"github.com/ziadkadry99/smartcalc/internal/converter"
	"github.com/ziadkadry99/smartcalc/internal/history"
	"github.com/ziadkadry99/smartcalc/internal/notify"
)

// Event types sent to session clients.
const (
	EventState        = "state"
	EventHistory      = "history"
	EventQuickTable   = "quick_table"
	EventNotification = "notification"
	EventError        = "error"
)

// Event is one message pushed to a websocket client.
type Event struct {
	Type         string               `json:"type"`
	Feature      string               `json:"feature,omitempty"`
	State        any                  `json:"state,omitempty"`
	Notification *notify.Notification `json:"notification,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// Hub fans controller changes out to every connected session. Create it
// before the app so its methods can be passed as app listeners.
type Hub struct {
	mu       sync.Mutex
	nextID   int
	sessions map[int]chan<- Event
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{sessions: map[int]chan<- Event{}}
}

// StateChanged broadcasts a feature's new state.
func (h *Hub) StateChanged(feature string, state any) {
	h.broadcast(Event{Type: EventState, Feature: feature, State: state})
}

// HistoryChanged tells clients to refetch a feature's history.
func (h *Hub) HistoryChanged(feature string) {
	h.broadcast(Event{Type: EventHistory, Feature: feature})
}

// QuickTableChanged sends the converter's refreshed quick table.
func (h *Hub) QuickTableChanged(rows []converter.QuickRow) {
	h.broadcast(Event{Type: EventQuickTable, Feature: history.Converter.Name, State: rows})
}

// Sessions returns the number of connected sessions.
func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Hub) join(ch chan<- Event) (leave func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.sessions[id] = ch
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.sessions, id)
		h.mu.Unlock()
	}
}

func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.sessions {
		select {
		case ch <- ev:
		default:
			// Slow session; it will catch up on the next change.
		}
	}
}
