package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/smartcalc/internal/app"
	"github.com/ziadkadry99/smartcalc/internal/notify"
)

// sendBuffer is the per-session queue length for outgoing events.
const sendBuffer = 32

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// request is the incoming websocket message format. Key, when set, is
// looked up in the feature's keymap instead of running Action; with
// neither, the reply just carries the current state.
type request struct {
	Feature string `json:"feature"`
	Action  string `json:"action"`
	Arg     string `json:"arg"`
	Key     string `json:"key"`
}

func (b *Bridge) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	send := make(chan Event, sendBuffer)
	leave := b.hub.join(send)
	notes, unsubscribe := b.app.Dispatcher.Subscribe(sendBuffer)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		b.writeLoop(ctx, conn, send, notes)
	}()
	defer func() {
		cancel()
		<-done
		unsubscribe()
		leave()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				b.logger.Warn("websocket read failed", "err", err)
			}
			return
		}

		var req request
		if err := json.Unmarshal(msg, &req); err != nil {
			b.enqueue(ctx, send, Event{Type: EventError, Error: "invalid message format"})
			continue
		}
		b.enqueue(ctx, send, b.handleRequest(ctx, req))
	}
}

// handleRequest runs one message and returns the reply.
func (b *Bridge) handleRequest(ctx context.Context, req request) Event {
	if req.Feature == "" {
		return Event{Type: EventError, Error: "feature is required"}
	}

	name := req.Feature + "." + req.Action
	if req.Key != "" {
		name = req.Feature + "[" + req.Key + "]"
	}
	runErr := b.app.Guard(ctx, name, func() error { return b.run(ctx, req) })
	if errors.Is(runErr, app.ErrUnexpected) {
		return Event{Type: EventError, Feature: req.Feature, Error: app.UnexpectedMessage}
	}

	state, err := b.app.State(req.Feature)
	if err != nil {
		return Event{Type: EventError, Feature: req.Feature, Error: err.Error()}
	}
	if runErr != nil {
		return Event{Type: EventError, Feature: req.Feature, State: state, Error: runErr.Error()}
	}
	return Event{Type: EventState, Feature: req.Feature, State: state}
}

func (b *Bridge) run(ctx context.Context, req request) error {
	switch {
	case req.Key != "":
		km, err := b.app.Keymap(req.Feature)
		if err != nil {
			return err
		}
		handled, err := km.Dispatch(ctx, req.Key)
		if !handled {
			return fmt.Errorf("no binding for key %q", req.Key)
		}
		return err
	case req.Action != "":
		return b.app.Run(ctx, req.Feature, req.Action, req.Arg)
	}
	return nil
}

func (b *Bridge) enqueue(ctx context.Context, send chan<- Event, ev Event) {
	select {
	case send <- ev:
	case <-ctx.Done():
	}
}

// writeLoop is the only goroutine writing to conn.
func (b *Bridge) writeLoop(ctx context.Context, conn *websocket.Conn, send <-chan Event, notes <-chan notify.Notification) {
	for {
		var ev Event
		select {
		case <-ctx.Done():
			return
		case ev = <-send:
		case n, ok := <-notes:
			if !ok {
				return
			}
			ev = Event{Type: EventNotification, Notification: &n}
		}
		if err := conn.WriteJSON(ev); err != nil {
			b.logger.Warn("websocket write failed", "err", err)
			// Unblocks the read loop.
			conn.Close()
			return
		}
	}
}
