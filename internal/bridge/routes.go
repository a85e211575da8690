// Package bridge exposes a running smartcalc app over HTTP and a
// websocket so a browser page or another local tool can drive it.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/smartcalc/internal/app"
	"github.com/ziadkadry99/smartcalc/internal/history"
)

// maxImportBytes caps the size of an uploaded history file.
const maxImportBytes = 1 << 20

const defaultNotificationLimit = 20

// Bridge serves one app.
type Bridge struct {
	app    *app.App
	hub    *Hub
	logger *slog.Logger
}

// New creates a bridge for a. hub must be the one whose listeners were
// passed to app.New; nil disables state and history pushes.
func New(a *app.App, hub *Hub) *Bridge {
	if hub == nil {
		hub = NewHub()
	}
	return &Bridge{app: a, hub: hub, logger: a.Logger}
}

// RegisterRoutes mounts the REST endpoints on api and the session
// websocket on streams.
func (b *Bridge) RegisterRoutes(api, streams chi.Router) {
	api.Route("/api/history/{feature}", func(r chi.Router) {
		r.Get("/", b.handleHistoryList)
		r.Delete("/", b.handleHistoryClear)
		r.Get("/export", b.handleHistoryExport)
		r.Post("/import", b.handleHistoryImport)
		r.Delete("/{id}", b.handleHistoryRemove)
	})
	api.Get("/api/state/{feature}", b.handleState)
	api.Get("/api/commands/{feature}", b.handleCommands)
	api.Get("/api/notifications", b.handleNotifications)
	api.Get("/api/banners", b.handleBanners)
	api.Get("/api/status", b.handleStatus)
	api.Get("/api/theme", b.handleThemeGet)
	api.Put("/api/theme", b.handleThemeSet)
	api.Post("/api/theme/toggle", b.handleThemeToggle)
	api.Get("/help", b.handleHelp)

	streams.Get("/ws/session", b.handleSession)
}

// book resolves the {feature} URL parameter, writing a 404 when unknown.
func (b *Bridge) book(w http.ResponseWriter, r *http.Request) (app.Book, bool) {
	bk, err := b.app.History(chi.URLParam(r, "feature"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return bk, true
}

func (b *Bridge) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	bk, ok := b.book(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"feature": bk.Feature().Name,
		"max":     bk.Max(),
		"entries": bk.Entries(),
	})
}

func (b *Bridge) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	bk, ok := b.book(w, r)
	if !ok {
		return
	}
	bk.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (b *Bridge) handleHistoryRemove(w http.ResponseWriter, r *http.Request) {
	bk, ok := b.book(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := bk.Remove(id); err != nil {
		if errors.Is(err, history.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Bridge) handleHistoryExport(w http.ResponseWriter, r *http.Request) {
	bk, ok := b.book(w, r)
	if !ok {
		return
	}
	name := history.ExportFilename(bk.Feature(), time.Now())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := bk.WriteExport(w); err != nil {
		b.logger.Error("history export failed", "feature", bk.Feature().Name, "err", err)
	}
}

func (b *Bridge) handleHistoryImport(w http.ResponseWriter, r *http.Request) {
	bk, ok := b.book(w, r)
	if !ok {
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	n, err := bk.Import(r.Context(), data)
	if err != nil {
		if errors.Is(err, history.ErrInvalidFormat) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

func (b *Bridge) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := b.app.State(chi.URLParam(r, "feature"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (b *Bridge) handleCommands(w http.ResponseWriter, r *http.Request) {
	feature := chi.URLParam(r, "feature")
	table, err := b.app.Table(feature)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	km, err := b.app.Keymap(feature)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	keys := map[string]string{}
	for _, k := range km.Keys() {
		if binding, ok := km.Lookup(k); ok {
			keys[k] = binding.Action
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"actions": table.Actions(),
		"keys":    keys,
	})
}

func (b *Bridge) handleNotifications(w http.ResponseWriter, r *http.Request) {
	limit := defaultNotificationLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	items, err := b.app.Notifications.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleBanners lists the banners still on screen.
func (b *Bridge) handleBanners(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.app.Banners.Active(time.Now()))
}

// handleStatus reports diagnostics about the running bridge.
func (b *Bridge) handleStatus(w http.ResponseWriter, r *http.Request) {
	keys, err := b.app.Storage.Keys(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions":           b.hub.Sessions(),
		"theme":              b.app.Theme.Current(),
		"stored_keys":        keys,
		"database":           b.app.DB.Path(),
		"conversion_pending": b.app.Converter.Pending(),
	})
}

func (b *Bridge) handleThemeGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"theme": b.app.Theme.Current()})
}

func (b *Bridge) handleThemeSet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := b.app.Theme.Set(body.Theme); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": b.app.Theme.Current()})
}

func (b *Bridge) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"theme": b.app.Theme.Toggle()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
