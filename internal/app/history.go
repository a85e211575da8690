package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ziadkadry99/smartcalc/internal/history"
	"github.com/ziadkadry99/smartcalc/internal/notify"
)

// Book is one feature's history list, independent of its record type.
type Book interface {
	Feature() history.Feature
	Len() int
	Max() int
	// Entries returns the list, newest first, ready for JSON encoding.
	Entries() any
	// Remove deletes one entry and reports history.ErrNotFound for an
	// unknown id.
	Remove(id int64) error
	Clear(ctx context.Context)
	// Use loads an entry back into the feature's controller.
	Use(ctx context.Context, id int64) error
	WriteExport(w io.Writer) error
	// Import replaces the list and returns how many entries were kept.
	// The outcome is also reported as a notification.
	Import(ctx context.Context, data []byte) (int, error)
	Render(w io.Writer)
}

type book[T any] struct {
	feature  history.Feature
	manager  *history.Manager[T]
	settings func() map[string]string
	clear    func(context.Context)
	use      func(context.Context, int64) error
	render   func(io.Writer, []history.Entry[T])
	notifier notify.Notifier
}

func (b *book[T]) Feature() history.Feature { return b.feature }

func (b *book[T]) Len() int { return b.manager.Len() }

func (b *book[T]) Max() int { return b.manager.Max() }

func (b *book[T]) Entries() any { return b.manager.List() }

func (b *book[T]) Remove(id int64) error {
	if _, ok := b.manager.Get(id); !ok {
		return fmt.Errorf("%w: %d", history.ErrNotFound, id)
	}
	b.manager.Remove(id)
	return nil
}

func (b *book[T]) Clear(ctx context.Context) { b.clear(ctx) }

func (b *book[T]) Use(ctx context.Context, id int64) error { return b.use(ctx, id) }

func (b *book[T]) WriteExport(w io.Writer) error {
	var settings map[string]string
	if b.settings != nil {
		settings = b.settings()
	}
	return b.manager.WriteExport(w, b.feature.Tag, settings)
}

func (b *book[T]) Import(ctx context.Context, data []byte) (int, error) {
	if _, err := b.manager.Import(b.feature.Tag, data); err != nil {
		b.notifier.Notify(ctx, notify.Error("Import failed: "+err.Error()))
		return 0, err
	}
	b.notifier.Notify(ctx, notify.Success("History imported successfully", 3*time.Second))
	return b.manager.Len(), nil
}

func (b *book[T]) Render(w io.Writer) { b.render(w, b.manager.List()) }
