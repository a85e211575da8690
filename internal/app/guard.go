package app

import (
	"context"
	"errors"

	"github.com/ziadkadry99/smartcalc/internal/notify"
)

// UnexpectedMessage is shown when a command fails in a way nobody
// anticipated.
const UnexpectedMessage = "An unexpected error occurred. Check the logs for details."

// ErrUnexpected is returned by Guard when fn panicked.
var ErrUnexpected = errors.New("unexpected error")

// Guard runs fn, turning a panic into ErrUnexpected plus a generic error
// banner. The panic value is logged.
func (a *App) Guard(ctx context.Context, name string, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			a.Logger.Error("command panicked", "command", name, "panic", rec)
			a.Notifier.Notify(ctx, notify.Error(UnexpectedMessage))
			err = ErrUnexpected
		}
	}()
	return fn()
}
