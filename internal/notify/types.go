// Package notify delivers the short-lived banners shown to the user when
// something succeeds or fails.
package notify

import (
	"context"
	"time"
)

// Severity indicates how a notification is presented.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// DefaultDuration is how long a banner stays up unless told otherwise.
const DefaultDuration = 5 * time.Second

// Notification is a single banner.
type Notification struct {
	ID        string        `json:"id"`
	Severity  Severity      `json:"severity"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Expired reports whether the banner's display time has passed at now.
func (n Notification) Expired(now time.Time) bool {
	return n.Duration > 0 && now.Sub(n.CreatedAt) >= n.Duration
}

// Notifier is the user-visible notification channel.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(context.Context, Notification) {})

// Error builds an error banner with the default duration.
func Error(message string) Notification {
	return Notification{Severity: SeverityError, Message: message, Duration: DefaultDuration}
}

// Success builds a success banner shown for d.
func Success(message string, d time.Duration) Notification {
	return Notification{Severity: SeveritySuccess, Message: message, Duration: d}
}

// Info builds an informational banner shown for d.
func Info(message string, d time.Duration) Notification {
	return Notification{Severity: SeverityInfo, Message: message, Duration: d}
}
