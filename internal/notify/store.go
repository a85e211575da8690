package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/ziadkadry99/smartcalc/internal/db"
)

// Store keeps a log of every notification shown.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create inserts a notification. n.ID must already be set.
func (s *Store) Create(ctx context.Context, n Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, severity, message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, string(n.Severity), n.Message, n.Duration.Milliseconds(),
		n.CreatedAt.UTC().Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

// Recent returns up to limit notifications, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, severity, message, duration_ms, created_at
		FROM notifications ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		var (
			n          Notification
			severity   string
			durationMS int64
			ts         string
		)
		if err := rows.Scan(&n.ID, &severity, &n.Message, &durationMS, &ts); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		n.Severity = Severity(severity)
		n.Duration = time.Duration(durationMS) * time.Millisecond
		if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
			n.CreatedAt = t
		} else if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
			n.CreatedAt = t
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// Prune deletes notifications created before cutoff.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notifications WHERE created_at < ?",
		cutoff.UTC().Format(time.DateTime))
	if err != nil {
		return 0, fmt.Errorf("pruning notifications: %w", err)
	}
	return res.RowsAffected()
}
