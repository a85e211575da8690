// Package storage persists small JSON values by string key, the way a
// browser's local storage would, on top of the smartcalc SQLite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ziadkadry99/smartcalc/internal/db"
)

// ErrQuotaExceeded is returned by Put when the write would push the store
// past its configured size.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Local is a key-value store scoped to one database file. Load and Save
// never fail loudly: problems are logged and reported through the bool.
type Local struct {
	db     *db.DB
	quota  int64
	logger *slog.Logger
}

// Option configures a Local store.
type Option func(*Local)

// WithQuota limits the total size in bytes of all stored values.
// Zero means unlimited.
func WithQuota(bytes int64) Option {
	return func(l *Local) { l.quota = bytes }
}

// WithLogger sets the logger used for storage warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Local) { l.logger = logger }
}

// NewLocal creates a Local store backed by the given database.
func NewLocal(database *db.DB, opts ...Option) *Local {
	l := &Local{db: database, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load decodes the value stored under key into dst. It returns false when
// the key is absent or the value cannot be read, leaving dst untouched.
func (l *Local) Load(key string, dst any) bool {
	raw, err := l.Get(context.Background(), key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			l.logger.Warn("could not load from local storage", "key", key, "err", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		l.logger.Warn("could not decode local storage value", "key", key, "err", err)
		return false
	}
	return true
}

// Save encodes v as JSON and stores it under key. It returns false if the
// value could not be encoded or written.
func (l *Local) Save(key string, v any) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		l.logger.Warn("could not save to local storage", "key", key, "err", err)
		return false
	}
	if err := l.Put(context.Background(), key, raw); err != nil {
		l.logger.Warn("could not save to local storage", "key", key, "err", err)
		return false
	}
	return true
}

// Get returns the raw value stored under key, or sql.ErrNoRows.
func (l *Local) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := l.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Put stores raw under key, enforcing the quota.
func (l *Local) Put(ctx context.Context, key string, raw []byte) error {
	if l.quota > 0 {
		var others sql.NullInt64
		err := l.db.QueryRowContext(ctx,
			"SELECT SUM(LENGTH(CAST(value AS BLOB))) FROM kv_store WHERE key != ?", key).Scan(&others)
		if err != nil {
			return fmt.Errorf("measuring storage usage: %w", err)
		}
		if others.Int64+int64(len(raw)) > l.quota {
			return fmt.Errorf("writing %s (%d bytes): %w", key, len(raw), ErrQuotaExceeded)
		}
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw))
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (l *Local) Delete(ctx context.Context, key string) error {
	if _, err := l.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key in lexical order.
func (l *Local) Keys(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT key FROM kv_store ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
