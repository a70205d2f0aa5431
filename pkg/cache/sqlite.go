package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	expires_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_expires ON cache_entries(expires_at);
`

// SQLite is a cache persisted in a SQLite database, useful when cached
// enrichment results should survive restarts. Expiry is lazy: expired rows are
// ignored on read and purged opportunistically.
type SQLite struct {
	db *sqlx.DB
}

// NewSQLite opens (and if needed initializes) a SQLite-backed cache
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Get returns the stored value if present and not expired
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var row struct {
		Value     []byte    `db:"value"`
		ExpiresAt time.Time `db:"expires_at"`
	}
	err := s.db.GetContext(ctx, &row, "SELECT value, expires_at FROM cache_entries WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if time.Now().After(row.ExpiresAt) {
		// expired entry, remove it and report a miss
		if _, err := s.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE key = ?", key); err != nil && !isLockError(err) {
			return nil, false, fmt.Errorf("cache purge %s: %w", key, err)
		}
		return nil, false, nil
	}
	return row.Value, true, nil
}

// Set stores the value with the given TTL, replacing any previous entry.
// Retries on SQLite lock errors the same way the rest of the system does.
func (s *SQLite) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			"INSERT OR REPLACE INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)",
			key, value, time.Now().Add(ttl))
		if err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("cache set %s: %w", key, err)}
		}
		return nil
	})
}

// PurgeExpired removes all expired entries, called periodically if desired
func (s *SQLite) PurgeExpired(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE expires_at <= ?", time.Now()); err != nil {
		return fmt.Errorf("purge expired cache entries: %w", err)
	}
	return nil
}

// Close releases the underlying database
func (s *SQLite) Close() error {
	return s.db.Close()
}

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}
