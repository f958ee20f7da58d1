// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/zodis/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Timestamps are stored in UTC with a fixed-width fraction so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for settings, sessions, audio and practice results.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Open opens or creates the SQLite database and applies migrations.
// A nil logger falls back to the default logger.
func Open(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Prefetch writes from many goroutines; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	store := &Store{db: db, logger: logger}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS audio_items (
			id INTEGER PRIMARY KEY,
			word TEXT NOT NULL UNIQUE,
			audio BLOB NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			level INTEGER NOT NULL,
			words INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_audio_items_created_at ON audio_items(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_results_ended_at ON results(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under key. The bool is false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatTime(time.Now()))
	return err
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

// HasAudio reports whether audio is stored for word.
func (s *Store) HasAudio(ctx context.Context, word string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM audio_items WHERE word = ? LIMIT 1`, word).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetAudio returns the stored audio entry for word.
func (s *Store) GetAudio(ctx context.Context, word string) (model.AudioEntry, bool, error) {
	var entry model.AudioEntry
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT word, audio, created_at FROM audio_items WHERE word = ?`, word).
		Scan(&entry.Word, &entry.Audio, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AudioEntry{}, false, nil
	}
	if err != nil {
		return model.AudioEntry{}, false, err
	}
	entry.CreatedAt = s.parseStoredTime("audio_items.created_at", createdAt)
	return entry, true, nil
}

// InsertAudio stores an entry unless one already exists for the word.
// It reports whether a row was written.
func (s *Store) InsertAudio(ctx context.Context, entry model.AudioEntry) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO audio_items (word, audio, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(word) DO NOTHING`,
		entry.Word, entry.Audio, formatTime(entry.CreatedAt))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AudioStats summarizes stored audio.
func (s *Store) AudioStats(ctx context.Context) (model.AudioStats, error) {
	var stats model.AudioStats
	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(audio)), 0), MIN(created_at), MAX(created_at) FROM audio_items`).
		Scan(&stats.Entries, &stats.TotalBytes, &oldest, &newest)
	if err != nil {
		return model.AudioStats{}, err
	}
	if oldest.Valid {
		stats.Oldest = s.parseStoredTime("audio_items.created_at", oldest.String)
	}
	if newest.Valid {
		stats.Newest = s.parseStoredTime("audio_items.created_at", newest.String)
	}
	return stats, nil
}

// InsertResult stores a finished practice session.
func (s *Store) InsertResult(ctx context.Context, r model.PracticeResult) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO results (started_at, ended_at, level, words, correct, incorrect, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		formatTime(r.StartedAt),
		formatTime(r.EndedAt),
		r.Level,
		r.Words,
		r.Correct,
		r.Incorrect,
		r.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListResults returns stored results in chronological order.
// A zero level matches every level; last > 0 keeps only the most recent results.
func (s *Store) ListResults(ctx context.Context, level, last int) ([]model.ResultAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if level > 0 {
		clauses = append(clauses, "level = ?")
		args = append(args, level)
	}
	query := fmt.Sprintf(`SELECT id, ended_at, level, words, correct, incorrect, duration_ms
		FROM results
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.ResultAggregate
	for rows.Next() {
		var agg model.ResultAggregate
		var endedAt string
		if err := rows.Scan(&agg.ID, &endedAt, &agg.Level, &agg.Words, &agg.Correct, &agg.Incorrect, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		results = append(results, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if last > 0 && len(results) > last {
		results = results[len(results)-last:]
	}
	return results, nil
}

// parseStoredTime parses a stored timestamp. Unreadable values are logged
// and returned as the zero time so the row stays usable.
func (s *Store) parseStoredTime(column, value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		s.logger.Warn("unreadable timestamp", "column", column, "value", value, "err", err)
		return time.Time{}
	}
	return parsed
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
