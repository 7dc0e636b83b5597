// Package sqlite implements the event store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
	apperrors "github.com/sgb-io/back-of-the-neural-net/internal/errors"
	"github.com/sgb-io/back-of-the-neural-net/internal/platform/storage/sqlitemigrate"
	"github.com/sgb-io/back-of-the-neural-net/internal/storage"
	"github.com/sgb-io/back-of-the-neural-net/internal/storage/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed event store.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.EventStore = (*Store)(nil)

// Open opens (or creates) the event store at path and applies migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// The log has a single writer; a second connection would only contend.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying database. It is nil-safe so callers can defer
// it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

const timestampLayout = time.RFC3339Nano

// Append implements storage.EventStore. The whole batch commits in one
// transaction with contiguous explicit sequences; any failure rolls back
// every row.
func (s *Store) Append(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var last uint64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(sequence), 0) FROM events").Scan(&last); err != nil {
		return nil, fmt.Errorf("read last sequence: %w", err)
	}

	appended := make([]event.Event, len(events))
	for i, evt := range events {
		if !evt.Kind.IsValid() {
			return nil, apperrors.New(apperrors.CodeAppendRejected,
				fmt.Sprintf("event %d has no kind", i))
		}
		evt.Seq = last + uint64(i) + 1
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO events (sequence, timestamp, kind, payload) VALUES (?, ?, ?, ?)",
			int64(evt.Seq),
			evt.Timestamp.UTC().Format(timestampLayout),
			string(evt.Kind),
			evt.PayloadJSON,
		); err != nil {
			return nil, fmt.Errorf("append event %d: %w", evt.Seq, err)
		}
		appended[i] = evt
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return appended, nil
}

// ReadFrom implements storage.EventStore.
func (s *Store) ReadFrom(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 500
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT sequence, timestamp, kind, payload FROM events WHERE sequence > ? ORDER BY sequence LIMIT ?",
		int64(afterSeq), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var (
			seq     int64
			ts      string
			kind    string
			payload []byte
		)
		if err := rows.Scan(&seq, &ts, &kind, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		parsed, err := time.Parse(timestampLayout, ts)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeLogCorrupt,
				fmt.Sprintf("event %d has malformed timestamp", seq), err)
		}
		events = append(events, event.Event{
			Seq:         uint64(seq),
			Timestamp:   parsed,
			Kind:        event.Kind(kind),
			PayloadJSON: payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// LastSeq implements storage.EventStore.
func (s *Store) LastSeq(ctx context.Context) (uint64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	var last uint64
	if err := s.sqlDB.QueryRowContext(ctx, "SELECT COALESCE(MAX(sequence), 0) FROM events").Scan(&last); err != nil {
		return 0, fmt.Errorf("read last sequence: %w", err)
	}
	return last, nil
}

// SaveSnapshot implements storage.EventStore. Older snapshots are pruned so
// the table holds only the most recent encoding.
func (s *Store) SaveSnapshot(ctx context.Context, seq uint64, blob []byte) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO snapshots (sequence, blob) VALUES (?, ?)",
		int64(seq), blob,
	); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE sequence < ?", int64(seq)); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return tx.Commit()
}

// LoadSnapshot implements storage.EventStore.
func (s *Store) LoadSnapshot(ctx context.Context) (uint64, []byte, error) {
	if s == nil || s.sqlDB == nil {
		return 0, nil, fmt.Errorf("storage is not configured")
	}
	var (
		seq  int64
		blob []byte
	)
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT sequence, blob FROM snapshots ORDER BY sequence DESC LIMIT 1",
	).Scan(&seq, &blob)
	if err == sql.ErrNoRows {
		return 0, nil, storage.ErrNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("load snapshot: %w", err)
	}
	return uint64(seq), blob, nil
}

// Reset implements storage.EventStore: it truncates the log and snapshots
// and restarts the sequence counter.
func (s *Store) Reset(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM events",
		"DELETE FROM snapshots",
		"DELETE FROM sqlite_sequence WHERE name = 'events'",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("reset store: %w", err)
		}
	}
	return tx.Commit()
}
