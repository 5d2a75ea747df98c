package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/okian/eventfacets/internal/domain/model"
	"github.com/okian/eventfacets/pkg/logger"
	"github.com/okian/eventfacets/pkg/metrics"
	_ "modernc.org/sqlite"
)

const dayLayout = "2006-01-02"

// SQLiteStore keeps events in a SQLite database. Each row carries the full
// event as JSON plus the columns used for range queries.
type SQLiteStore struct {
	db           *sql.DB
	maxOpenConns int
	logger       logger.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at path and applies
// pending migrations. Use ":memory:" for a throwaway store.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrInvalidPath
	}
	s := &SQLiteStore{maxOpenConns: 4}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("repository")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		s.maxOpenConns = 1
	}
	db.SetMaxOpenConns(s.maxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	ran, err := applyMigrations(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, name := range ran {
		s.logger.Info(ctx, "applied migration", logger.String("migration", name))
	}

	s.db = db
	metrics.UpdateBackendEvents(s.Count(ctx))
	return s, nil
}

// Insert implements Store. All events are written in one transaction; a
// single invalid event rejects the batch.
func (s *SQLiteStore) Insert(ctx context.Context, events ...model.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (day, start_at, name, format, payload) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range events {
		e := &events[i]
		day, err := e.Day()
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidEvent, e.Name, err)
		}
		payload, err := json.Marshal(e)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidEvent, e.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, day.Format(dayLayout), e.StartDateTime, e.Name, e.Format, string(payload)); err != nil {
			return 0, fmt.Errorf("insert %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	metrics.UpdateBackendEvents(s.Count(ctx))
	return len(events), nil
}

// Between implements Store.
func (s *SQLiteStore) Between(ctx context.Context, from, to time.Time, order Order) ([]model.Event, error) {
	var (
		where []string
		args  []any
	)
	if !from.IsZero() {
		where = append(where, "day >= ?")
		args = append(args, from.UTC().Format(dayLayout))
	}
	if !to.IsZero() {
		where = append(where, "day < ?")
		args = append(args, to.UTC().Format(dayLayout))
	}

	q := `SELECT payload FROM events`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	if order == Descending {
		q += ` ORDER BY day DESC, start_at DESC, name DESC, id DESC`
	} else {
		q += ` ORDER BY day ASC, start_at ASC, name ASC, id ASC`
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []model.Event{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var e model.Event
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, fmt.Errorf("decode stored event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

// Formats implements Store.
func (s *SQLiteStore) Formats(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT format FROM events WHERE format <> '' ORDER BY format`)
	if err != nil {
		return nil, fmt.Errorf("query formats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []string{}
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan format: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Count implements Store. Errors count as zero.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		s.logger.Warn(ctx, "count events failed", logger.Error(err))
		return 0
	}
	return n
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
