// Package sqlstore implements storage.Driver over database/sql. The sqlite and
// postgres drivers wrap it with their own connection setup and dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/papercomputeco/lingo/pkg/storage"
)

// Dialect captures the SQL differences between backends.
type Dialect struct {
	Name string

	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
}

var (
	// SQLite binds with "?".
	SQLite = Dialect{
		Name:        "sqlite",
		Placeholder: func(int) string { return "?" },
	}

	// Postgres binds with "$n".
	Postgres = Dialect{
		Name:        "postgres",
		Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	}
)

const schema = `CREATE TABLE IF NOT EXISTS translations (
	id              TEXT PRIMARY KEY,
	provider        TEXT NOT NULL,
	model           TEXT NOT NULL,
	source_lang     TEXT NOT NULL,
	target_lang     TEXT NOT NULL,
	source_text     TEXT NOT NULL,
	translated_text TEXT NOT NULL,
	streaming       BOOLEAN NOT NULL,
	status          TEXT NOT NULL,
	error_kind      TEXT NOT NULL,
	error_message   TEXT NOT NULL,
	started_at      BIGINT NOT NULL,
	completed_at    BIGINT NOT NULL,
	duration_ms     BIGINT NOT NULL
)`

const startedAtIndex = `CREATE INDEX IF NOT EXISTS translations_started_at_idx ON translations (started_at)`

var columns = []string{
	"id", "provider", "model", "source_lang", "target_lang", "source_text",
	"translated_text", "streaming", "status", "error_kind", "error_message",
	"started_at", "completed_at", "duration_ms",
}

// Store implements storage.Driver on a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect

	upsertQuery string
	getQuery    string
}

// Open creates the schema if needed and returns a Store that owns db.
func Open(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	for _, stmt := range []string{schema, startedAtIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	s := &Store{db: db, dialect: dialect}
	s.upsertQuery = s.buildUpsert()
	s.getQuery = fmt.Sprintf("SELECT %s FROM translations WHERE id = %s",
		strings.Join(columns, ", "), dialect.Placeholder(1))
	return s, nil
}

func (s *Store) buildUpsert() string {
	binds := make([]string, len(columns))
	updates := make([]string, 0, len(columns)-1)
	for i, col := range columns {
		binds[i] = s.dialect.Placeholder(i + 1)
		if col != "id" {
			updates = append(updates, col+" = excluded."+col)
		}
	}
	return fmt.Sprintf("INSERT INTO translations (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		strings.Join(columns, ", "), strings.Join(binds, ", "), strings.Join(updates, ", "))
}

// DB exposes the underlying handle, mainly for tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Put stores rec, replacing any record with the same ID.
func (s *Store) Put(ctx context.Context, rec *storage.Record) error {
	if rec == nil {
		return storage.ErrNilRecord
	}

	_, err := s.db.ExecContext(ctx, s.upsertQuery,
		rec.ID, rec.Provider, rec.Model, rec.From, rec.To, rec.SourceText,
		rec.TranslatedText, rec.Streaming, string(rec.Status), rec.ErrorKind, rec.ErrorMessage,
		toMillis(rec.StartedAt), toMillis(rec.CompletedAt), rec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("storing record %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a record by its ID.
func (s *Store) Get(ctx context.Context, id string) (*storage.Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, s.getQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.NotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting record %s: %w", id, err)
	}
	return rec, nil
}

// List returns records newest first.
func (s *Store) List(ctx context.Context, opts storage.ListOptions) ([]*storage.Record, error) {
	var (
		b    strings.Builder
		args []any
	)
	fmt.Fprintf(&b, "SELECT %s FROM translations", strings.Join(columns, ", "))
	if opts.Provider != "" {
		args = append(args, opts.Provider)
		fmt.Fprintf(&b, " WHERE provider = %s", s.dialect.Placeholder(len(args)))
	}
	args = append(args, opts.EffectiveLimit(), opts.Offset)
	fmt.Fprintf(&b, " ORDER BY started_at DESC, id ASC LIMIT %s OFFSET %s",
		s.dialect.Placeholder(len(args)-1), s.dialect.Placeholder(len(args)))

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	records := []*storage.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM translations").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*storage.Record, error) {
	var (
		rec                    storage.Record
		status                 string
		startedAt, completedAt int64
	)
	err := row.Scan(
		&rec.ID, &rec.Provider, &rec.Model, &rec.From, &rec.To, &rec.SourceText,
		&rec.TranslatedText, &rec.Streaming, &status, &rec.ErrorKind, &rec.ErrorMessage,
		&startedAt, &completedAt, &rec.DurationMs,
	)
	if err != nil {
		return nil, err
	}
	rec.Status = storage.Status(status)
	rec.StartedAt = fromMillis(startedAt)
	rec.CompletedAt = fromMillis(completedAt)
	return &rec, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
