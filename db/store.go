// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/encuesta/auth"
	"github.com/danielhkuo/encuesta/survey"
)

// ErrNotFound is returned when no municipality has the requested code.
var ErrNotFound = errors.New("municipality not found")

// Store reads and writes municipality records.
//
// Update serializes read-modify-write cycles per municipality code: callers
// in this process wait on a per-code mutex, and on PostgreSQL the row is also
// locked with SELECT ... FOR UPDATE for the length of the transaction.
type Store struct {
	db     *sql.DB
	dbType string

	mu sync.Mutex
	// One mutex per code ever updated. Entries are never removed, so the
	// map is bounded by the number of municipalities seen since start.
	locks map[string]*sync.Mutex
}

// NewStore wraps an open connection. dbType is TypeSQLite or TypePostgres.
func NewStore(conn *sql.DB, dbType string) *Store {
	return &Store{db: conn, dbType: dbType, locks: make(map[string]*sync.Mutex)}
}

// EditAudit carries request metadata recorded with each applied edit.
type EditAudit struct {
	IPHash    string
	UserAgent string
}

// ImportRun describes a completed workbook import.
type ImportRun struct {
	ID        string
	Source    string
	Records   int
	Replaced  int
	StartedAt time.Time
}

func (s *Store) lockFor(code string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[code]
	if !ok {
		l = &sync.Mutex{}
		s.locks[code] = l
	}
	return l
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (survey.Record, error) {
	var (
		rec     survey.Record
		level   sql.NullFloat64
		answers string
		state   string
	)
	if err := row.Scan(&rec.Code, &rec.Name, &level, &answers, &state); err != nil {
		return survey.Record{}, err
	}
	if level.Valid {
		v := level.Float64
		rec.Level = &v
	}
	rec.Answers = map[string]string{}
	if answers != "" {
		if err := json.Unmarshal([]byte(answers), &rec.Answers); err != nil {
			return survey.Record{}, fmt.Errorf("failed to decode answers for %s: %w", rec.Code, err)
		}
	}
	rec.State = survey.State(state)
	return rec, nil
}

func encodeAnswers(answers map[string]string) (string, error) {
	if answers == nil {
		answers = map[string]string{}
	}
	b, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("failed to encode answers: %w", err)
	}
	return string(b), nil
}

func nullLevel(level *float64) sql.NullFloat64 {
	if level == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *level, Valid: true}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

const selectRecord = `SELECT code, name, digitalization_level, answers, state FROM municipality`

// Get returns the record for code, or ErrNotFound.
func (s *Store) Get(ctx context.Context, code string) (survey.Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectRecord+` WHERE code = $1`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return survey.Record{}, ErrNotFound
	}
	if err != nil {
		return survey.Record{}, fmt.Errorf("failed to query municipality: %w", err)
	}
	return rec, nil
}

// List returns up to limit records ordered by code. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]survey.Record, error) {
	query := selectRecord + ` ORDER BY code`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query municipalities: %w", err)
	}
	defer rows.Close()

	records := []survey.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan municipality: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate municipalities: %w", err)
	}
	return records, nil
}

// Count returns the number of stored municipalities.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM municipality`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count municipalities: %w", err)
	}
	return n, nil
}

// LevelStats returns how many records have a level and their average.
// avg is nil when no record has one.
func (s *Store) LevelStats(ctx context.Context) (defined int, avg *float64, err error) {
	var mean sql.NullFloat64
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(digitalization_level), AVG(digitalization_level)
		FROM municipality
	`).Scan(&defined, &mean)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query level stats: %w", err)
	}
	if mean.Valid {
		v := mean.Float64
		avg = &v
	}
	return defined, avg, nil
}

// Headers returns the stored workbook header row in column order.
func (s *Store) Headers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM survey_column ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query headers: %w", err)
	}
	defer rows.Close()

	headers := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan header: %w", err)
		}
		headers = append(headers, name)
	}
	return headers, rows.Err()
}

// Update loads the record for code, passes it to fn and stores what fn
// returns, all inside one transaction. edits are written to the edit log.
// fn must not change the record's code or name.
func (s *Store) Update(ctx context.Context, code string, audit EditAudit, fn func(survey.Record) (survey.Record, survey.Batch, error)) (survey.Record, error) {
	l := s.lockFor(code)
	l.Lock()
	defer l.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return survey.Record{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := selectRecord + ` WHERE code = $1`
	if s.dbType == TypePostgres {
		query += ` FOR UPDATE`
	}
	current, err := scanRecord(tx.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return survey.Record{}, ErrNotFound
	}
	if err != nil {
		return survey.Record{}, fmt.Errorf("failed to query municipality: %w", err)
	}

	next, applied, err := fn(current)
	if err != nil {
		return survey.Record{}, err
	}
	if next.Code != current.Code || next.Name != current.Name {
		return survey.Record{}, errors.New("municipality identity cannot change")
	}

	answers, err := encodeAnswers(next.Answers)
	if err != nil {
		return survey.Record{}, err
	}
	ts := now()
	_, err = tx.ExecContext(ctx, `
		UPDATE municipality
		SET digitalization_level = $1, answers = $2, state = $3, updated_at = $4
		WHERE code = $5
	`, nullLevel(next.Level), answers, string(next.State), ts, code)
	if err != nil {
		return survey.Record{}, fmt.Errorf("failed to update municipality: %w", err)
	}

	for _, e := range applied {
		id, err := auth.GenerateID(12)
		if err != nil {
			return survey.Record{}, err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO edit_log (id, code, column_name, value, ip_hash, user_agent, applied_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, code, e.Column, e.Value, audit.IPHash, audit.UserAgent, ts)
		if err != nil {
			return survey.Record{}, fmt.Errorf("failed to insert edit log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return survey.Record{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return next, nil
}

// EditCount returns how many edits have been logged for code.
func (s *Store) EditCount(ctx context.Context, code string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edit_log WHERE code = $1`, code).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count edits: %w", err)
	}
	return n, nil
}

// ReplaceAll discards every stored record and header and stores the given
// ones instead. All prior edits are lost; the number of replaced records is
// logged and recorded in the import_run table.
func (s *Store) ReplaceAll(ctx context.Context, source string, headers []string, records []survey.Record) (ImportRun, error) {
	run := ImportRun{
		ID:        uuid.NewString(),
		Source:    source,
		Records:   len(records),
		StartedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportRun{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM municipality`).Scan(&run.Replaced); err != nil {
		return ImportRun{}, fmt.Errorf("failed to count municipalities: %w", err)
	}

	for _, stmt := range []string{
		`DELETE FROM edit_log`,
		`DELETE FROM municipality`,
		`DELETE FROM survey_column`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return ImportRun{}, fmt.Errorf("failed to clear tables: %w", err)
		}
	}

	for i, h := range headers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO survey_column (position, name) VALUES ($1, $2)
		`, i, h); err != nil {
			return ImportRun{}, fmt.Errorf("failed to insert header %q: %w", h, err)
		}
	}

	ts := run.StartedAt.Format(time.RFC3339Nano)
	for _, rec := range records {
		answers, err := encodeAnswers(rec.Answers)
		if err != nil {
			return ImportRun{}, err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO municipality (code, name, digitalization_level, answers, state, imported_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, rec.Code, rec.Name, nullLevel(rec.Level), answers, string(survey.StateImported), ts, ts)
		if err != nil {
			return ImportRun{}, fmt.Errorf("failed to insert municipality %s: %w", rec.Code, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO import_run (id, source, record_count, replaced_count, started_at)
		VALUES ($1, $2, $3, $4, $5)
	`, run.ID, run.Source, run.Records, run.Replaced, ts)
	if err != nil {
		return ImportRun{}, fmt.Errorf("failed to record import run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ImportRun{}, fmt.Errorf("failed to commit import: %w", err)
	}

	if run.Replaced > 0 {
		slog.Warn("re-import discarded existing records and their edits",
			"import_id", run.ID, "replaced", run.Replaced, "source", source)
	}
	slog.Info("import stored", "import_id", run.ID, "records", run.Records, "headers", len(headers))
	return run, nil
}
