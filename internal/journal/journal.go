// Package journal appends per-row migration outcomes to a SQLite file so an
// operator can reconcile a run after the fact.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"shopmigrate/internal/models"
)

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

// Run is the header row of one migration run.
type Run struct {
	StartedAt  time.Time
	FinishedAt time.Time
	ID         string
	Entity     string
	Source     string
	Summary    string
	DryRun     bool
}

// Entry is one journaled outcome.
type Entry struct {
	RecordedAt  time.Time
	RunID       string
	Key         string
	Kind        models.OutcomeKind
	Reason      string
	RemoteID    string
	Fingerprint string
	Row         int
}

// Journal is an append-only outcome store.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal at path. ":memory:" gives a throwaway
// journal.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}

	// a single connection keeps in-memory databases shared and serializes writes
	db.SetMaxOpenConns(1)

	j, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return j, nil
}

func New(ctx context.Context, db *sql.DB) (*Journal, error) {
	j := &Journal{db: db}
	if err := j.migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}

	return j, nil
}

func (j *Journal) migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		entity TEXT NOT NULL,
		source TEXT,
		dry_run INTEGER NOT NULL DEFAULT 0,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		summary JSON
	);
	CREATE TABLE IF NOT EXISTS outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(run_id),
		row_index INTEGER NOT NULL,
		natural_key TEXT,
		kind TEXT NOT NULL,
		reason TEXT,
		remote_id TEXT,
		fingerprint TEXT,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS outcomes_run ON outcomes(run_id, row_index);`
	_, err := j.db.ExecContext(ctx, query)

	return err
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// BeginRun inserts the header row for r.
func (j *Journal) BeginRun(ctx context.Context, r Run) error {
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, entity, source, dry_run, started_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Entity, r.Source, r.DryRun, formatTime(r.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", r.ID, err)
	}

	return nil
}

// Append records one outcome under runID.
func (j *Journal) Append(ctx context.Context, runID string, o models.Outcome) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO outcomes (run_id, row_index, natural_key, kind, reason, remote_id, fingerprint, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, o.Row, o.Key, string(o.Kind), o.Reason, o.RemoteID, o.Fingerprint, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to insert outcome for row %d: %w", o.Row, err)
	}

	return nil
}

// FinishRun stores the final summary of runID.
func (j *Journal) FinishRun(ctx context.Context, runID string, stats *models.Statistics) error {
	summary, err := stats.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	res, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, summary = ? WHERE run_id = ?`,
		formatTime(time.Now()), string(summary), runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", runID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	return nil
}

// Run returns the header row of runID.
func (j *Journal) Run(ctx context.Context, runID string) (*Run, error) {
	var (
		r        Run
		source   sql.NullString
		started  string
		finished sql.NullString
		summary  sql.NullString
	)

	err := j.db.QueryRowContext(ctx,
		`SELECT run_id, entity, source, dry_run, started_at, finished_at, summary FROM runs WHERE run_id = ?`,
		runID,
	).Scan(&r.ID, &r.Entity, &source, &r.DryRun, &started, &finished, &summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	if err != nil {
		return nil, err
	}

	r.Source = source.String
	r.Summary = summary.String
	r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)

	if finished.Valid {
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
	}

	return &r, nil
}

// Outcomes lists the entries of runID in row order.
func (j *Journal) Outcomes(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT run_id, row_index, natural_key, kind, reason, remote_id, fingerprint, recorded_at
		FROM outcomes WHERE run_id = ? ORDER BY row_index, id`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry

	for rows.Next() {
		var (
			e                                  Entry
			kind, recorded                     string
			key, reason, remoteID, fingerprint sql.NullString
		)

		if err := rows.Scan(&e.RunID, &e.Row, &key, &kind, &reason, &remoteID, &fingerprint, &recorded); err != nil {
			return nil, err
		}

		e.Kind = models.OutcomeKind(kind)
		e.Key = key.String
		e.Reason = reason.String
		e.RemoteID = remoteID.String
		e.Fingerprint = fingerprint.String
		e.RecordedAt, _ = time.Parse(time.RFC3339Nano, recorded)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
