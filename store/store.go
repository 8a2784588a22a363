// Package store records simulation runs in a SQLite database so that past runs
// can be listed and their population curves replayed.
package store

import (
	"context"
	"database/sql"
	"net/url"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	source           TEXT    NOT NULL,
	width            INTEGER NOT NULL,
	height           INTEGER NOT NULL,
	started_at       TEXT    NOT NULL,
	finished_at      TEXT,
	generations      INTEGER NOT NULL DEFAULT 0,
	final_population INTEGER NOT NULL DEFAULT 0,
	outcome          TEXT    NOT NULL DEFAULT 'running'
);

CREATE TABLE IF NOT EXISTS generations (
	run_id     INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	generation INTEGER NOT NULL,
	population INTEGER NOT NULL,
	hash       TEXT    NOT NULL,
	PRIMARY KEY (run_id, generation)
);
`

// Outcomes a finished run can end with
const (
	OutcomeRunning   = "running"
	OutcomeCompleted = "completed"
	OutcomeExtinct   = "extinct"
	OutcomeStagnant  = "stagnant"
	OutcomeCancelled = "cancelled"
)

var ErrRunNotFound = errors.New("run not found")

// Run is one recorded simulation
type Run struct {
	ID              int64
	Source          string
	Width           int
	Height          int
	StartedAt       time.Time
	FinishedAt      time.Time
	Generations     int
	FinalPopulation int
	Outcome         string
}

// RunStore persists runs to SQLite. It is safe for concurrent use.
type RunStore struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies the schema
func Open(ctx context.Context, path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, errors.Wrapf(err, "[Open] failed to open database: %s", path)
	}

	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "[Open] failed to initialize schema: %s", path)
	}

	return &RunStore{db: db, path: path}, nil
}

// dsn turns a filesystem path into a file: URI so that '?', '#' and '%' in the
// path are escaped rather than read as query or fragment delimiters.
func dsn(path string) string {
	u := url.URL{
		Scheme:   "file",
		Path:     path,
		OmitHost: true,
		RawQuery: url.Values{"_pragma": {"foreign_keys(1)", "busy_timeout(5000)"}}.Encode(),
	}
	return u.String()
}

func (s *RunStore) Close() error {
	return s.db.Close()
}

// StartRun inserts a new running run and returns its id
func (s *RunStore) StartRun(ctx context.Context, source string, width, height int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (source, width, height, started_at) VALUES (?, ?, ?, ?)`,
		source, width, height, formatTime(time.Now()))
	if err != nil {
		return 0, errors.Wrap(err, "[StartRun] failed to insert run")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "[StartRun] failed to read run id")
	}
	return id, nil
}

// RecordGeneration stores the population and hash of one generation
func (s *RunStore) RecordGeneration(ctx context.Context, runID int64, generation, population int, hash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO generations (run_id, generation, population, hash) VALUES (?, ?, ?, ?)`,
		runID, generation, population, hash)
	if err != nil {
		return errors.Wrapf(err, "[RecordGeneration] run %d generation %d", runID, generation)
	}
	return nil
}

// FinishRun stamps the final generation count, population and outcome
func (s *RunStore) FinishRun(ctx context.Context, runID int64, generations, population int, outcome string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, generations = ?, final_population = ?, outcome = ? WHERE id = ?`,
		formatTime(time.Now()), generations, population, outcome, runID)
	if err != nil {
		return errors.Wrapf(err, "[FinishRun] run %d", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "[FinishRun] run %d", runID)
	}
	if n == 0 {
		return errors.Wrapf(ErrRunNotFound, "[FinishRun] run %d", runID)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, width, height, started_at, COALESCE(finished_at, ''),
		       generations, final_population, outcome
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "[ListRuns] query failed")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.Source, &r.Width, &r.Height, &started, &finished,
			&r.Generations, &r.FinalPopulation, &r.Outcome); err != nil {
			return nil, errors.Wrap(err, "[ListRuns] scan failed")
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		runs = append(runs, r)
	}
	return runs, errors.Wrap(rows.Err(), "[ListRuns] iteration failed")
}

// Populations returns the recorded population of each generation of a run, in
// generation order.
func (s *RunStore) Populations(ctx context.Context, runID int64) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT population FROM generations WHERE run_id = ? ORDER BY generation`, runID)
	if err != nil {
		return nil, errors.Wrapf(err, "[Populations] run %d", runID)
	}
	defer rows.Close()

	var pops []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, errors.Wrapf(err, "[Populations] run %d", runID)
		}
		pops = append(pops, p)
	}
	return pops, errors.Wrapf(rows.Err(), "[Populations] run %d", runID)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
