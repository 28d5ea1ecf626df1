// Package history keeps a SQLite journal of the runs of a minimage session.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // register the sqlite driver

	"github.com/askiada/minimage/pkg/pipeline"
)

var ErrJournalClosed = errors.New("journal is closed")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  TEXT NOT NULL,
	chain       TEXT NOT NULL,
	images      INTEGER NOT NULL,
	completed   INTEGER NOT NULL,
	aborted     INTEGER NOT NULL,
	cancelled   INTEGER NOT NULL,
	saved       INTEGER NOT NULL,
	duration_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs(started_at);
`

// Run is one journal entry.
type Run struct {
	StartedAt time.Time
	Chain     string
	Images    int
	Completed int
	Aborted   int
	Cancelled int
	Duration  time.Duration
	ID        uuid.UUID
	Saved     bool
}

// FromOutcome summarises a run outcome.
func FromOutcome(out *pipeline.Outcome) Run {
	run := Run{
		ID:        out.ID,
		StartedAt: out.StartedAt,
		Images:    len(out.Results),
		Completed: out.Completed(),
		Aborted:   out.Aborted(),
		Cancelled: out.Cancelled(),
		Duration:  out.Duration,
		Saved:     out.Save,
	}

	if out.Plan != nil {
		run.Chain = out.Plan.String()
	}

	return run
}

// Journal stores runs in a SQLite database.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating its parent directory when needed.
func Open(ctx context.Context, path string) (*Journal, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create journal directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open sqlite")
	}

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "unable to ping sqlite")
	}

	_, err = db.ExecContext(ctx, schema)
	if err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "unable to create schema")
	}

	return &Journal{db: db}, nil
}

// Record appends out to the journal.
func (j *Journal) Record(ctx context.Context, out *pipeline.Outcome) error {
	if j.db == nil {
		return ErrJournalClosed
	}

	run := FromOutcome(out)

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs(id, started_at, chain, images, completed, aborted, cancelled, saved, duration_ns)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.StartedAt.UTC().Format(time.RFC3339Nano), run.Chain,
		run.Images, run.Completed, run.Aborted, run.Cancelled, run.Saved, int64(run.Duration),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to record run %s", run.ID)
	}

	return nil
}

// List returns at most limit runs, most recent first. A limit below 1 returns every run.
func (j *Journal) List(ctx context.Context, limit int) ([]Run, error) {
	if j.db == nil {
		return nil, ErrJournalClosed
	}

	if limit < 1 {
		limit = -1
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, started_at, chain, images, completed, aborted, cancelled, saved, duration_ns
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "unable to list runs")
	}
	defer rows.Close()

	var runs []Run

	for rows.Next() {
		var (
			run              Run
			id, startedAt    string
			durationNanosecs int64
		)

		err = rows.Scan(&id, &startedAt, &run.Chain, &run.Images, &run.Completed, &run.Aborted, &run.Cancelled,
			&run.Saved, &durationNanosecs)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan run")
		}

		run.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid run id %q", id)
		}

		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid start time %q", startedAt)
		}

		run.Duration = time.Duration(durationNanosecs)
		runs = append(runs, run)
	}

	err = rows.Err()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read runs")
	}

	return runs, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}

	err := j.db.Close()
	j.db = nil

	if err != nil {
		return errors.Wrap(err, "unable to close sqlite")
	}

	return nil
}
