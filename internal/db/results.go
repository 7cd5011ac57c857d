package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/pulse.report/internal/batch"
	"github.com/banshee-data/pulse.report/internal/monitoring"
	"github.com/banshee-data/pulse.report/internal/pulse"
)

// Run describes one invocation of the analyser.
type Run struct {
	RunID     string
	StartedAt time.Time
	Root      string
	Version   string
	Params    pulse.Params
}

// RecordingRow is a stored recording summary.
type RecordingRow struct {
	Path        string
	File        string
	SampleCount int
	Valid       bool
}

// RecordRun inserts run and returns its id. A fresh uuid is assigned when
// run.RunID is empty.
func (db *DB) RecordRun(ctx context.Context, run Run) (string, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	p := run.Params
	_, err := db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, root, version, vt, width, pulse_delta, drop_ratio, below_drop_ratio)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.Root, run.Version,
		p.VT, p.Width, p.PulseDelta, p.DropRatio, p.BelowDropRatio,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return run.RunID, nil
}

// RecordOutcome stores a recording with its pulses and piggybacks in a
// single transaction.
func (db *DB) RecordOutcome(ctx context.Context, runID string, o batch.Outcome) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	rec := o.Recording
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO recordings (run_id, path, file, sample_count, valid) VALUES (?, ?, ?, ?, ?)`,
		runID, rec.Path, rec.Name, len(rec.Samples), o.Result.Valid(),
	); err != nil {
		return fmt.Errorf("failed to record %s: %w", rec.Path, err)
	}

	for _, a := range o.Result.Areas {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO pulses (run_id, path, onset, area) VALUES (?, ?, ?, ?)`,
			runID, rec.Path, a.Onset, a.Area,
		); err != nil {
			return fmt.Errorf("failed to record pulse at %d: %w", a.Onset, err)
		}
	}

	for seq, onset := range o.Result.Piggybacks {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO piggybacks (run_id, path, seq, onset) VALUES (?, ?, ?, ?)`,
			runID, rec.Path, seq, onset,
		); err != nil {
			return fmt.Errorf("failed to record piggyback at %d: %w", onset, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Sink returns a batch.Sink that stores every outcome under runID.
func (db *DB) Sink(runID string) batch.Sink {
	return batch.SinkFunc(func(ctx context.Context, o batch.Outcome) error {
		if err := db.RecordOutcome(ctx, runID, o); err != nil {
			return err
		}
		monitoring.Logf("stored %s (%d pulses) in run %s", o.Recording.Name, len(o.Result.Areas), runID)
		return nil
	})
}

// Runs returns every stored run, newest first.
func (db *DB) Runs(ctx context.Context) ([]Run, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT run_id, started_at, root, version, vt, width, pulse_delta, drop_ratio, below_drop_ratio
		 FROM runs ORDER BY started_at DESC, run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started string
		)
		if err := rows.Scan(&r.RunID, &started, &r.Root, &r.Version,
			&r.Params.VT, &r.Params.Width, &r.Params.PulseDelta, &r.Params.DropRatio, &r.Params.BelowDropRatio,
		); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("run %s: bad started_at %q: %w", r.RunID, started, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Recordings returns the recordings stored for runID, ordered by path.
func (db *DB) Recordings(ctx context.Context, runID string) ([]RecordingRow, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT path, file, sample_count, valid FROM recordings WHERE run_id = ? ORDER BY path`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecordingRow
	for rows.Next() {
		var r RecordingRow
		if err := rows.Scan(&r.Path, &r.File, &r.SampleCount, &r.Valid); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Pulses returns the stored areas for one recording in onset order.
func (db *DB) Pulses(ctx context.Context, runID, path string) ([]pulse.Area, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT onset, area FROM pulses WHERE run_id = ? AND path = ? ORDER BY onset`, runID, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pulse.Area
	for rows.Next() {
		var a pulse.Area
		if err := rows.Scan(&a.Onset, &a.Area); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Piggybacks returns the removed onsets for one recording in detection order.
func (db *DB) Piggybacks(ctx context.Context, runID, path string) ([]int, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT onset FROM piggybacks WHERE run_id = ? AND path = ? ORDER BY seq`, runID, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var onset int
		if err := rows.Scan(&onset); err != nil {
			return nil, err
		}
		out = append(out, onset)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and everything recorded under it.
func (db *DB) DeleteRun(ctx context.Context, runID string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
