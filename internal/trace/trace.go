// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package trace records applied simulation events in a SQLite database.
package trace

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	source  TEXT NOT NULL,
	started TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq    INTEGER NOT NULL,
	time   INTEGER NOT NULL,
	pin    INTEGER NOT NULL,
	name   TEXT NOT NULL,
	value  INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_events_name ON events(run_id, name);
`

// A Record is an event applied during a run.
type Record struct {
	Seq   int
	Time  uint64
	Pin   int
	Name  string // display name of the pin, may be empty
	Value bool
}

// RunInfo summarizes a recorded run.
type RunInfo struct {
	ID      int64
	Source  string
	Started time.Time
	Events  int
}

// Store is an event trace database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the trace database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open trace database")
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize trace schema")
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// A Run records the events of one simulation run inside a transaction.
type Run struct {
	ID   int64
	tx   *sql.Tx
	stmt *sql.Stmt
	seq  int
}

// BeginRun starts recording a new run of the given netlist source.
func (s *Store) BeginRun(ctx context.Context, source string) (*Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin run")
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO runs (source, started) VALUES (?, ?)`,
		source, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "insert run")
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "insert run")
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO events (run_id, seq, time, pin, name, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "prepare event insert")
	}
	return &Run{ID: id, tx: tx, stmt: stmt}, nil
}

// Record appends an event to the run. The record's Seq field is ignored and
// assigned in call order.
func (r *Run) Record(ctx context.Context, rec Record) error {
	r.seq++
	_, err := r.stmt.ExecContext(ctx, r.ID, r.seq, int64(rec.Time), rec.Pin, rec.Name, rec.Value)
	return errors.Wrapf(err, "record event %d", r.seq)
}

// Commit saves the run.
func (r *Run) Commit() error {
	r.stmt.Close()
	return errors.Wrap(r.tx.Commit(), "commit run")
}

// Rollback discards the run.
func (r *Run) Rollback() error {
	r.stmt.Close()
	return errors.Wrap(r.tx.Rollback(), "rollback run")
}

// Runs lists recorded runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.source, r.started, COUNT(e.seq)
		FROM runs r LEFT JOIN events e ON e.run_id = r.id
		GROUP BY r.id ORDER BY r.id`)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var ri RunInfo
		var started string
		if err := rows.Scan(&ri.ID, &ri.Source, &started, &ri.Events); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		if ri.Started, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, errors.Wrapf(err, "run %d: bad start time", ri.ID)
		}
		runs = append(runs, ri)
	}
	return runs, errors.Wrap(rows.Err(), "query runs")
}

// Events returns the events of a run in the order they were applied. If name
// is not empty, only events on the pin with that display name are returned.
func (s *Store) Events(ctx context.Context, run int64, name string) ([]Record, error) {
	q := `SELECT seq, time, pin, name, value FROM events WHERE run_id = ?`
	args := []interface{}{run}
	if name != "" {
		q += ` AND name = ?`
		args = append(args, name)
	}
	rows, err := s.db.QueryContext(ctx, q+` ORDER BY seq`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		var t int64
		if err := rows.Scan(&rec.Seq, &t, &rec.Pin, &rec.Name, &rec.Value); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		rec.Time = uint64(t)
		recs = append(recs, rec)
	}
	return recs, errors.Wrap(rows.Err(), "query events")
}
