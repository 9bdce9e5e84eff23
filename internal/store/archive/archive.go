// Package archive keeps harvested post records in a local SQLite file.
package archive

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database holding runs and their records.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps :memory: databases shared between statements
	d.SetMaxOpenConns(1)
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
	  run_id TEXT PRIMARY KEY,
	  domain TEXT NOT NULL,
	  owner_id INTEGER NOT NULL,
	  window_start INTEGER NOT NULL,
	  window_end INTEGER NOT NULL,
	  started_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS records (
	  run_id TEXT NOT NULL,
	  domain TEXT NOT NULL,
	  owner_id INTEGER NOT NULL,
	  post_id INTEGER NOT NULL,
	  body TEXT NOT NULL,
	  fetched_at INTEGER NOT NULL,
	  PRIMARY KEY (run_id, post_id)
	);
	CREATE INDEX IF NOT EXISTS idx_records_domain ON records(domain, post_id);
	`)
	return err
}

// Run describes one harvesting run.
type Run struct {
	ID          string
	Domain      string
	OwnerID     int64
	WindowStart int64
	WindowEnd   int64
	StartedAt   time.Time
}

// PutRun registers a run. Re-registering the same id replaces it.
func (d *DB) PutRun(ctx context.Context, r Run) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO runs(run_id, domain, owner_id, window_start, window_end, started_at) VALUES(?,?,?,?,?,?)
	ON CONFLICT(run_id) DO UPDATE SET domain=excluded.domain, owner_id=excluded.owner_id, window_start=excluded.window_start, window_end=excluded.window_end, started_at=excluded.started_at`,
		r.ID, r.Domain, r.OwnerID, r.WindowStart, r.WindowEnd, r.StartedAt.Unix())
	return err
}

// Record is a stored post record.
type Record struct {
	RunID     string
	Domain    string
	OwnerID   int64
	PostID    int64
	Body      string
	FetchedAt time.Time
}

// PutRecord stores a record body, replacing an earlier copy from the same run.
func (d *DB) PutRecord(ctx context.Context, r Record) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO records(run_id, domain, owner_id, post_id, body, fetched_at) VALUES(?,?,?,?,?,?)
	ON CONFLICT(run_id, post_id) DO UPDATE SET body=excluded.body, fetched_at=excluded.fetched_at`,
		r.RunID, r.Domain, r.OwnerID, r.PostID, r.Body, r.FetchedAt.Unix())
	return err
}

// ListRecords returns the records of a run, newest post first.
func (d *DB) ListRecords(ctx context.Context, runID string) ([]Record, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT run_id, domain, owner_id, post_id, body, fetched_at FROM records WHERE run_id=? ORDER BY post_id DESC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var r Record
		var fetched int64
		if err := rows.Scan(&r.RunID, &r.Domain, &r.OwnerID, &r.PostID, &r.Body, &fetched); err != nil {
			return nil, err
		}
		r.FetchedAt = time.Unix(fetched, 0).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountRecords returns how many records a run stored.
func (d *DB) CountRecords(ctx context.Context, runID string) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE run_id=?`, runID).Scan(&n)
	return n, err
}
