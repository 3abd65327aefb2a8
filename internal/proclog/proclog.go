// Package proclog keeps a durable record of spawned worker processes in a
// SQLite database. It backs the hatchery.ProcessRecorder hook: every spawn
// with a reason lands here as one row, so crashed or leaked workers can be
// traced back to whatever asked for them.
package proclog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Spawn is one recorded process creation.
type Spawn struct {
	ID        string
	Reason    string
	PID       int
	StartedAt time.Time
}

// Log is a process bookkeeping store. Writes are serialized across processes
// with a file lock next to the database, since many parents may record into
// the same log concurrently.
type Log struct {
	db   *sql.DB
	lock *flock.Flock
}

const schema = `
CREATE TABLE IF NOT EXISTS spawns (
	id         TEXT PRIMARY KEY,
	reason     TEXT NOT NULL,
	pid        INTEGER NOT NULL,
	started_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_spawns_started_at ON spawns(started_at);
`

// Open opens (creating if needed) the spawn log at path.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create process log directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open process log: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize process log schema: %w", err)
	}

	return &Log{
		db:   db,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Record implements hatchery.ProcessRecorder.
func (l *Log) Record(reason string, pid int) error {
	if err := l.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock process log: %w", err)
	}
	defer l.lock.Unlock()

	_, err := sq.Insert("spawns").
		Columns("id", "reason", "pid", "started_at").
		Values(uuid.NewString(), reason, pid, time.Now().UTC()).
		RunWith(l.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to record spawn: %w", err)
	}
	return nil
}

// Recent returns the most recent spawns, newest first.
func (l *Log) Recent(limit int) ([]Spawn, error) {
	rows, err := sq.Select("id", "reason", "pid", "started_at").
		From("spawns").
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		RunWith(l.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query spawns: %w", err)
	}
	defer rows.Close()

	var spawns []Spawn
	for rows.Next() {
		var s Spawn
		if err := rows.Scan(&s.ID, &s.Reason, &s.PID, &s.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan spawn: %w", err)
		}
		spawns = append(spawns, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating spawns: %w", err)
	}
	return spawns, nil
}

// Close releases the underlying database connection.
func (l *Log) Close() error {
	return l.db.Close()
}
