package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteJournal opens a SQLite-backed journal. Use ":memory:" for an
// in-memory journal, or a file path for one that survives the process.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	j := &SQLiteJournal{db: db}
	if err := j.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return j, nil
}

func (j *SQLiteJournal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		store TEXT NOT NULL,
		dispatch_id TEXT,
		kind TEXT NOT NULL,
		type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		payload BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_dispatch_id ON entries(dispatch_id);
	CREATE INDEX IF NOT EXISTS idx_timestamp ON entries(timestamp);
	CREATE INDEX IF NOT EXISTS idx_kind ON entries(kind);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Append records a new entry.
func (j *SQLiteJournal) Append(ctx context.Context, store, dispatchID string, kind Kind, typeName string, payload []byte) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.ExecContext(ctx,
		"INSERT INTO entries (store, dispatch_id, kind, type, timestamp, payload) VALUES (?, ?, ?, ?, ?, ?)",
		store, dispatchID, string(kind), typeName, time.Now().UnixMilli(), payload,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// GetByDispatchID retrieves all entries correlated to one dispatch.
func (j *SQLiteJournal) GetByDispatchID(ctx context.Context, dispatchID string) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT id, store, dispatch_id, kind, type, timestamp, payload FROM entries WHERE dispatch_id = ? ORDER BY id",
		dispatchID,
	)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetRange retrieves entries within a time range, oldest first.
func (j *SQLiteJournal) GetRange(ctx context.Context, start, end time.Time) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT id, store, dispatch_id, kind, type, timestamp, payload FROM entries WHERE timestamp >= ? AND timestamp <= ? ORDER BY id",
		start.UnixMilli(), end.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Recent retrieves the most recent entries, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx,
		"SELECT id, store, dispatch_id, kind, type, timestamp, payload FROM entries ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		var tsMilli int64

		if err := rows.Scan(&e.ID, &e.Store, &e.DispatchID, &kind, &e.Type, &tsMilli, &e.Payload); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Kind = Kind(kind)
		e.Timestamp = time.UnixMilli(tsMilli)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}

var _ Journal = (*SQLiteJournal)(nil)
