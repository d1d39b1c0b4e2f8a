// Package storage persists memories for the MCP server in a local
// SQLite database, partitioned by namespace. The library core never
// touches storage; each verification receives its memories as a value.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ashita-ai/groundcheck/internal/model"
)

// schema is applied on every open; all statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS memories (
	id         TEXT PRIMARY KEY,
	namespace  TEXT NOT NULL DEFAULT 'default',
	text       TEXT NOT NULL,
	trust      REAL NOT NULL DEFAULT 1.0 CHECK (trust >= 0.0 AND trust <= 1.0),
	timestamp  INTEGER,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_memories_namespace ON memories(namespace);
`

// ErrNotFound is returned when a memory id does not exist.
var ErrNotFound = errors.New("storage: memory not found")

// Store wraps the SQLite handle.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the SQLite database at path and
// applies the schema. Pass ":memory:" for an ephemeral store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	// modernc sqlite is single-writer; serialize access through one conn.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores a memory under a namespace. An empty id gets a
// generated one; the assigned id is returned.
func (s *Store) Insert(ctx context.Context, namespace string, m model.Memory) (string, error) {
	id := m.ID
	if id == "" {
		id = uuid.NewString()
	}
	var ts any
	if m.Timestamp != nil {
		ts = *m.Timestamp
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (id, namespace, text, trust, timestamp) VALUES (?, ?, ?, ?, ?)`,
		id, namespace, m.Text, m.Trust, ts,
	)
	if err != nil {
		return "", fmt.Errorf("storage: insert memory: %w", err)
	}
	return id, nil
}

// List returns the memories in a namespace in insertion order. limit <= 0
// means no limit.
func (s *Store) List(ctx context.Context, namespace string, limit int) ([]model.Memory, error) {
	q := `SELECT id, text, trust, timestamp FROM memories WHERE namespace = ? ORDER BY created_at, rowid`
	args := []any{namespace}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: list memories: %w", err)
	}
	defer rows.Close()

	var out []model.Memory
	for rows.Next() {
		var m model.Memory
		var ts sql.NullInt64
		if err := rows.Scan(&m.ID, &m.Text, &m.Trust, &ts); err != nil {
			return nil, fmt.Errorf("storage: scan memory: %w", err)
		}
		if ts.Valid {
			v := ts.Int64
			m.Timestamp = &v
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list memories: %w", err)
	}
	return out, nil
}

// Delete removes one memory by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("storage: delete memory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: delete memory: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteNamespace removes every memory in a namespace and returns how
// many were deleted.
func (s *Store) DeleteNamespace(ctx context.Context, namespace string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE namespace = ?`, namespace)
	if err != nil {
		return 0, fmt.Errorf("storage: delete namespace: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: delete namespace: %w", err)
	}
	return int(n), nil
}
