// Package store persists analysis snapshots to SQLite. Each snapshot is an
// immutable record of one analysis run: the files that were indexed and the
// relationship edges that came out, keyed by a generated id and, when the
// repository is a git checkout, the commit it was taken at.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for snapshots.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the snapshot tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS snapshots (
  id          TEXT PRIMARY KEY,
  root        TEXT NOT NULL,
  commit_sha  TEXT,
  created_at  TIMESTAMP NOT NULL,
  file_count  INTEGER NOT NULL DEFAULT 0,
  edge_count  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS snapshot_files (
  id          INTEGER PRIMARY KEY,
  snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
  path        TEXT NOT NULL,
  language    TEXT NOT NULL,
  hash        TEXT
);

CREATE TABLE IF NOT EXISTS relationships (
  id          INTEGER PRIMARY KEY,
  snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
  from_file   TEXT NOT NULL,
  to_file     TEXT NOT NULL,
  kind        TEXT NOT NULL,
  line_number INTEGER,
  identifier  TEXT
);

CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
CREATE INDEX IF NOT EXISTS idx_snapshot_files_snapshot ON snapshot_files(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_snapshot_files_path ON snapshot_files(path);
CREATE INDEX IF NOT EXISTS idx_relationships_snapshot ON relationships(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_relationships_from ON relationships(snapshot_id, from_file);
CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships(snapshot_id, to_file);
`

// DeleteSnapshot transactionally removes a snapshot and its dependent rows.
// Deletes in reverse-dependency order to respect FK constraints.
func (s *Store) DeleteSnapshot(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM relationships WHERE snapshot_id = ?",
		"DELETE FROM snapshot_files WHERE snapshot_id = ?",
		"DELETE FROM snapshots WHERE id = ?",
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("delete snapshot data: %w", err)
		}
	}

	return tx.Commit()
}

// PruneSnapshots deletes all but the keep most recent snapshots and returns
// the ids it removed.
func (s *Store) PruneSnapshots(keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}
	snaps, err := s.ListSnapshots()
	if err != nil {
		return nil, err
	}
	if len(snaps) <= keep {
		return nil, nil
	}

	var doomed []string
	for _, snap := range snaps[keep:] {
		doomed = append(doomed, snap.ID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	placeholders := placeholderList(len(doomed))
	args := stringsToArgs(doomed)
	for _, q := range []string{
		"DELETE FROM relationships WHERE snapshot_id IN (" + placeholders + ")",
		"DELETE FROM snapshot_files WHERE snapshot_id IN (" + placeholders + ")",
		"DELETE FROM snapshots WHERE id IN (" + placeholders + ")",
	} {
		if _, err := tx.Exec(q, args...); err != nil {
			return nil, fmt.Errorf("prune snapshots: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return doomed, nil
}
