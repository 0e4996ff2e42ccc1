package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tgrange/orrery/internal/model"
)

// Snapshot is the stored record of one analysis run.
type Snapshot struct {
	ID        string    `json:"id"`
	Root      string    `json:"root"`
	CommitSHA string    `json:"commitSha"`
	CreatedAt time.Time `json:"createdAt"`
	FileCount int       `json:"fileCount"`
	EdgeCount int       `json:"edgeCount"`
}

// SnapshotFile is one indexed file as captured by a snapshot.
type SnapshotFile struct {
	ID         int64
	SnapshotID string
	Path       string
	Language   string
	Hash       string
}

// SaveSnapshot persists one analysis run in a single transaction: the
// snapshot row, one row per indexed file, and one row per relationship edge
// in the graph's order.
func (s *Store) SaveSnapshot(root, commitSHA string, records []*model.FileRecord, graph *model.RelationshipGraph) (*Snapshot, error) {
	snap := &Snapshot{
		ID:        uuid.NewString(),
		Root:      root,
		CommitSHA: commitSHA,
		CreatedAt: time.Now().UTC(),
		FileCount: len(records),
	}
	if graph != nil {
		snap.EdgeCount = graph.Len()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO snapshots (id, root, commit_sha, created_at, file_count, edge_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Root, snap.CommitSHA, snap.CreatedAt, snap.FileCount, snap.EdgeCount,
	); err != nil {
		return nil, fmt.Errorf("save snapshot: insert snapshot: %w", err)
	}

	for _, rec := range records {
		if err := insertFileTx(tx, snap.ID, rec); err != nil {
			return nil, fmt.Errorf("save snapshot: file %q: %w", rec.Path, err)
		}
	}

	if graph != nil {
		for _, rel := range graph.Edges {
			if err := insertRelationshipTx(tx, snap.ID, rel); err != nil {
				return nil, fmt.Errorf("save snapshot: edge %s -> %s: %w", rel.FromFile, rel.ToFile, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("save snapshot: commit: %w", err)
	}
	return snap, nil
}

func insertFileTx(tx *sql.Tx, snapshotID string, rec *model.FileRecord) error {
	var hash string
	if rec.HasContent() {
		hash = ContentHash([]byte(rec.Content))
	}
	_, err := tx.Exec(
		"INSERT INTO snapshot_files (snapshot_id, path, language, hash) VALUES (?, ?, ?, ?)",
		snapshotID, rec.Path, string(rec.Language), hash,
	)
	return err
}

func insertRelationshipTx(tx *sql.Tx, snapshotID string, rel model.Relationship) error {
	_, err := tx.Exec(
		`INSERT INTO relationships (snapshot_id, from_file, to_file, kind, line_number, identifier)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snapshotID, rel.FromFile, rel.ToFile, string(rel.Kind), rel.LineNumber, rel.Identifier,
	)
	return err
}

const snapshotCols = "id, root, commit_sha, created_at, file_count, edge_count"

func (s *Store) scanSnapshot(scanner interface{ Scan(...any) error }) (*Snapshot, error) {
	snap := &Snapshot{}
	err := scanner.Scan(&snap.ID, &snap.Root, &snap.CommitSHA, &snap.CreatedAt, &snap.FileCount, &snap.EdgeCount)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// SnapshotByID returns the snapshot with the given id, or nil if absent.
func (s *Store) SnapshotByID(id string) (*Snapshot, error) {
	snap, err := s.scanSnapshot(s.db.QueryRow(
		"SELECT "+snapshotCols+" FROM snapshots WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot by id: %w", err)
	}
	return snap, nil
}

// LatestSnapshot returns the most recent snapshot, or nil if none exist.
func (s *Store) LatestSnapshot() (*Snapshot, error) {
	snap, err := s.scanSnapshot(s.db.QueryRow(
		"SELECT " + snapshotCols + " FROM snapshots ORDER BY created_at DESC LIMIT 1",
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns all snapshots, most recent first.
func (s *Store) ListSnapshots() ([]*Snapshot, error) {
	rows, err := s.db.Query("SELECT " + snapshotCols + " FROM snapshots ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()
	var snaps []*Snapshot
	for rows.Next() {
		snap, err := s.scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Relationships returns a snapshot's edges in the order they were recorded,
// which is the order the analysis emitted them.
func (s *Store) Relationships(snapshotID string) ([]model.Relationship, error) {
	rows, err := s.db.Query(
		`SELECT from_file, to_file, kind, line_number, identifier
		 FROM relationships WHERE snapshot_id = ? ORDER BY id`,
		snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("relationships: %w", err)
	}
	defer rows.Close()
	var rels []model.Relationship
	for rows.Next() {
		var rel model.Relationship
		var kind string
		if err := rows.Scan(&rel.FromFile, &rel.ToFile, &kind, &rel.LineNumber, &rel.Identifier); err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		rel.Kind = model.Kind(kind)
		rels = append(rels, rel)
	}
	return rels, rows.Err()
}

// FilesForSnapshot returns a snapshot's file rows in path order.
func (s *Store) FilesForSnapshot(snapshotID string) ([]*SnapshotFile, error) {
	rows, err := s.db.Query(
		"SELECT id, snapshot_id, path, language, hash FROM snapshot_files WHERE snapshot_id = ? ORDER BY path",
		snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("files for snapshot: %w", err)
	}
	defer rows.Close()
	var files []*SnapshotFile
	for rows.Next() {
		f := &SnapshotFile{}
		if err := rows.Scan(&f.ID, &f.SnapshotID, &f.Path, &f.Language, &f.Hash); err != nil {
			return nil, fmt.Errorf("scan snapshot file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
