package store

import (
	"fmt"

	"github.com/tgrange/orrery/internal/model"
)

// SnapshotDiff holds the edges that differ between two snapshots.
type SnapshotDiff struct {
	Added   []model.Relationship `json:"added"`
	Removed []model.Relationship `json:"removed"`
}

// DiffSnapshots compares two snapshots at (from_file, to_file, kind)
// granularity. Line numbers and identifiers are ignored, so an edit that
// only moves an import does not register as a change.
func (s *Store) DiffSnapshots(oldID, newID string) (*SnapshotDiff, error) {
	added, err := s.edgeDifference(newID, oldID)
	if err != nil {
		return nil, fmt.Errorf("diff snapshots: added: %w", err)
	}
	removed, err := s.edgeDifference(oldID, newID)
	if err != nil {
		return nil, fmt.Errorf("diff snapshots: removed: %w", err)
	}
	return &SnapshotDiff{Added: added, Removed: removed}, nil
}

// edgeDifference returns the distinct edges present in snapshot haveID but
// not in snapshot lackID.
func (s *Store) edgeDifference(haveID, lackID string) ([]model.Relationship, error) {
	rows, err := s.db.Query(
		`SELECT from_file, to_file, kind FROM relationships WHERE snapshot_id = ?
		 EXCEPT
		 SELECT from_file, to_file, kind FROM relationships WHERE snapshot_id = ?
		 ORDER BY from_file, to_file, kind`,
		haveID, lackID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rels []model.Relationship
	for rows.Next() {
		var rel model.Relationship
		var kind string
		if err := rows.Scan(&rel.FromFile, &rel.ToFile, &kind); err != nil {
			return nil, err
		}
		rel.Kind = model.Kind(kind)
		rels = append(rels, rel)
	}
	return rels, rows.Err()
}
