package store

import (
	"crypto/sha256"
	"fmt"
)

// ContentHash computes the hex SHA-256 of file content. Stored per snapshot
// file so later runs can tell which files changed between snapshots without
// keeping the content itself.
func ContentHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
