// Package index builds the read-only file lookup structure the resolver
// operates on: a primary path-keyed map plus name and suffix secondary
// indexes used by the fallback matching steps.
package index

import (
	"path"
	"strings"

	"github.com/tgrange/orrery/internal/model"
)

// FileIndex is a point-in-time lookup structure over one repository
// snapshot. It is built once, before any extraction starts, and is
// read-only thereafter — concurrent readers need no synchronization.
type FileIndex struct {
	byPath  map[string]*model.FileRecord
	byName  map[string][]*model.FileRecord
	records []*model.FileRecord
}

// Build constructs a FileIndex from a scanned file tree. Every file leaf is
// inserted exactly once under its Path; leaves carrying a distinct
// RelativePath are additionally reachable under that key. Directories
// contribute no entries. Build never fails: a nil or file-less tree simply
// yields an empty index.
func Build(root *model.TreeNode) *FileIndex {
	idx := newIndex()
	idx.addTree(root)
	return idx
}

// FromRecords constructs a FileIndex directly from file records, in the
// given order. Used by callers that already hold flat records (and by
// tests).
func FromRecords(records ...*model.FileRecord) *FileIndex {
	idx := newIndex()
	for _, rec := range records {
		idx.add(rec)
	}
	return idx
}

func newIndex() *FileIndex {
	return &FileIndex{
		byPath: make(map[string]*model.FileRecord),
		byName: make(map[string][]*model.FileRecord),
	}
}

func (idx *FileIndex) addTree(node *model.TreeNode) {
	if node == nil {
		return
	}
	if !node.Dir {
		if node.Path != "" {
			idx.add(&model.FileRecord{
				Path:     node.Path,
				Language: node.Language,
				Content:  node.Content,
			})
		}
		return
	}
	for _, child := range node.Children {
		idx.addTree(child)
	}
}

func (idx *FileIndex) add(rec *model.FileRecord) {
	if rec == nil || rec.Path == "" {
		return
	}
	if _, exists := idx.byPath[rec.Path]; exists {
		return
	}
	idx.byPath[rec.Path] = rec
	idx.byName[rec.Name()] = append(idx.byName[rec.Name()], rec)
	idx.records = append(idx.records, rec)

	if rec.RelativePath != "" && rec.RelativePath != rec.Path {
		if _, exists := idx.byPath[rec.RelativePath]; !exists {
			idx.byPath[rec.RelativePath] = rec
		}
	}
}

// ByPath returns the record stored under the exact key p, which may be
// either a record's Path or its RelativePath.
func (idx *FileIndex) ByPath(p string) (*model.FileRecord, bool) {
	rec, ok := idx.byPath[p]
	return rec, ok
}

// Contains reports whether p is a key in the primary map.
func (idx *FileIndex) Contains(p string) bool {
	_, ok := idx.byPath[p]
	return ok
}

// ByName returns every record whose base filename equals name, in
// insertion order.
func (idx *FileIndex) ByName(name string) []*model.FileRecord {
	return idx.byName[name]
}

// FirstByName returns the first record whose base filename equals name.
// The tie-break between files sharing a basename is insertion order — the
// scanner's traversal order — which is stable within a run but carries no
// further meaning.
func (idx *FileIndex) FirstByName(name string) (*model.FileRecord, bool) {
	recs := idx.byName[name]
	if len(recs) == 0 {
		return nil, false
	}
	return recs[0], true
}

// BySuffix scans records in insertion order and returns the first whose
// path ends with candidate — bare, or with one of exts appended. Matches
// are aligned to path segment boundaries, so "c.ts" does not match
// "abc.ts". Same tie-break caveat as FirstByName.
func (idx *FileIndex) BySuffix(candidate string, exts ...string) (*model.FileRecord, bool) {
	if candidate == "" {
		return nil, false
	}
	for _, rec := range idx.records {
		if pathEndsWith(rec.Path, candidate) {
			return rec, true
		}
		for _, ext := range exts {
			if pathEndsWith(rec.Path, candidate+ext) {
				return rec, true
			}
		}
	}
	return nil, false
}

// InDirectory returns the first record located under a directory named
// dir at any depth, e.g. InDirectory("util") matches "a/util/x.go".
func (idx *FileIndex) InDirectory(dir string) (*model.FileRecord, bool) {
	if dir == "" {
		return nil, false
	}
	for _, rec := range idx.records {
		d := path.Dir(rec.Path)
		if d == dir || strings.HasPrefix(d, dir+"/") ||
			strings.HasSuffix(d, "/"+dir) || strings.Contains(d, "/"+dir+"/") {
			return rec, true
		}
	}
	return nil, false
}

// Records returns all records in insertion order. The returned slice is
// shared; callers must not modify it.
func (idx *FileIndex) Records() []*model.FileRecord {
	return idx.records
}

// Len returns the number of distinct records (alias keys not counted).
func (idx *FileIndex) Len() int {
	return len(idx.records)
}

// Languages returns the distinct language tags present, in first-seen
// order.
func (idx *FileIndex) Languages() []model.Language {
	seen := make(map[model.Language]bool)
	var langs []model.Language
	for _, rec := range idx.records {
		if rec.Language == "" || seen[rec.Language] {
			continue
		}
		seen[rec.Language] = true
		langs = append(langs, rec.Language)
	}
	return langs
}

func pathEndsWith(p, suffix string) bool {
	return p == suffix || strings.HasSuffix(p, "/"+suffix)
}
