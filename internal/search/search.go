// Package search builds an in-memory full-text index over analysis results
// so the CLI can answer free-form queries: file names and paths, language
// filters like language:python, and the identifiers and targets of each
// file's outgoing references.
package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/tgrange/orrery/internal/model"
)

// DefaultLimit caps result counts when the caller passes zero.
const DefaultLimit = 20

// Document is the indexed shape of one file. Field names follow the json
// tags, so query strings address them as path:, name:, language:,
// imports:, depends_on:.
type Document struct {
	Path      string   `json:"path"`
	Name      string   `json:"name"`
	Language  string   `json:"language"`
	Imports   []string `json:"imports"`
	DependsOn []string `json:"depends_on"`
}

// Hit is one search result.
type Hit struct {
	Path  string
	Score float64
}

// Index wraps a memory-only bleve index over the analyzed files.
type Index struct {
	idx bleve.Index
}

// Build indexes every record, folding the graph's outgoing edges into each
// file's document.
func Build(records []*model.FileRecord, graph *model.RelationshipGraph) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("search: create index: %w", err)
	}

	docs := make(map[string]*Document, len(records))
	order := make([]string, 0, len(records))
	for _, rec := range records {
		if _, ok := docs[rec.Path]; ok {
			continue
		}
		docs[rec.Path] = &Document{
			Path:     rec.Path,
			Name:     rec.Name(),
			Language: string(rec.Language),
		}
		order = append(order, rec.Path)
	}

	if graph != nil {
		for _, rel := range graph.Edges {
			doc, ok := docs[rel.FromFile]
			if !ok {
				continue
			}
			if rel.Identifier != "" {
				doc.Imports = append(doc.Imports, rel.Identifier)
			}
			doc.DependsOn = append(doc.DependsOn, rel.ToFile)
		}
	}

	for _, path := range order {
		if err := idx.Index(path, docs[path]); err != nil {
			idx.Close()
			return nil, fmt.Errorf("search: index %s: %w", path, err)
		}
	}

	return &Index{idx: idx}, nil
}

// Search runs a bleve query string and returns hits in score order.
func (ix *Index) Search(q string, limit int) ([]Hit, error) {
	if strings.TrimSpace(q) == "" {
		return nil, fmt.Errorf("search: empty query")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := bleve.NewQueryStringQuery(q)
	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{Path: h.ID, Score: h.Score})
	}
	return hits, nil
}

// Count returns how many documents the index holds.
func (ix *Index) Count() (uint64, error) {
	return ix.idx.DocCount()
}

// Close releases the index.
func (ix *Index) Close() error {
	return ix.idx.Close()
}

// buildMapping maps the Document fields: language is a keyword for exact
// filtering, everything else goes through the standard analyzer so path
// segments and identifiers tokenize.
func buildMapping() mapping.IndexMapping {
	textField := bleve.NewTextFieldMapping()

	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = keyword.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("path", textField)
	doc.AddFieldMappingsAt("name", textField)
	doc.AddFieldMappingsAt("language", keywordField)
	doc.AddFieldMappingsAt("imports", textField)
	doc.AddFieldMappingsAt("depends_on", textField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}
