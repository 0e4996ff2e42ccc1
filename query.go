package orrery

import "github.com/tgrange/orrery/internal/model"

// Query provides read-side access over one analysis result. It indexes the
// edge list by endpoint at construction; the underlying graph is never
// mutated. All methods return edges in graph insertion order.
type Query struct {
	graph  *model.RelationshipGraph
	byFrom map[string][]model.Relationship
	byTo   map[string][]model.Relationship
}

// NewQuery wraps an analysis result for filtering. A nil graph behaves as
// an empty one.
func NewQuery(g *model.RelationshipGraph) *Query {
	q := &Query{
		graph:  g,
		byFrom: make(map[string][]model.Relationship),
		byTo:   make(map[string][]model.Relationship),
	}
	if g != nil {
		for _, rel := range g.Edges {
			q.byFrom[rel.FromFile] = append(q.byFrom[rel.FromFile], rel)
			q.byTo[rel.ToFile] = append(q.byTo[rel.ToFile], rel)
		}
	}
	return q
}

// Dependencies returns the edges leaving fromFile: what does this file
// depend on.
func (q *Query) Dependencies(fromFile string) []model.Relationship {
	return q.byFrom[fromFile]
}

// Dependents returns the edges arriving at toFile: who depends on this
// file.
func (q *Query) Dependents(toFile string) []model.Relationship {
	return q.byTo[toFile]
}

// ByKind returns every edge of the given kind.
func (q *Query) ByKind(kind model.Kind) []model.Relationship {
	if q.graph == nil {
		return nil
	}
	var out []model.Relationship
	for _, rel := range q.graph.Edges {
		if rel.Kind == kind {
			out = append(out, rel)
		}
	}
	return out
}

// Between returns the edges from fromFile to toFile. Multiple edges are
// possible — the graph is a multigraph and a file may reference the same
// target through several statements.
func (q *Query) Between(fromFile, toFile string) []model.Relationship {
	var out []model.Relationship
	for _, rel := range q.byFrom[fromFile] {
		if rel.ToFile == toFile {
			out = append(out, rel)
		}
	}
	return out
}

// Deduped merges edges by (fromFile, toFile, kind), keeping the first
// occurrence of each. The engine itself never deduplicates; this is the
// consumer-side merge policy for renderers that draw one line per pair.
func (q *Query) Deduped() []model.Relationship {
	if q.graph == nil {
		return nil
	}
	type key struct {
		from, to string
		kind     model.Kind
	}
	seen := make(map[key]bool, len(q.graph.Edges))
	var out []model.Relationship
	for _, rel := range q.graph.Edges {
		k := key{from: rel.FromFile, to: rel.ToFile, kind: rel.Kind}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, rel)
	}
	return out
}

// Nodes returns the distinct endpoints in first-appearance order.
func (q *Query) Nodes() []string {
	if q.graph == nil {
		return nil
	}
	return q.graph.Nodes()
}

// Len returns the total edge count.
func (q *Query) Len() int {
	if q.graph == nil {
		return 0
	}
	return q.graph.Len()
}
