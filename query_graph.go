package orrery

import (
	"fmt"
	"sort"

	"github.com/tgrange/orrery/internal/model"
)

// Subgraph is the transitive neighborhood of one file. Nodes carry their
// BFS distance from the root; edges are the graph edges connecting nodes
// in the neighborhood, in graph insertion order.
type Subgraph struct {
	Root  string
	Nodes []SubgraphNode
	Edges []model.Relationship
	Depth int // max depth actually reached (may be < maxDepth)
}

// SubgraphNode is a file in the subgraph with its distance from the root.
type SubgraphNode struct {
	Path  string
	Depth int // BFS depth from root (0 = root itself)
}

// TransitiveDependencies returns everything root depends on, directly or
// indirectly, up to maxDepth. maxDepth of 0 returns only the root node.
// Negative maxDepth errors; depth is capped at 100. A path the graph has
// never seen yields a root-only subgraph, indistinguishable from a file
// with no edges.
func (q *Query) TransitiveDependencies(root string, maxDepth int) (*Subgraph, error) {
	return q.traverse(root, maxDepth, func(path string) []model.Relationship {
		return q.byFrom[path]
	}, func(rel model.Relationship) string {
		return rel.ToFile
	})
}

// TransitiveDependents returns everything that depends on root, directly
// or indirectly, up to maxDepth. Same depth rules as
// TransitiveDependencies.
func (q *Query) TransitiveDependents(root string, maxDepth int) (*Subgraph, error) {
	return q.traverse(root, maxDepth, func(path string) []model.Relationship {
		return q.byTo[path]
	}, func(rel model.Relationship) string {
		return rel.FromFile
	})
}

// traverse walks the adjacency maps with BFS and collects the visited
// neighborhood. The adjacency maps are built once at NewQuery, so the walk
// touches no shared state.
func (q *Query) traverse(root string, maxDepth int, edgesOf func(string) []model.Relationship, farEnd func(model.Relationship) string) (*Subgraph, error) {
	if maxDepth < 0 {
		return nil, fmt.Errorf("traverse %s: maxDepth must be non-negative, got %d", root, maxDepth)
	}
	if maxDepth > 100 {
		maxDepth = 100
	}

	result := &Subgraph{
		Root:  root,
		Nodes: []SubgraphNode{{Path: root, Depth: 0}},
		Edges: []model.Relationship{},
	}
	if maxDepth == 0 {
		return result, nil
	}

	visited := map[string]int{root: 0}
	type bfsEntry struct {
		path  string
		depth int
	}
	queue := []bfsEntry{{path: root, depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= maxDepth {
			continue
		}

		for _, rel := range edgesOf(current.path) {
			next := farEnd(rel)
			if _, seen := visited[next]; seen {
				continue
			}
			depth := current.depth + 1
			visited[next] = depth
			if depth > result.Depth {
				result.Depth = depth
			}
			result.Nodes = append(result.Nodes, SubgraphNode{Path: next, Depth: depth})
			queue = append(queue, bfsEntry{path: next, depth: depth})
		}
	}

	// One pass over the full edge list keeps subgraph edges in insertion
	// order and picks up edges between visited nodes that BFS never
	// walked, such as back edges in a cycle.
	if q.graph != nil {
		for _, rel := range q.graph.Edges {
			_, fromVisited := visited[rel.FromFile]
			_, toVisited := visited[rel.ToFile]
			if fromVisited && toVisited {
				result.Edges = append(result.Edges, rel)
			}
		}
	}
	return result, nil
}

// Hotspot is a heavily-depended-on file with its fan-in and fan-out
// edge counts.
type Hotspot struct {
	Path         string
	Dependents   int // inbound edges
	Dependencies int // outbound edges
}

// Hotspots returns the topN files with the most inbound edges, ties broken
// by path. Files nothing depends on are excluded. topN of 0 returns an
// empty list; negative errors.
func (q *Query) Hotspots(topN int) ([]Hotspot, error) {
	if topN < 0 {
		return nil, fmt.Errorf("hotspots: topN must be non-negative, got %d", topN)
	}
	if topN == 0 {
		return []Hotspot{}, nil
	}

	items := make([]Hotspot, 0, len(q.byTo))
	for path, inbound := range q.byTo {
		items = append(items, Hotspot{
			Path:         path,
			Dependents:   len(inbound),
			Dependencies: len(q.byFrom[path]),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Dependents != items[j].Dependents {
			return items[i].Dependents > items[j].Dependents
		}
		return items[i].Path < items[j].Path
	})
	if len(items) > topN {
		items = items[:topN]
	}
	return items, nil
}

// Orphans returns the paths that appear in no edge at all, preserving the
// input order. Callers pass the full indexed path list; the graph alone
// cannot name files it never saw.
func (q *Query) Orphans(paths []string) []string {
	orphans := []string{}
	for _, path := range paths {
		if len(q.byFrom[path]) == 0 && len(q.byTo[path]) == 0 {
			orphans = append(orphans, path)
		}
	}
	return orphans
}
