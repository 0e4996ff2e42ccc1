// Package layout computes presentation geometry for a relationship graph:
// a deterministic position on a sphere for every indexed file, and a
// PageRank score that viz layers can map to node size. Pure computation,
// no rendering.
package layout

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tgrange/orrery/internal/model"
)

// DefaultRadius is the sphere radius used when the caller passes zero.
const DefaultRadius = 100.0

// PageRank parameters. Standard damping, tolerance tight enough that
// repeated runs agree to well past display precision.
const (
	damping   = 0.85
	tolerance = 1e-6
)

// Node is one positioned file.
type Node struct {
	Path     string
	Language model.Language
	Position r3.Vec
	Rank     float64
}

// goldenAngle spaces successive spiral points by the angle that packs
// points most evenly on the sphere.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// Compute returns one positioned node per record, ordered by path. Position
// depends only on the sorted path order, so the same file set always lays
// out the same way regardless of scan order.
func Compute(records []*model.FileRecord, graph *model.RelationshipGraph, radius float64) []Node {
	if radius <= 0 {
		radius = DefaultRadius
	}

	recs := make([]*model.FileRecord, len(records))
	copy(recs, records)
	sort.Slice(recs, func(i, j int) bool { return recs[i].Path < recs[j].Path })

	ranks := Ranks(recs, graph)

	nodes := make([]Node, 0, len(recs))
	for i, rec := range recs {
		nodes = append(nodes, Node{
			Path:     rec.Path,
			Language: rec.Language,
			Position: r3.Scale(radius, spherePoint(i, len(recs))),
			Rank:     ranks[rec.Path],
		})
	}
	return nodes
}

// Ranks computes PageRank over the relationship graph. Every record
// participates as a node, so files without edges receive the uniform
// baseline rather than being dropped.
func Ranks(records []*model.FileRecord, graph *model.RelationshipGraph) map[string]float64 {
	if len(records) == 0 {
		return map[string]float64{}
	}

	paths := make([]string, 0, len(records))
	for _, rec := range records {
		paths = append(paths, rec.Path)
	}
	sort.Strings(paths)

	ids := make(map[string]int64, len(paths))
	g := simple.NewDirectedGraph()
	for i, p := range paths {
		if _, ok := ids[p]; ok {
			continue
		}
		ids[p] = int64(i)
		g.AddNode(simple.Node(int64(i)))
	}

	if graph != nil {
		for _, rel := range graph.Edges {
			from, okFrom := ids[rel.FromFile]
			to, okTo := ids[rel.ToFile]
			// Self edges carry no centrality information and the
			// simple graph rejects them.
			if !okFrom || !okTo || from == to {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}

	scores := network.PageRank(g, damping, tolerance)

	ranks := make(map[string]float64, len(ids))
	for p, id := range ids {
		ranks[p] = scores[id]
	}
	return ranks
}

// spherePoint returns the i-th of n points along a golden-angle spiral on
// the unit sphere.
func spherePoint(i, n int) r3.Vec {
	y := 1 - 2*(float64(i)+0.5)/float64(n)
	r := math.Sqrt(1 - y*y)
	theta := goldenAngle * float64(i)
	return r3.Vec{
		X: math.Cos(theta) * r,
		Y: y,
		Z: math.Sin(theta) * r,
	}
}
