// Package export renders a relationship graph to the formats the CLI
// offers: JSON, JSONL, Graphviz DOT, and the scene document the
// visualization layer consumes.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/tgrange/orrery/internal/layout"
	"github.com/tgrange/orrery/internal/model"
)

// JSONLWriter writes one JSON document per line.
type JSONLWriter struct {
	encoder *json.Encoder
}

func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{encoder: json.NewEncoder(w)}
}

func (w *JSONLWriter) Write(v any) error { return w.encoder.Encode(v) }

type jsonDoc struct {
	Count         int                  `json:"count"`
	Relationships []model.Relationship `json:"relationships"`
}

// JSON writes the whole graph as a single indented document.
func JSON(w io.Writer, g *model.RelationshipGraph) error {
	doc := jsonDoc{Relationships: []model.Relationship{}}
	if g != nil {
		doc.Count = g.Len()
		if g.Edges != nil {
			doc.Relationships = g.Edges
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}

// JSONL writes one edge per line and returns how many it wrote.
func JSONL(w io.Writer, g *model.RelationshipGraph) (int, error) {
	writer := NewJSONLWriter(w)
	count := 0
	if g == nil {
		return 0, nil
	}
	for _, rel := range g.Edges {
		if err := writer.Write(rel); err != nil {
			return count, fmt.Errorf("export jsonl: %w", err)
		}
		count++
	}
	return count, nil
}

// DOT writes the graph in Graphviz format. The DOT view collapses parallel
// edges between the same pair of files, and files without edges do not
// appear.
func DOT(w io.Writer, g *model.RelationshipGraph) error {
	dg := graph.New(graph.StringHash, graph.Directed())
	if g != nil {
		for _, rel := range g.Edges {
			if err := addVertex(dg, rel.FromFile); err != nil {
				return err
			}
			if err := addVertex(dg, rel.ToFile); err != nil {
				return err
			}
			err := dg.AddEdge(rel.FromFile, rel.ToFile, graph.EdgeAttribute("label", string(rel.Kind)))
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return fmt.Errorf("export dot: edge %s -> %s: %w", rel.FromFile, rel.ToFile, err)
			}
		}
	}
	if err := draw.DOT(dg, w); err != nil {
		return fmt.Errorf("export dot: %w", err)
	}
	return nil
}

func addVertex(dg graph.Graph[string, string], path string) error {
	err := dg.AddVertex(path)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("export dot: vertex %s: %w", path, err)
	}
	return nil
}

type sceneNode struct {
	Path     string  `json:"path"`
	Language string  `json:"language"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Rank     float64 `json:"rank"`
}

type sceneEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

type sceneDoc struct {
	Nodes []sceneNode `json:"nodes"`
	Edges []sceneEdge `json:"edges"`
}

// Scene writes the positioned-node document: every indexed file with its
// sphere coordinates and rank, plus every edge. Parallel edges are kept.
func Scene(w io.Writer, nodes []layout.Node, g *model.RelationshipGraph) error {
	doc := sceneDoc{Nodes: []sceneNode{}, Edges: []sceneEdge{}}
	for _, n := range nodes {
		doc.Nodes = append(doc.Nodes, sceneNode{
			Path:     n.Path,
			Language: string(n.Language),
			X:        n.Position.X,
			Y:        n.Position.Y,
			Z:        n.Position.Z,
			Rank:     n.Rank,
		})
	}
	if g != nil {
		for _, rel := range g.Edges {
			doc.Edges = append(doc.Edges, sceneEdge{
				From: rel.FromFile,
				To:   rel.ToFile,
				Kind: string(rel.Kind),
			})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("export scene: %w", err)
	}
	return nil
}
