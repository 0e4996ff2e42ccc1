package orrery

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tgrange/orrery/internal/index"
	"github.com/tgrange/orrery/internal/lang"
	"github.com/tgrange/orrery/internal/model"
	"github.com/tgrange/orrery/internal/resolve"
)

// analyzeParallel runs per-file analysis on a bounded worker group:
//
//	Phase A (serial):   sorted file list and shared resolver prepared.
//	Phase B (parallel): each file's edges land in a position-indexed slot.
//	Phase C (serial):   slots concatenated in dispatch order.
//
// Workers share only the immutable index, the concurrency-safe resolver,
// and the read-only Swift declaration index, so no locking is needed
// beyond the slot-per-file result layout.
func (e *Engine) analyzeParallel(ctx context.Context, idx *index.FileIndex, files []*model.FileRecord, decls *lang.SwiftDeclIndex) (*model.RelationshipGraph, error) {
	numWorkers := e.workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	r := resolve.New(idx, e.cacheSize)
	results := make([][]model.Relationship, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)

	for i, rec := range files {
		i, rec := i, rec
		if gctx.Err() != nil {
			break // cancelled: stop submitting, keep what finished
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			results[i] = analyzeFile(rec, idx, r, decls)
			return nil
		})
	}
	_ = g.Wait() // workers never fail; Wait only fences Phase C

	graph := &model.RelationshipGraph{}
	for _, rels := range results {
		graph.Append(rels...)
	}

	if err := ctx.Err(); err != nil {
		e.log.Debug("analyze.cancelled", "edges", graph.Len())
		return graph, err
	}
	e.log.Debug("analyze.done", "edges", graph.Len(), "workers", numWorkers)
	return graph, nil
}
