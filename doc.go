// Package orrery resolves cross-language file dependencies for repository
// visualization. Given a scanned file tree with raw text content, it
// extracts inter-file reference statements for nine language syntaxes —
// JavaScript, TypeScript, Python, Java, Go, C, C++, Rust, and Swift — and
// resolves each raw reference to a concrete file within the same snapshot,
// producing a relationship graph for a rendering layer to draw.
//
// # Pipeline
//
// Analysis runs in two phases over one immutable snapshot:
//
//  1. Index: the scanned tree is flattened into a FileIndex — a path-keyed
//     map plus name and suffix secondary indexes. The index is fully built
//     before any extraction starts and is read-only thereafter.
//
//  2. Analyze: every content-bearing file is dispatched to its language's
//     extractor, each raw reference is resolved through a layered fallback
//     ladder (relative arithmetic, exact lookup, extension augmentation,
//     root stripping, fuzzy suffix, filename-only), and each successful
//     resolution appends one edge to the graph. Unresolvable references —
//     external packages, stdlib modules — produce no edge and no error.
//
// The engine is total: malformed or adversarial source text yields fewer
// edges, never a failure. Swift is the exception to statement parsing —
// it has no file-level imports, so dependencies are detected in reverse by
// matching top-level type declarations against other files' text.
//
// # Usage
//
// Create an Engine, index a scanned tree, analyze, and query:
//
//	e, err := orrery.New(orrery.WithLanguages("ts", "python"))
//	if err != nil { ... }
//
//	idx := orrery.BuildIndex(tree)
//	graph, err := e.Analyze(ctx, idx)
//
//	q := orrery.NewQuery(graph)
//	deps := q.Dependencies("src/index.ts")
//
// # Query API
//
// The [Query] returned by [NewQuery] provides read-side filtering:
//
//   - [Query.Dependencies] — edges leaving a file.
//   - [Query.Dependents] — edges arriving at a file.
//   - [Query.Between] — edges between a specific pair.
//   - [Query.ByKind] — edges of one relationship kind.
//   - [Query.Deduped] — one edge per (from, to, kind) for renderers.
//
// # Concurrency
//
// Per-file analysis is embarrassingly parallel: workers share only the
// immutable index and a concurrency-safe resolution memo. Files are
// dispatched in sorted path order so runs are repeatable; cancellation
// stops dispatch and returns the edges accumulated so far, which are
// always valid. Use [WithParallel] and [WithWorkers] to control the pool.
package orrery
