package orrery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/tgrange/orrery/internal/index"
	"github.com/tgrange/orrery/internal/lang"
	"github.com/tgrange/orrery/internal/model"
	"github.com/tgrange/orrery/internal/resolve"
)

// Engine orchestrates the analysis pipeline: per-file reference extraction,
// path resolution against the immutable file index, and edge accumulation.
// An Engine holds no per-run state and may be reused across snapshots.
type Engine struct {
	languages map[model.Language]bool // nil means all languages
	workers   int                     // 0 means NumCPU
	parallel  bool
	cacheSize int
	log       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages restricts which languages the Engine will analyze. Names
// are parsed leniently ("ts", "TypeScript", "c++"); unrecognized names
// match no files. The restriction applies to the analyzed side only —
// edges may still land on files of excluded languages.
func WithLanguages(names ...string) Option {
	return func(e *Engine) {
		e.languages = make(map[model.Language]bool, len(names))
		for _, name := range names {
			if l, ok := model.ParseLanguage(name); ok {
				e.languages[l] = true
			}
		}
	}
}

// WithParallel controls the parallel analysis pipeline. When true (the
// default), Analyze fans per-file work out to a bounded worker group. Set
// to false for serial mode.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.parallel = parallel
	}
}

// WithWorkers caps the number of concurrent analysis workers. Zero selects
// the number of CPUs.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithResolverCacheSize bounds the per-run resolution memo. Zero selects
// the default.
func WithResolverCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// WithLogger attaches a structured logger. The Engine logs pipeline timing
// and counts at debug level; by default logs are discarded.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		parallel: true,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 0 {
		return nil, fmt.Errorf("orrery: workers must be >= 0, got %d", e.workers)
	}
	if e.cacheSize < 0 {
		return nil, fmt.Errorf("orrery: resolver cache size must be >= 0, got %d", e.cacheSize)
	}
	return e, nil
}

// BuildIndex constructs the lookup index for one repository snapshot. The
// index must be fully built before analysis begins; it is read-only from
// then on.
func BuildIndex(root *model.TreeNode) *index.FileIndex {
	return index.Build(root)
}

// IndexRecords constructs an index directly from flat file records, in the
// given order.
func IndexRecords(records ...*model.FileRecord) *index.FileIndex {
	return index.FromRecords(records...)
}

// Analyze extracts and resolves cross-file references for every
// content-bearing file in idx and returns the accumulated relationship
// graph. The graph is rebuilt from scratch on every call — analysis is
// never incremental.
//
// Files are dispatched in sorted path order, so repeated runs over the same
// index yield the same edge sequence (up to the documented fuzzy-match
// tie-break). On cancellation Analyze stops submitting files and returns
// the relationships accumulated so far together with ctx.Err(); partial
// results are valid, since every emitted edge is independently complete.
func (e *Engine) Analyze(ctx context.Context, idx *index.FileIndex) (*model.RelationshipGraph, error) {
	files := analyzableFiles(idx, e.languages)

	var decls *lang.SwiftDeclIndex
	if hasSwift(files) {
		decls = lang.BuildSwiftDeclIndex(idx.Records())
	}

	e.log.Debug("analyze.start", "files", len(files), "indexed", idx.Len())

	if e.parallel && len(files) > 1 {
		return e.analyzeParallel(ctx, idx, files, decls)
	}
	return e.analyzeSerial(ctx, idx, files, decls)
}

// AnalyzeTree builds the index from a scanned tree and analyzes it in one
// call.
func (e *Engine) AnalyzeTree(ctx context.Context, root *model.TreeNode) (*model.RelationshipGraph, error) {
	return e.Analyze(ctx, index.Build(root))
}

func (e *Engine) analyzeSerial(ctx context.Context, idx *index.FileIndex, files []*model.FileRecord, decls *lang.SwiftDeclIndex) (*model.RelationshipGraph, error) {
	r := resolve.New(idx, e.cacheSize)
	graph := &model.RelationshipGraph{}
	for _, rec := range files {
		if err := ctx.Err(); err != nil {
			e.log.Debug("analyze.cancelled", "edges", graph.Len())
			return graph, err
		}
		graph.Append(analyzeFile(rec, idx, r, decls)...)
	}
	e.log.Debug("analyze.done", "edges", graph.Len())
	return graph, nil
}

// analyzeFile produces the edges originating from one file. It reads only
// rec's content plus the shared immutable index and resolver, so callers
// may invoke it concurrently for distinct files.
func analyzeFile(rec *model.FileRecord, idx *index.FileIndex, r *resolve.Resolver, decls *lang.SwiftDeclIndex) []model.Relationship {
	spec, ok := lang.ForLanguage(rec.Language)
	if !ok {
		return nil
	}

	if spec.CrossFile {
		if decls == nil {
			return nil
		}
		var rels []model.Relationship
		for _, u := range decls.UsagesIn(rec) {
			rels = append(rels, model.Relationship{
				FromFile:   rec.Path,
				ToFile:     u.DeclFile,
				Kind:       model.KindVariableRef,
				LineNumber: u.Line,
				Identifier: u.Name,
			})
		}
		return rels
	}

	var rels []model.Relationship
	for _, ref := range spec.Extract(rec.Content, rec.Path) {
		target, found := r.Resolve(rec, ref)
		if !found {
			continue
		}
		kind := ref.Kind
		if kind == "" {
			kind = model.KindImport
		}
		rels = append(rels, model.Relationship{
			FromFile:   rec.Path,
			ToFile:     target,
			Kind:       kind,
			LineNumber: ref.LineNumber,
			Identifier: ref.Text,
		})
	}
	return rels
}

// analyzableFiles selects the records that produce outgoing edges: content
// present, supported language, and not excluded by the language filter.
// The result is sorted by path for per-run determinism.
func analyzableFiles(idx *index.FileIndex, languages map[model.Language]bool) []*model.FileRecord {
	var files []*model.FileRecord
	for _, rec := range idx.Records() {
		if !rec.HasContent() {
			continue
		}
		if languages != nil && !languages[rec.Language] {
			continue
		}
		if _, ok := lang.ForLanguage(rec.Language); !ok {
			continue
		}
		files = append(files, rec)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

func hasSwift(files []*model.FileRecord) bool {
	for _, rec := range files {
		if rec.Language == model.LangSwift {
			return true
		}
	}
	return false
}
