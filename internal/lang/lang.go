// Package lang holds the per-language reference extractors and the
// resolution strategy table. Each language family registers a Spec in its
// own file's init; dispatch is by the file's assigned language tag, never
// by re-sniffing content.
//
// Extractors are total: malformed or empty input yields an empty sequence,
// never an error. No comment stripping is performed — a reference-shaped
// string inside a comment matches like any other (a documented heuristic
// limitation of line-based extraction).
package lang

import (
	"sort"
	"sync"

	"github.com/tgrange/orrery/internal/model"
)

// ExtractFunc scans one file's source text and returns raw references in
// document order (line ascending, pattern order within a line).
type ExtractFunc func(content, sourceFile string) []model.RawReference

// Spec is one language family's entry in the dispatch table: its extractor
// plus the knobs the resolver's fallback ladder consults.
type Spec struct {
	Lang model.Language

	// FileExtensions are the filename extensions the scanner maps to this
	// language (lowercase, with leading dot).
	FileExtensions []string

	// Extract is the line-based extractor. Nil when CrossFile is set.
	Extract ExtractFunc

	// CrossFile marks languages resolved by reverse type-usage detection
	// instead of extracted reference statements (Swift).
	CrossFile bool

	// Relative enables ./ and ../ prefix arithmetic against the
	// referencing file's directory.
	Relative bool

	// DotRelative enables leading-dot parent traversal (Python) and
	// dotted-module-to-path conversion.
	DotRelative bool

	// ResolveExts is the extension/index-file list tried during
	// extension-augmented lookup, in order.
	ResolveExts []string

	// RootStrip enables retrying dotted module paths with the first
	// segment dropped (Python absolute imports).
	RootStrip bool

	// SimpleName derives the bare module/class name for the filename-only
	// fallback. Nil disables that step.
	SimpleName func(text string) string

	// FilenameExt is appended to the simple name for the filename-only
	// lookup (".java", ".go", ".rs").
	FilenameExt string

	// DirFallback additionally tries directory containment by the simple
	// name when the filename lookup misses (Go packages).
	DirFallback bool
}

var table = map[model.Language]*Spec{}

func register(s *Spec) {
	table[s.Lang] = s
}

// ForLanguage returns the Spec registered for the given tag.
func ForLanguage(l model.Language) (*Spec, bool) {
	s, ok := table[l]
	return s, ok
}

// All returns every registered Spec ordered by language tag.
func All() []*Spec {
	specs := make([]*Spec, 0, len(table))
	for _, s := range table {
		specs = append(specs, s)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Lang < specs[j].Lang })
	return specs
}

var (
	extensionMap  map[string]model.Language
	extensionOnce sync.Once
)

// ForExtension returns the language tag for a filename extension
// (lowercase, with leading dot). Returns ("", false) for extensions
// outside the supported set.
func ForExtension(ext string) (model.Language, bool) {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]model.Language)
		for _, s := range table {
			for _, e := range s.FileExtensions {
				extensionMap[e] = s.Lang
			}
		}
	})
	l, ok := extensionMap[ext]
	return l, ok
}

// lineStarts precomputes byte offsets of line beginnings so extractors can
// map a match offset to a 1-based line number.
func lineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineAt returns the 1-based line number containing byte offset off.
func lineAt(starts []int, off int) int {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}
