// Package resolve maps raw references to concrete files in a FileIndex.
// Every language family shares one fallback ladder; per-language behavior
// comes entirely from the knobs on its lang.Spec. A reference that no step
// can place — an external package, a stdlib module — resolves to nothing,
// which is the expected outcome, not an error.
package resolve

import (
	"path"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tgrange/orrery/internal/index"
	"github.com/tgrange/orrery/internal/lang"
	"github.com/tgrange/orrery/internal/model"
)

// DefaultCacheSize bounds the resolution memo when the caller does not
// choose a size.
const DefaultCacheSize = 4096

// Resolver resolves raw reference strings against one immutable FileIndex.
// Results are memoized per (language, source directory, reference text),
// since those three fully determine the outcome. Safe for concurrent use.
type Resolver struct {
	idx   *index.FileIndex
	cache *lru.Cache[cacheKey, cacheValue]
}

type cacheKey struct {
	lang      model.Language
	sourceDir string
	text      string
}

type cacheValue struct {
	path string
	ok   bool
}

// New builds a Resolver over idx. cacheSize <= 0 selects DefaultCacheSize.
func New(idx *index.FileIndex, cacheSize int) *Resolver {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[cacheKey, cacheValue](cacheSize)
	return &Resolver{idx: idx, cache: cache}
}

// Resolve maps one raw reference from source to the path of an index
// entry. The returned path is always a primary index key, never an alias.
func (r *Resolver) Resolve(source *model.FileRecord, ref model.RawReference) (string, bool) {
	spec, ok := lang.ForLanguage(source.Language)
	if !ok || spec.CrossFile {
		return "", false
	}
	key := cacheKey{lang: source.Language, sourceDir: path.Dir(source.Path), text: ref.Text}
	if v, hit := r.cache.Get(key); hit {
		return v.path, v.ok
	}
	p, found := r.resolve(spec, source.Path, ref.Text)
	r.cache.Add(key, cacheValue{path: p, ok: found})
	return p, found
}

// resolve applies the fallback ladder until a step succeeds:
// relativization, exact lookup, extension-augmented lookup, root-stripped
// retry, fuzzy suffix scan, filename-only lookup.
func (r *Resolver) resolve(spec *lang.Spec, sourcePath, text string) (string, bool) {
	if text == "" {
		return "", false
	}

	candidate := text
	relative := false
	switch {
	case spec.Relative && (strings.HasPrefix(text, "./") || strings.HasPrefix(text, "../")):
		candidate = path.Join(path.Dir(sourcePath), text)
		relative = true
	case spec.DotRelative && strings.HasPrefix(text, "."):
		candidate = dottedRelative(sourcePath, text)
		relative = true
	case spec.DotRelative:
		candidate = strings.ReplaceAll(text, ".", "/")
	}

	if p, ok := r.lookupWithExts(candidate, spec.ResolveExts); ok {
		return p, true
	}

	// Absolute dotted modules often lead with the project's own package
	// name, which is not a path prefix in the index. Retry without it.
	if spec.RootStrip && !relative {
		if i := strings.IndexByte(candidate, '/'); i >= 0 {
			if p, ok := r.lookupWithExts(candidate[i+1:], spec.ResolveExts); ok {
				return p, true
			}
		}
	}

	if rec, ok := r.idx.BySuffix(candidate, spec.ResolveExts...); ok {
		return rec.Path, true
	}

	if spec.SimpleName != nil {
		name := spec.SimpleName(text)
		if rec, ok := r.idx.FirstByName(name + spec.FilenameExt); ok {
			return rec.Path, true
		}
		if spec.DirFallback {
			if rec, ok := r.idx.InDirectory(name); ok {
				return rec.Path, true
			}
		}
	}

	return "", false
}

// lookupWithExts tries the candidate exactly, then once per extension.
// Entries starting with "/" denote package index files and are joined as a
// path component instead of appended.
func (r *Resolver) lookupWithExts(candidate string, exts []string) (string, bool) {
	if rec, ok := r.idx.ByPath(candidate); ok {
		return rec.Path, true
	}
	for _, ext := range exts {
		aug := candidate + ext
		if strings.HasPrefix(ext, "/") {
			aug = path.Join(candidate, ext[1:])
		}
		if rec, ok := r.idx.ByPath(aug); ok {
			return rec.Path, true
		}
	}
	return "", false
}

// dottedRelative converts a leading-dot module reference into a candidate
// path. One dot anchors at the referencing file's directory; each further
// dot pops one parent. The remainder's dots become path separators.
func dottedRelative(sourcePath, text string) string {
	dots := 0
	for dots < len(text) && text[dots] == '.' {
		dots++
	}
	base := path.Dir(sourcePath)
	for i := 1; i < dots; i++ {
		base = path.Dir(base)
	}
	rest := strings.ReplaceAll(text[dots:], ".", "/")
	if rest == "" {
		return base
	}
	return path.Join(base, rest)
}
