// Package model defines the core data types shared by the index, the
// per-language extractors, the resolver, and the graph builder.
package model

import (
	"path"
	"strings"
	"time"
)

// Language is the closed set of language tags the engine understands.
// Tags are assigned by the scanner (or the embedding application) — the
// engine never re-sniffs content to guess a language.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangGo         Language = "go"
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangRust       Language = "rust"
	LangSwift      Language = "swift"
)

// AllLanguages lists every supported tag in stable order.
func AllLanguages() []Language {
	return []Language{
		LangJavaScript,
		LangTypeScript,
		LangPython,
		LangJava,
		LangGo,
		LangC,
		LangCPP,
		LangRust,
		LangSwift,
	}
}

// Known reports whether l is one of the supported tags.
func (l Language) Known() bool {
	switch l {
	case LangJavaScript, LangTypeScript, LangPython, LangJava, LangGo,
		LangC, LangCPP, LangRust, LangSwift:
		return true
	}
	return false
}

// languageAliases maps accepted spellings to canonical tags.
var languageAliases = map[string]Language{
	"javascript": LangJavaScript,
	"js":         LangJavaScript,
	"jsx":        LangJavaScript,
	"typescript": LangTypeScript,
	"ts":         LangTypeScript,
	"tsx":        LangTypeScript,
	"python":     LangPython,
	"py":         LangPython,
	"java":       LangJava,
	"go":         LangGo,
	"golang":     LangGo,
	"c":          LangC,
	"cpp":        LangCPP,
	"c++":        LangCPP,
	"cxx":        LangCPP,
	"rust":       LangRust,
	"rs":         LangRust,
	"swift":      LangSwift,
}

// ParseLanguage maps a user-facing language name to its canonical tag,
// ignoring case. Returns ("", false) for names outside the supported set.
func ParseLanguage(name string) (Language, bool) {
	l, ok := languageAliases[strings.ToLower(name)]
	return l, ok
}

// Kind classifies a relationship edge. The set is closed; consumers may
// rely on no other values appearing.
type Kind string

const (
	KindImport       Kind = "import"
	KindExport       Kind = "export"
	KindFunctionCall Kind = "function_call"
	KindVariableRef  Kind = "variable_ref"
)

// FileRecord is one indexed file: its repository path, assigned language,
// and raw text content. Content is empty for binary, oversized, or unread
// files — such records are indexed (they can be edge targets) but are never
// scanned for references. Records are immutable once handed to the index.
type FileRecord struct {
	Path         string
	Language     Language
	Content      string
	RelativePath string
}

// Name returns the record's base filename.
func (r *FileRecord) Name() string {
	return path.Base(r.Path)
}

// HasContent reports whether the record carries scannable text.
func (r *FileRecord) HasContent() bool {
	return r.Content != ""
}

// RawReference is an unresolved textual reference extracted from one file.
// It lives only for the duration of that file's extraction/resolution step.
type RawReference struct {
	Text       string
	LineNumber int
	Kind       Kind
	SourceFile string
}

// Relationship is the engine's sole durable output: a directed, typed edge
// between two files that are both present in the index that produced it.
type Relationship struct {
	FromFile   string `json:"fromFile"`
	ToFile     string `json:"toFile"`
	Kind       Kind   `json:"kind"`
	LineNumber int    `json:"lineNumber,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}

// RelationshipGraph is the insertion-ordered edge list of a directed
// multigraph over index paths. It is purely additive: edges are appended
// and never mutated or removed. Duplicate edges are preserved — merging is
// a consumer policy, not the engine's.
type RelationshipGraph struct {
	Edges []Relationship
}

// Append adds edges to the graph in order.
func (g *RelationshipGraph) Append(rels ...Relationship) {
	g.Edges = append(g.Edges, rels...)
}

// Len returns the number of edges.
func (g *RelationshipGraph) Len() int {
	return len(g.Edges)
}

// Nodes returns the distinct endpoint paths in first-appearance order.
func (g *RelationshipGraph) Nodes() []string {
	seen := make(map[string]bool, len(g.Edges)*2)
	var nodes []string
	for _, e := range g.Edges {
		if !seen[e.FromFile] {
			seen[e.FromFile] = true
			nodes = append(nodes, e.FromFile)
		}
		if !seen[e.ToFile] {
			seen[e.ToFile] = true
			nodes = append(nodes, e.ToFile)
		}
	}
	return nodes
}

// TreeNode is the scanner's output: a file/directory tree where file leaves
// carry the path, language tag, and (when readable) raw text content. Size
// and ModTime are informational; the engine consumes only Path, Language,
// and Content.
type TreeNode struct {
	Name     string
	Path     string
	Dir      bool
	Language Language
	Content  string
	Size     int64
	ModTime  time.Time
	Children []*TreeNode
}
