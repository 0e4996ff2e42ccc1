package lang

import (
	"regexp"

	"github.com/tgrange/orrery/internal/model"
)

// Swift gets no import parsing: "import UIKit" names a module, not a file,
// so there is nothing to resolve against the index. Dependencies are
// detected in reverse instead. Every top-level type declaration across the
// snapshot is collected once, then each file is checked for whole-word
// uses of those names. A file that mentions Widget depends on the file
// that declares Widget.
func init() {
	register(&Spec{
		Lang:           model.LangSwift,
		FileExtensions: []string{".swift"},
		CrossFile:      true,
	})
}

// swiftDeclPattern matches top-level class, struct, protocol, enum and
// actor declarations. Anchoring at column zero stands in for "not
// indented": nested types sit inside an indented body and are skipped.
// Attribute lines and access modifiers before the keyword are allowed.
var swiftDeclPattern = regexp.MustCompile(
	`(?m)^(?:@\w+(?:\([^)]*\))?\s+)*` +
		`(?:(?:public|open|internal|fileprivate|private|final|indirect)\s+)*` +
		`(?:class|struct|protocol|enum|actor)\s+([A-Za-z_]\w*)`)

// TypeUsage records that a file's text mentions a type declared in another
// Swift file. The mentioning file is the depending side.
type TypeUsage struct {
	Name     string
	DeclFile string
	Line     int
}

type swiftDecl struct {
	name string
	file string
}

// SwiftDeclIndex holds the top-level type declarations of a snapshot in
// insertion order. It is built once per analysis run so the per-file scan
// walks a flat declaration list instead of re-reading every other file.
type SwiftDeclIndex struct {
	decls []swiftDecl
	words map[string]*regexp.Regexp
}

// BuildSwiftDeclIndex scans records for top-level type declarations.
// Records that are not Swift or carry no content contribute nothing.
func BuildSwiftDeclIndex(records []*model.FileRecord) *SwiftDeclIndex {
	si := &SwiftDeclIndex{words: make(map[string]*regexp.Regexp)}
	for _, rec := range records {
		if rec.Language != model.LangSwift || !rec.HasContent() {
			continue
		}
		for _, m := range swiftDeclPattern.FindAllStringSubmatch(rec.Content, -1) {
			name := m[1]
			si.decls = append(si.decls, swiftDecl{name: name, file: rec.Path})
			if _, ok := si.words[name]; !ok {
				si.words[name] = regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
			}
		}
	}
	return si
}

// Empty reports whether the index holds no declarations.
func (si *SwiftDeclIndex) Empty() bool { return len(si.decls) == 0 }

// UsagesIn returns one TypeUsage per declaration whose name appears as a
// whole word anywhere in rec's content. Declarations from rec itself are
// excluded, so a file never depends on itself through its own types. Line
// is the first occurrence of the name. Safe for concurrent use: the index
// is read-only after construction.
func (si *SwiftDeclIndex) UsagesIn(rec *model.FileRecord) []TypeUsage {
	if rec == nil || !rec.HasContent() {
		return nil
	}
	starts := lineStarts(rec.Content)
	var usages []TypeUsage
	for _, d := range si.decls {
		if d.file == rec.Path {
			continue
		}
		loc := si.words[d.name].FindStringIndex(rec.Content)
		if loc == nil {
			continue
		}
		usages = append(usages, TypeUsage{
			Name:     d.name,
			DeclFile: d.file,
			Line:     lineAt(starts, loc[0]),
		})
	}
	return usages
}
