package orrery

import (
	"github.com/tgrange/orrery/internal/index"
	"github.com/tgrange/orrery/internal/model"
)

// Public type aliases for internal types used in the Engine API. These are
// Go type aliases (=) — identical to the internal types at compile time.
// External consumers use these names; no conversion is needed.

type Language = model.Language
type Kind = model.Kind
type FileRecord = model.FileRecord
type RawReference = model.RawReference
type Relationship = model.Relationship
type RelationshipGraph = model.RelationshipGraph
type TreeNode = model.TreeNode
type FileIndex = index.FileIndex

// Language tags.
const (
	JavaScript = model.LangJavaScript
	TypeScript = model.LangTypeScript
	Python     = model.LangPython
	Java       = model.LangJava
	Go         = model.LangGo
	C          = model.LangC
	CPP        = model.LangCPP
	Rust       = model.LangRust
	Swift      = model.LangSwift
)

// Relationship kinds.
const (
	Import       = model.KindImport
	Export       = model.KindExport
	FunctionCall = model.KindFunctionCall
	VariableRef  = model.KindVariableRef
)

// Languages lists every supported language tag.
func Languages() []Language {
	return model.AllLanguages()
}

// ParseLanguage maps a user-facing language name to its canonical tag.
func ParseLanguage(name string) (Language, bool) {
	return model.ParseLanguage(name)
}
