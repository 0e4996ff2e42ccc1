package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	for _, l := range AllLanguages() {
		got, ok := ParseLanguage(string(l))
		require.True(t, ok, "tag %s must round-trip", l)
		assert.Equal(t, l, got)
	}

	got, ok := ParseLanguage("TypeScript")
	require.True(t, ok)
	assert.Equal(t, LangTypeScript, got)

	got, ok = ParseLanguage("c++")
	require.True(t, ok)
	assert.Equal(t, LangCPP, got)

	_, ok = ParseLanguage("cobol")
	assert.False(t, ok)
}

func TestFileRecord_Name(t *testing.T) {
	rec := FileRecord{Path: "src/a/b.ts"}
	assert.Equal(t, "b.ts", rec.Name())
	assert.False(t, rec.HasContent())

	rec.Content = "import x"
	assert.True(t, rec.HasContent())
}

func TestRelationshipGraph_AppendAndNodes(t *testing.T) {
	var g RelationshipGraph
	g.Append(
		Relationship{FromFile: "a.ts", ToFile: "b.ts", Kind: KindImport},
		Relationship{FromFile: "b.ts", ToFile: "a.ts", Kind: KindImport},
		Relationship{FromFile: "a.ts", ToFile: "b.ts", Kind: KindImport},
	)

	// Purely additive: duplicates are kept, cycles are representable.
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"a.ts", "b.ts"}, g.Nodes())
}

func TestRelationship_JSONShape(t *testing.T) {
	rel := Relationship{
		FromFile:   "src/index.ts",
		ToFile:     "src/utils.ts",
		Kind:       KindImport,
		LineNumber: 1,
		Identifier: "./utils",
	}
	raw, err := json.Marshal(rel)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"fromFile": "src/index.ts",
		"toFile": "src/utils.ts",
		"kind": "import",
		"lineNumber": 1,
		"identifier": "./utils"
	}`, string(raw))

	// Optional fields drop out when unset.
	raw, err = json.Marshal(Relationship{FromFile: "a", ToFile: "b", Kind: KindExport})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fromFile": "a", "toFile": "b", "kind": "export"}`, string(raw))
}
