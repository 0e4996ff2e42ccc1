package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgrange/orrery/internal/model"
)

func TestForExtension(t *testing.T) {
	cases := map[string]model.Language{
		".js":    model.LangJavaScript,
		".jsx":   model.LangJavaScript,
		".ts":    model.LangTypeScript,
		".tsx":   model.LangTypeScript,
		".py":    model.LangPython,
		".java":  model.LangJava,
		".go":    model.LangGo,
		".c":     model.LangC,
		".h":     model.LangC,
		".cpp":   model.LangCPP,
		".hpp":   model.LangCPP,
		".rs":    model.LangRust,
		".swift": model.LangSwift,
	}
	for ext, want := range cases {
		got, ok := ForExtension(ext)
		require.True(t, ok, "extension %s", ext)
		assert.Equal(t, want, got, "extension %s", ext)
	}

	_, ok := ForExtension(".md")
	assert.False(t, ok)
}

func TestAll_CoversEveryLanguage(t *testing.T) {
	specs := All()
	require.Len(t, specs, len(model.AllLanguages()))

	seen := make(map[model.Language]bool)
	for i, s := range specs {
		seen[s.Lang] = true
		if i > 0 {
			assert.Less(t, string(specs[i-1].Lang), string(s.Lang), "specs must be ordered by tag")
		}
		if s.CrossFile {
			assert.Nil(t, s.Extract)
		} else {
			assert.NotNil(t, s.Extract)
		}
	}
	for _, l := range model.AllLanguages() {
		assert.True(t, seen[l], "missing spec for %s", l)
	}
}

func TestLineAt(t *testing.T) {
	content := "one\ntwo\nthree"
	starts := lineStarts(content)
	assert.Equal(t, 1, lineAt(starts, 0))
	assert.Equal(t, 1, lineAt(starts, 3))
	assert.Equal(t, 2, lineAt(starts, 4))
	assert.Equal(t, 3, lineAt(starts, len(content)-1))
}
