package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgrange/orrery/internal/model"
)

func pyRefs(t *testing.T, content string) []model.RawReference {
	t.Helper()
	spec, ok := ForLanguage(model.LangPython)
	require.True(t, ok)
	return spec.Extract(content, "app/main.py")
}

func TestExtractPython_MultipleModulesOneLine(t *testing.T) {
	refs := pyRefs(t, "import os, sys as s, json\n")
	require.Len(t, refs, 3)
	assert.Equal(t, "os", refs[0].Text)
	assert.Equal(t, "sys", refs[1].Text)
	assert.Equal(t, "json", refs[2].Text)
	for _, r := range refs {
		assert.Equal(t, 1, r.LineNumber)
		assert.Equal(t, model.KindImport, r.Kind)
		assert.Equal(t, "app/main.py", r.SourceFile)
	}
}

func TestExtractPython_FromImport(t *testing.T) {
	refs := pyRefs(t, "from pkg.mod import Thing, other\n")
	require.Len(t, refs, 1)
	assert.Equal(t, "pkg.mod", refs[0].Text)
}

func TestExtractPython_RelativeDots(t *testing.T) {
	content := `from . import sibling
from .. import uncle
from ..shared import util
from .local import x
`
	refs := pyRefs(t, content)
	require.Len(t, refs, 4)
	assert.Equal(t, ".", refs[0].Text)
	assert.Equal(t, "..", refs[1].Text)
	assert.Equal(t, "..shared", refs[2].Text)
	assert.Equal(t, ".local", refs[3].Text)
}

func TestExtractPython_TrailingComment(t *testing.T) {
	refs := pyRefs(t, "import os  # platform glue\n")
	require.Len(t, refs, 1)
	assert.Equal(t, "os", refs[0].Text)
}

func TestExtractPython_IndentedImport(t *testing.T) {
	content := `def lazy():
    import heavy.engine
`
	refs := pyRefs(t, content)
	require.Len(t, refs, 1)
	assert.Equal(t, "heavy.engine", refs[0].Text)
	assert.Equal(t, 2, refs[0].LineNumber)
}

func TestExtractPython_IgnoresNonImportLines(t *testing.T) {
	content := `"""Tool for import management."""
x = "not an import"
importantly = 1
`
	refs := pyRefs(t, content)
	// None of these lines start an import statement; "importantly" has no
	// whitespace after the keyword prefix.
	assert.Empty(t, refs)
}

func TestExtractPython_MalformedItemsSkipped(t *testing.T) {
	refs := pyRefs(t, "import os, , 123bad!, sys\n")
	require.Len(t, refs, 2)
	assert.Equal(t, "os", refs[0].Text)
	assert.Equal(t, "sys", refs[1].Text)
}
