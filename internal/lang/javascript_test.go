package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgrange/orrery/internal/model"
)

func tsRefs(t *testing.T, content string) []model.RawReference {
	t.Helper()
	spec, ok := ForLanguage(model.LangTypeScript)
	require.True(t, ok)
	require.NotNil(t, spec.Extract)
	return spec.Extract(content, "src/index.ts")
}

func TestExtractJavaScript_ImportFrom(t *testing.T) {
	refs := tsRefs(t, "import { helper } from './utils'\n")
	require.Len(t, refs, 1)
	assert.Equal(t, "./utils", refs[0].Text)
	assert.Equal(t, 1, refs[0].LineNumber)
	assert.Equal(t, model.KindImport, refs[0].Kind)
	assert.Equal(t, "src/index.ts", refs[0].SourceFile)
}

func TestExtractJavaScript_AllImportForms(t *testing.T) {
	content := `import React from 'react';
import './side-effect';
const lib = require("../lib/math");
const lazy = await import('./lazy');
`
	refs := tsRefs(t, content)
	require.Len(t, refs, 4)
	assert.Equal(t, "react", refs[0].Text)
	assert.Equal(t, "./side-effect", refs[1].Text)
	assert.Equal(t, "../lib/math", refs[2].Text)
	assert.Equal(t, "./lazy", refs[3].Text)
	for i, r := range refs {
		assert.Equal(t, i+1, r.LineNumber)
		assert.Equal(t, model.KindImport, r.Kind)
	}
}

func TestExtractJavaScript_ExportFrom(t *testing.T) {
	content := `export { helper } from './utils';
export * from "./api";
export const local = 1;
`
	refs := tsRefs(t, content)
	require.Len(t, refs, 2)
	assert.Equal(t, "./utils", refs[0].Text)
	assert.Equal(t, model.KindExport, refs[0].Kind)
	assert.Equal(t, "./api", refs[1].Text)
	assert.Equal(t, model.KindExport, refs[1].Kind)
}

func TestExtractJavaScript_MultipleOnOneLine(t *testing.T) {
	refs := tsRefs(t, `const a = require('./a'), b = require('./b');`)
	require.Len(t, refs, 2)
	assert.Equal(t, "./a", refs[0].Text)
	assert.Equal(t, "./b", refs[1].Text)
	assert.Equal(t, 1, refs[0].LineNumber)
	assert.Equal(t, 1, refs[1].LineNumber)
}

func TestExtractJavaScript_TypeOnlyImport(t *testing.T) {
	refs := tsRefs(t, `import type { Config } from './config';`)
	require.Len(t, refs, 1)
	assert.Equal(t, "./config", refs[0].Text)
}

func TestExtractJavaScript_NoReferences(t *testing.T) {
	content := `function main() {
	console.log("importable");
}
`
	assert.Empty(t, tsRefs(t, content))
}

func TestExtractJavaScript_MalformedInput(t *testing.T) {
	// Extraction never fails; garbage just yields nothing.
	assert.Empty(t, tsRefs(t, "import from from import '"))
	assert.Empty(t, tsRefs(t, ""))
}

func TestExtractJavaScript_SharedWithJavaScriptTag(t *testing.T) {
	js, ok := ForLanguage(model.LangJavaScript)
	require.True(t, ok)
	ts, ok := ForLanguage(model.LangTypeScript)
	require.True(t, ok)

	refs := js.Extract("import x from './x'", "a.js")
	require.Len(t, refs, 1)
	assert.Equal(t, ts.ResolveExts, js.ResolveExts)
}
