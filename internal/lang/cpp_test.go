package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgrange/orrery/internal/model"
)

func TestExtractInclude_BothForms(t *testing.T) {
	spec, ok := ForLanguage(model.LangC)
	require.True(t, ok)

	content := `#include "parser.h"
#include <stdio.h>
# include "util/strings.h"
int main(void) { return 0; }
`
	refs := spec.Extract(content, "src/main.c")
	require.Len(t, refs, 3)
	assert.Equal(t, "parser.h", refs[0].Text)
	assert.Equal(t, "stdio.h", refs[1].Text)
	assert.Equal(t, "util/strings.h", refs[2].Text)
	for _, r := range refs {
		assert.Equal(t, model.KindImport, r.Kind)
	}
}

func TestExtractInclude_SharedByCAndCPP(t *testing.T) {
	c, ok := ForLanguage(model.LangC)
	require.True(t, ok)
	cpp, ok := ForLanguage(model.LangCPP)
	require.True(t, ok)

	content := `#include <vector>` + "\n"
	cRefs := c.Extract(content, "a.c")
	cppRefs := cpp.Extract(content, "a.cpp")
	require.Len(t, cRefs, 1)
	require.Len(t, cppRefs, 1)
	assert.Equal(t, cRefs[0].Text, cppRefs[0].Text)
}

func TestExtractInclude_IgnoresOtherDirectives(t *testing.T) {
	spec, _ := ForLanguage(model.LangCPP)
	content := `#define INCLUDE "nope.h"
#pragma once
// #include commentary without a target
`
	refs := spec.Extract(content, "a.hpp")
	assert.Empty(t, refs)
}
