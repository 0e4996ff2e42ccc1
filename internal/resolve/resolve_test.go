package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgrange/orrery/internal/index"
	"github.com/tgrange/orrery/internal/model"
)

func testIndex(paths ...string) *index.FileIndex {
	records := make([]*model.FileRecord, len(paths))
	for i, p := range paths {
		records[i] = &model.FileRecord{Path: p}
	}
	return index.FromRecords(records...)
}

func src(p string, l model.Language) *model.FileRecord {
	return &model.FileRecord{Path: p, Language: l}
}

func ref(text string) model.RawReference {
	return model.RawReference{Text: text, Kind: model.KindImport}
}

func TestResolve_RelativePathArithmetic(t *testing.T) {
	r := New(testIndex("src/a/b.ts", "src/c.ts"), 0)

	// ../c from src/a/b.ts walks up to src/, then extension augmentation
	// finds src/c.ts.
	got, ok := r.Resolve(src("src/a/b.ts", model.LangTypeScript), ref("../c"))
	require.True(t, ok)
	assert.Equal(t, "src/c.ts", got)
}

func TestResolve_ExtensionAugmentation(t *testing.T) {
	r := New(testIndex("src/index.ts", "src/utils.ts"), 0)

	got, ok := r.Resolve(src("src/index.ts", model.LangTypeScript), ref("./utils"))
	require.True(t, ok)
	assert.Equal(t, "src/utils.ts", got)
}

func TestResolve_IndexFileAugmentation(t *testing.T) {
	r := New(testIndex("src/app.ts", "src/lib/index.ts"), 0)

	got, ok := r.Resolve(src("src/app.ts", model.LangTypeScript), ref("./lib"))
	require.True(t, ok)
	assert.Equal(t, "src/lib/index.ts", got)
}

func TestResolve_ExternalPackageMisses(t *testing.T) {
	r := New(testIndex("src/index.ts", "src/utils.ts"), 0)

	_, ok := r.Resolve(src("src/index.ts", model.LangTypeScript), ref("react"))
	assert.False(t, ok)
}

func TestResolve_PythonDotCounting(t *testing.T) {
	r := New(testIndex("pkg/mod.py", "pkg/__init__.py", "__init__.py"), 0)
	source := src("pkg/mod.py", model.LangPython)

	// One dot anchors at pkg/, resolving to its package init file.
	got, ok := r.Resolve(source, ref("."))
	require.True(t, ok)
	assert.Equal(t, "pkg/__init__.py", got)

	// Two dots pop to the repository root.
	got, ok = r.Resolve(source, ref(".."))
	require.True(t, ok)
	assert.Equal(t, "__init__.py", got)
}

func TestResolve_PythonDottedSibling(t *testing.T) {
	r := New(testIndex("pkg/mod.py", "pkg/shared/util.py"), 0)

	got, ok := r.Resolve(src("pkg/mod.py", model.LangPython), ref(".shared.util"))
	require.True(t, ok)
	assert.Equal(t, "pkg/shared/util.py", got)
}

func TestResolve_PythonAbsoluteModule(t *testing.T) {
	r := New(testIndex("app/main.py", "pkg/mod.py"), 0)

	got, ok := r.Resolve(src("app/main.py", model.LangPython), ref("pkg.mod"))
	require.True(t, ok)
	assert.Equal(t, "pkg/mod.py", got)
}

func TestResolve_PythonRootStrip(t *testing.T) {
	// The import names the project's own top-level package, which is not a
	// directory in the index.
	r := New(testIndex("utils/helpers.py", "main.py"), 0)

	got, ok := r.Resolve(src("main.py", model.LangPython), ref("myproj.utils.helpers"))
	require.True(t, ok)
	assert.Equal(t, "utils/helpers.py", got)
}

func TestResolve_FuzzySuffixForIncludes(t *testing.T) {
	r := New(testIndex("src/util/strings.h", "src/main.c"), 0)

	got, ok := r.Resolve(src("src/main.c", model.LangC), ref("util/strings.h"))
	require.True(t, ok)
	assert.Equal(t, "src/util/strings.h", got)
}

func TestResolve_FuzzyFirstMatchWins(t *testing.T) {
	// Duplicate basenames: insertion order decides, by policy.
	r := New(testIndex("first/helper.h", "second/helper.h", "main.c"), 0)

	got, ok := r.Resolve(src("main.c", model.LangC), ref("helper.h"))
	require.True(t, ok)
	assert.Equal(t, "first/helper.h", got)
}

func TestResolve_JavaSimpleClassName(t *testing.T) {
	r := New(testIndex("src/main/java/util/Helper.java", "src/App.java"), 0)

	got, ok := r.Resolve(src("src/App.java", model.LangJava), ref("com.example.util.Helper"))
	require.True(t, ok)
	assert.Equal(t, "src/main/java/util/Helper.java", got)
}

func TestResolve_GoFilenameThenDirectory(t *testing.T) {
	r := New(testIndex("internal/engine/engine.go", "internal/resolve/ladder.go", "main.go"), 0)
	source := src("main.go", model.LangGo)

	// engine.go exists as a filename.
	got, ok := r.Resolve(source, ref("example.com/app/internal/engine"))
	require.True(t, ok)
	assert.Equal(t, "internal/engine/engine.go", got)

	// No resolve.go file, but a directory named resolve contains one.
	got, ok = r.Resolve(source, ref("example.com/app/internal/resolve"))
	require.True(t, ok)
	assert.Equal(t, "internal/resolve/ladder.go", got)
}

func TestResolve_RustModuleName(t *testing.T) {
	r := New(testIndex("src/parser.rs", "src/main.rs"), 0)

	got, ok := r.Resolve(src("src/main.rs", model.LangRust), ref("parser"))
	require.True(t, ok)
	assert.Equal(t, "src/parser.rs", got)
}

func TestResolve_SwiftAndUnknownLanguagesDecline(t *testing.T) {
	r := New(testIndex("A.swift"), 0)

	_, ok := r.Resolve(src("B.swift", model.LangSwift), ref("Widget"))
	assert.False(t, ok)

	_, ok = r.Resolve(src("x.zig", model.Language("zig")), ref("thing"))
	assert.False(t, ok)
}

func TestResolve_EmptyTextDeclines(t *testing.T) {
	r := New(testIndex("a.ts"), 0)

	_, ok := r.Resolve(src("a.ts", model.LangTypeScript), ref(""))
	assert.False(t, ok)
}

func TestResolve_MemoizedAcrossCalls(t *testing.T) {
	r := New(testIndex("src/index.ts", "src/utils.ts"), 8)
	source := src("src/index.ts", model.LangTypeScript)

	first, ok1 := r.Resolve(source, ref("./utils"))
	second, ok2 := r.Resolve(source, ref("./utils"))
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}
