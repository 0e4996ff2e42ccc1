package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgrange/orrery/internal/config"
)

func TestFindRepoRoot_DirectGitDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	got := findRepoRoot(root)
	assert.Equal(t, root, got)
}

func TestFindRepoRoot_NestedSubdirectory(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(root, "sub", "deep")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	got := findRepoRoot(deep)
	assert.Equal(t, root, got)
}

func TestFindRepoRoot_NoGitAncestor(t *testing.T) {
	t.Parallel()
	// TempDir has no .git directory anywhere in its ancestry
	// (unless /tmp itself is a repo, which would be unusual).
	dir := t.TempDir()

	got := findRepoRoot(dir)
	assert.Equal(t, dir, got)
}

func TestResolveTargetDir_DefaultsToCwd(t *testing.T) {
	got, err := resolveTargetDir(nil)
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, got)
}

func TestResolveTargetDir_MakesPathAbsolute(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveTargetDir([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.True(t, filepath.IsAbs(got))
}

func TestResolveTargetDir_RejectsMissingDir(t *testing.T) {
	t.Parallel()
	_, err := resolveTargetDir([]string{filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestResolveTargetDir_RejectsFile(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := resolveTargetDir([]string{file})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()
	for _, f := range validFormats {
		assert.NoError(t, validateFormat(f))
	}
	err := validateFormat("yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestResolveDBPath(t *testing.T) {
	root := "/repo"
	cfg := config.Default()

	orig := flagDB
	t.Cleanup(func() { flagDB = orig })

	flagDB = ""
	assert.Equal(t, filepath.Join(root, ".orrery.db"), resolveDBPath(root, cfg))

	flagDB = "custom.db"
	assert.Equal(t, filepath.Join(root, "custom.db"), resolveDBPath(root, cfg))

	flagDB = "/elsewhere/graph.db"
	assert.Equal(t, "/elsewhere/graph.db", resolveDBPath(root, cfg))
}
