// Package scan discovers source files under a repository root and builds
// the file tree the engine indexes. Discovery prefers git ls-files, which
// respects .gitignore and global excludes; outside a repository it falls
// back to compiling the root .gitignore and walking the filesystem.
package scan

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/tgrange/orrery/internal/model"
)

// DefaultMaxFileSize is the content-read cutoff in bytes. Larger files are
// still indexed — they can be edge targets — but carry no content and so
// are never scanned for references.
const DefaultMaxFileSize = 1 << 20

// Options configure a repository scan.
type Options struct {
	// MaxFileSize caps content reads, in bytes. Zero selects the default.
	MaxFileSize int64

	// Excludes are glob patterns matched against slash-separated paths
	// relative to the root. Matching files are dropped entirely.
	Excludes []string

	// Logger receives scan counts at debug level. Nil discards.
	Logger *slog.Logger
}

// skipDirs are never descended into during the walk fallback.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	"venv":         true,
	".venv":        true,
	"dist":         true,
	"build":        true,
	"target":       true,
}

// SkippedDir reports whether a directory name is one the scanner never
// descends into. Shared with the watcher so both walk the same tree.
func SkippedDir(name string) bool {
	return skipDirs[name]
}

// Repository scans root and returns a file tree whose leaves carry path,
// language tag, and raw content. Binary files (NUL byte in the first 8000
// bytes), oversized files, and unreadable files are indexed without
// content. Files with unsupported extensions are omitted. Paths in the
// tree are slash-separated and relative to root, sorted.
func Repository(root string, opts Options) (*model.TreeNode, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scan: resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan: %s is not a directory", root)
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	excludes := make([]glob.Glob, 0, len(opts.Excludes))
	for _, pattern := range opts.Excludes {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("scan: exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, g)
	}

	rels, err := gitListFiles(absRoot)
	if err != nil {
		// Not a git repo or git not available — fall back to walk.
		log.Debug("scan.git_unavailable", "err", err)
		rels, err = walkListFiles(absRoot)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
	}
	sort.Strings(rels)

	tree := &model.TreeNode{Name: filepath.Base(absRoot), Path: ".", Dir: true}
	dirs := map[string]*model.TreeNode{".": tree}
	var files, withContent int
	for _, rel := range rels {
		language, ok := DetectLanguage(rel)
		if !ok {
			continue
		}
		if matchesAny(excludes, rel) {
			continue
		}
		leaf := fileNode(absRoot, rel, language, maxSize)
		parent := ensureDir(dirs, path.Dir(rel))
		parent.Children = append(parent.Children, leaf)
		files++
		if leaf.Content != "" {
			withContent++
		}
	}

	log.Debug("scan.done", "root", absRoot, "files", files, "with_content", withContent)
	return tree, nil
}

// gitListFiles uses git ls-files to discover tracked and untracked (but
// not ignored) files under root, as slash-separated relative paths.
func gitListFiles(root string) ([]string, error) {
	// --cached: tracked files, --others: untracked files,
	// --exclude-standard: respect .gitignore, .git/info/exclude, global excludes.
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var rels []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rels = append(rels, line)
	}
	return rels, nil
}

// GitHead returns the commit hash at root, or "" when root is not a git
// checkout or git is unavailable. Snapshots record it when present.
func GitHead(root string) string {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = root
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return ""
	}
	return strings.TrimSpace(stdout.String())
}

// walkListFiles discovers files by walking the filesystem, used as a
// fallback when git is not available. Skips hidden entries, symlinks, the
// usual dependency directories, and anything the root .gitignore matches.
func walkListFiles(root string) ([]string, error) {
	gi := loadGitignore(root)
	var rels []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p == root {
				return nil
			}
			if strings.HasPrefix(name, ".") || skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return rels, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// fileNode builds one file leaf, reading content when the file is small
// enough and looks like text. Stat or read failures yield a content-less
// leaf rather than an error: the file stays addressable as a target.
func fileNode(absRoot, rel string, language model.Language, maxSize int64) *model.TreeNode {
	node := &model.TreeNode{
		Name:     path.Base(rel),
		Path:     rel,
		Language: language,
	}
	full := filepath.Join(absRoot, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return node
	}
	node.Size = info.Size()
	node.ModTime = info.ModTime()
	if info.Size() > maxSize {
		return node
	}
	content, err := os.ReadFile(full)
	if err != nil || isBinary(content) {
		return node
	}
	node.Content = string(content)
	return node
}

// ensureDir returns the tree node for dir, creating it and any missing
// parents. dir "." is the root, which always exists.
func ensureDir(dirs map[string]*model.TreeNode, dir string) *model.TreeNode {
	if node, ok := dirs[dir]; ok {
		return node
	}
	parent := ensureDir(dirs, path.Dir(dir))
	node := &model.TreeNode{Name: path.Base(dir), Path: dir, Dir: true}
	parent.Children = append(parent.Children, node)
	dirs[dir] = node
	return node
}

// isBinary applies git's heuristic: a NUL byte within the first 8000 bytes.
func isBinary(content []byte) bool {
	n := min(len(content), 8000)
	return bytes.IndexByte(content[:n], 0) >= 0
}

func matchesAny(globs []glob.Glob, rel string) bool {
	for _, g := range globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}
