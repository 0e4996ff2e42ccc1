// Package watch monitors a repository for source changes. Events for the
// same path within the debounce window collapse into one, so a save storm
// from an editor or branch switch does not flood the consumer. The watcher
// only reports files whose extension maps to a supported language; the
// consumer is expected to rebuild the whole graph on change.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/tgrange/orrery/internal/scan"
)

// DefaultDebounce is the per-path quiet interval before an event is
// emitted.
const DefaultDebounce = 250 * time.Millisecond

// eventBuffer is the emission channel capacity. Events beyond it are
// dropped rather than blocking the fsnotify reader.
const eventBuffer = 64

type Op string

const (
	OpCreate Op = "create"
	OpModify Op = "modify"
	OpDelete Op = "delete"
	OpRename Op = "rename"
)

// Event is one debounced change to a supported source file.
type Event struct {
	// Path is absolute.
	Path string
	Op   Op
	Time time.Time
}

// Options configure a Watcher.
type Options struct {
	// Debounce is the per-path quiet interval. Zero selects the default.
	Debounce time.Duration

	// Excludes are glob patterns; matching paths emit no events.
	Excludes []string

	// Logger receives watch lifecycle events at debug level. Nil discards.
	Logger *slog.Logger
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

// Watcher wraps fsnotify with recursive directory registration and
// per-path debouncing.
type Watcher struct {
	root     string
	debounce time.Duration
	excludes []glob.Glob
	log      *slog.Logger
	fs       *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*pendingEvent
	events  chan Event
	stopped bool

	stopOnce sync.Once
}

// New validates root and the exclude patterns and prepares a watcher.
// Start must be called before any events flow.
func New(root string, opts Options) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: %s is not a directory", root)
	}

	excludes := make([]glob.Glob, 0, len(opts.Excludes))
	for _, pattern := range opts.Excludes {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("watch: exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, g)
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	return &Watcher{
		root:     absRoot,
		debounce: debounce,
		excludes: excludes,
		log:      log,
		fs:       fw,
		pending:  make(map[string]*pendingEvent),
	}, nil
}

// Start registers the directory tree and begins emitting events. The
// returned channel closes when ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) (<-chan Event, error) {
	w.events = make(chan Event, eventBuffer)

	if err := w.addRecursive(w.root); err != nil {
		close(w.events)
		return nil, fmt.Errorf("watch: register %s: %w", w.root, err)
	}
	w.log.Debug("watch.start", "root", w.root, "debounce", w.debounce)

	go w.loop(ctx)

	return w.events, nil
}

// Stop stops the watcher. Safe to call multiple times; the event channel
// closes once the processing loop drains.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		w.fs.Close()
	})
	return nil
}

// addRecursive registers dir and every non-skipped subdirectory.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are watched as far as possible.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if p != w.root && (strings.HasPrefix(name, ".") || scan.SkippedDir(name)) {
			return filepath.SkipDir
		}
		if w.excluded(p) {
			return filepath.SkipDir
		}
		return w.fs.Add(p)
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.cleanup()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Debug("watch.error", "err", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if w.excluded(ev.Name) {
		return
	}

	// New directories join the watch so files created inside them are
	// seen; directories themselves emit no events.
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			name := filepath.Base(ev.Name)
			if !strings.HasPrefix(name, ".") && !scan.SkippedDir(name) {
				_ = w.addRecursive(ev.Name)
			}
			return
		}
	}

	if _, ok := scan.DetectLanguage(ev.Name); !ok {
		return
	}

	w.schedule(ev.Name, mapOp(ev.Op))
}

func mapOp(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Remove):
		return OpDelete
	case op.Has(fsnotify.Rename):
		return OpRename
	default:
		return OpModify
	}
}

// schedule arms (or re-arms) the debounce timer for path. The latest
// operation within the window wins.
func (w *Watcher) schedule(path string, op Op) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}

	event := Event{Path: path, Op: op, Time: time.Now()}

	if existing, ok := w.pending[path]; ok {
		existing.timer.Stop()
		existing.event = event
		existing.timer = time.AfterFunc(w.debounce, func() { w.emit(path) })
		return
	}
	w.pending[path] = &pendingEvent{
		event: event,
		timer: time.AfterFunc(w.debounce, func() { w.emit(path) }),
	}
}

func (w *Watcher) emit(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	p, ok := w.pending[path]
	if !ok {
		return
	}
	delete(w.pending, path)

	select {
	case w.events <- p.event:
	default:
		w.log.Debug("watch.drop", "path", path)
	}
}

func (w *Watcher) cleanup() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopped = true
	for _, p := range w.pending {
		p.timer.Stop()
	}
	w.pending = make(map[string]*pendingEvent)
	close(w.events)
	w.log.Debug("watch.stop", "root", w.root)
}

func (w *Watcher) excluded(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, g := range w.excludes {
		if g.Match(rel) || g.Match(filepath.Base(path)) {
			return true
		}
	}
	return false
}
