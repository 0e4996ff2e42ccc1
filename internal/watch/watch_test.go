package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestWatcher(t *testing.T, dir string, opts Options) <-chan Event {
	t.Helper()
	w, err := New(dir, opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Start(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		w.Stop()
	})
	return events
}

// nextEvent waits for one event or fails the test.
func nextEvent(t *testing.T, events <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "event channel closed early")
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestNew_RootMustBeDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := filepath.Join(dir, "f.ts")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := New(file, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")

	_, err = New(filepath.Join(dir, "missing"), Options{})
	require.Error(t, err)
}

func TestNew_RejectsBadExcludePattern(t *testing.T) {
	t.Parallel()

	_, err := New(t.TempDir(), Options{Excludes: []string{"[unterminated"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclude pattern")
}

func TestWatcher_CollapsesRapidWrites(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	events := startTestWatcher(t, dir, Options{Debounce: 300 * time.Millisecond})

	target := filepath.Join(dir, "app.ts")
	require.NoError(t, os.WriteFile(target, []byte("import './a';"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("import './b';"), 0o644))

	ev := nextEvent(t, events, 3*time.Second)
	assert.Equal(t, target, ev.Path)
	assert.False(t, ev.Time.IsZero())

	select {
	case extra := <-events:
		t.Fatalf("writes within the window should collapse, got second event %+v", extra)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_FiltersUnsupportedAndExcluded(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	events := startTestWatcher(t, dir, Options{
		Debounce: 50 * time.Millisecond,
		Excludes: []string{"**.spec.ts"},
	})

	// Neither of these may surface; the supported write after them proves
	// the watcher stayed alive.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.spec.ts"), []byte("it()"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.ts"), []byte("code"), 0o644))

	ev := nextEvent(t, events, 3*time.Second)
	assert.True(t, strings.HasSuffix(ev.Path, "app.ts"), "got %s", ev.Path)
	assert.False(t, strings.HasSuffix(ev.Path, "app.spec.ts"), "excluded file surfaced")
}

func TestWatcher_WatchesCreatedSubdirectories(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	events := startTestWatcher(t, dir, Options{Debounce: 50 * time.Millisecond})

	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the create event time to register the new directory.
	time.Sleep(500 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "mod.py"), []byte("import os"), 0o644))

	ev := nextEvent(t, events, 3*time.Second)
	assert.True(t, strings.HasSuffix(ev.Path, filepath.Join("pkg", "mod.py")), "got %s", ev.Path)
}

func TestWatcher_ChannelClosesOnCancel(t *testing.T) {
	t.Parallel()
	w, err := New(t.TempDir(), Options{})
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Start(ctx)
	require.NoError(t, err)

	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event channel did not close after cancel")
		}
	}
}

func TestMapOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op   fsnotify.Op
		want Op
	}{
		{fsnotify.Create, OpCreate},
		{fsnotify.Write, OpModify},
		{fsnotify.Remove, OpDelete},
		{fsnotify.Rename, OpRename},
		{fsnotify.Chmod, OpModify},
		{fsnotify.Create | fsnotify.Write, OpCreate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapOp(tt.op), "op %v", tt.op)
	}
}
