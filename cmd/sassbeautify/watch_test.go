package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yacobolo/sassbeautify"
)

const canonicalStylesheet = "a {\n  b: c;\n}\n"

// countingReformatter prints canonicalStylesheet and counts its calls
type countingReformatter struct {
	calls atomic.Int32
}

func (r *countingReformatter) Start(_ context.Context, _ string, _ sassbeautify.FormatOptions) <-chan sassbeautify.ReformatResult {
	r.calls.Add(1)
	ch := make(chan sassbeautify.ReformatResult, 1)
	ch <- sassbeautify.ReformatResult{Stdout: canonicalStylesheet}
	close(ch)
	return ch
}

func newTestWatcher(t *testing.T, r sassbeautify.Reformatter, args ...string) *watcher {
	t.Helper()
	b, err := sassbeautify.New(sassbeautify.DefaultOptions(), sassbeautify.WithReformatter(r))
	require.NoError(t, err)

	w, err := newWatcher(b, zap.NewNop(), args)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWatcher_Accept(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tree", "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "globbed"), 0o755))
	single := filepath.Join(root, "single.scss")
	require.NoError(t, os.WriteFile(single, []byte("a{}"), 0o644))

	w := newTestWatcher(t, &countingReformatter{},
		filepath.Join(root, "tree"),
		single,
		filepath.Join(root, "globbed", "*.scss"),
	)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "file in directory argument", path: filepath.Join(root, "tree", "a.scss"), want: true},
		{name: "nested file in directory argument", path: filepath.Join(root, "tree", "sub", "b.sass"), want: true},
		{name: "css in directory argument", path: filepath.Join(root, "tree", "c.css"), want: true},
		{name: "not a stylesheet", path: filepath.Join(root, "tree", "notes.txt"), want: false},
		{name: "temporary save file", path: filepath.Join(root, "tree", ".a.scss.123456"), want: false},
		{name: "explicit file", path: single, want: true},
		{name: "sibling of explicit file", path: filepath.Join(root, "other.scss"), want: false},
		{name: "glob match", path: filepath.Join(root, "globbed", "x.scss"), want: true},
		{name: "glob mismatch", path: filepath.Join(root, "globbed", "x.sass"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.accept(tt.path))
		})
	}

	assert.True(t, w.dirs[filepath.Join(root, "tree", "sub")], "directory trees are watched recursively")
}

func TestWatcher_NothingToWatch(t *testing.T) {
	b, err := sassbeautify.New(sassbeautify.DefaultOptions())
	require.NoError(t, err)

	_, err = newWatcher(b, zap.NewNop(), []string{filepath.Join(t.TempDir(), "missing", "*.scss")})
	require.Error(t, err)
}

func TestWatcher_BeautifiesOnWriteOnce(t *testing.T) {
	dir := t.TempDir()
	r := &countingReformatter{}
	w := newTestWatcher(t, r, dir)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	path := filepath.Join(dir, "a.scss")
	require.NoError(t, os.WriteFile(path, []byte("a{b:c}"), 0o644))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && string(data) == canonicalStylesheet
	}, 5*time.Second, 20*time.Millisecond)

	// The rename of our own save must not trigger another run
	time.Sleep(4 * settleDelay)
	assert.Equal(t, int32(1), r.calls.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_HandleIgnoresOwnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.scss")
	require.NoError(t, os.WriteFile(path, []byte("a{b:c}"), 0o644))

	r := &countingReformatter{}
	w := newTestWatcher(t, r, dir)

	w.handle(context.Background(), path)
	require.Equal(t, int32(1), r.calls.Load())

	// The file now holds what the beautifier wrote
	w.handle(context.Background(), path)
	assert.Equal(t, int32(1), r.calls.Load())
}
