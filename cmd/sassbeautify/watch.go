package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yacobolo/sassbeautify"
)

// settleDelay groups the burst of events an editor emits for one save
const settleDelay = 100 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <patterns...>",
	Short: "Beautify stylesheets whenever they are saved",
	Long: `Watch the matched files and directories and beautify a stylesheet each
time it is written. Errors are logged instead of interrupting the session.
Writes made by sassbeautify itself do not trigger another run.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}
	if !opts.BeautifyOnSave {
		return errors.New("beautifyOnSave is disabled, nothing to watch")
	}

	run := buildRunSettings()
	// Watch mode always reports per file
	run.OutputFormat = string(sassbeautify.OutputText)

	logger := newLogger(cmd.ErrOrStderr(), run)
	defer func() { _ = logger.Sync() }()

	b, _, err := newBeautifier(cmd, opts, run, logger)
	if err != nil {
		return err
	}

	w, err := newWatcher(b, logger, args)
	if err != nil {
		return err
	}
	defer w.Close()

	if !run.Quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %d %s, press Ctrl+C to stop\n", len(w.dirs), pluralDirs(len(w.dirs)))
	}
	return w.Run(cmd.Context())
}

func pluralDirs(n int) string {
	if n == 1 {
		return "directory"
	}
	return "directories"
}

// watcher beautifies stylesheets on write events
type watcher struct {
	b      *sassbeautify.Beautifier
	logger *zap.Logger
	fsw    *fsnotify.Watcher

	files    map[string]bool // explicitly selected files, absolute
	roots    []string        // directory arguments, absolute
	trees    []string        // recursively watched directories, absolute
	patterns []string        // glob arguments
	dirs     map[string]bool // watched directories

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

func newWatcher(b *sassbeautify.Beautifier, logger *zap.Logger, args []string) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &watcher{
		b:       b,
		logger:  logger,
		fsw:     fsw,
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		pending: make(map[string]*time.Timer),
	}
	if err := w.addArgs(args); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// addArgs registers the directories holding everything args select
func (w *watcher) addArgs(args []string) error {
	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			w.roots = append(w.roots, absPath(arg))
			w.trees = append(w.trees, absPath(arg))
			if err := w.addTree(arg); err != nil {
				return err
			}
			continue
		case err == nil:
			w.files[absPath(arg)] = true
			if err := w.addDir(filepath.Dir(arg)); err != nil {
				return err
			}
			continue
		}

		// A glob: watch the directories of current matches and its static base
		w.patterns = append(w.patterns, arg)
		base, _ := doublestar.SplitPattern(filepath.ToSlash(arg))
		if info, err := os.Stat(filepath.FromSlash(base)); err == nil && info.IsDir() {
			w.trees = append(w.trees, absPath(filepath.FromSlash(base)))
			if err := w.addTree(filepath.FromSlash(base)); err != nil {
				return err
			}
		}
	}

	files, _, err := sassbeautify.ExpandPatterns(args)
	if err != nil {
		return fmt.Errorf("expanding patterns: %w", err)
	}
	for _, f := range files {
		if err := w.addDir(filepath.Dir(f)); err != nil {
			return err
		}
	}

	if len(w.dirs) == 0 {
		return errors.New("no directories to watch")
	}
	return nil
}

// addTree watches root and every non-hidden directory below it
func (w *watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.addDir(path)
	})
}

func (w *watcher) addDir(dir string) error {
	dir = filepath.Clean(dir)
	if w.dirs[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.dirs[dir] = true
	w.logger.Debug("watching directory", zap.String("dir", dir))
	return nil
}

// accept reports whether a changed path is one of the watched stylesheets
func (w *watcher) accept(path string) bool {
	if !sassbeautify.IsStylesheet(path) {
		return false
	}

	abs := absPath(path)
	if w.files[abs] {
		return true
	}
	if within(w.roots, abs) {
		return true
	}
	for _, pattern := range w.patterns {
		if ok, _ := doublestar.PathMatch(pattern, path); ok {
			return true
		}
	}
	return false
}

// Run processes events until ctx is cancelled
func (w *watcher) Run(ctx context.Context) error {
	defer w.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.dispatch(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *watcher) dispatch(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && within(w.trees, absPath(event.Name)) {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("watching new directory failed", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !w.accept(event.Name) {
		return
	}
	w.schedule(ctx, event.Name)
}

// schedule runs handle once the path has been quiet for settleDelay
func (w *watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok && t.Stop() {
		t.Reset(settleDelay)
		return
	}

	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(settleDelay, func() {
		defer w.wg.Done()

		w.mu.Lock()
		if w.pending[path] == t {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		w.handle(ctx, path)
	})
	w.pending[path] = t
}

func (w *watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, t := range w.pending {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
}

// handle beautifies path unless the change was our own save
func (w *watcher) handle(ctx context.Context, path string) {
	log := w.logger.With(zap.String("path", path))

	// #nosec G304 - path comes from watched directories
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug("changed file is gone", zap.Error(err))
		return
	}
	if w.b.SelfSaving(path) || w.b.Recent(path, string(data)) {
		log.Debug("ignoring own write")
		return
	}

	_, err = w.b.Beautify(ctx, sassbeautify.NewFileBuffer(path), sassbeautify.Request{Silent: true})
	switch {
	case err == nil:
	case errors.Is(err, sassbeautify.ErrInFlight):
		log.Debug("beautify already running")
	default:
		log.Warn("beautify on save failed", zap.Error(err))
	}
}

// Close stops watching
func (w *watcher) Close() error {
	return w.fsw.Close()
}

// within reports whether path lies inside one of dirs
func within(dirs []string, path string) bool {
	for _, dir := range dirs {
		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
