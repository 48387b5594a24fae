package sassbeautify

import (
	"path/filepath"
	"sync"
)

// saveState tracks whether a save was triggered by the beautifier itself
type saveState int

const (
	stateIdle saveState = iota
	stateSelfSaving
)

// guard serializes work per document. It holds no process-wide state: each
// Beautifier owns one.
type guard struct {
	mu      sync.Mutex
	running map[string]bool
	saves   map[string]saveState
	written map[string]string // last text saved by the beautifier
}

func newGuard() *guard {
	return &guard{
		running: make(map[string]bool),
		saves:   make(map[string]saveState),
		written: make(map[string]string),
	}
}

// tryAcquire marks the document as in flight. ok is false when another run
// already holds it; overlapping runs are rejected rather than queued.
func (g *guard) tryAcquire(path string) (release func(), ok bool) {
	key := docKey(path)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running[key] {
		return nil, false
	}
	g.running[key] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.running, key)
			g.mu.Unlock()
		})
	}, true
}

// selfSave runs save in the SelfSaving state and returns to Idle afterwards.
// The transitions happen on the calling goroutine, around the save itself.
func (g *guard) selfSave(path, text string, save func() error) error {
	key := docKey(path)

	g.mu.Lock()
	g.saves[key] = stateSelfSaving
	g.mu.Unlock()

	err := save()

	g.mu.Lock()
	delete(g.saves, key)
	if err == nil {
		g.written[key] = text
	}
	g.mu.Unlock()

	return err
}

// selfSaving reports whether the document is being saved by the beautifier
func (g *guard) selfSaving(path string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saves[docKey(path)] == stateSelfSaving
}

// recent reports whether text is exactly what the beautifier last saved
func (g *guard) recent(path, text string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	last, ok := g.written[docKey(path)]
	return ok && last == text
}

// docKey normalizes a path so the same file always maps to one entry
func docKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
