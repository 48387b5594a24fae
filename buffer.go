package sassbeautify

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Buffer is the host's view of one open document
type Buffer interface {
	// Path returns the saved file name, "" for an unsaved document
	Path() string
	// Text returns the full current content
	Text() (string, error)
	// Replace swaps the full content
	Replace(text string) error
	// Save persists the content
	Save() error
}

// Notifier shows results to the user
type Notifier interface {
	// Status shows a transient success message
	Status(msg string)
	// Error shows a blocking error message
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Status(string) {}
func (nopNotifier) Error(string)  {}

// FileBuffer is a Buffer backed by a file on disk. The file is read on first
// access and only written back by Save.
type FileBuffer struct {
	path string

	mu     sync.Mutex
	text   string
	loaded bool
}

// NewFileBuffer returns a buffer for the file at path
func NewFileBuffer(path string) *FileBuffer {
	return &FileBuffer{path: path}
}

// Path implements Buffer
func (b *FileBuffer) Path() string {
	return b.path
}

// Text implements Buffer
func (b *FileBuffer) Text() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.loaded {
		// #nosec G304 - path comes from trusted command line patterns
		data, err := os.ReadFile(b.path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		b.text = string(data)
		b.loaded = true
	}
	return b.text, nil
}

// Replace implements Buffer
func (b *FileBuffer) Replace(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.text = text
	b.loaded = true
	return nil
}

// Save implements Buffer. The content goes to a temporary file in the same
// directory which is then renamed over the original, keeping its mode.
func (b *FileBuffer) Save() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.loaded {
		return nil
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(b.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), "."+filepath.Base(b.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.WriteString(b.text)
	closeErr := tmp.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Chmod(tmpName, mode)
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", b.path, writeErr)
	}

	if err := os.Rename(tmpName, b.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", b.path, err)
	}
	return nil
}
