package sassbeautify

import (
	"errors"
	"fmt"
	"strings"
)

// Precondition failures, detected before the reformatter runs
var (
	ErrNoFileName      = errors.New("document has no file name, save it first")
	ErrUnsupportedType = errors.New("not a valid Sass file")
	ErrInFlight        = errors.New("a beautify run is already in progress for this document")
)

// ReformatError reports a failed or unusable sass-convert run
type ReformatError struct {
	Path     string
	ExitCode int    // -1 when the process could not be started
	Stderr   string // Captured error stream, shown to the user verbatim
}

func (e *ReformatError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "no output from reformatter, check for syntax errors"
	}
	return fmt.Sprintf("beautifying %s failed (exit %d): %s", e.Path, e.ExitCode, msg)
}

// IsPrecondition reports whether err was raised before the reformatter ran
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoFileName) || errors.Is(err, ErrUnsupportedType)
}
