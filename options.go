package sassbeautify

import (
	"fmt"
	"time"

	"github.com/yacobolo/sassbeautify/internal/filter"
	"github.com/yacobolo/sassbeautify/internal/sassconvert"
)

// BorderZero selects how the border shorthand is normalized
type BorderZero string

// Border shorthand modes
const (
	BorderZeroZero   BorderZero = filter.BorderToZero // "border: none" -> "border: 0"
	BorderZeroNone   BorderZero = filter.BorderToNone // "border: 0" -> "border: none"
	BorderZeroIgnore BorderZero = filter.ModeIgnore
)

// HexLength selects the preferred length of hex colors
type HexLength string

// Hex color modes
const (
	HexLengthLong   HexLength = filter.HexLong  // #abc -> #aabbcc
	HexLengthShort  HexLength = filter.HexShort // #aabbcc -> #abc
	HexLengthIgnore HexLength = filter.ModeIgnore
)

// IndentStyle selects brace placement
type IndentStyle string

// Brace placement styles
const (
	// IndentKandR keeps the brace on the declaring line, as sass-convert emits it
	IndentKandR IndentStyle = "kandr"
	// IndentAllman puts the brace alone on the next line
	IndentAllman IndentStyle = "allman"
)

// Options is the resolved configuration of one beautify run
type Options struct {
	// Pipeline rules
	InlineComments          bool        // Keep end-of-line comments on their line
	NewlineBetweenSelectors bool        // Blank line before nested and sibling selectors
	UseSingleQuotes         bool        // Rewrite " to '
	BorderZero              BorderZero  // zero | none | ignore
	ZeroUnit                bool        // 0px -> 0
	HexLength               HexLength   // long | short | ignore
	IndentStyle             IndentStyle // kandr | allman
	LeadingZero             bool        // 0.5 -> .5

	// Passed through to sass-convert
	Indent    string // Spaces count or "t" for tabs (default: "4")
	Dasherize bool
	Old       bool
	Path      string // PATH for the reformatter process
	GemPath   string // GEM_PATH for the reformatter process
	Command   string // Reformatter executable (default: sass-convert)

	BeautifyOnSave bool          // Used by watch mode
	Timeout        time.Duration // Max wait for the reformatter (0 = no limit)
}

// DefaultOptions returns the built-in defaults
func DefaultOptions() Options {
	return Options{
		BorderZero:     BorderZeroIgnore,
		HexLength:      HexLengthIgnore,
		IndentStyle:    IndentKandR,
		Indent:         "4",
		Command:        sassconvert.DefaultCommand,
		BeautifyOnSave: true,
		Timeout:        30 * time.Second,
	}
}

// Validate rejects enum values the pipeline does not know
func (o Options) Validate() error {
	switch o.BorderZero {
	case BorderZeroZero, BorderZeroNone, BorderZeroIgnore:
	default:
		return fmt.Errorf("invalid borderZero %q (want zero|none|ignore)", o.BorderZero)
	}

	switch o.HexLength {
	case HexLengthLong, HexLengthShort, HexLengthIgnore:
	default:
		return fmt.Errorf("invalid hexLength %q (want long|short|ignore)", o.HexLength)
	}

	switch o.IndentStyle {
	case IndentKandR, IndentAllman:
	default:
		return fmt.Errorf("invalid indentStyle %q (want kandr|allman)", o.IndentStyle)
	}

	if o.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s", o.Timeout)
	}

	return nil
}

// formatOptions maps the pass-through settings onto a reformatter call
func (o Options) formatOptions(from, to Syntax) sassconvert.FormatOptions {
	return sassconvert.FormatOptions{
		Command:   o.Command,
		From:      string(from),
		To:        string(to),
		Indent:    o.Indent,
		Dasherize: o.Dasherize,
		Old:       o.Old,
		Path:      o.Path,
		GemPath:   o.GemPath,
	}
}
