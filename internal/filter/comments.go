// Package filter holds the text filters of the beautify pipeline.
//
// Every filter is a pure function over the whole document text. None of
// them parse the stylesheet; they match lines and patterns, and a filter
// that finds nothing to rewrite returns its input unchanged.
package filter

import (
	"regexp"
	"strings"
)

// CommentSentinel marks an end-of-line comment while the document goes
// through the reformatter, which pushes such comments onto their own line.
const CommentSentinel = "---end-of-line-comment---"

var (
	// A statement or brace, optional blanks, then a comment opener.
	markRe = regexp.MustCompile(`([;{}][ \t]*)(//|/\*)`)

	// Trailing blanks, one or more line breaks, indentation, then a marked opener.
	restoreRe = regexp.MustCompile(`[ \t]*\r?\n\s*(//|/\*)` + regexp.QuoteMeta(CommentSentinel))
)

// MarkComments tags every comment that trails a declaration, a block
// opener or a block closer so RestoreComments can pull it back onto that
// line after reformatting.
func MarkComments(text string) string {
	marked := markRe.ReplaceAllString(text, "${1}${2}"+CommentSentinel)

	// A second pass over already marked text must not stack sentinels
	double := CommentSentinel + CommentSentinel
	for strings.Contains(marked, double) {
		marked = strings.ReplaceAll(marked, double, CommentSentinel)
	}
	return marked
}

// RestoreComments re-attaches marked comments to the end of the previous
// non-blank line and removes every sentinel still left in the text.
//
//	h1 {}
//	//---end-of-line-comment--- note
//
// becomes
//
//	h1 {} // note
func RestoreComments(text string) string {
	restored := restoreRe.ReplaceAllString(text, " $1")

	// Sentinels the reformatter left in place (or nested inside a block
	// comment) are dropped verbatim.
	return strings.ReplaceAll(restored, CommentSentinel, "")
}
