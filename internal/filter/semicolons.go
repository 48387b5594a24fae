package filter

import (
	"regexp"
	"strings"
)

// trailingLineCommentRe finds a // comment that is not part of a URL scheme.
var trailingLineCommentRe = regexp.MustCompile(`(^|[\s;{}])//`)

// NormalizeSemicolons terminates every line with a semicolon so that
// declarations written without one still survive the reformatter.
//
// Lines are left alone when they end in a comma (multi-selector
// continuation), when the next line opens a block with "{", when they are or
// end in a comment, when they open or sit inside a multi-line block
// comment, and when they belong to the blank run at the very start
// or end of the document. Redundant terminators such as ";;" or a lone ";"
// on a blank line are cleaned up by the reformatter.
func NormalizeSemicolons(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}

	first, last := contentBounds(lines)
	inComment := false

	// The final element is never followed by a newline.
	for i := 0; i < len(lines)-1; i++ {
		if i < first || i > last {
			continue
		}

		body, cr := splitCR(lines[i])
		trimmed := strings.TrimRight(body, " \t")

		inComment = blockCommentOpen(trimmed, inComment)

		switch {
		case inComment:
			continue
		case strings.HasSuffix(trimmed, ","):
			continue
		case isCommentLine(trimmed):
			continue
		case opensBlock(lines[i+1]):
			continue
		}

		lines[i] = body + ";" + cr
	}

	return strings.Join(lines, "\n")
}

// contentBounds returns the indexes of the first and last non-blank lines.
func contentBounds(lines []string) (first, last int) {
	first, last = len(lines), -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if i < first {
			first = i
		}
		last = i
	}

	// Interior blank lines still get a terminator, only the edges are skipped
	return first, last
}

// splitCR separates a trailing carriage return so it stays at the line end.
func splitCR(line string) (string, string) {
	if strings.HasSuffix(line, "\r") {
		return line[:len(line)-1], "\r"
	}
	return line, ""
}

// isCommentLine reports whether a line is, or ends in, a comment.
func isCommentLine(trimmed string) bool {
	if strings.HasSuffix(trimmed, "*/") {
		return true
	}
	return trailingLineCommentRe.MatchString(trimmed)
}

// blockCommentOpen reports whether a block comment is still open at the end
// of line, given whether one was open at its start. A "/*" after a "//"
// comment does not count.
func blockCommentOpen(line string, open bool) bool {
	for {
		if open {
			end := strings.Index(line, "*/")
			if end < 0 {
				return true
			}
			line, open = line[end+2:], false
			continue
		}

		start := strings.Index(line, "/*")
		if start < 0 {
			return false
		}
		if loc := trailingLineCommentRe.FindStringIndex(line); loc != nil && loc[0] < start {
			return false
		}
		line, open = line[start+2:], true
	}
}

// opensBlock reports whether a line, after leading whitespace, starts with "{".
func opensBlock(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "{")
}
