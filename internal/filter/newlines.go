package filter

import "strings"

// InsertNewlines separates a rule block from whatever statement or block
// precedes it with a single blank line.
//
// A line opening a selector (ending in "{" or ",") that directly follows a
// line ending in ";" or "}" gets a blank line above it. Comments sitting
// right above the selector stay attached to it: the blank line goes above
// the comment. Nothing is inserted when a blank line is already there or
// when the previous line opens a block itself.
func InsertNewlines(text string) string {
	lines := strings.Split(text, "\n")
	insertBefore := make(map[int]bool)

	for i, line := range lines {
		if !opensSelector(line) {
			continue
		}

		start := commentStart(lines, i)
		prev := start - 1
		if prev < 0 {
			continue
		}

		trimmed := strings.TrimSpace(lines[prev])
		if strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}") {
			insertBefore[start] = true
		}
	}

	if len(insertBefore) == 0 {
		return text
	}

	out := make([]string, 0, len(lines)+len(insertBefore))
	for i, line := range lines {
		if insertBefore[i] {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// opensSelector reports whether a line ends a selector header.
func opensSelector(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || isCommentOnly(trimmed) {
		return false
	}
	return strings.HasSuffix(trimmed, "{") || strings.HasSuffix(trimmed, ",")
}

// commentStart walks up from the selector at index i over the comment lines
// directly above it and returns the index of the topmost one, or i when
// there are none.
func commentStart(lines []string, i int) int {
	start := i
	j := i - 1
	for j >= 0 {
		trimmed := strings.TrimSpace(lines[j])
		switch {
		case strings.HasPrefix(trimmed, "//"):
			start = j
			j--
		case strings.HasSuffix(trimmed, "*/"):
			k := blockCommentStart(lines, j)
			if k < 0 {
				return start
			}
			start = k
			j = k - 1
		default:
			return start
		}
	}
	return start
}

// blockCommentStart finds the line holding the "/*" that the "*/" on line j
// closes, or -1 when there is none.
func blockCommentStart(lines []string, j int) int {
	for k := j; k >= 0; k-- {
		trimmed := strings.TrimSpace(lines[k])
		if strings.Contains(trimmed, "/*") {
			if !strings.HasPrefix(trimmed, "/*") {
				// Comment trails code, it does not belong to the selector below
				return -1
			}
			return k
		}
	}
	return -1
}

// isCommentOnly reports whether a trimmed line holds nothing but a comment.
func isCommentOnly(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*")
}
