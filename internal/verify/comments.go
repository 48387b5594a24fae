// Package verify checks that comments survive a trip through the reformatter.
package verify

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Comments lists the comments of a stylesheet in source order, with their
// markers removed and whitespace collapsed.
//
// Block comments come straight from the CSS lexer. The lexer has no notion of
// Sass line comments; those show up as two adjacent "/" delimiters and run to
// the end of the line.
func Comments(text string) []string {
	lexer := css.NewLexer(parse.NewInputString(text))

	var comments []string
	offset := 0
	slashAt := -1
	skipUntil := -1

	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			// ErrorToken at EOF is normal
			break
		}

		start := offset
		offset += len(data)
		if start < skipUntil {
			continue
		}

		switch {
		case tt == css.CommentToken:
			body := strings.TrimPrefix(string(data), "/*")
			body = strings.TrimSuffix(body, "*/")
			comments = append(comments, normalize(body))
			slashAt = -1

		case tt == css.DelimToken && len(data) == 1 && data[0] == '/':
			if slashAt >= 0 && slashAt == start-1 {
				end := lineEnd(text, offset)
				comments = append(comments, normalize(text[offset:end]))
				skipUntil = end
				slashAt = -1
				continue
			}
			slashAt = start

		default:
			slashAt = -1
		}
	}

	return comments
}

// Missing returns the comments of before that no longer appear in after,
// counting duplicates.
func Missing(before, after []string) []string {
	remaining := make(map[string]int, len(after))
	for _, c := range after {
		remaining[c]++
	}

	var missing []string
	for _, c := range before {
		if remaining[c] > 0 {
			remaining[c]--
			continue
		}
		missing = append(missing, c)
	}
	return missing
}

// lineEnd returns the index of the newline at or after i, or len(text).
func lineEnd(text string, i int) int {
	if i > len(text) {
		return len(text)
	}
	if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
		return i + nl
	}
	return len(text)
}

// normalize collapses whitespace and quote style so cosmetic rewrites of a
// comment are not reported as losses.
func normalize(body string) string {
	body = strings.ReplaceAll(body, `"`, `'`)
	return strings.Join(strings.Fields(body), " ")
}
