package filter

import (
	"regexp"
	"strings"
)

// Modes understood by BorderZero and HexLength.
const (
	BorderToZero   = "zero"
	BorderToNone   = "none"
	HexShort       = "short"
	HexLong        = "long"
	ModeIgnore     = "ignore"
	zeroUnitSuffix = `rem|vmin|vmax|px|em|ex|ch|vh|vw|vm|mm|cm|in|pt|pc|%`
)

var (
	borderNoneRe  = regexp.MustCompile(`(?m)\bborder\s*:\s*none[ \t]*(;|\}|$)`)
	borderZeroRe  = regexp.MustCompile(`(?m)\bborder\s*:\s*0[ \t]*(;|\}|$)`)
	zeroUnitRe    = regexp.MustCompile(`([\s:])0(` + zeroUnitSuffix + `)`)
	hexSixRe      = regexp.MustCompile(`#([0-9a-fA-F]{6})`)
	hexThreeRe    = regexp.MustCompile(`#([0-9a-fA-F]{3})`)
	allmanRe      = regexp.MustCompile(`(?m)^([ \t]*)(.*?\S)[ \t]*\{[ \t]*(\r?)$`)
	leadingZeroRe = regexp.MustCompile(`([(\s])0\.(\d)`)
)

// SingleQuotes swaps every double quote for a single quote. The reformatter
// has already resolved nested quotes, so no escaping is done.
func SingleQuotes(text string) string {
	return strings.ReplaceAll(text, `"`, `'`)
}

// BorderZero normalizes the border shorthand. BorderToZero turns
// "border: none" into "border: 0", BorderToNone does the reverse, any other
// mode leaves the text alone.
func BorderZero(text, mode string) string {
	switch mode {
	case BorderToZero:
		return borderNoneRe.ReplaceAllString(text, "border: 0$1")
	case BorderToNone:
		return borderZeroRe.ReplaceAllString(text, "border: none$1")
	default:
		return text
	}
}

// RemoveZeroUnit drops the unit from zero lengths ("0px" becomes "0").
// The zero must follow whitespace or a colon, and the unit must not run on
// into a longer identifier; durations such as "0s" are kept.
func RemoveZeroUnit(text string) string {
	return replaceMatches(text, zeroUnitRe, func(text string, m []int) (string, bool) {
		if endsWord(text, m[1]) {
			return text[m[2]:m[3]] + "0", true
		}
		return "", false
	})
}

// HexLength rewrites hex colors to the requested length. HexShort collapses
// "#aabbcc" to "#abc" when every channel repeats its digit, HexLong expands
// "#abc" to "#aabbcc". Digit case is kept as written.
func HexLength(text, mode string) string {
	switch mode {
	case HexShort:
		return replaceMatches(text, hexSixRe, func(text string, m []int) (string, bool) {
			if m[1] < len(text) && isWordByte(text[m[1]]) || onSelectorLine(text, m[1]) {
				return "", false
			}
			digits := text[m[2]:m[3]]
			if !strings.EqualFold(digits[0:1], digits[1:2]) ||
				!strings.EqualFold(digits[2:3], digits[3:4]) ||
				!strings.EqualFold(digits[4:5], digits[5:6]) {
				return "", false
			}
			return "#" + digits[0:1] + digits[2:3] + digits[4:5], true
		})
	case HexLong:
		return replaceMatches(text, hexThreeRe, func(text string, m []int) (string, bool) {
			if m[1] < len(text) && !strings.ContainsRune(" ;,)\r\n", rune(text[m[1]])) || onSelectorLine(text, m[1]) {
				return "", false
			}
			d := text[m[2]:m[3]]
			return "#" + d[0:1] + d[0:1] + d[1:2] + d[1:2] + d[2:3] + d[2:3], true
		})
	default:
		return text
	}
}

// AllmanBraces moves every block-opening brace onto its own line, indented
// like the line that declared the block. CRLF line endings are kept.
func AllmanBraces(text string) string {
	return allmanRe.ReplaceAllString(text, "${1}${2}${3}\n${1}{${3}")
}

// RemoveLeadingZero strips the zero from fractions below one
// ("scale(0.9)" becomes "scale(.9)") when the zero follows "(" or whitespace.
func RemoveLeadingZero(text string) string {
	return leadingZeroRe.ReplaceAllString(text, "$1.$2")
}

// replaceMatches rewrites each match of re for which fn returns true. fn
// receives the full text and the submatch index pairs of the match.
func replaceMatches(text string, re *regexp.Regexp, fn func(text string, m []int) (string, bool)) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		replacement, ok := fn(text, m)
		if !ok {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(replacement)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// onSelectorLine reports whether the line holding position i ends by
// opening a block, in which case "#abc" is an id selector, not a color.
func onSelectorLine(text string, i int) bool {
	rest := text[i:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.HasSuffix(strings.TrimSpace(rest), "{")
}

// endsWord reports whether position i is not followed by a letter or digit.
func endsWord(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	c := text[i]
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}

// isWordByte reports whether c can continue a hex run or identifier.
func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}
