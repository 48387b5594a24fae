package sassbeautify

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Syntax is a stylesheet syntax understood by sass-convert
type Syntax string

// Supported syntaxes
const (
	SyntaxSass Syntax = "sass"
	SyntaxScss Syntax = "scss"
	SyntaxCSS  Syntax = "css"
)

// ParseSyntax converts a user supplied syntax name. CSS is accepted and
// handled as scss, which is a superset of it.
func ParseSyntax(name string) (Syntax, error) {
	switch Syntax(strings.ToLower(strings.TrimPrefix(name, "."))) {
	case SyntaxSass:
		return SyntaxSass, nil
	case SyntaxScss, SyntaxCSS:
		return SyntaxScss, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, name)
	}
}

// ResolveSyntax derives the syntax of a document from its file extension.
// Plain .css files are only accepted when allowCSS is set, and are then
// treated as scss.
func ResolveSyntax(path string, allowCSS bool) (Syntax, error) {
	if path == "" {
		return "", ErrNoFileName
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch Syntax(ext) {
	case SyntaxSass:
		return SyntaxSass, nil
	case SyntaxScss:
		return SyntaxScss, nil
	case SyntaxCSS:
		if allowCSS {
			return SyntaxScss, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, path)
}

// IsStylesheet reports whether path has an extension the beautifier handles
func IsStylesheet(path string) bool {
	_, err := ResolveSyntax(path, true)
	return err == nil
}
