// Package sanitize turns free-form project titles into safe note filenames
// and validates the paths exporters write to.
package sanitize

import (
	"strings"
	"unicode"
)

const (
	// MaxFilenameLength is the maximum length, in characters, of a
	// sanitized filename stem.
	MaxFilenameLength = 50

	// FallbackPrefix prefixes the project ID when a title sanitizes to
	// nothing.
	FallbackPrefix = "project-"
)

// Filename derives a filename stem (no extension) from a project title.
//
// Rules applied:
//   - Drops every character that is not a letter, digit, underscore,
//     whitespace or hyphen
//   - Collapses each run of whitespace and hyphens into one hyphen
//   - Truncates to MaxFilenameLength characters
//   - Returns FallbackPrefix + id if the result would be empty
//
// Examples:
//
//	"Fix the login flow!"    -> "Fix-the-login-flow"
//	"TODO: wire  exporter"   -> "TODO-wire-exporter"
//	"???" (id "abc123")      -> "project-abc123"
func Filename(title, id string) string {
	var b strings.Builder
	b.Grow(len(title))

	inSep := false
	n := 0
	for _, r := range title {
		if n == MaxFilenameLength {
			break
		}
		switch {
		case r == '-' || unicode.IsSpace(r):
			if !inSep {
				b.WriteRune('-')
				n++
				inSep = true
			}
		case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
			n++
			inSep = false
		}
	}

	if b.Len() == 0 {
		return FallbackPrefix + id
	}
	return b.String()
}
