// Package htmlsanitize strips markup from user-supplied text before it is stored.
// The API only emits JSON, so every free-text field is reduced to plain text.
package htmlsanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all tags from s, decodes entities, collapses whitespace and trims.
func Text(s string) string {
	if s == "" {
		return ""
	}
	clean := html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}

// TextMax is Text truncated to at most max runes.
func TextMax(s string, max int) string {
	s = Text(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max]))
}

// IsPlainText reports whether s has no HTML tags.
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<") || !strings.Contains(s, ">")
}
