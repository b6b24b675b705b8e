// Package htmlsanitize strips markup from free text before it is stored.
//
// Directory records arrive from scrapers and hand-edited seed files, so
// descriptions occasionally carry stray tags or entities. Stored values are
// plain text; templates escape them at render time.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes all tags (and the contents of script/style elements),
// decodes entities, and trims surrounding whitespace.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Truncate shortens s to at most n runes, appending "..." when it cut
// anything.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n < 0 || len(r) <= n {
		return s
	}
	return strings.TrimRight(string(r[:n]), " ") + "..."
}
