// Package sanitize strips unsafe markup from user-supplied text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// Text removes every tag and returns plain, unescaped text. Used for titles,
// subtitles and tag names.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// HTML keeps the formatting a rich-text editor produces and drops scripts,
// event handlers and other active content.
func HTML(s string) string {
	return strings.TrimSpace(ugc.Sanitize(s))
}
