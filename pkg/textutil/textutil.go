package textutil

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// StripTags removes markup from free text and trims it. Entities are unescaped again
// because responses are escaped once by the XML encoder.
func StripTags(s string) string {
	// Replace block tags with spaces to prevent text merging
	s = strings.ReplaceAll(s, "</p>", " ")
	s = strings.ReplaceAll(s, "<br>", " ")
	s = strings.ReplaceAll(s, "</div>", " ")

	cleaned := html.UnescapeString(strict.Sanitize(s))
	return strings.TrimSpace(cleaned)
}

// Collapse strips markup and folds all whitespace runs into single spaces.
func Collapse(s string) string {
	return strings.Join(strings.Fields(StripTags(s)), " ")
}
