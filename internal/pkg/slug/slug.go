// internal/pkg/slug/slug.go
package slug

import (
	"regexp"
	"strings"
)

var (
	nonWord    = regexp.MustCompile(`[^\w\s-]`)
	separators = regexp.MustCompile(`[\s_-]+`)
)

// Derive builds a URL-safe slug from a human-readable name or title.
// The derivation is deterministic: lowercase, non-word characters stripped,
// whitespace/underscore/hyphen runs collapsed to a single hyphen, and
// leading/trailing hyphens trimmed.
func Derive(name string) string {
	s := strings.ToLower(name)
	s = nonWord.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
