// Package sanitize makes user-supplied comment content render-safe before it
// is persisted. Valid input keeps its meaning; markup that could execute is
// stripped.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips unsafe markup from comment content.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a sanitizer allowing basic inline formatting only.
func NewSanitizer() *Sanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "code", "br")
	return &Sanitizer{policy: p}
}

// Clean returns a render-safe version of content with surrounding whitespace
// trimmed.
func (s *Sanitizer) Clean(content string) string {
	return strings.TrimSpace(s.policy.Sanitize(content))
}
