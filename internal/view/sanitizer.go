package view

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans API supplied markup (story text, comments) before it is
// embedded into a screen.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &Sanitizer{policy: p}
}

func (s *Sanitizer) Sanitize(markup string) string {
	return strings.TrimSpace(s.policy.Sanitize(markup))
}
