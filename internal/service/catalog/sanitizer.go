package catalog

import "github.com/microcosm-cc/bluemonday"

// HTMLSanitizer strips scripts, event handlers and javascript: URLs from
// rich-text course and lesson content while keeping ordinary formatting.
//
// Safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer with the user-generated-content policy
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	// Rich-text editor output marks alignment and code blocks with classes
	policy.AllowAttrs("class").Globally()
	return &HTMLSanitizer{policy: policy}
}

// Sanitize returns the safe subset of html
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}

// SanitizePtr sanitizes an optional value, keeping nil as nil
func (s *HTMLSanitizer) SanitizePtr(html *string) *string {
	if html == nil {
		return nil
	}
	clean := s.Sanitize(*html)
	return &clean
}
