package dto

import "strings"

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeEmailPtr(s *string) {
	if s != nil {
		*s = normalizeEmail(*s)
	}
}

// optionalURL is a trimmed optional link. An explicit empty string in an
// update request clears the stored link.
func optionalURL(s **string) (clear bool) {
	if *s == nil {
		return false
	}
	v := strings.TrimSpace(**s)
	if v == "" {
		*s = nil
		return true
	}
	*s = &v
	return false
}
