package domain

import "strings"

// ValidateSourceURL checks that a source URL carries a recognised scheme.
// Only absolute http/https URLs may be tracked.
func ValidateSourceURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrInvalidInput
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return ErrInvalidInput
	}
	return nil
}
