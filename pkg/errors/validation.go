package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateBaseURL validates the base URL of a remote service (ACT, Confluence).
// It requires an http or https scheme and a host, and rejects control characters.
func ValidateBaseURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	for _, r := range raw {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "URL contains invalid control characters")
		}
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "parse URL %q", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", raw)
	}
	return nil
}

// ValidateFileName validates a bare artifact file name (no directory part).
func ValidateFileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "file name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "file name cannot contain path separators")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidInput, "file name %q is not allowed", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "file name contains invalid control characters")
		}
	}
	return nil
}
