package core

import (
	"errors"
	"strings"
)

// ErrInvalidInput is matched by every input validation failure.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError rejects a request before any probing starts.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInvalidInput returns an InvalidInputError for field.
func NewInvalidInput(field, message string) error {
	return &InvalidInputError{Field: field, Message: message}
}

// NormalizeHandle lowercases name and strips everything outside [a-z0-9].
func NormalizeHandle(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", NewInvalidInput("name", "Name is required")
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range strings.ToLower(trimmed) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", NewInvalidInput("name", "Name must contain alphanumeric characters")
	}
	return b.String(), nil
}

// NormalizeDomain trims and lowercases a domain name.
func NormalizeDomain(domain string) (string, error) {
	d := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
	if d == "" {
		return "", NewInvalidInput("domain", "Domain is required")
	}
	if strings.ContainsAny(d, " /\\@") {
		return "", NewInvalidInput("domain", "Domain is invalid")
	}
	return d, nil
}
