package validator

import (
	"fmt"
	"strings"
	"unicode"
)

// Field validators are closures so call sites can compose them per field and
// reuse the bound field name in error messages.

// Required validates that a string is non-empty after trimming.
func Required(field string) func(string) error {
	return func(str string) error {
		if strings.TrimSpace(str) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// MaxLength validates that a string's length is at most the specified maximum.
func MaxLength(field string, max int) func(string) error {
	return func(str string) error {
		if len(str) > max {
			return fmt.Errorf("%s must be at most %d characters", field, max)
		}
		return nil
	}
}

// Email validates the local@domain.tld shape: no whitespace anywhere,
// exactly one '@' with a non-empty local part, and a domain containing at
// least one '.' with non-empty segments on both sides of every dot.
//
// This is deliberately narrower than net/mail, which accepts quoted locals,
// dotless domains and other RFC 5322 shapes no client record should carry.
func Email(field string) func(string) error {
	return func(str string) error {
		if !wellFormedEmail(str) {
			return fmt.Errorf("invalid %s", field)
		}
		return nil
	}
}

func wellFormedEmail(str string) bool {
	if strings.IndexFunc(str, unicode.IsSpace) >= 0 {
		return false
	}
	local, domain, found := strings.Cut(str, "@")
	if !found || local == "" || domain == "" {
		return false
	}
	if strings.Contains(domain, "@") || !strings.Contains(domain, ".") {
		return false
	}
	for _, segment := range strings.Split(domain, ".") {
		if segment == "" {
			return false
		}
	}
	return true
}
