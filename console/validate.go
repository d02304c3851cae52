package console

import (
	"errors"
	"regexp"
)

var ErrInvalidEmail = errors.New("invalid email address")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like local@domain.tld with no whitespace.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
