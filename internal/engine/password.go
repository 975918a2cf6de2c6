package engine

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrWeakPassword indicates the SA password fails the engine's complexity
// policy. The engine enforces this at first boot; checking here means the
// failure is a CLI error instead of a dead container.
var ErrWeakPassword = errors.New("sa password does not meet SQL Server complexity policy")

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

// ValidatePassword checks a candidate SA password against the engine's
// policy: 8-128 characters, drawn from at least three of the four classes
// (uppercase, lowercase, digit, symbol).
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: shorter than %d characters", ErrWeakPassword, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: longer than %d characters", ErrWeakPassword, maxPasswordLength)
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	classes := 0
	for _, present := range []bool{upper, lower, digit, symbol} {
		if present {
			classes++
		}
	}
	if classes < 3 {
		return fmt.Errorf("%w: needs characters from at least 3 of: uppercase, lowercase, digits, symbols", ErrWeakPassword)
	}

	return nil
}
