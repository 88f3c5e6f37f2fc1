// Package sanitizer normalizes user input before it is validated or stored.
// Transforms are plain string functions combined with Apply or Compose.
package sanitizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Apply runs value through transforms in order.
func Apply[T any](value T, transforms ...func(T) T) T {
	for _, t := range transforms {
		value = t(value)
	}
	return value
}

// Compose builds a reusable pipeline.
func Compose[T any](transforms ...func(T) T) func(T) T {
	return func(value T) T { return Apply(value, transforms...) }
}

func Trim(s string) string { return strings.TrimSpace(s) }

// NFC rewrites s in Unicode normalization form C, so visually identical
// strings typed on different systems compare equal.
func NFC(s string) string { return norm.NFC.String(s) }

// RemoveControlChars drops control characters other than tab and newlines.
func RemoveControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// SingleLine joins lines with spaces and collapses runs of whitespace.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeEmail trims and lower-cases an address. The result is used as
// the user's identity key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
