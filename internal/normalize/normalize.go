// Package normalize provides utilities for normalizing user-entered text before it is
// validated, stored, or compared.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Text trims surrounding space, composes the string to NFC, and collapses runs of
// internal whitespace to a single space.
func Text(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// Fold returns a caseless form of s for case-insensitive matching.
// It handles non-ASCII scripts that strings.ToLower leaves alone ("Straße" and "STRASSE" fold equal).
func Fold(s string) string {
	return cases.Fold().String(Text(s))
}

// Email trims an email address. The address keeps the case the user typed.
func Email(s string) string {
	return strings.TrimSpace(s)
}

// EmailKey is the lookup key used to enforce email uniqueness.
func EmailKey(s string) string {
	return strings.ToLower(Email(s))
}

// PhoneDigits strips everything but decimal digits from a phone number.
func PhoneDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// HasLetter reports whether s contains at least one Unicode letter.
func HasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// IsDigits reports whether s is non-empty and made of ASCII digits only.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	return PhoneDigits(s) == s
}

// Slug converts a title to a URL-safe slug. Accents are stripped.
// "Amélie" -> "amelie", "Sci-Fi/Fantasy" -> "sci-fi-fantasy".
func Slug(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = nonAlphanumeric.ReplaceAllString(strings.ToLower(s), "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
