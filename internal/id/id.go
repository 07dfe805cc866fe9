// Package id generates and checks the identifiers used by the catalog server.
//
// Accounts and sessions use prefixed NanoIDs ("user-V1StGXR8_Z5jdHi6B-myT").
// Catalog items and ratings use UUIDs, which clients pass around in URLs.
package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	nanoidLength   = 21
	nanoidAlphabet = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Generate creates a prefixed unique ID using NanoID.
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// IsPrefixed reports whether s looks like an ID produced by Generate(prefix).
func IsPrefixed(prefix, s string) bool {
	rest, ok := strings.CutPrefix(s, prefix+"-")
	if !ok || len(rest) != nanoidLength {
		return false
	}
	for _, r := range rest {
		if !strings.ContainsRune(nanoidAlphabet, r) {
			return false
		}
	}
	return true
}

// NewUUID returns a time-ordered UUID string, falling back to a random one.
func NewUUID() string {
	u, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return u.String()
}

// IsUUID reports whether s is a well-formed UUID in canonical form.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
