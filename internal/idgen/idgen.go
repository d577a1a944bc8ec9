// Package idgen generates run identifiers backed by nanoid.
package idgen

import (
	"fmt"
	"strings"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// RunPrefix is prepended to every run ID.
const RunPrefix = "run-"

// Alphabet is lowercase so IDs survive case-insensitive NATS tooling and
// S3 key listings unchanged.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters after the prefix.
const Length = 12

// RunID returns a new run identifier.
func RunID() (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return RunPrefix + id, nil
}

// IsRunID reports whether s has the shape of a RunID result.
func IsRunID(s string) bool {
	rest, ok := strings.CutPrefix(s, RunPrefix)
	if !ok || len(rest) != Length {
		return false
	}
	for _, r := range rest {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}
