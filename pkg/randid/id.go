// Package randid generates short identifiers for persisted history entries.
package randid

import "math/rand/v2"

// DefaultLength is the ID length used for history entries.
const DefaultLength = 6

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate creates a random lowercase alphanumeric ID of the given length.
// Lengths below one yield an empty string.
func Generate(length int) string {
	if length < 1 {
		return ""
	}
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(b)
}

// New returns an ID of DefaultLength.
func New() string {
	return Generate(DefaultLength)
}
