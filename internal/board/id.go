package board

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultIDLength is the number of hex characters in a generated id (10 random bytes).
const DefaultIDLength = 20

const hexAlphabet = "0123456789abcdef"

// NewID returns a random lowercase hex string of the given length.
// Collisions are assumed impossible and are never checked.
func NewID(length int) string {
	if length <= 0 {
		length = DefaultIDLength
	}
	return gonanoid.MustGenerate(hexAlphabet, length)
}
