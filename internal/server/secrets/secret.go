// Package secrets produces the one-time verification secrets handed out
// when an account or email addition is staged.
package secrets

import (
	"crypto/rand"
	"fmt"
)

const (
	// Alphabet is the 62-symbol alphanumeric set secrets are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// Length is the number of characters in a secret (about 190 bits).
	Length = 32

	// bytes at or above this value are rejected so every symbol is equally likely
	maxByte = 256 - 256%len(Alphabet)
)

// Generator produces verification secrets.
type Generator interface {
	Generate() (string, error)
}

// RandomGenerator draws secrets uniformly from Alphabet using crypto/rand.
type RandomGenerator struct{}

// NewRandomGenerator returns the crypto/rand backed Generator.
func NewRandomGenerator() RandomGenerator {
	return RandomGenerator{}
}

// Generate returns a fresh Length-character secret.
func (RandomGenerator) Generate() (string, error) {
	out := make([]byte, 0, Length)
	buf := make([]byte, Length*2)

	for len(out) < Length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == Length {
				break
			}
		}
	}

	return string(out), nil
}
