// Package sluggen provides short code generation for links.
// Generators are safe for concurrent use.
package sluggen

import (
	"crypto/rand"
	"errors"
)

const (
	base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"
	base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// Generator generates short codes.
type Generator interface {
	Generate(length int) (string, error)
}

type alphabetGenerator struct {
	alphabet string
}

// NewBase36 returns a generator of lowercase alphanumeric codes.
func NewBase36() Generator {
	return &alphabetGenerator{alphabet: base36Chars}
}

// NewBase62 returns a generator of mixed-case alphanumeric codes.
func NewBase62() Generator {
	return &alphabetGenerator{alphabet: base62Chars}
}

// Generate returns a random code of the given length drawn from the alphabet.
// Bytes at or above the largest multiple of the alphabet size are rejected
// so every character is equally likely.
func (g *alphabetGenerator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("length must be positive")
	}

	n := len(g.alphabet)
	limit := 256 - 256%n
	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2+1)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, g.alphabet[int(b)%n])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}
