package codegen

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	DefaultLength = 7
	MinLength     = 4
	MaxLength     = 32

	// Alphabet is URL-safe and drops the look-alikes 0 O 1 l I.
	Alphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Largest multiple of len(Alphabet) that fits in a byte; bytes at or above it
// are discarded so every symbol is equally likely.
var acceptBelow = byte(256 - 256%len(Alphabet))

// Generator produces candidate short codes. Candidates may collide;
// uniqueness is decided by the store.
type Generator interface {
	Generate() (string, error)
}

// RandomGenerator draws fixed-length codes from a randomness source.
type RandomGenerator struct {
	length int
	source io.Reader
}

// NewRandomGenerator returns a generator backed by crypto/rand.
func NewRandomGenerator(length int) (*RandomGenerator, error) {
	return NewGeneratorFromSource(length, rand.Reader)
}

// NewGeneratorFromSource lets callers seed the generator with any reader,
// which keeps Generate a pure function of that source.
func NewGeneratorFromSource(length int, source io.Reader) (*RandomGenerator, error) {
	if length == 0 {
		length = DefaultLength
	}
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("codegen: length %d out of range [%d, %d]", length, MinLength, MaxLength)
	}
	if source == nil {
		return nil, fmt.Errorf("codegen: nil randomness source")
	}
	return &RandomGenerator{length: length, source: source}, nil
}

// Length reports the size of generated codes.
func (g *RandomGenerator) Length() int {
	return g.length
}

func (g *RandomGenerator) Generate() (string, error) {
	code := make([]byte, 0, g.length)
	buf := make([]byte, g.length+g.length/2)

	for len(code) < g.length {
		if _, err := io.ReadFull(g.source, buf); err != nil {
			return "", fmt.Errorf("codegen: read randomness: %w", err)
		}
		for _, b := range buf {
			if b >= acceptBelow {
				continue
			}
			code = append(code, Alphabet[int(b)%len(Alphabet)])
			if len(code) == g.length {
				break
			}
		}
	}

	return string(code), nil
}
