// Package verification produces the one-time codes that confirm a transfer.
package verification

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// DefaultLength matches the six digit codes customers are used to.
const DefaultLength = 6

// Generator issues numeric codes of a fixed length with no leading zero, so
// the code reads the same whether it is handled as text or as a number.
type Generator struct {
	length int
	rand   io.Reader
}

// NewGenerator creates a Generator. Lengths below 4 fall back to DefaultLength.
func NewGenerator(length int) *Generator {
	if length < 4 {
		length = DefaultLength
	}
	return &Generator{length: length, rand: rand.Reader}
}

// Generate returns a code in [10^(n-1), 10^n - 1].
func (g *Generator) Generate() (string, error) {
	lower := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(g.length-1)), nil)
	span := new(big.Int).Mul(lower, big.NewInt(9))

	n, err := rand.Int(g.rand, span)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}

	return n.Add(n, lower).String(), nil
}
