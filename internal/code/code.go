// Package code generates the human-readable lot codes printed on labels
// and scanned at the point of sale.
package code

import (
	"crypto/rand"
	"strings"
)

const (
	base36     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	filler     = 'X'
	designLen  = 4
	sizeLen    = 3
	colorLen   = 3
	suffixLen  = 3
)

// Generator derives lot codes of the form DDDD-SSS-CCC-RRR. The random
// suffix keeps codes from colliding when two lots share a design prefix;
// no uniqueness check is performed against existing codes.
type Generator struct {
	random func(n int) string
}

// NewGenerator returns a Generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{random: randomBase36}
}

// NewGeneratorWithRandom returns a Generator with a custom suffix source.
// Tests use this to make codes deterministic.
func NewGeneratorWithRandom(random func(n int) string) *Generator {
	return &Generator{random: random}
}

// Generate builds a code from the design, size and color of a lot.
func (g *Generator) Generate(design, size, color string) string {
	parts := []string{
		segment(design, designLen),
		segment(size, sizeLen),
		segment(color, colorLen),
		g.random(suffixLen),
	}
	return strings.Join(parts, "-")
}

// segment uppercases and truncates s to width, replacing anything outside
// A-Z0-9 with the filler and padding short inputs so the code keeps its
// fixed XXXX-XXX-XXX-XXX shape.
func segment(s string, width int) string {
	s = strings.ToUpper(s)
	out := make([]byte, width)
	for i := 0; i < width; i++ {
		if i < len(s) && isAlphanumeric(s[i]) {
			out[i] = s[i]
		} else {
			out[i] = filler
		}
	}
	return string(out)
}

func isAlphanumeric(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func randomBase36(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i := range buf {
		buf[i] = base36[int(buf[i])%len(base36)]
	}
	return string(buf)
}
