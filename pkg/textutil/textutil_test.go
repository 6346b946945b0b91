package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a \t b\n\nc  "))
	assert.Equal(t, "", CollapseWhitespace("   "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "Öst...", Truncate("Österreich", 3))
}

func TestFold(t *testing.T) {
	tests := map[string]string{
		"  Österreich ":       "osterreich",
		"ESPAÑA":              "espana",
		"Città  del Vaticano": "citta del vaticano",
		"":                    "",
	}

	for in, want := range tests {
		assert.Equal(t, want, Fold(in), "input %q", in)
	}
}
