package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinKnownValues(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"acme", "acme", 0},
		{"acme", "acne", 1},
		{"acme", "acmes", 1},
		{"Acme", "acme", 1},
		{"naïve", "naive", 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Levenshtein(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}

func TestLevenshteinProperties(t *testing.T) {
	words := []string{"", "a", "ab", "acme", "acmes", "macme", "widget", "widgets", "brand", "bran", "zzz"}
	for _, a := range words {
		assert.Equal(t, 0, Levenshtein(a, a))
		for _, b := range words {
			ab := Levenshtein(a, b)
			assert.Equal(t, ab, Levenshtein(b, a), "symmetry %q %q", a, b)
			for _, c := range words {
				assert.LessOrEqual(t, Levenshtein(a, c), ab+Levenshtein(b, c), "triangle %q %q %q", a, b, c)
			}
		}
	}
}
