package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"query", "query", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"qurey", "query", 2},
		{"querry", "query", 1},
		{"kitten", "sitting", 3},
		{"pm", "pl", 1},
		{"stat", "state", 1},
		{"discovery", "diag", 6},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "distance is symmetric")
		})
	}
}

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"--query", "query"},
		{"-q", "q"},
		{"query", "query"},
		{"--query=", "query"},
		{"---query", "query"},
		{"--", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeToken(tt.in), "NormalizeToken(%q)", tt.in)
	}
}
