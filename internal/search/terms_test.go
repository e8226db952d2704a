package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "single word", in: "Matrix", want: []string{"Matrix"}},
		{name: "collapses runs of whitespace", in: "  the \t matrix\n reloaded ", want: []string{"the", "matrix", "reloaded"}},
		{name: "keeps punctuation", in: "w.a.l.l-e!", want: []string{"w.a.l.l-e!"}},
		{name: "empty", in: "", want: []string{}},
		{name: "only spaces", in: "   ", want: []string{}},
		{name: "non-latin", in: "Брат  2", want: []string{"Брат", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Terms(tt.in))
		})
	}
}
