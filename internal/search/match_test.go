package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name   string
		terms  []string
		fields []string
		want   bool
	}{
		{name: "ascii case-insensitive", terms: []string{"matrix"}, fields: []string{"The Matrix", ""}, want: true},
		{name: "every term required", terms: []string{"matrix", "revolutions"}, fields: []string{"The Matrix", "Reloaded"}, want: false},
		{name: "terms may hit different fields", terms: []string{"брат", "brother"}, fields: []string{"Брат", "Brother"}, want: true},
		{name: "cyrillic folding", terms: []string{"БРАТ"}, fields: []string{"брат 2"}, want: true},
		{name: "greek final sigma folds", terms: []string{"ΟΔΥΣΣΕΑΣ"}, fields: []string{"οδυσσεας"}, want: true},
		{name: "sharp s folds to ss", terms: []string{"STRASSE"}, fields: []string{"Die Straße"}, want: true},
		{name: "substring inside word", terms: []string{"atri"}, fields: []string{"Matrix"}, want: true},
		{name: "no terms matches everything", terms: nil, fields: []string{"anything"}, want: true},
		{name: "no fields", terms: []string{"x"}, fields: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMatcher(tt.terms).Match(tt.fields...))
		})
	}
}

func TestFilter(t *testing.T) {
	candidates := []Candidate{
		{ID: 1, Fields: []string{"The Matrix", "The Matrix"}},
		{ID: 2, Fields: []string{"Matrix Reloaded", ""}},
		{ID: 3, Fields: []string{"Матрица", "The Matrix Resurrections"}},
		{ID: 4, Fields: []string{"Брат", ""}},
	}

	assert.Equal(t, []uint64{1, 2, 3}, Filter(candidates, Terms("matrix")))
	assert.Equal(t, []uint64{3}, Filter(candidates, Terms("МАТРИЦА")))
	assert.Equal(t, []uint64{2}, Filter(candidates, Terms("reloaded MATRIX")))
	assert.Empty(t, Filter(candidates, Terms("zzz")))
}

func TestChooseStrategy(t *testing.T) {
	assert.Equal(t, StrategyNative, ChooseStrategy("auto", true))
	assert.Equal(t, StrategyMemory, ChooseStrategy("auto", false))
	assert.Equal(t, StrategyMemory, ChooseStrategy("", false))
	assert.Equal(t, StrategyNative, ChooseStrategy(" NATIVE ", false))
	assert.Equal(t, StrategyMemory, ChooseStrategy("memory", true))
}
