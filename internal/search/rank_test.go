package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type hit struct {
	id       uint64
	title    string
	upcoming int64
}

func hitKey(h hit) RankKey { return RankKey{Upcoming: h.upcoming, Title: h.title, ID: h.id} }

func TestRank(t *testing.T) {
	hits := []hit{
		{id: 1, title: "Matrix Reloaded", upcoming: 0},
		{id: 2, title: "The Matrix", upcoming: 1},
		{id: 3, title: "Alien", upcoming: 3},
		{id: 4, title: "Aliens", upcoming: 3},
		{id: 5, title: "Alien", upcoming: 3},
	}

	Rank(hits, hitKey)

	got := make([]uint64, len(hits))
	for i, h := range hits {
		got[i] = h.id
	}
	assert.Equal(t, []uint64{3, 5, 4, 2, 1}, got)
}

func TestRank_OrderingProperty(t *testing.T) {
	hits := []hit{
		{id: 10, title: "b", upcoming: 2},
		{id: 11, title: "a", upcoming: 2},
		{id: 12, title: "c", upcoming: 5},
		{id: 13, title: "a", upcoming: 0},
		{id: 14, title: "z", upcoming: 1},
	}
	Rank(hits, hitKey)

	for i := 1; i < len(hits); i++ {
		prev, cur := hits[i-1], hits[i]
		if prev.upcoming == cur.upcoming {
			assert.LessOrEqual(t, prev.title, cur.title)
		} else {
			assert.Greater(t, prev.upcoming, cur.upcoming)
		}
	}
}
