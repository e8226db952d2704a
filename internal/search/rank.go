package search

import "slices"

// RankKey is what the ranker orders on.
type RankKey struct {
	Upcoming int64
	Title    string
	ID       uint64
}

// Rank sorts items in place: more upcoming sessions first, then title
// ascending, then id ascending so equal titles have a stable order.
func Rank[T any](items []T, key func(T) RankKey) {
	slices.SortStableFunc(items, func(a, b T) int {
		ka, kb := key(a), key(b)
		switch {
		case ka.Upcoming > kb.Upcoming:
			return -1
		case ka.Upcoming < kb.Upcoming:
			return 1
		case ka.Title < kb.Title:
			return -1
		case ka.Title > kb.Title:
			return 1
		case ka.ID < kb.ID:
			return -1
		case ka.ID > kb.ID:
			return 1
		}
		return 0
	})
}
