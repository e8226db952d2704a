package search

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultPageSize is used when a non-positive page size is requested.
const DefaultPageSize = 12

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Number      int  `json:"number"`
	Size        int  `json:"page_size"`
	Total       int  `json:"total"`
	NumPages    int  `json:"num_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Paginate returns the requested 1-based page of items. rawPage is the
// untrusted query value: empty or non-numeric means page 1 and out of range
// numbers clamp to the first or last page. An empty result still has one
// (empty) page.
func Paginate[T any](items []T, rawPage string, size int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}
	total := len(items)
	numPages := (total + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}
	n := parsePage(rawPage)
	if n < 1 {
		n = 1
	}
	if n > numPages {
		n = numPages
	}
	lo := (n - 1) * size
	hi := min(lo+size, total)
	out := make([]T, 0, hi-lo)
	out = append(out, items[lo:hi]...)
	return Page[T]{
		Items:       out,
		Number:      n,
		Size:        size,
		Total:       total,
		NumPages:    numPages,
		HasNext:     n < numPages,
		HasPrevious: n > 1,
	}
}

func parsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		// Still a number, just past int; clamp like any other out of range page.
		if strings.HasPrefix(raw, "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	if err != nil {
		return 1
	}
	return n
}
