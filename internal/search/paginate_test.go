package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate(t *testing.T) {
	items := seq(10)

	tests := []struct {
		name     string
		raw      string
		size     int
		want     []int
		number   int
		numPages int
		next     bool
		prev     bool
	}{
		{name: "default page", raw: "", size: 4, want: []int{0, 1, 2, 3}, number: 1, numPages: 3, next: true},
		{name: "middle page", raw: "2", size: 4, want: []int{4, 5, 6, 7}, number: 2, numPages: 3, next: true, prev: true},
		{name: "partial last page", raw: "3", size: 4, want: []int{8, 9}, number: 3, numPages: 3, prev: true},
		{name: "beyond last clamps", raw: "99", size: 4, want: []int{8, 9}, number: 3, numPages: 3, prev: true},
		{name: "zero clamps to first", raw: "0", size: 4, want: []int{0, 1, 2, 3}, number: 1, numPages: 3, next: true},
		{name: "negative clamps to first", raw: "-5", size: 4, want: []int{0, 1, 2, 3}, number: 1, numPages: 3, next: true},
		{name: "overflowing page clamps to last", raw: "99999999999999999999", size: 4, want: []int{8, 9}, number: 3, numPages: 3, prev: true},
		{name: "overflowing negative clamps to first", raw: "-99999999999999999999", size: 4, want: []int{0, 1, 2, 3}, number: 1, numPages: 3, next: true},
		{name: "garbage means first", raw: "abc", size: 4, want: []int{0, 1, 2, 3}, number: 1, numPages: 3, next: true},
		{name: "default size", raw: "1", size: 0, want: items, number: 1, numPages: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.raw, tt.size)
			assert.Equal(t, tt.want, p.Items)
			assert.Equal(t, tt.number, p.Number)
			assert.Equal(t, tt.numPages, p.NumPages)
			assert.Equal(t, len(items), p.Total)
			assert.Equal(t, tt.next, p.HasNext)
			assert.Equal(t, tt.prev, p.HasPrevious)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]string{}, "7", 12)
	assert.Empty(t, p.Items)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, 1, p.NumPages)
	assert.Equal(t, 0, p.Total)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrevious)
}

func TestPaginate_ConcatenationReproducesInput(t *testing.T) {
	for _, n := range []int{0, 1, 11, 12, 13, 25, 48} {
		for _, size := range []int{1, 4, 12} {
			t.Run(fmt.Sprintf("n=%d/size=%d", n, size), func(t *testing.T) {
				items := seq(n)
				first := Paginate(items, "1", size)
				var all []int
				for page := 1; page <= first.NumPages; page++ {
					p := Paginate(items, fmt.Sprint(page), size)
					require.Equal(t, page, p.Number)
					all = append(all, p.Items...)
				}
				if n == 0 {
					assert.Empty(t, all)
					return
				}
				assert.Equal(t, items, all)
			})
		}
	}
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	items := []int{1, 2, 3}
	p := Paginate(items, "1", 2)
	p.Items[0] = 100
	assert.Equal(t, 1, items[0])
}
