package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTotalPages(t *testing.T) {
	cases := []struct {
		total      int64
		limit      int
		totalPages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 7, 15},
	}

	for _, tc := range cases {
		got := New(tc.total, 1, tc.limit)
		assert.Equal(t, tc.totalPages, got.TotalPages, "total=%d limit=%d", tc.total, tc.limit)
	}
}

func TestNormalize(t *testing.T) {
	p := Params{Page: 0, Limit: -5}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)

	p = Params{Page: 3, Limit: 20}
	p.Normalize()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 40, p.Offset())
}
