package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaginationBounds(t *testing.T) {
	p := NewPagination(2, 10, 25)
	require.Equal(t, 3, p.TotalPages)
	start, end := p.Bounds()
	require.Equal(t, 10, start)
	require.Equal(t, 20, end)

	start, end = NewPagination(3, 10, 25).Bounds()
	require.Equal(t, 20, start)
	require.Equal(t, 25, end)

	start, end = NewPagination(9, 10, 25).Bounds()
	require.Equal(t, 25, start)
	require.Equal(t, 25, end)

	p = NewPagination(0, 0, 5)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PerPage)
}

func TestPaginationBoundsHugePage(t *testing.T) {
	lines := []int{1, 2, 3}
	for _, page := range []int{1 << 62, math.MaxInt, math.MaxInt/4 + 1} {
		start, end := NewPagination(page, 4, len(lines)).Bounds()
		require.Equal(t, 3, start)
		require.Equal(t, 3, end)
		require.Empty(t, lines[start:end])
	}

	start, end := NewPagination(1, math.MaxInt, len(lines)).Bounds()
	require.Equal(t, 0, start)
	require.Equal(t, 3, end)

	start, end = NewPagination(1, 10, 0).Bounds()
	require.Equal(t, 0, start)
	require.Equal(t, 0, end)
}
