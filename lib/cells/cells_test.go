package cells

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/multiphase/lib/eq"
	"github.com/phil-mansfield/multiphase/lib/geom"
)

func randomPositions(n, dim int, box geom.Box, seed int64) []geom.Vec {
	rng := rand.New(rand.NewSource(seed))
	w := box.Width()
	xs := make([]geom.Vec, n)
	for i := range xs {
		xs[i] = geom.Vec{
			X: box.Lower.X + rng.Float64()*w.X,
			Y: box.Lower.Y + rng.Float64()*w.Y,
		}
		if dim == 3 {
			xs[i].Z = box.Lower.Z + rng.Float64()*w.Z
		}
	}
	return xs
}

func TestGridIndex(t *testing.T) {
	box := geom.Box{Lower: geom.Vec{X: -1}, Upper: geom.Vec{X: 3, Y: 2, Z: 1}}
	g := NewGrid(box, 0.5, 3)

	assert.Equal(t, [3]int{8, 4, 2}, g.Span)
	assert.Equal(t, 64, g.Cells())

	for idx := 0; idx < g.Cells(); idx++ {
		iv := g.IndexToIndexVec(idx)
		if out := g.IndexVecToIndex(iv); out != idx {
			t.Errorf("Expected %d -> %v -> %d, got %d.", idx, iv, idx, out)
		}
	}

	assert.Equal(t, [3]int{2, 1, 0}, g.IndexVec(geom.Vec{X: 0.2, Y: 0.7, Z: 0.1}))
	assert.Equal(t, [3]int{0, 3, 1}, g.IndexVec(geom.Vec{X: -5, Y: 10, Z: 0.9}),
		"out of range positions are clamped")

	g2 := NewGrid(box, 0.5, 2)
	assert.Equal(t, [3]int{8, 4, 1}, g2.Span)
	assert.Equal(t, [3]int{2, 1, 0}, g2.IndexVec(geom.Vec{X: 0.2, Y: 0.7, Z: 50}))

	assert.Equal(t, 1, g.Reach(0.5))
	assert.Equal(t, 2, g.Reach(0.75))
	assert.Equal(t, 0, g.Reach(0))
}

func TestCellCoverage(t *testing.T) {
	box := geom.Box{Upper: geom.Vec{X: 2, Y: 3, Z: 1.5}}
	for _, dim := range []int{2, 3} {
		for _, n := range []int{0, 1, 17, 1000} {
			l := New(box, 0.3, dim)
			xs := randomPositions(n, dim, box.Expand(0.5, dim), int64(n))
			l.Build(xs)

			seen := make([]int, n)
			total := 0
			for c := 0; c < l.Cells(); c++ {
				for _, i := range l.Cell(c) {
					seen[i]++
					total++
					if l.CellOf(i) != c {
						t.Errorf("%dD, n = %d: Expected CellOf(%d) = %d, got %d.",
							dim, n, i, c, l.CellOf(i))
					}
				}
			}

			if total != n {
				t.Errorf("%dD, n = %d: Expected %d slots in cells, got %d.",
					dim, n, n, total)
			}
			for i := range seen {
				if seen[i] != 1 {
					t.Errorf("%dD, n = %d: slot %d appears %d times.",
						dim, n, i, seen[i])
				}
			}
		}
	}
}

func TestRebuild(t *testing.T) {
	box := geom.Box{Upper: geom.Vec{X: 2, Y: 2}}
	l := New(box, 1, 2)
	xs := []geom.Vec{{X: 0.5, Y: 0.5}, {X: 1.5, Y: 0.5}, {X: 0.5, Y: 1.5}}

	l.Build(xs)
	assert.Equal(t, uint64(1), l.Generation())
	assert.Equal(t, []int{0}, l.Cell(0))

	xs[0] = geom.Vec{X: 1.5, Y: 1.5}
	assert.Equal(t, []int{0}, l.Cell(0), "cells are stale until rebuilt")

	l.Build(xs)
	assert.Equal(t, uint64(2), l.Generation())
	assert.Empty(t, l.Cell(0))
	assert.Equal(t, []int{0}, l.Cell(3))
	assert.Equal(t, 3, l.Len())
}

func TestCellsNear(t *testing.T) {
	box := geom.Box{Upper: geom.Vec{X: 5, Y: 5, Z: 5}}

	l2 := New(box, 1, 2)
	near := l2.CellsNear(geom.Vec{X: 2.5, Y: 2.5}, 1, nil)
	assert.Len(t, near, 9)
	assert.True(t, eq.IntSets([]int{6, 7, 8, 11, 12, 13, 16, 17, 18}, near))

	near = l2.CellsNear(geom.Vec{X: 0.5, Y: 0.5}, 1, near)
	assert.True(t, eq.IntSets([]int{0, 1, 5, 6}, near), "corner cell")

	l3 := New(box, 1, 3)
	assert.Len(t, l3.CellsNear(geom.Vec{X: 2.5, Y: 2.5, Z: 2.5}, 0.8, nil), 27)
	assert.Len(t, l3.CellsNear(geom.Vec{X: 2.5, Y: 2.5, Z: 2.5}, 1.5, nil), 125)
}

// TestCellsNearComplete checks that every point within the radius of a
// query point lies in one of the returned cells.
func TestCellsNearComplete(t *testing.T) {
	box := geom.Box{Upper: geom.Vec{X: 3, Y: 2, Z: 2}}
	xs := randomPositions(500, 3, box.Expand(0.2, 3), 1)
	l := New(box, 0.4, 3)
	l.Build(xs)

	r := 0.4
	var buf []int
	for i := range xs {
		buf = l.CellsNear(xs[i], r, buf)
		inCells := map[int]bool{}
		for _, c := range buf {
			for _, j := range l.Cell(c) {
				inCells[j] = true
			}
		}
		for j := range xs {
			if geom.Norm(xs[i].Sub(xs[j])) <= r && !inCells[j] {
				t.Fatalf("Expected slot %d to be near slot %d, but it wasn't "+
					"in any returned cell.", j, i)
			}
		}
	}
}

func TestSortOrder(t *testing.T) {
	box := geom.Box{Upper: geom.Vec{X: 2, Y: 1}}
	l := New(box, 1, 2)
	xs := []geom.Vec{{X: 1.5}, {X: 0.5}, {X: 1.2}, {X: 0.1}}
	l.Build(xs)

	assert.Equal(t, []int{1, 3, 0, 2}, l.SortOrder(nil))
}
