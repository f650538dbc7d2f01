package cells

/* This file contains the mapping between positions, 3-indices and flat cell
indices. */

import (
	"math"

	m_error "github.com/phil-mansfield/multiphase/lib/error"
	"github.com/phil-mansfield/multiphase/lib/geom"
)

// Grid is a uniform grid of cubic cells covering a box. Cells are x-major:
// the flat index of (ix, iy, iz) is ix + iy*Span[0] + iz*Span[0]*Span[1].
// Two dimensional grids have Span[2] = 1.
type Grid struct {
	Dim      int
	Origin   geom.Vec
	CellSize float64
	Span     [3]int
}

// NewGrid returns a grid with cells of width cellSize that covers box.
func NewGrid(box geom.Box, cellSize float64, dim int) *Grid {
	if dim != 2 && dim != 3 {
		m_error.Internal("Grid dimension must be 2 or 3, not %d.", dim)
	} else if !(cellSize > 0) {
		m_error.Internal("Grid cell size must be positive, not %g.", cellSize)
	}

	g := &Grid{Dim: dim, Origin: box.Lower, CellSize: cellSize, Span: [3]int{1, 1, 1}}
	width := box.Width()
	for k := 0; k < dim; k++ {
		w := geom.Component(width, k)
		if w < 0 {
			m_error.Internal("Grid box has negative width %g in dimension %d.",
				w, k)
		}
		if n := int(math.Ceil(w / cellSize)); n > 1 {
			g.Span[k] = n
		}
	}
	return g
}

// Cells returns the total number of cells in the grid.
func (g *Grid) Cells() int { return g.Span[0] * g.Span[1] * g.Span[2] }

// IndexVec returns the 3-index of the cell containing x. Positions outside the
// grid are clamped into the border cells.
func (g *Grid) IndexVec(x geom.Vec) [3]int {
	iv := [3]int{}
	for k := 0; k < g.Dim; k++ {
		xk := (geom.Component(x, k) - geom.Component(g.Origin, k)) / g.CellSize
		iv[k] = clamp(xk, g.Span[k])
	}
	return iv
}

func clamp(x float64, n int) int {
	if !(x >= 0) {
		return 0
	} else if x >= float64(n) {
		return n - 1
	}
	return int(x)
}

// IndexVecToIndex converts a 3-index to a flat index.
func (g *Grid) IndexVecToIndex(iv [3]int) int {
	return iv[0] + iv[1]*g.Span[0] + iv[2]*g.Span[0]*g.Span[1]
}

// IndexToIndexVec converts a flat index to a 3-index.
func (g *Grid) IndexToIndexVec(idx int) [3]int {
	return [3]int{
		idx % g.Span[0],
		(idx / g.Span[0]) % g.Span[1],
		idx / (g.Span[0] * g.Span[1]),
	}
}

// CellIndex returns the flat index of the cell containing x.
func (g *Grid) CellIndex(x geom.Vec) int {
	return g.IndexVecToIndex(g.IndexVec(x))
}

// Reach returns the number of cells in each direction which must be searched
// to find every point within radius of a point.
func (g *Grid) Reach(radius float64) int {
	if !(radius > 0) {
		return 0
	}
	return int(math.Ceil(radius / g.CellSize))
}
