/*package cells contains the cell-linked list used to find neighbors. A List
buckets the particles of one body into the cells of a uniform Grid whose cells
are at least as wide as the interaction cutoff.*/
package cells

import (
	m_error "github.com/phil-mansfield/multiphase/lib/error"
	"github.com/phil-mansfield/multiphase/lib/geom"
)

// List is a cell-linked list stored as a flat, compressed layout: the slots in
// cell c are slots[cellStart[c]:cellStart[c+1]], in increasing slot order.
type List struct {
	*Grid

	cellStart []int
	slots     []int
	cellOf    []int
	counts    []int

	generation uint64
}

// New returns an empty List over the given box. cellSize should be at least
// the cutoff radius of the relations built from it.
func New(box geom.Box, cellSize float64, dim int) *List {
	g := NewGrid(box, cellSize, dim)
	return &List{
		Grid:      g,
		cellStart: make([]int, g.Cells()+1),
		counts:    make([]int, g.Cells()),
	}
}

// Build clears every cell and buckets every slot of xs into the cell
// containing it. It runs in O(len(xs) + Cells()) and increments Generation().
func (l *List) Build(xs []geom.Vec) {
	n := len(xs)
	l.slots = resize(l.slots, n)
	l.cellOf = resize(l.cellOf, n)
	for c := range l.counts {
		l.counts[c] = 0
	}

	for i := range xs {
		c := l.CellIndex(xs[i])
		l.cellOf[i] = c
		l.counts[c]++
	}

	l.cellStart[0] = 0
	for c := range l.counts {
		l.cellStart[c+1] = l.cellStart[c] + l.counts[c]
		l.counts[c] = l.cellStart[c]
	}

	for i := range xs {
		c := l.cellOf[i]
		l.slots[l.counts[c]] = i
		l.counts[c]++
	}

	l.generation++
}

func resize(x []int, n int) []int {
	if cap(x) >= n {
		return x[:n]
	}
	return make([]int, n)
}

// Len returns the number of slots bucketed by the last Build.
func (l *List) Len() int { return len(l.slots) }

// Generation returns a counter which is incremented by every Build. Relations
// record it so that reads of stale neighbor lists can be detected.
func (l *List) Generation() uint64 { return l.generation }

// Cell returns the slots in cell c. The returned slice must not be modified.
func (l *List) Cell(c int) []int {
	return l.slots[l.cellStart[c]:l.cellStart[c+1]]
}

// CellOf returns the cell that slot i was placed in by the last Build.
func (l *List) CellOf(i int) int {
	if i < 0 || i >= len(l.cellOf) {
		m_error.Internal("Slot %d requested from a cell list holding %d "+
			"slots.", i, len(l.cellOf))
	}
	return l.cellOf[i]
}

// CellsNear appends to buf[:0] the flat indices of every cell that could hold
// a point within radius of x and returns it. For radius <= CellSize this is
// the 3x3 (2D) or 3x3x3 (3D) block around x's cell, cut off at the grid edges.
func (l *List) CellsNear(x geom.Vec, radius float64, buf []int) []int {
	buf = buf[:0]
	iv, reach := l.IndexVec(x), l.Reach(radius)

	var lo, hi [3]int
	for k := 0; k < 3; k++ {
		if k >= l.Dim {
			lo[k], hi[k] = 0, 0
			continue
		}
		lo[k], hi[k] = iv[k]-reach, iv[k]+reach
		if lo[k] < 0 {
			lo[k] = 0
		}
		if hi[k] >= l.Span[k] {
			hi[k] = l.Span[k] - 1
		}
	}

	for iz := lo[2]; iz <= hi[2]; iz++ {
		for iy := lo[1]; iy <= hi[1]; iy++ {
			for ix := lo[0]; ix <= hi[0]; ix++ {
				buf = append(buf, l.IndexVecToIndex([3]int{ix, iy, iz}))
			}
		}
	}
	return buf
}

// SortOrder appends to buf[:0] every slot grouped by cell, in cell order, and
// returns it. Passing it to particles.Permute places particles in the same
// cell next to each other in memory.
func (l *List) SortOrder(buf []int) []int {
	return append(buf[:0], l.slots...)
}
