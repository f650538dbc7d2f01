/*package seed contains functions which generate the initial particle
positions of a body: regular lattices filling boxes, and column-formatted
text files for anything more complicated.*/
package seed

import (
	"math"

	m_error "github.com/phil-mansfield/multiphase/lib/error"
	"github.com/phil-mansfield/multiphase/lib/geom"
)

// Lattice returns the centers of a square (or cubic) lattice with the given
// spacing which fills box, skipping any point inside one of the exclude
// boxes. Only the first dim dimensions are filled; the rest are left at
// zero. Points are ordered x-major, like cell indices.
func Lattice(box geom.Box, exclude []geom.Box, spacing float64, dim int) []geom.Vec {
	if spacing <= 0 {
		m_error.Internal("Lattice spacing must be positive, got %g.", spacing)
	} else if dim != 2 && dim != 3 {
		m_error.Internal("Lattice dimension must be 2 or 3, got %d.", dim)
	}

	var n [3]int
	w := box.Width()
	for k := 0; k < 3; k++ {
		n[k] = 1
		if k < dim {
			// The small offset keeps widths which are exact multiples of the
			// spacing from losing a row to round-off.
			n[k] = int(math.Floor(geom.Component(w, k)/spacing + 1e-6))
		}
	}

	xs := make([]geom.Vec, 0, n[0]*n[1]*n[2])
	var idx [3]int
	for idx[2] = 0; idx[2] < n[2]; idx[2]++ {
		for idx[1] = 0; idx[1] < n[1]; idx[1]++ {
			for idx[0] = 0; idx[0] < n[0]; idx[0]++ {
				var c [3]float64
				for k := 0; k < dim; k++ {
					c[k] = geom.Component(box.Lower, k) +
						(float64(idx[k])+0.5)*spacing
				}
				x := geom.Vec{X: c[0], Y: c[1], Z: c[2]}
				if !excluded(x, exclude, dim) {
					xs = append(xs, x)
				}
			}
		}
	}
	return xs
}

func excluded(x geom.Vec, exclude []geom.Box, dim int) bool {
	for i := range exclude {
		if exclude[i].Contains(x, dim) {
			return true
		}
	}
	return false
}
