/*package geom contains the small amount of geometry that the rest of
multiphase needs: tensors, boxes and a few vector helpers on top of gonum's
r3.Vec. Two dimensional problems use the same types with z = 0.
*/
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is the vector type stored in particle fields.
type Vec = r3.Vec

// Mat is a 3 x 3 tensor stored in row-major order.
type Mat [3][3]float64

// Identity returns the identity tensor.
func Identity() Mat {
	return Mat{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Outer returns the tensor product a (x) b.
func Outer(a, b Vec) Mat {
	av, bv := [3]float64{a.X, a.Y, a.Z}, [3]float64{b.X, b.Y, b.Z}
	m := Mat{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = av[i] * bv[j]
		}
	}
	return m
}

// Add returns m + n.
func (m Mat) Add(n Mat) Mat {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] += n[i][j]
		}
	}
	return m
}

// Scale returns f*m.
func (m Mat) Scale(f float64) Mat {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] *= f
		}
	}
	return m
}

// MulVec returns the matrix-vector product m*v.
func (m Mat) MulVec(v Vec) Vec {
	return Vec{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Norm returns the Euclidean length of v.
func Norm(v Vec) float64 { return math.Sqrt(v.Dot(v)) }

// Norm2 returns the squared Euclidean length of v.
func Norm2(v Vec) float64 { return v.Dot(v) }

// Component returns the dim-th component of v.
func Component(v Vec, dim int) float64 {
	switch dim {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Box is an axis-aligned bounding box. Lower is inclusive and Upper is
// exclusive.
type Box struct {
	Lower, Upper Vec
}

// Contains returns true if x is inside the box. Only the first dim components
// are checked.
func (b *Box) Contains(x Vec, dim int) bool {
	for k := 0; k < dim; k++ {
		xk := Component(x, k)
		if xk < Component(b.Lower, k) || xk >= Component(b.Upper, k) {
			return false
		}
	}
	return true
}

// Width returns the side lengths of the box.
func (b *Box) Width() Vec { return b.Upper.Sub(b.Lower) }

// Expand returns a copy of the box grown by d on every side of the first dim
// dimensions.
func (b *Box) Expand(d float64, dim int) Box {
	out := *b
	dv := [3]float64{}
	for k := 0; k < dim; k++ {
		dv[k] = d
	}
	delta := Vec{X: dv[0], Y: dv[1], Z: dv[2]}
	out.Lower = out.Lower.Sub(delta)
	out.Upper = out.Upper.Add(delta)
	return out
}
