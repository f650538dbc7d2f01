/*package kernel contains the smoothing kernels used to weight particle
interactions. All kernels here have compact support: W(r) = 0 for
r >= Cutoff().*/
package kernel

import (
	"math"

	"github.com/phil-mansfield/gotetra/math/interpolate"

	m_error "github.com/phil-mansfield/multiphase/lib/error"
)

// DefaultSmoothingLengthRatio is the ratio between the smoothing length and
// the initial particle spacing used when none is configured.
const DefaultSmoothingLengthRatio = 1.3

// Kernel is a radial smoothing kernel.
type Kernel interface {
	// W returns the kernel value at distance r.
	W(r float64) float64
	// DW returns dW/dr at distance r. It is non-positive.
	DW(r float64) float64
	// H returns the smoothing length.
	H() float64
	// Cutoff returns the radius beyond which W is zero.
	Cutoff() float64
}

// Wendland is the Wendland C2 kernel, which has support 2h.
type Wendland struct {
	h, alpha float64
	dim      int
}

var (
	_ Kernel = &Wendland{}
	_ Kernel = &Tabulated{}
)

// NewWendland returns a Wendland C2 kernel with smoothing length h in the given
// dimension.
func NewWendland(h float64, dim int) *Wendland {
	if !(h > 0) {
		m_error.Internal("Kernel smoothing length must be positive, not %g.", h)
	}

	k := &Wendland{h: h, dim: dim}
	switch dim {
	case 2:
		k.alpha = 7 / (4 * math.Pi * h * h)
	case 3:
		k.alpha = 21 / (16 * math.Pi * h * h * h)
	default:
		m_error.Internal("Kernel dimension must be 2 or 3, not %d.", dim)
	}
	return k
}

// FromSpacing returns a Wendland kernel whose smoothing length is ratio times
// the particle spacing dp.
func FromSpacing(dp, ratio float64, dim int) *Wendland {
	return NewWendland(dp*ratio, dim)
}

func (k *Wendland) H() float64      { return k.h }
func (k *Wendland) Cutoff() float64 { return 2 * k.h }

func (k *Wendland) W(r float64) float64 {
	q := r / k.h
	if q >= 2 {
		return 0
	}
	f := 1 - q/2
	return k.alpha * f * f * f * f * (1 + 2*q)
}

func (k *Wendland) DW(r float64) float64 {
	q := r / k.h
	if q >= 2 {
		return 0
	}
	f := 1 - q/2
	return k.alpha / k.h * (-5 * q) * f * f * f
}

// Tabulated is a kernel which interpolates W and dW/dr from tables of another
// kernel with cubic splines.
type Tabulated struct {
	h, cutoff float64
	w, dw     *interpolate.Spline
}

// DefaultTableSize is the number of table entries used by NewTabulated when n
// is non-positive.
const DefaultTableSize = 1000

// NewTabulated samples k at n evenly spaced radii in [0, k.Cutoff()].
func NewTabulated(k Kernel, n int) *Tabulated {
	if n <= 0 {
		n = DefaultTableSize
	} else if n < 4 {
		m_error.Internal("Kernel tables need at least 4 entries, not %d.", n)
	}

	rs := make([]float64, n)
	ws, dws := make([]float64, n), make([]float64, n)
	dr := k.Cutoff() / float64(n-1)
	for i := range rs {
		rs[i] = dr * float64(i)
		ws[i], dws[i] = k.W(rs[i]), k.DW(rs[i])
	}
	rs[n-1] = k.Cutoff()

	return &Tabulated{
		h: k.H(), cutoff: k.Cutoff(),
		w:  interpolate.NewSpline(rs, ws),
		dw: interpolate.NewSpline(rs, dws),
	}
}

func (k *Tabulated) H() float64      { return k.h }
func (k *Tabulated) Cutoff() float64 { return k.cutoff }

func (k *Tabulated) W(r float64) float64 {
	if r >= k.cutoff {
		return 0
	} else if r < 0 {
		r = 0
	}
	return k.w.Eval(r)
}

func (k *Tabulated) DW(r float64) float64 {
	if r >= k.cutoff {
		return 0
	} else if r < 0 {
		r = 0
	}
	return k.dw.Eval(r)
}

// LatticeSigma returns the kernel-weighted number density sum_j W(r_ij) at a
// particle in the interior of a square (2D) or cubic (3D) lattice with spacing
// dp, including the particle itself. It is the reference used to turn number
// density sums into densities.
func LatticeSigma(k Kernel, dp float64, dim int) float64 {
	n := int(math.Ceil(k.Cutoff()/dp)) + 1
	nz := n
	if dim == 2 {
		nz = 0
	}

	sigma := 0.0
	for iz := -nz; iz <= nz; iz++ {
		for iy := -n; iy <= n; iy++ {
			for ix := -n; ix <= n; ix++ {
				r := dp * math.Sqrt(float64(ix*ix+iy*iy+iz*iz))
				sigma += k.W(r)
			}
		}
	}
	return sigma
}
