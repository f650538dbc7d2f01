package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// integrate numerically integrates W over the plane or volume.
func integrate(k Kernel, dim int) float64 {
	n := 20000
	dr := k.Cutoff() / float64(n)
	sum := 0.0
	for i := 0; i < n; i++ {
		r := (float64(i) + 0.5) * dr
		if dim == 2 {
			sum += 2 * math.Pi * r * k.W(r) * dr
		} else {
			sum += 4 * math.Pi * r * r * k.W(r) * dr
		}
	}
	return sum
}

func TestWendlandNormalization(t *testing.T) {
	for _, dim := range []int{2, 3} {
		k := NewWendland(0.13, dim)
		assert.InDelta(t, 1.0, integrate(k, dim), 1e-6, "%dD", dim)
		assert.Equal(t, 0.26, k.Cutoff())
		assert.Equal(t, 0.0, k.W(0.26))
		assert.Equal(t, 0.0, k.DW(0.3))
		assert.Equal(t, 0.0, k.DW(0))
	}
}

func TestWendlandDerivative(t *testing.T) {
	k := NewWendland(1.3, 2)
	eps := 1e-6
	for r := 0.05; r < k.Cutoff(); r += 0.1 {
		num := (k.W(r+eps) - k.W(r-eps)) / (2 * eps)
		if math.Abs(num-k.DW(r)) > 1e-6 {
			t.Errorf("Expected DW(%g) = %g, got %g.", r, num, k.DW(r))
		}
		if k.DW(r) > 0 {
			t.Errorf("Expected DW(%g) <= 0, got %g.", r, k.DW(r))
		}
	}
}

func TestTabulated(t *testing.T) {
	for _, dim := range []int{2, 3} {
		k := NewWendland(0.5, dim)
		tab := NewTabulated(k, 0)
		assert.Equal(t, k.H(), tab.H())
		assert.Equal(t, k.Cutoff(), tab.Cutoff())

		w0, dwMax := k.W(0), math.Abs(k.DW(0.5*k.H()))
		for r := 0.0; r < 1.2; r += 0.0137 {
			assert.InDelta(t, k.W(r), tab.W(r), 1e-3*w0, "W(%g)", r)
			assert.InDelta(t, k.DW(r), tab.DW(r), 1e-3*dwMax, "DW(%g)", r)
		}
		assert.Equal(t, 0.0, tab.W(2*k.Cutoff()))
	}
}

func TestLatticeSigma(t *testing.T) {
	// For a well resolved kernel, sum_j W ~ 1 / dp^dim.
	dp := 0.1
	k2 := FromSpacing(dp, DefaultSmoothingLengthRatio, 2)
	assert.InDelta(t, 1/(dp*dp), LatticeSigma(k2, dp, 2), 0.05/(dp*dp))

	k3 := FromSpacing(dp, DefaultSmoothingLengthRatio, 3)
	assert.InDelta(t, 1/(dp*dp*dp), LatticeSigma(k3, dp, 3), 0.05/(dp*dp*dp))
}
