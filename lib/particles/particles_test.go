package particles

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/multiphase/lib/eq"
	"github.com/phil-mansfield/multiphase/lib/geom"
)

// testStore creates a store with one field of each category, where every value
// encodes its slot.
func testStore(n int) *Particles {
	p := New(n)
	rho := p.Scalar(p.AddScalar("Density"))
	x := p.Vector(p.AddVector("Position"))
	b := p.Tensor(p.AddTensor("KernelCorrectionMatrix"))
	id := p.Integer(p.AddInteger("OriginalID"))
	for i := 0; i < n; i++ {
		rho[i] = float64(i) + 0.5
		x[i] = geom.Vec{X: float64(i), Y: float64(2 * i), Z: -1}
		b[i] = geom.Identity().Scale(float64(i))
		id[i] = 100 + i
	}
	return p
}

func TestRegister(t *testing.T) {
	p := New(6)
	h1 := p.AddScalar("Pressure")
	h2 := p.AddScalar("Density")
	h3 := p.AddScalar("Pressure")

	assert.Equal(t, h1, h3, "re-registering returns the same handle")
	assert.NotEqual(t, h1, h2)
	assert.Len(t, p.Scalar(h1), 6)
	assert.Equal(t, []string{"Pressure", "Density"}, p.Names(ScalarCategory))

	cat, ok := p.Category("Density")
	assert.True(t, ok)
	assert.Equal(t, ScalarCategory, cat)

	assert.Panics(t, func() { p.AddVector("Pressure") },
		"a name may only live in one category")
}

func TestNamedLookup(t *testing.T) {
	p := testStore(4)

	h, err := p.ScalarNamed("Density")
	require.NoError(t, err)
	assert.Equal(t, 2.5, p.Scalar(h)[2])

	_, err = p.VectorNamed("Velocity")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = p.VectorNamed("Density")
	assert.True(t, errors.Is(err, ErrNotFound), "wrong category is not found")

	_, err = p.Data("Velocity")
	assert.True(t, errors.Is(err, ErrNotFound))

	data, err := p.Data("OriginalID")
	require.NoError(t, err)
	assert.True(t, eq.Generic([]int{100, 101, 102, 103}, data))
}

func TestSwap(t *testing.T) {
	n := 7
	p, orig := testStore(n), testStore(n)
	a, b := 1, 5

	p.Swap(a, b)
	for _, name := range []string{"Density", "Position",
		"KernelCorrectionMatrix", "OriginalID"} {

		pd, _ := p.Data(name)
		od, _ := orig.Data(name)
		switch x := pd.(type) {
		case []float64:
			y := od.([]float64)
			for i := range x {
				want := y[i]
				if i == a {
					want = y[b]
				} else if i == b {
					want = y[a]
				}
				if x[i] != want {
					t.Errorf("Expected %s[%d] = %g after swap, got %g.",
						name, i, want, x[i])
				}
			}
		case []geom.Vec:
			y := od.([]geom.Vec)
			assert.Equal(t, y[a], x[b])
			assert.Equal(t, y[b], x[a])
			assert.Equal(t, y[0], x[0])
		case []geom.Mat:
			y := od.([]geom.Mat)
			assert.Equal(t, y[a], x[b])
			assert.Equal(t, y[b], x[a])
		case []int:
			y := od.([]int)
			assert.Equal(t, y[a], x[b])
			assert.Equal(t, y[b], x[a])
			assert.Equal(t, y[n-1], x[n-1])
		}
	}

	// Swapping twice is the identity.
	p.Swap(a, b)
	for _, name := range []string{"Density", "Position",
		"KernelCorrectionMatrix", "OriginalID"} {
		pd, _ := p.Data(name)
		od, _ := orig.Data(name)
		if !eq.Generic(pd, od) {
			t.Errorf("Expected %s to be restored after two swaps, got %v.",
				name, pd)
		}
	}

	assert.Panics(t, func() { p.Swap(0, n) })
}

func TestPermute(t *testing.T) {
	tests := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 1, 4, 3},
		{1, 2, 3, 4, 0},
	}

	for i, order := range tests {
		p := testStore(len(order))
		p.Permute(order)

		id := p.Integer(Integer{0})
		rho := p.Scalar(Scalar{0})
		x := p.Vector(Vector{0})
		for slot, k := range order {
			if id[slot] != 100+k {
				t.Errorf("%d) Expected OriginalID[%d] = %d, got %d.",
					i, slot, 100+k, id[slot])
			}
			assert.Equal(t, float64(k)+0.5, rho[slot])
			assert.Equal(t, float64(k), x[slot].X)
		}
	}

	p := testStore(3)
	assert.Panics(t, func() { p.Permute([]int{0, 0, 1}) })
	assert.Panics(t, func() { p.Permute([]int{0, 1}) })
}

func TestResizeCheck(t *testing.T) {
	p := testStore(4)
	p.Resize(6)
	assert.Equal(t, 6, p.Len())
	p.Check()

	rho := p.Scalar(Scalar{0})
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5, 0, 0}, rho)

	p.Resize(2)
	assert.Len(t, p.Vector(Vector{0}), 2)

	// Simulate an external resize which forgot one array.
	p.scalars[0] = p.scalars[0][:1]
	assert.Panics(t, func() { p.Check() })
}
