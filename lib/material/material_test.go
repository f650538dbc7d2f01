package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeaklyCompressible(t *testing.T) {
	m := NewWeaklyCompressible(1000, 20)

	assert.Equal(t, 0.0, m.Pressure(1000))
	assert.Equal(t, 400.0, m.Pressure(1001))
	assert.Equal(t, -400.0, m.Pressure(999), "negative pressures are kept")

	for _, rho := range []float64{990, 1000, 1017.5} {
		assert.InDelta(t, rho, m.Density(m.Pressure(rho)), 1e-9)
	}

	assert.Equal(t, 20.0, m.SoundSpeed(0, 1000))
	assert.Equal(t, 1000.0, m.ReferenceDensity())
	assert.Equal(t, 20.0, ArtificialSoundSpeed(2))

	assert.Panics(t, func() { NewWeaklyCompressible(0, 1) })
}
