/*package material contains the equations of state that relate the pressure
and density of a fluid. Operators treat them as pure per-particle functions.*/
package material

import (
	m_error "github.com/phil-mansfield/multiphase/lib/error"
)

// EOS is an equation of state.
type EOS interface {
	// Pressure returns the pressure of a fluid element with density rho.
	Pressure(rho float64) float64
	// Density is the inverse of Pressure.
	Density(p float64) float64
	// SoundSpeed returns the local speed of sound.
	SoundSpeed(p, rho float64) float64
	// ReferenceDensity returns the density at zero pressure.
	ReferenceDensity() float64
}

// WeaklyCompressible is the linear equation of state p = c0^2 (rho - rho0).
// Pressures may be negative.
type WeaklyCompressible struct {
	Rho0, C0 float64
}

var _ EOS = &WeaklyCompressible{}

// NewWeaklyCompressible returns a linear equation of state with reference
// density rho0 and artificial sound speed c0.
func NewWeaklyCompressible(rho0, c0 float64) *WeaklyCompressible {
	if !(rho0 > 0) || !(c0 > 0) {
		m_error.Internal("Equation of state given reference density %g and "+
			"sound speed %g. Both must be positive.", rho0, c0)
	}
	return &WeaklyCompressible{rho0, c0}
}

func (m *WeaklyCompressible) Pressure(rho float64) float64 {
	return m.C0 * m.C0 * (rho - m.Rho0)
}

func (m *WeaklyCompressible) Density(p float64) float64 {
	return p/(m.C0*m.C0) + m.Rho0
}

func (m *WeaklyCompressible) SoundSpeed(p, rho float64) float64 { return m.C0 }

func (m *WeaklyCompressible) ReferenceDensity() float64 { return m.Rho0 }

// ArtificialSoundSpeed returns the sound speed which limits density variations
// to about one percent for flows with a maximum speed of uMax.
func ArtificialSoundSpeed(uMax float64) float64 { return 10 * uMax }
