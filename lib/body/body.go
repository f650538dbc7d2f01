/*package body contains Body, a named set of particles which share one field
store and one cell-linked list. Every phase, wall and probe in a simulation is
a Body.*/
package body

import (
	"fmt"
	"math"
	"strings"

	"github.com/phil-mansfield/multiphase/lib/cells"
	m_error "github.com/phil-mansfield/multiphase/lib/error"
	"github.com/phil-mansfield/multiphase/lib/geom"
	"github.com/phil-mansfield/multiphase/lib/kernel"
	"github.com/phil-mansfield/multiphase/lib/material"
	"github.com/phil-mansfield/multiphase/lib/particles"
)

// Role tags what a body represents.
type Role int

const (
	Fluid Role = iota
	Solid
	// Observer bodies are zero-volume probes which sample other bodies.
	Observer
)

func (r Role) String() string {
	switch r {
	case Fluid:
		return "Fluid"
	case Solid:
		return "Solid"
	case Observer:
		return "Observer"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole converts a config string to a Role. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	for _, r := range []Role{Fluid, Solid, Observer} {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return Fluid, fmt.Errorf("'%s' is not a body role. Must be one of "+
		"Fluid, Solid or Observer", s)
}

// Names of the standard fields registered on every body.
const (
	PositionName          = "Position"
	VelocityName          = "Velocity"
	AccelerationName      = "Acceleration"
	PriorAccelerationName = "PriorAcceleration"
	DensityName           = "Density"
	PressureName          = "Pressure"
	MassName              = "Mass"
	VolumeName            = "Volume"
	DensityChangeRateName = "DensityChangeRate"
	OriginalIDName        = "OriginalID"
)

// Config describes how a body is constructed.
type Config struct {
	Name string
	Role Role
	Dim  int
	// Spacing is the initial particle spacing.
	Spacing float64
	// Density is the initial density. If Material is set, its reference
	// density is used instead.
	Density  float64
	Kernel   kernel.Kernel
	Material material.EOS
	// Domain is the region covered by the body's cell-linked list. Particles
	// outside of it are still indexed, only less efficiently.
	Domain geom.Box
}

// Body is a set of particles representing one phase, wall or probe.
type Body struct {
	Name     string
	Role     Role
	Dim      int
	Spacing  float64
	Kernel   kernel.Kernel
	Material material.EOS

	Particles *particles.Particles
	Cells     *cells.List

	Position, Velocity, Acceleration, PriorAcceleration particles.Vector
	Density, Pressure, Mass, Volume, DensityChangeRate  particles.Scalar
	OriginalID                                          particles.Integer

	updates int
	order   []int
}

// New creates a body with particles at the positions xs and registers the
// standard fields. Observers have zero mass and volume.
func New(c Config, xs []geom.Vec) *Body {
	if c.Kernel == nil {
		m_error.Internal("Body '%s' created without a kernel.", c.Name)
	}

	rho := c.Density
	if c.Material != nil {
		rho = c.Material.ReferenceDensity()
	}

	b := &Body{
		Name: c.Name, Role: c.Role, Dim: c.Dim, Spacing: c.Spacing,
		Kernel: c.Kernel, Material: c.Material,
		Particles: particles.New(len(xs)),
	}
	cutoff := c.Kernel.Cutoff()
	b.Cells = cells.New(c.Domain.Expand(cutoff, c.Dim), cutoff, c.Dim)

	p := b.Particles
	b.Position = p.AddVector(PositionName)
	b.Velocity = p.AddVector(VelocityName)
	b.Acceleration = p.AddVector(AccelerationName)
	b.PriorAcceleration = p.AddVector(PriorAccelerationName)
	b.Density = p.AddScalar(DensityName)
	b.Pressure = p.AddScalar(PressureName)
	b.Mass = p.AddScalar(MassName)
	b.Volume = p.AddScalar(VolumeName)
	b.DensityChangeRate = p.AddScalar(DensityChangeRateName)
	b.OriginalID = p.AddInteger(OriginalIDName)

	vol := math.Pow(c.Spacing, float64(c.Dim))
	if c.Role == Observer {
		vol = 0
	}

	copy(p.Vector(b.Position), xs)
	ids := p.Integer(b.OriginalID)
	for i := range ids {
		ids[i] = i
	}
	density, volume, mass := p.Scalar(b.Density), p.Scalar(b.Volume), p.Scalar(b.Mass)
	for i := range density {
		density[i], volume[i], mass[i] = rho, vol, rho*vol
	}

	return b
}

// Len returns the number of particles in the body.
func (b *Body) Len() int { return b.Particles.Len() }

// Positions returns the position field.
func (b *Body) Positions() []geom.Vec { return b.Particles.Vector(b.Position) }

// UpdateCellLinkedList rebuilds the body's cell-linked list from the current
// positions.
func (b *Body) UpdateCellLinkedList() {
	b.Particles.Check()
	b.Cells.Build(b.Positions())
}

// UpdateCellLinkedListWithParticleSort rebuilds the cell-linked list and, on
// every period-th call, reorders the particles by cell so that neighbors are
// close in memory. period <= 0 never sorts. It returns true if the particles
// were reordered, in which case every relation reading this body must be
// updated before it is used again.
func (b *Body) UpdateCellLinkedListWithParticleSort(period int) bool {
	b.updates++
	b.UpdateCellLinkedList()
	if period <= 0 || b.updates%period != 0 {
		return false
	}

	b.order = b.Cells.SortOrder(b.order)
	b.Particles.Permute(b.order)
	b.Cells.Build(b.Positions())
	return true
}
