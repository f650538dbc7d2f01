/*package fluid contains the concrete particle operators used to evolve
weakly compressible fluids next to walls and other fluids. Every operator is a
local operator from package dynamics and only writes to the body it was
constructed for.*/
package fluid

import (
	"math"

	"github.com/phil-mansfield/multiphase/lib/body"
	"github.com/phil-mansfield/multiphase/lib/dynamics"
	m_error "github.com/phil-mansfield/multiphase/lib/error"
	"github.com/phil-mansfield/multiphase/lib/geom"
)

// DensityFloor is the smallest density, relative to the reference density,
// that an operator will write.
const DensityFloor = 1e-6

// state holds the standard field slices of one body. Slices are reloaded at
// the start of every operator call, since the body may have been resized.
type state struct {
	b *body.Body

	x, v, acc, prior     []geom.Vec
	rho, p, m, vol, drho []float64
	rho0                 float64
}

func (s *state) load(b *body.Body) {
	p := b.Particles
	s.b = b
	s.x, s.v = p.Vector(b.Position), p.Vector(b.Velocity)
	s.acc, s.prior = p.Vector(b.Acceleration), p.Vector(b.PriorAcceleration)
	s.rho, s.p = p.Scalar(b.Density), p.Scalar(b.Pressure)
	s.m, s.vol = p.Scalar(b.Mass), p.Scalar(b.Volume)
	s.drho = p.Scalar(b.DensityChangeRate)
	s.rho0 = referenceDensity(b)
}

func loadTargets(ss []state, bs []*body.Body) []state {
	if len(ss) != len(bs) {
		ss = make([]state, len(bs))
	}
	for t := range bs {
		ss[t].load(bs[t])
	}
	return ss
}

// referenceDensity returns the zero-pressure density of a fluid or the
// initial density of anything else.
func referenceDensity(b *body.Body) float64 {
	if b.Material != nil {
		return b.Material.ReferenceDensity()
	} else if b.Len() == 0 {
		return 0
	}
	return b.Particles.Scalar(b.Density)[0]
}

// soundSpeed returns the sound speed of particle i.
func (s *state) soundSpeed(i int) float64 {
	return s.b.Material.SoundSpeed(s.p[i], s.rho[i])
}

// restVolume returns the volume of particle j at its reference density.
func (s *state) restVolume(j int) float64 {
	if s.b.Role == body.Fluid && s.rho0 > 0 {
		return s.m[j] / s.rho0
	}
	return s.vol[j]
}

func requireFluid(b *body.Body, op string) {
	if b.Role != body.Fluid || b.Material == nil {
		m_error.Internal("%s requires a fluid body with an equation of "+
			"state, but '%s' is a %s body.", op, b.Name, b.Role)
	}
}

// Gravity is a body force.
type Gravity interface {
	// Acceleration returns the acceleration of a particle at x.
	Acceleration(x geom.Vec) geom.Vec
	// Potential returns the potential energy per unit mass at x.
	Potential(x geom.Vec) float64
}

// UniformGravity is a constant acceleration G.
type UniformGravity struct {
	G geom.Vec
}

func (g *UniformGravity) Acceleration(x geom.Vec) geom.Vec { return g.G }
func (g *UniformGravity) Potential(x geom.Vec) float64     { return -g.G.Dot(x) }

// PressureStar solves the linearized Riemann problem between a left state
// (pressure pl, impedance zl, velocity ul along the interface normal) and a
// right state, returning the interface pressure. Velocities are positive in
// the direction from left to right.
func PressureStar(pl, pr, zl, zr, ul, ur float64) float64 {
	zsum := zl + zr
	if zsum <= 0 {
		return 0.5 * (pl + pr)
	}
	return (pl*zr+pr*zl)/zsum + 0.5*zl*zr*(ul-ur)/zsum
}

// TimeStepInitialization sets the prior acceleration of every particle from
// the body force. It runs once per outer step.
type TimeStepInitialization struct {
	s       state
	gravity Gravity
}

var _ dynamics.Simple = &TimeStepInitialization{}

// NewTimeStepInitialization returns the operator. gravity may be nil.
func NewTimeStepInitialization(b *body.Body, gravity Gravity) *TimeStepInitialization {
	return &TimeStepInitialization{s: state{b: b}, gravity: gravity}
}

func (op *TimeStepInitialization) Setup(dt float64) { op.s.load(op.s.b) }

func (op *TimeStepInitialization) Update(i int, dt float64) {
	if op.gravity == nil {
		op.s.prior[i] = geom.Vec{}
		return
	}
	op.s.prior[i] = op.gravity.Acceleration(op.s.x[i])
}

// AdvectionTimeStepSize returns the largest step a body can be advected by
// without particles moving more than a fraction of the smoothing length.
// UMax is a lower bound on the speed used, usually the expected maximum flow
// speed, so that the step does not grow without bound for still fluids.
type AdvectionTimeStepSize struct {
	dynamics.Min
	s    state
	h    float64
	UMax float64
}

var _ dynamics.Reducer = &AdvectionTimeStepSize{}

// AdvectionCFL is the fraction of the smoothing length a particle may move
// in one outer step.
const AdvectionCFL = 0.25

func NewAdvectionTimeStepSize(b *body.Body, uMax float64) *AdvectionTimeStepSize {
	return &AdvectionTimeStepSize{s: state{b: b}, h: b.Kernel.H(), UMax: uMax}
}

func (op *AdvectionTimeStepSize) Setup(dt float64) { op.s.load(op.s.b) }

func (op *AdvectionTimeStepSize) Reduce(i int, dt float64) float64 {
	u := math.Max(geom.Norm(op.s.v[i]), op.UMax)
	if u <= 0 {
		return math.Inf(+1)
	}
	return AdvectionCFL * op.h / u
}

// AcousticTimeStepSize returns the largest step which resolves the
// propagation of sound through a fluid body.
type AcousticTimeStepSize struct {
	dynamics.Min
	s state
	h float64
}

var _ dynamics.Reducer = &AcousticTimeStepSize{}

// AcousticCFL is the fraction of the smoothing length a sound wave may
// cross in one sub-step.
const AcousticCFL = 0.6

func NewAcousticTimeStepSize(b *body.Body) *AcousticTimeStepSize {
	requireFluid(b, "AcousticTimeStepSize")
	return &AcousticTimeStepSize{s: state{b: b}, h: b.Kernel.H()}
}

func (op *AcousticTimeStepSize) Setup(dt float64) { op.s.load(op.s.b) }

func (op *AcousticTimeStepSize) Reduce(i int, dt float64) float64 {
	signal := op.s.soundSpeed(i) + geom.Norm(op.s.v[i])
	if signal <= 0 {
		return math.Inf(+1)
	}
	return AcousticCFL * op.h / signal
}
