package fluid

/* This file contains the two halves of the acoustic sub-step. Together they
form a position Verlet step: PressureRelaxation moves particles half a step
and updates velocities, and DensityRelaxation moves particles the other half
and updates densities. */

import (
	"math"

	"github.com/phil-mansfield/multiphase/lib/body"
	"github.com/phil-mansfield/multiphase/lib/dynamics"
	"github.com/phil-mansfield/multiphase/lib/geom"
	"github.com/phil-mansfield/multiphase/lib/particles"
	"github.com/phil-mansfield/multiphase/lib/relation"
)

// PressureRelaxation integrates the momentum equation over one acoustic
// sub-step. Interfaces between particles are resolved with PressureStar.
// Contact fluids are read but never written. Walls mirror the particle's own
// pressure and impedance and use their own velocity.
type PressureRelaxation struct {
	rel     *relation.Complex
	s       state
	targets []state

	correction *particles.Tensor
	b          []geom.Mat
}

var (
	_ dynamics.TwoStage    = &PressureRelaxation{}
	_ dynamics.Initializer = &PressureRelaxation{}
)

func NewPressureRelaxation(rel *relation.Complex) *PressureRelaxation {
	requireFluid(rel.Inner.Body, "PressureRelaxation")
	return &PressureRelaxation{rel: rel, s: state{b: rel.Inner.Body}}
}

// UseKernelCorrection makes the operator multiply kernel gradients by the
// tensor field h, as computed by KernelCorrectionMatrix.
func (op *PressureRelaxation) UseKernelCorrection(h particles.Tensor) {
	op.correction = &h
}

func (op *PressureRelaxation) Setup(dt float64) {
	op.s.load(op.s.b)
	op.targets = loadTargets(op.targets, op.rel.Contact.Targets)
	if op.correction != nil {
		op.b = op.s.b.Particles.Tensor(*op.correction)
	}
}

func (op *PressureRelaxation) Initialize(i int, dt float64) {
	s := &op.s
	rho := math.Max(s.rho[i]+s.drho[i]*dt/2, DensityFloor*s.rho0)
	s.rho[i] = rho
	s.vol[i] = s.m[i] / rho
	s.x[i] = s.x[i].Add(s.v[i].Scale(dt / 2))
	s.p[i] = s.b.Material.Pressure(rho)
}

func (op *PressureRelaxation) Interact(i int, dt float64) {
	s := &op.s
	pi, vi := s.p[i], s.v[i]
	zi := s.rho[i] * s.soundSpeed(i)

	acc := geom.Vec{}
	nb := &op.rel.Inner.Neighbors[i]
	for k, j := range nb.J {
		e := nb.E[k]
		zj := s.rho[j] * s.soundSpeed(j)
		pStar := PressureStar(pi, s.p[j], zi, zj, -e.Dot(vi), -e.Dot(s.v[j]))
		acc = acc.Sub(op.direction(i, e).Scale(2 * pStar * s.vol[j] * nb.DW[k]))
	}

	for t := range op.targets {
		ts := &op.targets[t]
		nb := &op.rel.Contact.Neighbors[t][i]
		wall := ts.b.Role != body.Fluid
		for k, j := range nb.J {
			e := nb.E[k]
			pj, zj := pi, zi
			if !wall {
				pj, zj = ts.p[j], ts.rho[j]*ts.soundSpeed(j)
			}
			pStar := PressureStar(pi, pj, zi, zj, -e.Dot(vi), -e.Dot(ts.v[j]))
			acc = acc.Sub(op.direction(i, e).Scale(2 * pStar * ts.vol[j] * nb.DW[k]))
		}
	}

	s.acc[i] = acc.Scale(1 / s.rho[i])
}

// direction returns the direction of the kernel gradient along e.
func (op *PressureRelaxation) direction(i int, e geom.Vec) geom.Vec {
	if op.b == nil {
		return e
	}
	return op.b[i].MulVec(e)
}

func (op *PressureRelaxation) Update(i int, dt float64) {
	s := &op.s
	s.v[i] = s.v[i].Add(s.acc[i].Add(s.prior[i]).Scale(dt))
}

// DensityRelaxation integrates the continuity equation over one acoustic
// sub-step.
type DensityRelaxation struct {
	rel     *relation.Complex
	s       state
	targets []state
}

var (
	_ dynamics.TwoStage    = &DensityRelaxation{}
	_ dynamics.Initializer = &DensityRelaxation{}
)

func NewDensityRelaxation(rel *relation.Complex) *DensityRelaxation {
	requireFluid(rel.Inner.Body, "DensityRelaxation")
	return &DensityRelaxation{rel: rel, s: state{b: rel.Inner.Body}}
}

func (op *DensityRelaxation) Setup(dt float64) {
	op.s.load(op.s.b)
	op.targets = loadTargets(op.targets, op.rel.Contact.Targets)
}

func (op *DensityRelaxation) Initialize(i int, dt float64) {
	s := &op.s
	s.x[i] = s.x[i].Add(s.v[i].Scale(dt / 2))
}

func (op *DensityRelaxation) Interact(i int, dt float64) {
	s := &op.s
	vi := s.v[i]

	compression := 0.0
	nb := &op.rel.Inner.Neighbors[i]
	for k, j := range nb.J {
		compression += s.vol[j] * vi.Sub(s.v[j]).Dot(nb.E[k]) * nb.DW[k]
	}
	for t := range op.targets {
		ts := &op.targets[t]
		nb := &op.rel.Contact.Neighbors[t][i]
		for k, j := range nb.J {
			compression += ts.vol[j] * vi.Sub(ts.v[j]).Dot(nb.E[k]) * nb.DW[k]
		}
	}

	s.drho[i] = s.rho[i] * compression
}

func (op *DensityRelaxation) Update(i int, dt float64) {
	s := &op.s
	s.rho[i] = math.Max(s.rho[i]+s.drho[i]*dt/2, DensityFloor*s.rho0)
}
