package fluid

/* This file contains operators which run once per outer step and reset the
density and particle distribution of a fluid from its neighbors. */

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/multiphase/lib/dynamics"
	"github.com/phil-mansfield/multiphase/lib/geom"
	"github.com/phil-mansfield/multiphase/lib/kernel"
	"github.com/phil-mansfield/multiphase/lib/particles"
	"github.com/phil-mansfield/multiphase/lib/relation"
)

// DensitySummation recomputes fluid densities from the kernel-weighted
// number of neighbors. Contact neighbors are weighted by their rest volume
// relative to the particle's, so walls and other phases fill the kernel
// support the same way a particle's own phase does.
type DensitySummation struct {
	rel     *relation.Complex
	s       state
	targets []state
	sigma   []float64

	w0, sigma0 float64
	// FreeSurface keeps densities from dropping below the reference density,
	// which happens when a particle's kernel support is cut off by a free
	// surface.
	FreeSurface bool
}

var _ dynamics.TwoStage = &DensitySummation{}

func NewDensitySummation(rel *relation.Complex, freeSurface bool) *DensitySummation {
	b := rel.Inner.Body
	requireFluid(b, "DensitySummation")
	return &DensitySummation{
		rel: rel, s: state{b: b},
		w0:          b.Kernel.W(0),
		sigma0:      kernel.LatticeSigma(b.Kernel, b.Spacing, b.Dim),
		FreeSurface: freeSurface,
	}
}

func (op *DensitySummation) Setup(dt float64) {
	op.s.load(op.s.b)
	op.targets = loadTargets(op.targets, op.rel.Contact.Targets)
	if len(op.sigma) != op.s.b.Len() {
		op.sigma = make([]float64, op.s.b.Len())
	}
}

func (op *DensitySummation) Interact(i int, dt float64) {
	sigma := op.w0
	nb := &op.rel.Inner.Neighbors[i]
	for k := range nb.J {
		sigma += nb.W[k]
	}

	vol0 := op.s.restVolume(i)
	for t := range op.targets {
		ts := &op.targets[t]
		nb := &op.rel.Contact.Neighbors[t][i]
		for k, j := range nb.J {
			sigma += nb.W[k] * ts.restVolume(j) / vol0
		}
	}
	op.sigma[i] = sigma
}

func (op *DensitySummation) Update(i int, dt float64) {
	rho0 := op.s.rho0
	rho := rho0 * op.sigma[i] / op.sigma0
	if op.FreeSurface {
		rho = math.Max(rho, rho0)
	}
	rho = math.Max(rho, DensityFloor*rho0)

	op.s.rho[i] = rho
	op.s.vol[i] = op.s.m[i] / rho
}

// TransportCoefficient scales the transport velocity correction by h^2.
const TransportCoefficient = 0.2

// TransportSupportThreshold is the smallest kernel support, sum_j W_ij V_j,
// at which a particle's position is corrected. Particles with less support
// are near a free surface, and correcting them would push them out of the
// fluid.
const TransportSupportThreshold = 0.95

// TransportVelocityCorrection shifts particles away from crowded regions to
// keep the particle distribution uniform.
type TransportVelocityCorrection struct {
	rel     *relation.Complex
	s       state
	targets []state
	w0, h2  float64
}

var _ dynamics.Interaction = &TransportVelocityCorrection{}

func NewTransportVelocityCorrection(rel *relation.Complex) *TransportVelocityCorrection {
	b := rel.Inner.Body
	requireFluid(b, "TransportVelocityCorrection")
	h := b.Kernel.H()
	return &TransportVelocityCorrection{
		rel: rel, s: state{b: b}, w0: b.Kernel.W(0), h2: h * h,
	}
}

func (op *TransportVelocityCorrection) Setup(dt float64) {
	op.s.load(op.s.b)
	op.targets = loadTargets(op.targets, op.rel.Contact.Targets)
}

// Interact only reads precomputed geometry and volumes of neighbors, so
// writing the particle's own position is safe.
func (op *TransportVelocityCorrection) Interact(i int, dt float64) {
	support := op.w0 * op.s.vol[i]
	shift := geom.Vec{}

	nb := &op.rel.Inner.Neighbors[i]
	for k, j := range nb.J {
		support += nb.W[k] * op.s.vol[j]
		shift = shift.Sub(nb.E[k].Scale(2 * nb.DW[k] * op.s.vol[j]))
	}
	for t := range op.targets {
		ts := &op.targets[t]
		nb := &op.rel.Contact.Neighbors[t][i]
		for k, j := range nb.J {
			support += nb.W[k] * ts.vol[j]
			shift = shift.Sub(nb.E[k].Scale(2 * nb.DW[k] * ts.vol[j]))
		}
	}

	if support < TransportSupportThreshold {
		return
	}
	op.s.x[i] = op.s.x[i].Add(shift.Scale(TransportCoefficient * op.h2))
}

// KernelCorrectionMatrixName is the name of the tensor field written by
// KernelCorrectionMatrix.
const KernelCorrectionMatrixName = "KernelCorrectionMatrix"

// KernelCorrectionMatrix computes, for every particle, the inverse of
// sum_j V_j (x_j - x_i) (x) grad W_ij. Multiplying kernel gradients by it
// makes gradient estimates exact for linear fields, even in incomplete
// kernel supports.
type KernelCorrectionMatrix struct {
	rel     *relation.Complex
	s       state
	targets []state
	b       []geom.Mat
	handle  particles.Tensor
}

var _ dynamics.Interaction = &KernelCorrectionMatrix{}

// NewKernelCorrectionMatrix registers the correction tensor field on the body.
func NewKernelCorrectionMatrix(rel *relation.Complex) *KernelCorrectionMatrix {
	b := rel.Inner.Body
	h := b.Particles.AddTensor(KernelCorrectionMatrixName)
	identity := b.Particles.Tensor(h)
	for i := range identity {
		identity[i] = geom.Identity()
	}
	return &KernelCorrectionMatrix{rel: rel, s: state{b: b}, handle: h}
}

// Handle returns the handle of the correction tensor field.
func (op *KernelCorrectionMatrix) Handle() particles.Tensor { return op.handle }

func (op *KernelCorrectionMatrix) Setup(dt float64) {
	op.s.load(op.s.b)
	op.targets = loadTargets(op.targets, op.rel.Contact.Targets)
	op.b = op.s.b.Particles.Tensor(op.handle)
}

func (op *KernelCorrectionMatrix) Interact(i int, dt float64) {
	a := geom.Mat{}
	nb := &op.rel.Inner.Neighbors[i]
	for k, j := range nb.J {
		a = a.Add(geom.Outer(nb.E[k], nb.E[k]).Scale(-nb.R[k] * nb.DW[k] * op.s.vol[j]))
	}
	for t := range op.targets {
		ts := &op.targets[t]
		nb := &op.rel.Contact.Neighbors[t][i]
		for k, j := range nb.J {
			a = a.Add(geom.Outer(nb.E[k], nb.E[k]).Scale(-nb.R[k] * nb.DW[k] * ts.vol[j]))
		}
	}
	op.b[i] = invert(a, op.s.b.Dim)
}

// invert returns the inverse of the first dim x dim block of a, padded with
// the identity. Singular matrices are replaced by the identity.
func invert(a geom.Mat, dim int) geom.Mat {
	for k := dim; k < 3; k++ {
		a[k] = [3]float64{}
		a[0][k], a[1][k], a[2][k] = 0, 0, 0
		a[k][k] = 1
	}

	m := mat.NewDense(3, 3, []float64{
		a[0][0], a[0][1], a[0][2],
		a[1][0], a[1][1], a[1][2],
		a[2][0], a[2][1], a[2][2],
	})
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return geom.Identity()
	}

	out := geom.Mat{}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = inv.At(r, c)
		}
	}
	return out
}
