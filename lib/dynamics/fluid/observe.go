package fluid

/* This file contains operators which measure a simulation without changing
it. */

import (
	"github.com/phil-mansfield/multiphase/lib/body"
	"github.com/phil-mansfield/multiphase/lib/dynamics"
	m_error "github.com/phil-mansfield/multiphase/lib/error"
	"github.com/phil-mansfield/multiphase/lib/geom"
	"github.com/phil-mansfield/multiphase/lib/particles"
	"github.com/phil-mansfield/multiphase/lib/relation"
)

// ObservingQuantity interpolates a scalar field from the targets of a contact
// relation onto the particles of an observer body with a Shepard-normalized
// kernel sum. Observers with no neighbors keep their previous value.
type ObservingQuantity struct {
	rel     *relation.Contact
	name    string
	out     particles.Scalar
	in      []particles.Scalar
	weights []float64
	values  []float64
}

var _ dynamics.TwoStage = &ObservingQuantity{}

// NewObservingQuantity returns an operator which observes the scalar field
// name. The field must be registered on every target, and is registered on
// the observer if needed.
func NewObservingQuantity(rel *relation.Contact, name string) *ObservingQuantity {
	op := &ObservingQuantity{
		rel: rel, name: name,
		out: rel.Body.Particles.AddScalar(name),
	}
	for _, t := range rel.Targets {
		h, err := t.Particles.ScalarNamed(name)
		if err != nil {
			m_error.Internal("Cannot observe '%s' in body '%s': %s.",
				name, t.Name, err.Error())
		}
		op.in = append(op.in, h)
	}
	return op
}

// Name returns the name of the observed field.
func (op *ObservingQuantity) Name() string { return op.name }

func (op *ObservingQuantity) Setup(dt float64) {
	n := op.rel.Body.Len()
	if len(op.weights) != n {
		op.weights, op.values = make([]float64, n), make([]float64, n)
	}
}

func (op *ObservingQuantity) Interact(i int, dt float64) {
	weight, value := 0.0, 0.0
	for t, target := range op.rel.Targets {
		vol := target.Particles.Scalar(target.Volume)
		in := target.Particles.Scalar(op.in[t])
		nb := &op.rel.Neighbors[t][i]
		for k, j := range nb.J {
			w := nb.W[k] * vol[j]
			weight += w
			value += w * in[j]
		}
	}
	op.weights[i], op.values[i] = weight, value
}

func (op *ObservingQuantity) Update(i int, dt float64) {
	if op.weights[i] <= 0 {
		return
	}
	op.rel.Body.Particles.Scalar(op.out)[i] = op.values[i] / op.weights[i]
}

// Body returns the observer body.
func (op *ObservingQuantity) Body() *body.Body { return op.rel.Body }

// Values returns the observed values of every observer particle, in slot
// order.
func (op *ObservingQuantity) Values() []float64 {
	return op.rel.Body.Particles.Scalar(op.out)
}

// TotalMechanicalEnergy sums the kinetic and gravitational potential energy
// of a body.
type TotalMechanicalEnergy struct {
	dynamics.Sum
	s       state
	gravity Gravity
}

var _ dynamics.Reducer = &TotalMechanicalEnergy{}

// NewTotalMechanicalEnergy returns the operator. gravity may be nil.
func NewTotalMechanicalEnergy(b *body.Body, gravity Gravity) *TotalMechanicalEnergy {
	return &TotalMechanicalEnergy{s: state{b: b}, gravity: gravity}
}

func (op *TotalMechanicalEnergy) Setup(dt float64) { op.s.load(op.s.b) }

func (op *TotalMechanicalEnergy) Reduce(i int, dt float64) float64 {
	s := &op.s
	e := 0.5 * geom.Norm2(s.v[i])
	if op.gravity != nil {
		e += op.gravity.Potential(s.x[i])
	}
	return s.m[i] * e
}
