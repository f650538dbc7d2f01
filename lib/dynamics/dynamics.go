/*package dynamics contains the shapes that particle operators come in and the
executors which run them over every particle of a body.

A local operator implements the per-particle work of one shape against
fields and relations it was bound to when it was constructed. An executor
wraps it, checks that its relations are fresh, and runs it over every slot in
parallel. Local operators may only write to the slot they are called with.*/
package dynamics

import (
	"math"

	"github.com/phil-mansfield/multiphase/lib/body"
	"github.com/phil-mansfield/multiphase/lib/relation"
	"github.com/phil-mansfield/multiphase/lib/thread"
)

// Simple is an operator that only uses a particle's own state.
type Simple interface {
	Update(i int, dt float64)
}

// Interaction is an operator that reads the neighbors of a particle.
type Interaction interface {
	Interact(i int, dt float64)
}

// TwoStage is an operator which first computes an intermediate quantity for
// every particle from its neighbors and then integrates it into the
// particle's state.
type TwoStage interface {
	Interaction
	Update(i int, dt float64)
}

// Initializer is implemented by TwoStage operators that need a per-particle
// pass before any Interact call.
type Initializer interface {
	Initialize(i int, dt float64)
}

// Setup is implemented by operators that need to do work once per call
// before any per-particle work, like caching field slices.
type Setup interface {
	Setup(dt float64)
}

// Reducer is an operator which combines per-particle estimates into a single
// value. Combine must be associative and commutative, and Initial must be its
// identity.
type Reducer interface {
	Reduce(i int, dt float64) float64
	Initial() float64
	Combine(a, b float64) float64
	// Output transforms the combined value into the returned one.
	Output(r float64) float64
}

// Executor is a runnable pass over a body.
type Executor interface {
	Exec(dt float64)
}

// Reduction is a runnable reduction over a body.
type Reduction interface {
	Exec(dt float64) float64
}

var (
	_ Executor  = &SimpleDynamics{}
	_ Executor  = &InteractionDynamics{}
	_ Executor  = &InteractionWithUpdate{}
	_ Executor  = &Dynamics1Level{}
	_ Reduction = &ReduceDynamics{}
)

// base contains the bookkeeping shared by every executor.
type base struct {
	Body      *body.Body
	Relations []relation.Relation
}

func (b *base) prepare(local interface{}, dt float64) {
	for _, r := range b.Relations {
		r.Check()
	}
	if s, ok := local.(Setup); ok {
		s.Setup(dt)
	}
}

// SimpleDynamics runs a Simple operator over every particle.
type SimpleDynamics struct {
	base
	Local Simple
}

func NewSimple(b *body.Body, local Simple) *SimpleDynamics {
	return &SimpleDynamics{base{Body: b}, local}
}

func (d *SimpleDynamics) Exec(dt float64) {
	d.prepare(d.Local, dt)
	thread.For(d.Body.Len(), func(i, _ int) { d.Local.Update(i, dt) })
}

// ReduceDynamics runs a Reducer over every particle. Each worker keeps its own
// partial result, and the partials are combined in worker order.
type ReduceDynamics struct {
	base
	Local Reducer
}

func NewReduce(
	b *body.Body, local Reducer, rels ...relation.Relation,
) *ReduceDynamics {
	return &ReduceDynamics{base{b, rels}, local}
}

func (d *ReduceDynamics) Exec(dt float64) float64 {
	d.prepare(d.Local, dt)

	partials := make([]float64, thread.Workers())
	for w := range partials {
		partials[w] = d.Local.Initial()
	}
	thread.For(d.Body.Len(), func(i, worker int) {
		partials[worker] = d.Local.Combine(partials[worker], d.Local.Reduce(i, dt))
	})

	out := d.Local.Initial()
	for _, p := range partials {
		out = d.Local.Combine(out, p)
	}
	return d.Local.Output(out)
}

// InteractionDynamics runs an Interaction over every particle.
type InteractionDynamics struct {
	base
	Local Interaction
}

func NewInteraction(
	b *body.Body, local Interaction, rels ...relation.Relation,
) *InteractionDynamics {
	return &InteractionDynamics{base{b, rels}, local}
}

func (d *InteractionDynamics) Exec(dt float64) {
	d.prepare(d.Local, dt)
	thread.For(d.Body.Len(), func(i, _ int) { d.Local.Interact(i, dt) })
}

// InteractionWithUpdate runs Interact on every particle and then Update on
// every particle, so no particle's state changes while a neighbor reads it.
type InteractionWithUpdate struct {
	base
	Local TwoStage
}

func NewInteractionWithUpdate(
	b *body.Body, local TwoStage, rels ...relation.Relation,
) *InteractionWithUpdate {
	return &InteractionWithUpdate{base{b, rels}, local}
}

func (d *InteractionWithUpdate) Exec(dt float64) {
	d.prepare(d.Local, dt)
	n := d.Body.Len()
	thread.For(n, func(i, _ int) { d.Local.Interact(i, dt) })
	thread.For(n, func(i, _ int) { d.Local.Update(i, dt) })
}

// Dynamics1Level runs a TwoStage operator as a full integration step of
// length dt: an optional Initialize pass, an Interact pass and an Update
// pass. Each pass finishes before the next starts.
type Dynamics1Level struct {
	base
	Local TwoStage
}

func NewDynamics1Level(
	b *body.Body, local TwoStage, rels ...relation.Relation,
) *Dynamics1Level {
	return &Dynamics1Level{base{b, rels}, local}
}

func (d *Dynamics1Level) Exec(dt float64) {
	d.prepare(d.Local, dt)
	n := d.Body.Len()
	if init, ok := d.Local.(Initializer); ok {
		thread.For(n, func(i, _ int) { init.Initialize(i, dt) })
	}
	thread.For(n, func(i, _ int) { d.Local.Interact(i, dt) })
	thread.For(n, func(i, _ int) { d.Local.Update(i, dt) })
}

// Min, Max and Sum can be embedded in a Reducer to supply Initial, Combine
// and an identity Output.
type (
	Min struct{}
	Max struct{}
	Sum struct{}
)

func (Min) Initial() float64             { return math.Inf(+1) }
func (Min) Combine(a, b float64) float64 { return math.Min(a, b) }
func (Min) Output(r float64) float64     { return r }

func (Max) Initial() float64             { return math.Inf(-1) }
func (Max) Combine(a, b float64) float64 { return math.Max(a, b) }
func (Max) Output(r float64) float64     { return r }

func (Sum) Initial() float64             { return 0 }
func (Sum) Combine(a, b float64) float64 { return a + b }
func (Sum) Output(r float64) float64     { return r }
