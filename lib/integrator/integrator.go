/*package integrator contains the driver which advances a multiphase
simulation in time. Every outer step is bounded by the advection time step of
the fastest phase, and is split into inner acoustic sub-steps which relax
pressure and density until the outer step has been used up. Neighbor lists
are rebuilt once per outer step.*/
package integrator

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/phil-mansfield/multiphase/lib/body"
	"github.com/phil-mansfield/multiphase/lib/dynamics"
	m_error "github.com/phil-mansfield/multiphase/lib/error"
	"github.com/phil-mansfield/multiphase/lib/relation"
)

// DefaultTolerance is the default value of Driver.Tolerance.
const DefaultTolerance = 1e-9

// Context is the state of the simulation clock. It is passed explicitly to
// everything which needs it and may start from non-zero values when a run is
// restarted.
type Context struct {
	PhysicalTime float64
	Iterations   int
	EndTime      float64
}

// Done returns true if the simulation has reached its end time.
func (ctx *Context) Done() bool { return ctx.PhysicalTime >= ctx.EndTime }

// Recorder is offered the simulation state at the end of outer steps.
type Recorder interface {
	Record(ctx *Context) error
}

// Phase contains the operators of a single fluid. Any of them may be nil.
type Phase struct {
	Name string

	// Initialize runs at the start of every outer step.
	Initialize []dynamics.Executor
	// Advection returns the phase's bound on the outer step.
	Advection dynamics.Reduction
	// Density runs once the outer step is known.
	Density []dynamics.Executor
	// Correction runs after Density with the outer step.
	Correction []dynamics.Executor
	// Acoustic returns the phase's bound on the inner sub-step.
	Acoustic dynamics.Reduction
	// Pressure and DensityRelaxation run once per inner sub-step.
	Pressure          dynamics.Executor
	DensityRelaxation dynamics.Executor
}

// Topology is the set of cell-linked lists and relations rebuilt at the end
// of every outer step.
type Topology struct {
	Bodies    []*body.Body
	Relations []relation.Relation
	// SortPeriod is the number of updates between reorderings of particles
	// by cell. Zero or negative values never reorder.
	SortPeriod int
}

// Update rebuilds every body's cell-linked list and then every relation.
// Relations are always updated after all bodies, so contact relations never
// see a partially updated set of bodies.
func (t *Topology) Update() {
	for _, b := range t.Bodies {
		b.UpdateCellLinkedListWithParticleSort(t.SortPeriod)
	}
	for _, r := range t.Relations {
		r.Update()
	}
}

// StepInfo describes a single outer step.
type StepInfo struct {
	// Dt is the outer step and LastDt is the final inner sub-step.
	Dt, LastDt float64
	SubSteps   int
}

// Driver runs the nested outer/inner time-stepping loop.
type Driver struct {
	Phases   []*Phase
	Topology *Topology

	// Recorders are called after every outer step. Outputs are called every
	// time OutputInterval worth of physical time has passed.
	Recorders []Recorder
	Outputs   []Recorder

	OutputInterval float64
	// ScreenInterval is the number of outer steps between log lines. Zero
	// never logs.
	ScreenInterval int
	// Tolerance is the fraction of the outer step which may be left unused
	// at the end of the inner loop. It absorbs floating point error in the
	// sum of sub-steps.
	Tolerance float64

	computation, relaxation, configuration time.Duration
}

// Step advances ctx by a single outer step.
func (d *Driver) Step(ctx *Context) (StepInfo, error) {
	t0 := time.Now()
	info := StepInfo{}

	for _, ph := range d.Phases {
		execAll(ph.Initialize, 0)
	}

	info.Dt = math.Inf(+1)
	for _, ph := range d.Phases {
		if ph.Advection != nil {
			info.Dt = math.Min(info.Dt, ph.Advection.Exec(0))
		}
	}
	if !(info.Dt > 0) || math.IsInf(info.Dt, +1) {
		m_error.Internal("Outer time step at iteration %d is %g. At least "+
			"one phase must give a finite, positive advection bound.",
			ctx.Iterations, info.Dt)
	}

	for _, ph := range d.Phases {
		execAll(ph.Density, info.Dt)
	}
	for _, ph := range d.Phases {
		execAll(ph.Correction, info.Dt)
	}

	t1 := time.Now()
	d.computation += t1.Sub(t0)

	tol := d.tolerance() * info.Dt
	relaxationTime := 0.0
	for info.Dt-relaxationTime > tol {
		remaining := info.Dt - relaxationTime
		dt := remaining
		for _, ph := range d.Phases {
			if ph.Acoustic != nil {
				dt = math.Min(dt, ph.Acoustic.Exec(0))
			}
		}
		// Starved or nearly finished steps use the rest of the budget.
		if !(dt > 0) || remaining-dt <= tol {
			dt = remaining
		}

		for _, ph := range d.Phases {
			if ph.Pressure != nil {
				ph.Pressure.Exec(dt)
			}
		}
		for _, ph := range d.Phases {
			if ph.DensityRelaxation != nil {
				ph.DensityRelaxation.Exec(dt)
			}
		}

		relaxationTime += dt
		ctx.PhysicalTime += dt
		info.LastDt = dt
		info.SubSteps++
	}

	t2 := time.Now()
	d.relaxation += t2.Sub(t1)

	ctx.Iterations++
	if d.ScreenInterval > 0 && ctx.Iterations%d.ScreenInterval == 0 {
		log.Printf("N=%d Time=%.6f Dt=%.6g dt=%.6g sub-steps=%d",
			ctx.Iterations, ctx.PhysicalTime, info.Dt, info.LastDt,
			info.SubSteps)
	}

	if d.Topology != nil {
		d.Topology.Update()
	}
	d.configuration += time.Since(t2)

	for _, r := range d.Recorders {
		if err := r.Record(ctx); err != nil {
			return info, fmt.Errorf("recording iteration %d: %w",
				ctx.Iterations, err)
		}
	}

	return info, nil
}

func (d *Driver) tolerance() float64 {
	if d.Tolerance > 0 {
		return d.Tolerance
	}
	return DefaultTolerance
}

func execAll(execs []dynamics.Executor, dt float64) {
	for _, e := range execs {
		e.Exec(dt)
	}
}

// Run steps ctx until it reaches its end time. Outputs are called every
// time at least OutputInterval of physical time has passed, and once more at
// the end. Every step is followed by an output if OutputInterval <= 0.
func (d *Driver) Run(ctx *Context) error {
	start := time.Now()
	for !ctx.Done() {
		integrationTime := 0.0
		for !ctx.Done() {
			info, err := d.Step(ctx)
			if err != nil {
				return err
			}
			integrationTime += info.Dt
			if integrationTime >= d.OutputInterval {
				break
			}
		}

		for _, r := range d.Outputs {
			if err := r.Record(ctx); err != nil {
				return fmt.Errorf("writing output at iteration %d: %w",
					ctx.Iterations, err)
			}
		}
	}

	log.Printf("Finished at N=%d Time=%.6f after %s.", ctx.Iterations,
		ctx.PhysicalTime, time.Since(start))
	log.Printf("Time spent on step computation: %s", d.computation)
	log.Printf("Time spent on pressure/density relaxation: %s", d.relaxation)
	log.Printf("Time spent on configuration updates: %s", d.configuration)
	return nil
}

// Timers returns the time spent on step computation, inner relaxation and
// topology updates so far.
func (d *Driver) Timers() (computation, relaxation, configuration time.Duration) {
	return d.computation, d.relaxation, d.configuration
}
