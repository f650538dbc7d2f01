package lib

/* system.go assembles a runnable simulation from a config. */

import (
	"fmt"
	"log"

	"github.com/phil-mansfield/multiphase/lib/body"
	"github.com/phil-mansfield/multiphase/lib/config"
	"github.com/phil-mansfield/multiphase/lib/dynamics"
	"github.com/phil-mansfield/multiphase/lib/dynamics/fluid"
	"github.com/phil-mansfield/multiphase/lib/geom"
	"github.com/phil-mansfield/multiphase/lib/integrator"
	"github.com/phil-mansfield/multiphase/lib/kernel"
	"github.com/phil-mansfield/multiphase/lib/material"
	"github.com/phil-mansfield/multiphase/lib/recording"
	"github.com/phil-mansfield/multiphase/lib/relation"
	"github.com/phil-mansfield/multiphase/lib/restart"
	"github.com/phil-mansfield/multiphase/lib/seed"
)

// System is a fully assembled simulation.
type System struct {
	Config  *config.Config
	Context *integrator.Context
	Driver  *integrator.Driver
	Restart *restart.IO

	// Bodies contains every body, observers last. Complexes contains the
	// relation of each fluid and Observers the relation of each observer,
	// in the same order as the bodies.
	Bodies    []*body.Body
	Complexes []*relation.Complex
	Observers []*relation.Contact

	closers []interface{ Close() error }
}

// NewSystem builds a system from a config which has already passed
// CheckInit. If RestartStep is set, body states and the clock are read from
// restart files.
func NewSystem(c *config.Config) (*System, error) {
	sim := &c.Simulation
	s := &System{
		Config:  c,
		Context: &integrator.Context{EndTime: sim.EndTime},
	}

	var k kernel.Kernel = kernel.FromSpacing(
		sim.Spacing, sim.SmoothingLengthRatio, sim.Dim,
	)
	if sim.TabulatedKernel {
		k = kernel.NewTabulated(k, 0)
	}
	gravity := &fluid.UniformGravity{
		G: geom.Vec{X: c.Gravity.X, Y: c.Gravity.Y, Z: c.Gravity.Z},
	}

	fluids, solids := []*body.Body{}, []*body.Body{}
	byName := map[string]*body.Body{}
	for _, name := range c.BodyNames() {
		b, err := s.newBody(c, c.Body[name], k)
		if err != nil {
			return nil, err
		}
		byName[name] = b
		if b.Role == body.Fluid {
			fluids = append(fluids, b)
		} else {
			solids = append(solids, b)
		}
	}
	s.Bodies = append(append(s.Bodies, fluids...), solids...)

	observers := []*body.Body{}
	for _, name := range c.ObserverNames() {
		b := body.New(body.Config{
			Name: name, Role: body.Observer, Dim: sim.Dim,
			Spacing: sim.Spacing, Kernel: k, Domain: c.Domain.Box(),
		}, c.Observer[name].Points())
		observers = append(observers, b)
	}
	s.Bodies = append(s.Bodies, observers...)

	limit := relation.Limit{Max: sim.MaxNeighbors, Fatal: sim.Crash()}
	relations := []relation.Relation{}
	for _, b := range fluids {
		targets := []*body.Body{}
		for _, other := range s.Bodies {
			if other != b && other.Role != body.Observer {
				targets = append(targets, other)
			}
		}
		cr := relation.NewComplex(b, targets...)
		cr.SetLimit(limit)
		s.Complexes = append(s.Complexes, cr)
		relations = append(relations, cr)
	}
	for i, b := range observers {
		targets := []*body.Body{}
		for _, name := range c.Observer[c.ObserverNames()[i]].Target {
			targets = append(targets, byName[name])
		}
		r := relation.NewContact(b, targets...)
		r.Limit = limit
		s.Observers = append(s.Observers, r)
		relations = append(relations, r)
	}

	topology := &integrator.Topology{
		Bodies: s.Bodies, Relations: relations, SortPeriod: sim.SortPeriod,
	}
	s.Driver = &integrator.Driver{
		Topology:       topology,
		OutputInterval: sim.OutputInterval,
		ScreenInterval: sim.ScreenInterval,
	}
	for i, b := range fluids {
		s.Driver.Phases = append(s.Driver.Phases,
			newPhase(c, b, c.Body[b.Name], s.Complexes[i], gravity))
	}

	s.Restart = &restart.IO{Dir: sim.Output, Bodies: s.Bodies}
	if sim.RestartStep > 0 {
		t, err := s.Restart.ReadFromFile(sim.RestartStep)
		if err != nil {
			return nil, err
		}
		s.Context.PhysicalTime, s.Context.Iterations = t, sim.RestartStep
		log.Printf("Restarted from N=%d Time=%.6f.", sim.RestartStep, t)
	}
	if sim.RestartInterval > 0 {
		s.Driver.Recorders = append(s.Driver.Recorders,
			&recording.Every{N: sim.RestartInterval, R: s.Restart})
	}

	// Cell lists and relations need to be current before any operator runs,
	// including the ones recorders use.
	for _, b := range s.Bodies {
		b.UpdateCellLinkedList()
	}
	for _, r := range relations {
		r.Update()
	}

	if err := s.addOutputs(c, observers, gravity); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// newBody seeds the particles of a fluid or solid body.
func (s *System) newBody(
	c *config.Config, bc *config.BodyConfig, k kernel.Kernel,
) (*body.Body, error) {
	sim := &c.Simulation
	bcfg := body.Config{
		Name: bc.Name, Role: bc.Type, Dim: sim.Dim, Spacing: sim.Spacing,
		Density: bc.Density, Kernel: k, Domain: c.Domain.Box(),
	}
	if bc.Type == body.Fluid {
		c0 := bc.SoundSpeed
		if c0 == 0 {
			c0 = material.ArtificialSoundSpeed(sim.UMax)
		}
		bcfg.Material = material.NewWeaklyCompressible(bc.Density, c0)
	}

	var xs []geom.Vec
	switch {
	case bc.PositionFile != "":
		var err error
		xs, err = seed.ReadPositionsFile(bc.PositionFile, sim.Dim)
		if err != nil {
			return nil, err
		}
	case bc.WallThickness > 0:
		box := bc.Box()
		shell := box.Expand(bc.WallThickness, sim.Dim)
		xs = seed.Lattice(shell, []geom.Box{box}, sim.Spacing, sim.Dim)
	default:
		exclude := []geom.Box{}
		for _, name := range bc.Exclude {
			exclude = append(exclude, c.Body[name].Box())
		}
		xs = seed.Lattice(bc.Box(), exclude, sim.Spacing, sim.Dim)
	}

	if len(xs) == 0 {
		return nil, fmt.Errorf("Body '%s' has no particles.", bc.Name)
	}
	return body.New(bcfg, xs), nil
}

// newPhase creates the operators of a single fluid.
func newPhase(
	c *config.Config, b *body.Body, bc *config.BodyConfig,
	cr *relation.Complex, gravity fluid.Gravity,
) *integrator.Phase {
	sim := &c.Simulation
	ph := &integrator.Phase{
		Name: b.Name,
		Initialize: []dynamics.Executor{
			dynamics.NewSimple(b, fluid.NewTimeStepInitialization(b, gravity)),
		},
		Advection: dynamics.NewReduce(b,
			fluid.NewAdvectionTimeStepSize(b, sim.UMax)),
		Density: []dynamics.Executor{
			dynamics.NewInteractionWithUpdate(b,
				fluid.NewDensitySummation(cr, bc.FreeSurface), cr),
		},
		Acoustic: dynamics.NewReduce(b, fluid.NewAcousticTimeStepSize(b)),
	}

	pressure := fluid.NewPressureRelaxation(cr)
	if sim.KernelCorrection {
		kcm := fluid.NewKernelCorrectionMatrix(cr)
		pressure.UseKernelCorrection(kcm.Handle())
		ph.Correction = append(ph.Correction,
			dynamics.NewInteraction(b, kcm, cr))
	}
	if sim.TransportCorrection {
		ph.Correction = append(ph.Correction, dynamics.NewInteraction(b,
			fluid.NewTransportVelocityCorrection(cr), cr))
	}

	ph.Pressure = dynamics.NewDynamics1Level(b, pressure, cr)
	ph.DensityRelaxation = dynamics.NewDynamics1Level(b,
		fluid.NewDensityRelaxation(cr), cr)
	return ph
}

// addOutputs creates the time series written every OutputInterval.
func (s *System) addOutputs(
	c *config.Config, observers []*body.Body, gravity fluid.Gravity,
) error {
	out := c.Simulation.Output
	for i, b := range observers {
		obs := c.Observer[b.Name]
		op := fluid.NewObservingQuantity(s.Observers[i], obs.Quantity)
		exec := dynamics.NewInteractionWithUpdate(b, op, s.Observers[i])
		r, err := recording.NewObservedQuantity(
			recording.FileName(out, b.Name, obs.Quantity), exec, op,
		)
		if err != nil {
			return err
		}
		s.addOutput(r)
	}

	for _, b := range s.Bodies {
		if b.Role == body.Observer {
			continue
		}
		bc := c.Body[b.Name]
		if bc.Energy {
			name := "MechanicalEnergy"
			r, err := recording.NewReducedQuantity(
				recording.FileName(out, b.Name, name), name,
				dynamics.NewReduce(b, fluid.NewTotalMechanicalEnergy(b, gravity)),
			)
			if err != nil {
				return err
			}
			s.addOutput(r)
		}
		if bc.SelfGravity {
			name := "SelfGravity"
			r, err := recording.NewReducedQuantity(
				recording.FileName(out, b.Name, name), name,
				recording.NewSelfGravity(b, c.Gravity.Constant,
					c.Gravity.Softening),
			)
			if err != nil {
				return err
			}
			s.addOutput(r)
		}
	}
	return nil
}

func (s *System) addOutput(r interface {
	integrator.Recorder
	Close() error
}) {
	s.Driver.Outputs = append(s.Driver.Outputs, r)
	s.closers = append(s.closers, r)
}

// Run records the initial state and then runs the simulation to its end
// time. A restart file is written at the end if restarts are enabled.
func (s *System) Run() error {
	for _, r := range s.Driver.Outputs {
		if err := r.Record(s.Context); err != nil {
			return err
		}
	}
	if err := s.Driver.Run(s.Context); err != nil {
		return err
	}
	if s.Config.Simulation.RestartInterval > 0 {
		return s.Restart.WriteToFile(s.Context)
	}
	return nil
}

// Close closes every output file. It returns the first error encountered.
func (s *System) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
