package fluid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/multiphase/lib/body"
	"github.com/phil-mansfield/multiphase/lib/dynamics"
	"github.com/phil-mansfield/multiphase/lib/geom"
	"github.com/phil-mansfield/multiphase/lib/kernel"
	"github.com/phil-mansfield/multiphase/lib/material"
	"github.com/phil-mansfield/multiphase/lib/relation"
)

// lattice returns an nx x ny square lattice with unit spacing whose lower
// left particle is at origin + (0.5, 0.5).
func lattice(nx, ny int, origin geom.Vec) []geom.Vec {
	xs := []geom.Vec{}
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			xs = append(xs, origin.Add(geom.Vec{X: float64(ix) + 0.5, Y: float64(iy) + 0.5}))
		}
	}
	return xs
}

var domain = geom.Box{Lower: geom.Vec{X: -5, Y: -5}, Upper: geom.Vec{X: 20, Y: 20}}

func fluidBody(name string, xs []geom.Vec, rho0 float64) *body.Body {
	b := body.New(body.Config{
		Name: name, Role: body.Fluid, Dim: 2, Spacing: 1,
		Kernel:   kernel.FromSpacing(1, kernel.DefaultSmoothingLengthRatio, 2),
		Material: material.NewWeaklyCompressible(rho0, 10),
		Domain:   domain,
	}, xs)
	b.UpdateCellLinkedList()
	return b
}

func wallBody(xs []geom.Vec) *body.Body {
	b := body.New(body.Config{
		Name: "wall", Role: body.Solid, Dim: 2, Spacing: 1, Density: 1,
		Kernel: kernel.FromSpacing(1, kernel.DefaultSmoothingLengthRatio, 2),
		Domain: domain,
	}, xs)
	b.UpdateCellLinkedList()
	return b
}

// interior returns true if slot i of an nx x ny lattice is at least m
// particles from every edge.
func interior(i, nx, ny, m int) bool {
	ix, iy := i%nx, i/nx
	return ix >= m && iy >= m && ix < nx-m && iy < ny-m
}

func TestPressureStar(t *testing.T) {
	assert.Equal(t, 3.0, PressureStar(3, 3, 2, 2, 0, 0))
	assert.Equal(t, 2.0, PressureStar(1, 3, 2, 2, 0, 0))
	assert.Equal(t, 3.0, PressureStar(3, 3, 0, 0, 1, 0))

	// Approaching states raise the interface pressure.
	assert.Greater(t, PressureStar(3, 3, 2, 2, 1, -1), 3.0)
	assert.Less(t, PressureStar(3, 3, 2, 2, -1, 1), 3.0)
}

func TestTimeStepSizes(t *testing.T) {
	b := fluidBody("water", lattice(3, 3, geom.Vec{}), 1)
	v := b.Particles.Vector(b.Velocity)
	v[4] = geom.Vec{X: 3, Y: 4}

	h := b.Kernel.H()
	adv := dynamics.NewReduce(b, NewAdvectionTimeStepSize(b, 1)).Exec(0)
	assert.InDelta(t, AdvectionCFL*h/5, adv, 1e-12)

	v[4] = geom.Vec{}
	adv = dynamics.NewReduce(b, NewAdvectionTimeStepSize(b, 2)).Exec(0)
	assert.InDelta(t, AdvectionCFL*h/2, adv, 1e-12, "UMax bounds the speed")

	still := dynamics.NewReduce(b, NewAdvectionTimeStepSize(b, 0)).Exec(0)
	assert.True(t, math.IsInf(still, +1))

	v[1] = geom.Vec{Y: -6}
	ac := dynamics.NewReduce(b, NewAcousticTimeStepSize(b)).Exec(0)
	assert.InDelta(t, AcousticCFL*h/16, ac, 1e-12)

	wall := wallBody(lattice(2, 2, geom.Vec{}))
	assert.Panics(t, func() { NewAcousticTimeStepSize(wall) })
}

func TestTimeStepInitialization(t *testing.T) {
	b := fluidBody("water", lattice(3, 3, geom.Vec{}), 1)
	g := &UniformGravity{geom.Vec{Y: -9.8}}
	dynamics.NewSimple(b, NewTimeStepInitialization(b, g)).Exec(0)
	for _, a := range b.Particles.Vector(b.PriorAcceleration) {
		assert.Equal(t, g.G, a)
	}

	dynamics.NewSimple(b, NewTimeStepInitialization(b, nil)).Exec(0)
	assert.Equal(t, geom.Vec{}, b.Particles.Vector(b.PriorAcceleration)[0])
}

func TestDensitySummation(t *testing.T) {
	nx, ny := 12, 12
	b := fluidBody("water", lattice(nx, ny, geom.Vec{}), 1000)
	r := relation.NewComplex(b)
	r.Update()

	dynamics.NewInteractionWithUpdate(b, NewDensitySummation(r, false), r).Exec(0)
	rho, vol := b.Particles.Scalar(b.Density), b.Particles.Scalar(b.Volume)
	for i := range rho {
		if interior(i, nx, ny, 3) {
			assert.InDelta(t, 1000, rho[i], 1e-9, "interior slot %d", i)
		} else if !interior(i, nx, ny, 1) {
			assert.Less(t, rho[i], 1000.0, "edge slot %d", i)
		}
		assert.InDelta(t, 1000/rho[i], vol[i], 1e-12)
	}

	dynamics.NewInteractionWithUpdate(b, NewDensitySummation(r, true), r).Exec(0)
	for i := range rho {
		assert.InDelta(t, 1000, rho[i], 1e-9, "free surface slot %d", i)
	}
}

func TestDensitySummationWall(t *testing.T) {
	// A fluid sitting on a wall whose particles continue the fluid lattice.
	nx, ny := 12, 6
	b := fluidBody("water", lattice(nx, ny, geom.Vec{}), 1000)
	wall := wallBody(lattice(nx, 3, geom.Vec{Y: -3}))
	r := relation.NewComplex(b, wall)
	r.Update()

	dynamics.NewInteractionWithUpdate(b, NewDensitySummation(r, false), r).Exec(0)
	rho := b.Particles.Scalar(b.Density)
	for ix := 3; ix < nx-3; ix++ {
		assert.InDelta(t, 1000, rho[ix], 1e-9, "bottom row %d", ix)
	}
}

func TestPressureRelaxation(t *testing.T) {
	nx, ny := 12, 12
	b := fluidBody("water", lattice(nx, ny, geom.Vec{}), 1)
	r := relation.NewComplex(b)
	r.Update()

	rho := b.Particles.Scalar(b.Density)
	for i := range rho {
		rho[i] = 1.01
	}
	g := &UniformGravity{geom.Vec{Y: -1}}
	dynamics.NewSimple(b, NewTimeStepInitialization(b, g)).Exec(0)

	dt := 0.01
	dynamics.NewDynamics1Level(b, NewPressureRelaxation(r), r).Exec(dt)

	p := b.Particles.Scalar(b.Pressure)
	acc, v := b.Particles.Vector(b.Acceleration), b.Particles.Vector(b.Velocity)
	for i := range p {
		assert.InDelta(t, 100*0.01, p[i], 1e-9)
		if interior(i, nx, ny, 3) {
			assert.InDelta(t, 0, geom.Norm(acc[i]), 1e-9, "interior slot %d", i)
			assert.InDelta(t, -dt, v[i].Y, 1e-9)
		}
	}

	// Bottom row particles are pushed out of the fluid.
	assert.Less(t, acc[nx/2].Y, 0.0)
}

func TestPressureRelaxationWall(t *testing.T) {
	nx, ny := 12, 6
	xs := lattice(nx, ny, geom.Vec{})

	bottomAcc := func(withWall bool) float64 {
		b := fluidBody("water", xs, 1)
		var r *relation.Complex
		if withWall {
			wall := wallBody(lattice(nx, 3, geom.Vec{Y: -3}))
			r = relation.NewComplex(b, wall)
		} else {
			r = relation.NewComplex(b)
		}
		r.Update()

		rho := b.Particles.Scalar(b.Density)
		for i := range rho {
			rho[i] = 1.01
		}
		dynamics.NewDynamics1Level(b, NewPressureRelaxation(r), r).Exec(0.001)
		return b.Particles.Vector(b.Acceleration)[nx/2].Y
	}

	free, walled := bottomAcc(false), bottomAcc(true)
	require.Less(t, free, 0.0)
	assert.Less(t, math.Abs(walled), 0.05*math.Abs(free))
}

func TestDensityRelaxation(t *testing.T) {
	nx, ny := 12, 12
	b := fluidBody("water", lattice(nx, ny, geom.Vec{}), 1)
	r := relation.NewComplex(b)
	r.Update()

	v, x := b.Particles.Vector(b.Velocity), b.Particles.Vector(b.Position)
	x0 := append([]geom.Vec{}, x...)
	for i := range v {
		v[i] = geom.Vec{X: 0.5}
	}

	dt := 0.01
	dynamics.NewDynamics1Level(b, NewDensityRelaxation(r), r).Exec(dt)

	drho, rho := b.Particles.Scalar(b.DensityChangeRate), b.Particles.Scalar(b.Density)
	for i := range drho {
		assert.InDelta(t, 0, drho[i], 1e-12, "uniform flow, slot %d", i)
		assert.InDelta(t, 1, rho[i], 1e-12)
		assert.InDelta(t, x0[i].X+0.5*dt/2, x[i].X, 1e-12)
	}

	// A converging flow compresses the fluid.
	c := nx/2 + nx*(ny/2)
	for i := range v {
		v[i] = x[c].Sub(x[i]).Scale(0.1)
	}
	dynamics.NewDynamics1Level(b, NewDensityRelaxation(r), r).Exec(dt)
	assert.Greater(t, drho[c], 0.0)
	assert.Greater(t, rho[c], 1.0)
}

func TestTransportVelocityCorrection(t *testing.T) {
	nx, ny := 12, 12
	b := fluidBody("water", lattice(nx, ny, geom.Vec{}), 1)
	x := b.Particles.Vector(b.Position)
	c := nx/2 + nx*(ny/2)
	x[c].X += 0.1
	x0 := append([]geom.Vec{}, x...)

	r := relation.NewComplex(b)
	r.Update()
	dynamics.NewInteraction(b, NewTransportVelocityCorrection(r), r).Exec(0)

	assert.Less(t, x[c].X, x0[c].X, "displaced particle moves back")
	assert.Greater(t, x[c].X, x0[c].X-0.2, "without overshooting")
	assert.Equal(t, x0[0], x[0], "corner particles are left alone")

	far := 2 + nx*2
	assert.InDelta(t, 0, geom.Norm(x[far].Sub(x0[far])), 1e-12)
}

func TestKernelCorrectionMatrix(t *testing.T) {
	nx, ny := 12, 12
	b := fluidBody("water", lattice(nx, ny, geom.Vec{}), 1)
	r := relation.NewComplex(b)
	r.Update()

	op := NewKernelCorrectionMatrix(r)
	dynamics.NewInteraction(b, op, r).Exec(0)

	bs := b.Particles.Tensor(op.Handle())
	for i := range bs {
		assert.Equal(t, 1.0, bs[i][2][2])
		if !interior(i, nx, ny, 3) {
			continue
		}
		for k := 0; k < 2; k++ {
			for l := 0; l < 2; l++ {
				want := 0.0
				if k == l {
					want = 1
				}
				assert.InDelta(t, want, bs[i][k][l], 0.05)
			}
		}
	}

	// The corrected operator still balances in the interior.
	pr := NewPressureRelaxation(r)
	pr.UseKernelCorrection(op.Handle())
	dynamics.NewDynamics1Level(b, pr, r).Exec(0.001)
	acc := b.Particles.Vector(b.Acceleration)
	for i := range acc {
		if interior(i, nx, ny, 3) {
			assert.InDelta(t, 0, geom.Norm(acc[i]), 1e-9)
		}
	}

	assert.Equal(t, geom.Identity(), invert(geom.Mat{}, 2))
}

func TestObservingQuantity(t *testing.T) {
	water := fluidBody("water", lattice(6, 6, geom.Vec{}), 1)
	p := water.Particles.Scalar(water.Pressure)
	for i := range p {
		p[i] = 5
	}

	obs := body.New(body.Config{
		Name: "probe", Role: body.Observer, Dim: 2, Spacing: 1,
		Kernel: water.Kernel, Domain: domain,
	}, []geom.Vec{{X: 3, Y: 3}, {X: 15, Y: 15}})
	obs.UpdateCellLinkedList()
	obs.Particles.Scalar(obs.Pressure)[1] = -1

	r := relation.NewContact(obs, water)
	r.Update()
	op := NewObservingQuantity(r, body.PressureName)
	dynamics.NewInteractionWithUpdate(obs, op, r).Exec(0)

	assert.InDelta(t, 5, op.Values()[0], 1e-12)
	assert.Equal(t, -1.0, op.Values()[1], "no neighbors keeps the old value")
	assert.Equal(t, body.PressureName, op.Name())

	assert.Panics(t, func() { NewObservingQuantity(r, "Temperature") })
}

func TestTotalMechanicalEnergy(t *testing.T) {
	b := fluidBody("water", []geom.Vec{{X: 0, Y: 2}, {X: 1, Y: 3}}, 2)
	v := b.Particles.Vector(b.Velocity)
	v[0], v[1] = geom.Vec{X: 1}, geom.Vec{Y: 2}

	g := &UniformGravity{geom.Vec{Y: -10}}
	e := dynamics.NewReduce(b, NewTotalMechanicalEnergy(b, g)).Exec(0)
	// m = 2: 2*(0.5 + 20) + 2*(2 + 30)
	assert.InDelta(t, 105.0, e, 1e-12)

	e = dynamics.NewReduce(b, NewTotalMechanicalEnergy(b, nil)).Exec(0)
	assert.InDelta(t, 5.0, e, 1e-12)
}
