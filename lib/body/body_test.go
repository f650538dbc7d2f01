package body

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/multiphase/lib/geom"
	"github.com/phil-mansfield/multiphase/lib/kernel"
	"github.com/phil-mansfield/multiphase/lib/material"
)

func testBody(role Role) *Body {
	// Deliberately out of cell order.
	xs := []geom.Vec{
		{X: 3.5, Y: 0.5}, {X: 0.5, Y: 3.5}, {X: 0.5, Y: 0.5}, {X: 2.5, Y: 2.5},
	}
	return New(Config{
		Name: "water", Role: role, Dim: 2, Spacing: 1,
		Kernel:   kernel.NewWendland(0.5, 2),
		Material: material.NewWeaklyCompressible(1000, 10),
		Domain:   geom.Box{Upper: geom.Vec{X: 4, Y: 4}},
	}, xs)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("solid")
	require.NoError(t, err)
	assert.Equal(t, Solid, r)

	_, err = ParseRole("plasma")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	b := testBody(Fluid)
	p := b.Particles

	assert.Equal(t, 4, b.Len())
	assert.Equal(t, []int{0, 1, 2, 3}, p.Integer(b.OriginalID))
	assert.Equal(t, 1000.0, p.Scalar(b.Density)[2])
	assert.Equal(t, 1000.0, p.Scalar(b.Mass)[2])
	assert.Equal(t, 1.0, p.Scalar(b.Volume)[2])

	_, err := p.ScalarNamed(DensityChangeRateName)
	assert.NoError(t, err)

	obs := testBody(Observer)
	assert.Equal(t, 0.0, obs.Particles.Scalar(obs.Volume)[0])
}

func TestParticleSort(t *testing.T) {
	b := testBody(Fluid)
	before := map[int]geom.Vec{}
	for i, x := range b.Positions() {
		before[i] = x
	}

	assert.False(t, b.UpdateCellLinkedListWithParticleSort(3))
	assert.False(t, b.UpdateCellLinkedListWithParticleSort(3))
	assert.True(t, b.UpdateCellLinkedListWithParticleSort(3))

	// Slots are now in cell order and every field moved together.
	p := b.Particles
	ids, xs := p.Integer(b.OriginalID), b.Positions()
	for i := range xs {
		if before[ids[i]] != xs[i] {
			t.Errorf("Expected slot %d (id %d) at %v, got %v.",
				i, ids[i], before[ids[i]], xs[i])
		}
		if i > 0 && b.Cells.CellOf(i) < b.Cells.CellOf(i-1) {
			t.Errorf("Expected slots to be sorted by cell, but slot %d is "+
				"in cell %d and slot %d is in cell %d.", i-1,
				b.Cells.CellOf(i-1), i, b.Cells.CellOf(i))
		}
	}
	assert.Equal(t, []int{2, 0, 3, 1}, ids)

	assert.False(t, b.UpdateCellLinkedListWithParticleSort(0))
}
