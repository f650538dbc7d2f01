package recording

/* This file contains SelfGravity, which measures the gravitational binding
energy of a body with a Barnes-Hut tree. */

import (
	"github.com/phil-mansfield/gravitree"

	"github.com/phil-mansfield/multiphase/lib/body"
	"github.com/phil-mansfield/multiphase/lib/dynamics"
	m_error "github.com/phil-mansfield/multiphase/lib/error"
)

// SelfGravity computes the gravitational potential energy of a body's
// particles acting on one another. Particles are assumed to share a mass,
// which is true for every body seeded on a lattice.
type SelfGravity struct {
	b *body.Body
	// G is the gravitational constant and Eps is the Plummer softening
	// length, in simulation units.
	G, Eps float64
	// Theta is the tree opening angle. Zero uses gravitree's default. Small
	// values make the sum exact.
	Theta float64

	x  [][3]float64
	pe []float64
}

var _ dynamics.Reduction = &SelfGravity{}

func NewSelfGravity(b *body.Body, G, eps float64) *SelfGravity {
	return &SelfGravity{b: b, G: G, Eps: eps}
}

// Exec returns the potential energy, which is negative for any bound set of
// particles. dt is ignored.
func (sg *SelfGravity) Exec(dt float64) float64 {
	n := sg.b.Len()
	if n < 2 {
		return 0
	}
	if len(sg.x) != n {
		sg.x, sg.pe = make([][3]float64, n), make([]float64, n)
	}

	for i, x := range sg.b.Positions() {
		sg.x[i] = [3]float64{x.X, x.Y, x.Z}
	}
	// Potential accumulates into pe.
	for i := range sg.pe {
		sg.pe[i] = 0
	}

	tree := gravitree.NewTree(sg.x, gravitree.TreeOptions{Theta: sg.Theta})
	rootTree(tree, n)
	tree.Potential(sg.Eps, sg.pe)

	mp := sg.b.Particles.Scalar(sg.b.Mass)[0]
	sum := 0.0
	for i := range sg.pe {
		sum += sg.pe[i]
	}
	// pe is in units of G*mp and each pair is counted twice.
	return 0.5 * sg.G * mp * mp * sum
}

// rootTree moves the node spanning all n points to the front of t.Nodes.
// NewTree reserves a block of empty nodes and then appends the real tree
// after them, which would leave Potential walking the empty block. Child
// indices are absolute, so they are shifted along with the slice.
func rootTree(t *gravitree.Tree, n int) {
	off := -1
	for i := range t.Nodes {
		if t.Nodes[i].Start == 0 && t.Nodes[i].End == n {
			off = i
			break
		}
	}
	if off == -1 {
		m_error.Internal("gravitree built no root node for %d points.", n)
	} else if off == 0 {
		return
	}

	nodes := t.Nodes[off:]
	for i := range nodes {
		if nodes[i].Left != -1 {
			nodes[i].Left -= off
			nodes[i].Right -= off
		}
	}
	t.Nodes = nodes
	t.Root = &t.Nodes[0]
}
