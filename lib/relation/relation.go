/*package relation contains the neighbor lists which operators iterate over.
An Inner relation lists neighbors from a body's own particles, a Contact
relation lists neighbors from other bodies, and a Complex relation bundles
one of each around the same source body.

Neighbor lists hold slot indices, so a relation is invalidated whenever the
cell-linked list of any body it reads is rebuilt. Check() catches reads of
invalidated relations.*/
package relation

import (
	"sync/atomic"

	"github.com/phil-mansfield/multiphase/lib/body"
	"github.com/phil-mansfield/multiphase/lib/cells"
	m_error "github.com/phil-mansfield/multiphase/lib/error"
	"github.com/phil-mansfield/multiphase/lib/geom"
	"github.com/phil-mansfield/multiphase/lib/kernel"
	"github.com/phil-mansfield/multiphase/lib/thread"
)

// Relation is anything which can be refreshed from its bodies' cell-linked
// lists and checked for staleness.
type Relation interface {
	Update()
	Check()
}

var (
	_ Relation = &Inner{}
	_ Relation = &Contact{}
	_ Relation = &Complex{}
)

// Neighborhood is the neighbor list of a single particle along with geometry
// precomputed for every pair. E[k] is the unit vector pointing from neighbor
// J[k] to the particle, or zero if they coincide.
type Neighborhood struct {
	J        []int
	W, DW, R []float64
	E        []geom.Vec
}

// Len returns the number of neighbors.
func (n *Neighborhood) Len() int { return len(n.J) }

func (n *Neighborhood) reset() {
	n.J, n.W, n.DW, n.R, n.E = n.J[:0], n.W[:0], n.DW[:0], n.R[:0], n.E[:0]
}

func (n *Neighborhood) add(j int, w, dw, r float64, e geom.Vec) {
	n.J = append(n.J, j)
	n.W = append(n.W, w)
	n.DW = append(n.DW, dw)
	n.R = append(n.R, r)
	n.E = append(n.E, e)
}

// Limit bounds the expected length of a neighbor list. A list longer than Max
// means particles have clustered far beyond the density the cells were sized
// for. Max <= 0 disables the check.
type Limit struct {
	Max int
	// Fatal turns the overflow warning into a crash.
	Fatal bool
}

func (l Limit) report(name string, overflows int64) {
	if l.Max <= 0 || overflows == 0 {
		return
	}
	if l.Fatal {
		m_error.Internal("%d particles in relation '%s' have more than %d "+
			"neighbors. The cell size is too small for the particle "+
			"clustering.", overflows, name, l.Max)
	}
	m_error.Warning("%d particles in relation '%s' have more than %d "+
		"neighbors.", overflows, name, l.Max)
}

// search fills nb with every particle in (xs, cl) within k.Cutoff() of x,
// skipping slot self. It returns the cell buffer for reuse.
func search(
	x geom.Vec, self int, xs []geom.Vec, cl *cells.List, k kernel.Kernel,
	buf []int, nb *Neighborhood,
) []int {
	nb.reset()
	cutoff := k.Cutoff()
	cutoff2 := cutoff * cutoff

	buf = cl.CellsNear(x, cutoff, buf)
	for _, c := range buf {
		for _, j := range cl.Cell(c) {
			if j == self {
				continue
			}
			dx := x.Sub(xs[j])
			r2 := geom.Norm2(dx)
			if r2 > cutoff2 {
				continue
			}

			r := geom.Norm(dx)
			e := geom.Vec{}
			if r > 0 {
				e = dx.Scale(1 / r)
			}
			nb.add(j, k.W(r), k.DW(r), r, e)
		}
	}
	return buf
}

// resizeNeighbors returns a list of n Neighborhoods, reusing the storage in
// nbs where possible.
func resizeNeighbors(nbs []Neighborhood, n int) []Neighborhood {
	if cap(nbs) >= n {
		return nbs[:n]
	}
	return append(nbs[:cap(nbs)], make([]Neighborhood, n-cap(nbs))...)
}

// Inner lists the neighbors of every particle of a body within that same
// body, excluding the particle itself.
type Inner struct {
	Body      *body.Body
	Neighbors []Neighborhood
	Limit     Limit

	generation uint64
	updated    bool
}

// NewInner creates an inner relation. It is empty until Update is called.
func NewInner(b *body.Body) *Inner {
	return &Inner{Body: b}
}

// Update clears and rebuilds every neighbor list from the body's current
// cell-linked list.
func (r *Inner) Update() {
	b := r.Body
	xs, n := b.Positions(), b.Len()
	if b.Cells.Len() != n {
		m_error.Internal("Inner relation of '%s' updated from a cell list "+
			"with %d slots, but the body has %d particles.",
			b.Name, b.Cells.Len(), n)
	}
	r.Neighbors = resizeNeighbors(r.Neighbors, n)

	bufs := make([][]int, thread.Workers())
	overflows := int64(0)
	thread.For(n, func(i, worker int) {
		nb := &r.Neighbors[i]
		bufs[worker] = search(xs[i], i, xs, b.Cells, b.Kernel, bufs[worker], nb)
		if r.Limit.Max > 0 && nb.Len() > r.Limit.Max {
			atomic.AddInt64(&overflows, 1)
		}
	})
	r.Limit.report(b.Name, overflows)

	r.generation = b.Cells.Generation()
	r.updated = true
}

// Check crashes if the body's cell-linked list was rebuilt after the last
// Update.
func (r *Inner) Check() {
	if !r.updated {
		m_error.Internal("Inner relation of '%s' read before its first "+
			"update.", r.Body.Name)
	} else if r.generation != r.Body.Cells.Generation() {
		m_error.Internal("Inner relation of '%s' is stale: built from cell "+
			"list generation %d, but the current generation is %d.",
			r.Body.Name, r.generation, r.Body.Cells.Generation())
	}
}

// Contact lists the neighbors of every particle of a source body within each
// of a set of target bodies. Neighbors[t][i] is the list of slots in
// Targets[t] near slot i of Body.
type Contact struct {
	Body      *body.Body
	Targets   []*body.Body
	Neighbors [][]Neighborhood
	Limit     Limit

	generations []uint64
	updated     bool
}

// NewContact creates a contact relation between b and every target. It is
// empty until Update is called.
func NewContact(b *body.Body, targets ...*body.Body) *Contact {
	for _, t := range targets {
		if t == b {
			m_error.Internal("Body '%s' is in contact with itself. Use an "+
				"Inner relation instead.", b.Name)
		}
	}
	return &Contact{
		Body:        b,
		Targets:     targets,
		Neighbors:   make([][]Neighborhood, len(targets)),
		generations: make([]uint64, len(targets)+1),
	}
}

// Target returns the index of a target body, or -1 if it isn't one.
func (r *Contact) Target(b *body.Body) int {
	for t := range r.Targets {
		if r.Targets[t] == b {
			return t
		}
	}
	return -1
}

// Update clears and rebuilds every neighbor list from the target bodies'
// current cell-linked lists. Targets are updated in order.
func (r *Contact) Update() {
	b := r.Body
	xs, n := b.Positions(), b.Len()

	for t, target := range r.Targets {
		txs := target.Positions()
		if target.Cells.Len() != target.Len() {
			m_error.Internal("Contact relation '%s' -> '%s' updated from a "+
				"cell list with %d slots, but the target has %d particles.",
				b.Name, target.Name, target.Cells.Len(), target.Len())
		}
		nbs := resizeNeighbors(r.Neighbors[t], n)
		r.Neighbors[t] = nbs

		bufs := make([][]int, thread.Workers())
		overflows := int64(0)
		thread.For(n, func(i, worker int) {
			nb := &nbs[i]
			bufs[worker] = search(xs[i], -1, txs, target.Cells, b.Kernel,
				bufs[worker], nb)
			if r.Limit.Max > 0 && nb.Len() > r.Limit.Max {
				atomic.AddInt64(&overflows, 1)
			}
		})
		r.Limit.report(b.Name+" -> "+target.Name, overflows)

		r.generations[t+1] = target.Cells.Generation()
	}

	r.generations[0] = b.Cells.Generation()
	r.updated = true
}

// Check crashes if the cell-linked list of the source body or any target was
// rebuilt after the last Update.
func (r *Contact) Check() {
	if !r.updated {
		m_error.Internal("Contact relation of '%s' read before its first "+
			"update.", r.Body.Name)
	}
	r.checkBody(r.Body, r.generations[0])
	for t, target := range r.Targets {
		r.checkBody(target, r.generations[t+1])
	}
}

func (r *Contact) checkBody(b *body.Body, gen uint64) {
	if gen != b.Cells.Generation() {
		m_error.Internal("Contact relation of '%s' is stale: built from "+
			"generation %d of '%s', but the current generation is %d.",
			r.Body.Name, gen, b.Name, b.Cells.Generation())
	}
}

// Complex bundles the inner relation of a body with its contact relation.
type Complex struct {
	Inner   *Inner
	Contact *Contact
}

// NewComplex creates an inner relation for b and a contact relation between b
// and every target.
func NewComplex(b *body.Body, targets ...*body.Body) *Complex {
	return &Complex{NewInner(b), NewContact(b, targets...)}
}

// Update updates the inner relation and then the contact relation.
func (r *Complex) Update() {
	r.Inner.Update()
	r.Contact.Update()
}

func (r *Complex) Check() {
	r.Inner.Check()
	r.Contact.Check()
}

// SetLimit sets the neighbor limit of both parts of the relation.
func (r *Complex) SetLimit(l Limit) {
	r.Inner.Limit = l
	r.Contact.Limit = l
}
