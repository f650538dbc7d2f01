/*package particles contains the per-body field store: named, typed,
equal-length arrays indexed by particle slot.*/
package particles

/* This file contains functions for registering and accessing fields. */

import (
	"errors"
	"fmt"

	m_error "github.com/phil-mansfield/multiphase/lib/error"
	"github.com/phil-mansfield/multiphase/lib/geom"
)

// ErrNotFound is returned (wrapped) when a field name hasn't been registered.
var ErrNotFound = errors.New("particles: field not found")

// Category is the closed set of array types a field can have.
type Category int

const (
	ScalarCategory Category = iota
	VectorCategory
	TensorCategory
	IntegerCategory
	NumCategories
)

func (c Category) String() string {
	switch c {
	case ScalarCategory:
		return "scalar"
	case VectorCategory:
		return "vector"
	case TensorCategory:
		return "tensor"
	case IntegerCategory:
		return "integer"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Handles are resolved once, at registration time, so that operators never
// look fields up by name inside particle loops.
type (
	Scalar  struct{ idx int }
	Vector  struct{ idx int }
	Tensor  struct{ idx int }
	Integer struct{ idx int }
)

type entry struct {
	cat Category
	idx int
}

// Particles represents the state of all the particles in one body. Every
// array has length Len(), and slot i in every array refers to the same
// particle.
type Particles struct {
	n int

	scalars  [][]float64
	vectors  [][]geom.Vec
	tensors  [][]geom.Mat
	integers [][]int

	names [NumCategories][]string
	index map[string]entry
}

// New creates an empty field store with n slots.
func New(n int) *Particles {
	if n < 0 {
		m_error.Internal("particles.New() given negative length %d.", n)
	}
	return &Particles{n: n, index: map[string]entry{}}
}

// Len returns the number of particle slots. It is identical for every array.
func (p *Particles) Len() int { return p.n }

// register returns the index of name in category cat, creating it with add if
// needed.
func (p *Particles) register(name string, cat Category, add func() int) int {
	if e, ok := p.index[name]; ok {
		if e.cat != cat {
			m_error.Internal("Field '%s' is already registered as a %s "+
				"field, but was re-registered as a %s field.", name, e.cat, cat)
		}
		return e.idx
	}
	idx := add()
	p.index[name] = entry{cat, idx}
	p.names[cat] = append(p.names[cat], name)
	return idx
}

// AddScalar registers a []float64 field. Registering an existing scalar name
// returns the original handle.
func (p *Particles) AddScalar(name string) Scalar {
	return Scalar{p.register(name, ScalarCategory, func() int {
		p.scalars = append(p.scalars, make([]float64, p.n))
		return len(p.scalars) - 1
	})}
}

// AddVector registers a []geom.Vec field.
func (p *Particles) AddVector(name string) Vector {
	return Vector{p.register(name, VectorCategory, func() int {
		p.vectors = append(p.vectors, make([]geom.Vec, p.n))
		return len(p.vectors) - 1
	})}
}

// AddTensor registers a []geom.Mat field.
func (p *Particles) AddTensor(name string) Tensor {
	return Tensor{p.register(name, TensorCategory, func() int {
		p.tensors = append(p.tensors, make([]geom.Mat, p.n))
		return len(p.tensors) - 1
	})}
}

// AddInteger registers a []int field.
func (p *Particles) AddInteger(name string) Integer {
	return Integer{p.register(name, IntegerCategory, func() int {
		p.integers = append(p.integers, make([]int, p.n))
		return len(p.integers) - 1
	})}
}

func (p *Particles) Scalar(h Scalar) []float64  { return p.scalars[h.idx] }
func (p *Particles) Vector(h Vector) []geom.Vec { return p.vectors[h.idx] }
func (p *Particles) Tensor(h Tensor) []geom.Mat { return p.tensors[h.idx] }
func (p *Particles) Integer(h Integer) []int    { return p.integers[h.idx] }

// lookup finds the index of a field with the given name and category.
func (p *Particles) lookup(name string, cat Category) (int, error) {
	e, ok := p.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: no %s field named '%s'", ErrNotFound, cat, name)
	} else if e.cat != cat {
		return -1, fmt.Errorf("%w: '%s' is a %s field, not a %s field",
			ErrNotFound, name, e.cat, cat)
	}
	return e.idx, nil
}

// ScalarNamed returns the handle of a previously registered scalar field.
func (p *Particles) ScalarNamed(name string) (Scalar, error) {
	idx, err := p.lookup(name, ScalarCategory)
	return Scalar{idx}, err
}

// VectorNamed returns the handle of a previously registered vector field.
func (p *Particles) VectorNamed(name string) (Vector, error) {
	idx, err := p.lookup(name, VectorCategory)
	return Vector{idx}, err
}

// TensorNamed returns the handle of a previously registered tensor field.
func (p *Particles) TensorNamed(name string) (Tensor, error) {
	idx, err := p.lookup(name, TensorCategory)
	return Tensor{idx}, err
}

// IntegerNamed returns the handle of a previously registered integer field.
func (p *Particles) IntegerNamed(name string) (Integer, error) {
	idx, err := p.lookup(name, IntegerCategory)
	return Integer{idx}, err
}

// Category returns the category of a registered field.
func (p *Particles) Category(name string) (Category, bool) {
	e, ok := p.index[name]
	return e.cat, ok
}

// Names returns the names of every field in a category, in registration order.
func (p *Particles) Names(cat Category) []string {
	return append([]string{}, p.names[cat]...)
}

// Data returns the array associated with a name as an interface{}. It is used
// by code that handles every category the same way, like restart files.
func (p *Particles) Data(name string) (interface{}, error) {
	e, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: no field named '%s'", ErrNotFound, name)
	}
	switch e.cat {
	case ScalarCategory:
		return p.scalars[e.idx], nil
	case VectorCategory:
		return p.vectors[e.idx], nil
	case TensorCategory:
		return p.tensors[e.idx], nil
	default:
		return p.integers[e.idx], nil
	}
}

// Check kills the program if any array has a length different from Len().
func (p *Particles) Check() {
	check(p.scalars, p.n, p.names[ScalarCategory])
	check(p.vectors, p.n, p.names[VectorCategory])
	check(p.tensors, p.n, p.names[TensorCategory])
	check(p.integers, p.n, p.names[IntegerCategory])
}

func check[T any](cols [][]T, n int, names []string) {
	for i := range cols {
		if len(cols[i]) != n {
			m_error.Internal("Field '%s' has length %d, but the body has "+
				"%d particles.", names[i], len(cols[i]), n)
		}
	}
}

// Resize changes the number of slots of every field in lockstep. Existing
// values in slots below n are kept.
func (p *Particles) Resize(n int) {
	if n < 0 {
		m_error.Internal("Particles.Resize() given negative length %d.", n)
	}
	resize(p.scalars, n)
	resize(p.vectors, n)
	resize(p.tensors, n)
	resize(p.integers, n)
	p.n = n
}

func resize[T any](cols [][]T, n int) {
	for i := range cols {
		if cap(cols[i]) >= n {
			old := len(cols[i])
			cols[i] = cols[i][:n]
			var zero T
			for j := old; j < n; j++ {
				cols[i][j] = zero
			}
		} else {
			cols[i] = append(cols[i], make([]T, n-len(cols[i]))...)
		}
	}
}
