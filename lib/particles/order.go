package particles

/* This file contains functions for moving particles between slots. Every
relocation goes through Swap, so all fields of a body stay in lockstep. */

import (
	m_error "github.com/phil-mansfield/multiphase/lib/error"
)

// Swap exchanges the particles in slots a and b in every registered field.
// It must not run concurrently with anything that reads the store.
func (p *Particles) Swap(a, b int) {
	if a < 0 || b < 0 || a >= p.n || b >= p.n {
		m_error.Internal("Particles.Swap(%d, %d) called on a store with "+
			"%d particles.", a, b, p.n)
	}
	if a == b {
		return
	}
	swap(p.scalars, a, b)
	swap(p.vectors, a, b)
	swap(p.tensors, a, b)
	swap(p.integers, a, b)
}

func swap[T any](cols [][]T, a, b int) {
	for i := range cols {
		cols[i][a], cols[i][b] = cols[i][b], cols[i][a]
	}
}

// Permute reorders the particles so that the particle which was in slot
// order[i] ends up in slot i. order must be a permutation of [0, Len()). The
// permutation is applied cycle by cycle with Swap, so it needs no copies of
// the fields.
func (p *Particles) Permute(order []int) {
	if len(order) != p.n {
		m_error.Internal("Permutation has length %d, but the store has "+
			"%d particles.", len(order), p.n)
	}

	// where[k] is the slot currently holding the particle that started in
	// slot k, and at[s] is the original slot of the particle now in s.
	where := make([]int, p.n)
	at := make([]int, p.n)
	for i := range where {
		where[i], at[i] = i, i
	}

	seen := make([]bool, p.n)
	for i, k := range order {
		if k < 0 || k >= p.n || seen[k] {
			m_error.Internal("Permutation is invalid at index %d (value %d).",
				i, k)
		}
		seen[k] = true
	}

	for i, k := range order {
		j := where[k]
		if j == i {
			continue
		}
		p.Swap(i, j)
		ki := at[i]
		at[i], at[j] = k, ki
		where[k], where[ki] = i, j
	}
}
