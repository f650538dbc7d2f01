/*package eq is a simple package for telling whether two arrays are equal to
one another. It is mostly used by tests.*/
package eq

import (
	"sort"

	"github.com/phil-mansfield/multiphase/lib/geom"
)

// Generic returns true if two arrays are the same type and have the same values
// and false otherwise. Only []int, []float64, []geom.Vec and []geom.Mat are
// supported.
func Generic(x, y interface{}) bool {
	switch xx := x.(type) {
	case []int:
		yy, ok := y.([]int)
		if !ok {
			return false
		}
		return Ints(xx, yy)
	case []float64:
		yy, ok := y.([]float64)
		if !ok {
			return false
		}
		return Float64s(xx, yy)
	case []geom.Vec:
		yy, ok := y.([]geom.Vec)
		if !ok {
			return false
		}
		return Vecs(xx, yy)
	case []geom.Mat:
		yy, ok := y.([]geom.Mat)
		if !ok {
			return false
		}
		return Mats(xx, yy)
	}
	return false
}

// Ints returns true if two []int arrays are the same and false otherwise.
func Ints(x, y []int) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// IntSets returns true if two []int arrays contain the same elements,
// regardless of order, and false otherwise. Neither argument is modified.
func IntSets(x, y []int) bool {
	if len(x) != len(y) {
		return false
	}
	xs, ys := append([]int{}, x...), append([]int{}, y...)
	sort.Ints(xs)
	sort.Ints(ys)
	return Ints(xs, ys)
}

// Float64s returns true if two []float64 arrays are the same and false
// otherwise.
func Float64s(x, y []float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Float64sEps returns true if the two []float64 arrays are within eps of one
// another and false otherwise.
func Float64sEps(x, y []float64, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i]+eps < y[i] || x[i]-eps > y[i] {
			return false
		}
	}
	return true
}

// Vecs returns true if two []geom.Vec arrays are the same and false otherwise.
func Vecs(x, y []geom.Vec) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Mats returns true if two []geom.Mat arrays are the same and false otherwise.
func Mats(x, y []geom.Mat) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
