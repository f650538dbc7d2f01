package seed

import (
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/multiphase/lib/geom"
)

func TestLattice(t *testing.T) {
	box := geom.Box{Upper: geom.Vec{X: 2, Y: 1.5}}
	xs := Lattice(box, nil, 0.5, 2)
	require.Len(t, xs, 12)
	assert.Equal(t, geom.Vec{X: 0.25, Y: 0.25}, xs[0])
	assert.Equal(t, geom.Vec{X: 0.75, Y: 0.25}, xs[1])
	assert.Equal(t, geom.Vec{X: 1.75, Y: 1.25}, xs[11])

	// A wall: the outer box minus the inner box.
	outer := geom.Box{Lower: geom.Vec{X: -1, Y: -1}, Upper: geom.Vec{X: 3, Y: 3}}
	inner := geom.Box{Upper: geom.Vec{X: 2, Y: 2}}
	wall := Lattice(outer, []geom.Box{inner}, 0.5, 2)
	assert.Len(t, wall, 64-16)
	for _, x := range wall {
		if inner.Contains(x, 2) {
			t.Errorf("Expected %v to be excluded.", x)
		}
	}

	cube := Lattice(geom.Box{Upper: geom.Vec{X: 1, Y: 1, Z: 1}}, nil, 0.1, 3)
	assert.Len(t, cube, 1000)

	assert.Panics(t, func() { Lattice(box, nil, 0, 2) })
	assert.Panics(t, func() { Lattice(box, nil, 1, 4) })
}

func TestReadPositions(t *testing.T) {
	text := `# x y z
1 2 3
	4.5   -5 6 # trailing comment

7e-1 8 9
`
	xs, err := ReadPositions(strings.NewReader(text), 3)
	require.NoError(t, err)
	assert.Equal(t, []geom.Vec{{X: 1, Y: 2, Z: 3}, {X: 4.5, Y: -5, Z: 6},
		{X: 0.7, Y: 8, Z: 9}}, xs)

	xs, err = ReadPositions(strings.NewReader(text), 2)
	require.NoError(t, err)
	assert.Equal(t, geom.Vec{X: 4.5, Y: -5}, xs[1])

	csv := "id,y,x\n0, 1.5, 2.5\n1, 3.5, 4.5\n"
	xs, err = ReadPositions(strings.NewReader(csv), 2, TextConfig{
		Separator: ',', Comment: '#', SkipLines: 1, Columns: [3]int{2, 1, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, []geom.Vec{{X: 2.5, Y: 1.5}, {X: 4.5, Y: 3.5}}, xs)

	_, err = ReadPositions(strings.NewReader("1 2\n"), 3)
	assert.Error(t, err, "missing column")
	_, err = ReadPositions(strings.NewReader("1 x 3\n"), 3)
	assert.Error(t, err, "bad number")
}

func TestReadPositionsFile(t *testing.T) {
	fname := path.Join(t.TempDir(), "droplet.txt")
	require.NoError(t, os.WriteFile(fname, []byte("0 1\n2 3\n"), 0644))

	xs, err := ReadPositionsFile(fname, 2)
	require.NoError(t, err)
	assert.Equal(t, []geom.Vec{{X: 0, Y: 1}, {X: 2, Y: 3}}, xs)

	_, err = ReadPositionsFile(path.Join(t.TempDir(), "missing.txt"), 2)
	assert.Error(t, err)
}
