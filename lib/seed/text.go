package seed

/* This file contains a reader for particle positions stored in text
columns. */

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/multiphase/lib/geom"
)

// TextConfig describes the layout of a text file.
type TextConfig struct {
	Separator byte // Character used to separate columns. ' ' also matches tabs.
	Comment   byte // Character used to start comments.
	SkipLines int  // Number of lines to skip at the start of file.
	// Columns gives the column of each position component.
	Columns [3]int
}

// DefaultConfig reads whitespace-separated x, y, z columns with '#' comments.
var DefaultConfig = TextConfig{
	Separator: ' ',
	Comment:   '#',
	SkipLines: 0,
	Columns:   [3]int{0, 1, 2},
}

// ReadPositionsFile reads the positions in a whitespace-separated text file
// whose first dim columns are x, y (and z). '#' starts a comment.
func ReadPositionsFile(fname string, dim int) ([]geom.Vec, error) {
	colIdxs := []int{0, 1, 2}[:dim]
	cols, err := table.ReadTable(fname, colIdxs, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions from %s: %w", fname, err)
	}

	xs := make([]geom.Vec, len(cols[0]))
	for i := range xs {
		xs[i] = geom.Vec{X: cols[0][i], Y: cols[1][i]}
		if dim == 3 {
			xs[i].Z = cols[2][i]
		}
	}
	return xs, nil
}

// ReadPositions reads one position per non-empty, non-comment line of rd.
// Only the first dim columns listed in the config are read. An optional
// config may be given, otherwise DefaultConfig is used.
func ReadPositions(rd io.Reader, dim int, config ...TextConfig) ([]geom.Vec, error) {
	c := DefaultConfig
	if len(config) > 0 {
		c = config[0]
	}

	text, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}

	lines := bytes.Split(text, []byte{'\n'})
	if c.SkipLines > len(lines) {
		return []geom.Vec{}, nil
	}

	xs := []geom.Vec{}
	for i, line := range lines[c.SkipLines:] {
		line = uncomment(line, c.Comment)
		cols := fields(line, c.Separator)
		if len(cols) == 0 {
			continue
		}

		var x [3]float64
		for k := 0; k < dim; k++ {
			col := c.Columns[k]
			if col >= len(cols) {
				return nil, fmt.Errorf("line %d has %d columns, but column "+
					"%d is needed", i+c.SkipLines+1, len(cols), col)
			}
			x[k], err = strconv.ParseFloat(string(cols[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+c.SkipLines+1, err)
			}
		}
		xs = append(xs, geom.Vec{X: x[0], Y: x[1], Z: x[2]})
	}
	return xs, nil
}

// uncomment removes everything after the comment character.
func uncomment(line []byte, comment byte) []byte {
	if idx := bytes.IndexByte(line, comment); idx != -1 {
		return line[:idx]
	}
	return line
}

// fields splits a line into columns, dropping empty ones.
func fields(line []byte, sep byte) [][]byte {
	if sep == ' ' {
		return bytes.Fields(line)
	}
	cols := bytes.Split(line, []byte{sep})
	for i := range cols {
		cols[i] = bytes.TrimSpace(cols[i])
	}
	if len(cols) == 1 && len(cols[0]) == 0 {
		return nil
	}
	return cols
}
