package restart

/* This file contains IO, which writes and reads the restart files of every
body in a simulation. */

import (
	"bufio"
	"fmt"
	"os"
	"path"

	"github.com/phil-mansfield/multiphase/lib/body"
	"github.com/phil-mansfield/multiphase/lib/integrator"
)

// IO writes and reads restart files for a set of bodies. Each body gets one
// file per iteration, named <Dir>/<body name>_rst_<iteration>.dat.
type IO struct {
	Dir    string
	Bodies []*body.Body
}

var _ integrator.Recorder = &IO{}

// FileName returns the name of the restart file of a body at an iteration.
func (rio *IO) FileName(b *body.Body, iteration int) string {
	return FileName(rio.Dir, b.Name, iteration)
}

// FileName returns the name of the restart file in dir of the body named
// bodyName at an iteration.
func FileName(dir, bodyName string, iteration int) string {
	return path.Join(dir, fmt.Sprintf("%s_rst_%010d.dat", bodyName, iteration))
}

// WriteToFile writes a restart file for every body at the context's current
// iteration.
func (rio *IO) WriteToFile(ctx *integrator.Context) error {
	for _, b := range rio.Bodies {
		if err := writeFile(rio.FileName(b, ctx.Iterations), ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// Record lets IO be used as a recorder.
func (rio *IO) Record(ctx *integrator.Context) error { return rio.WriteToFile(ctx) }

func writeFile(fname string, ctx *integrator.Context, b *body.Body) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	wr := bufio.NewWriter(f)
	if err := Write(wr, ctx.Iterations, ctx.PhysicalTime, b.Particles); err != nil {
		return fmt.Errorf("writing restart file %s: %w", fname, err)
	}
	if err := wr.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// ReadFromFile restores every body from its restart file at the given
// iteration and returns the physical time the files were written at. Cell
// lists and relations must be rebuilt afterwards.
func (rio *IO) ReadFromFile(iteration int) (float64, error) {
	physicalTime := 0.0
	for i, b := range rio.Bodies {
		hd, err := readFile(rio.FileName(b, iteration), b)
		if err != nil {
			return 0, err
		}

		if int(hd.Iterations) != iteration {
			return 0, fmt.Errorf("%w: restart file of '%s' stores "+
				"iteration %d, not %d", ErrFormat, b.Name, hd.Iterations,
				iteration)
		} else if i > 0 && hd.PhysicalTime != physicalTime {
			return 0, fmt.Errorf("%w: restart file of '%s' is at time %g, "+
				"but other bodies are at time %g", ErrFormat, b.Name,
				hd.PhysicalTime, physicalTime)
		}
		physicalTime = hd.PhysicalTime
	}
	return physicalTime, nil
}

func readFile(fname string, b *body.Body) (*Header, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hd, err := Read(bufio.NewReader(f), b.Particles)
	if err != nil {
		return nil, fmt.Errorf("reading restart file %s: %w", fname, err)
	}
	return hd, nil
}

// ReadHeaderFile reads the header of a single restart file.
func ReadHeaderFile(fname string) (*Header, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadHeader(bufio.NewReader(f))
}
