/*package recording contains the recorders which write a simulation's
measurements to disk as it runs. Every recorder writes one text file which
starts with commented column descriptions and then has one row per record.*/
package recording

import (
	"bufio"
	"fmt"
	"os"
	"path"

	"github.com/phil-mansfield/multiphase/lib/dynamics"
	"github.com/phil-mansfield/multiphase/lib/dynamics/fluid"
	"github.com/phil-mansfield/multiphase/lib/integrator"
)

// Every wraps a recorder so it only records every N iterations. N <= 0
// records every time.
type Every struct {
	N int
	R integrator.Recorder
}

func (e *Every) Record(ctx *integrator.Context) error {
	if e.N > 0 && ctx.Iterations%e.N != 0 {
		return nil
	}
	return e.R.Record(ctx)
}

// series is a text file of whitespace-separated columns.
type series struct {
	f  *os.File
	wr *bufio.Writer
}

func newSeries(fname string, columns []string) (*series, error) {
	f, err := os.Create(fname)
	if err != nil {
		return nil, err
	}
	s := &series{f, bufio.NewWriter(f)}

	fmt.Fprintln(s.wr, "# Columns:")
	for i, col := range columns {
		fmt.Fprintf(s.wr, "# %d - %s\n", i, col)
	}
	if err := s.wr.Flush(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *series) row(time float64, values []float64) error {
	fmt.Fprintf(s.wr, "%.8g", time)
	for _, x := range values {
		fmt.Fprintf(s.wr, " %.8g", x)
	}
	fmt.Fprintln(s.wr)
	return s.wr.Flush()
}

func (s *series) Close() error {
	if err := s.wr.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// ObservedQuantity records the values an observer body measures. Each row is
// the time followed by one column per observer particle, ordered by
// OriginalID so that columns stay put when particles are sorted.
type ObservedQuantity struct {
	*series
	exec dynamics.Executor
	op   *fluid.ObservingQuantity
	buf  []float64
}

// NewObservedQuantity creates the output file fname. exec runs op, and is
// called at every record before the values are written.
func NewObservedQuantity(
	fname string, exec dynamics.Executor, op *fluid.ObservingQuantity,
) (*ObservedQuantity, error) {
	n := len(op.Values())
	columns := make([]string, n+1)
	columns[0] = "Time"
	for i := 0; i < n; i++ {
		columns[i+1] = fmt.Sprintf("%s[%d]", op.Name(), i)
	}

	s, err := newSeries(fname, columns)
	if err != nil {
		return nil, err
	}
	return &ObservedQuantity{s, exec, op, make([]float64, n)}, nil
}

func (r *ObservedQuantity) Record(ctx *integrator.Context) error {
	r.exec.Exec(0)
	b := r.op.Body()
	ids := b.Particles.Integer(b.OriginalID)
	for i, x := range r.op.Values() {
		r.buf[ids[i]] = x
	}
	return r.row(ctx.PhysicalTime, r.buf)
}

// ReducedQuantity records the output of a reduction, like the total
// mechanical energy of a body.
type ReducedQuantity struct {
	*series
	reduce dynamics.Reduction
	buf    [1]float64
}

// NewReducedQuantity creates the output file fname. name labels the column.
func NewReducedQuantity(
	fname, name string, reduce dynamics.Reduction,
) (*ReducedQuantity, error) {
	s, err := newSeries(fname, []string{"Time", name})
	if err != nil {
		return nil, err
	}
	return &ReducedQuantity{series: s, reduce: reduce}, nil
}

func (r *ReducedQuantity) Record(ctx *integrator.Context) error {
	r.buf[0] = r.reduce.Exec(0)
	return r.row(ctx.PhysicalTime, r.buf[:])
}

// FileName returns the name of a body's time series for a quantity.
func FileName(dir, bodyName, quantity string) string {
	return path.Join(dir, fmt.Sprintf("%s_%s.dat", bodyName, quantity))
}
