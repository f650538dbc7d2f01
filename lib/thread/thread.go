/*package thread contains functions useful for multi-threading. Every particle
loop in multiphase goes through For, so the number of workers is controlled
from one place.*/
package thread

import (
	"runtime"

	"github.com/dgravesa/go-parallel/parallel"

	m_error "github.com/phil-mansfield/multiphase/lib/error"
)

var workers = runtime.NumCPU()

// Set sets the number of worker goroutines used by For. n = -1 means use every
// core.
func Set(n int) {
	if n == -1 {
		n = runtime.NumCPU()
	}
	if n <= 0 {
		m_error.External("%d threads requested, but the thread count must "+
			"be positive (or -1 to use every core).", n)
	} else if n > runtime.NumCPU() {
		m_error.External("%d threads requested, but your system only has "+
			"%d cores. If you want multiphase to use the maximum number of "+
			"threads, set Threads = -1.", n, runtime.NumCPU())
	}
	workers = n
	runtime.GOMAXPROCS(n)
}

// Workers returns the number of worker goroutines used by For. Workers passed
// to loop bodies are numbered in [0, Workers()).
func Workers() int { return workers }

// For calls body(i, worker) for every i in [0, n). Calls with different i may
// run concurrently, but calls sharing a worker ID never do, so worker can
// index per-worker scratch space.
func For(n int, body func(i, worker int)) {
	if n <= 0 {
		return
	}
	if workers == 1 || n == 1 {
		for i := 0; i < n; i++ {
			body(i, 0)
		}
		return
	}
	parallel.WithNumGoroutines(workers).For(n, body)
}

// Serial calls body(i, 0) for every i in [0, n) in order.
func Serial(n int, body func(i, worker int)) {
	for i := 0; i < n; i++ {
		body(i, 0)
	}
}
