package thread

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	defer Set(runtime.NumCPU())
	for _, workers := range []int{1, runtime.NumCPU()} {
		Set(workers)
		assert.Equal(t, workers, Workers())

		for _, n := range []int{0, 1, 7, 1000} {
			counts := make([]int32, n)
			badWorker := int32(0)
			For(n, func(i, worker int) {
				atomic.AddInt32(&counts[i], 1)
				if worker < 0 || worker >= Workers() {
					atomic.StoreInt32(&badWorker, 1)
				}
			})

			for i := range counts {
				if counts[i] != 1 {
					t.Errorf("%d workers, n = %d: Expected index %d to be "+
						"visited once, got %d.", workers, n, i, counts[i])
				}
			}
			assert.Equal(t, int32(0), badWorker)
		}
	}
}

func TestSerial(t *testing.T) {
	order := []int{}
	Serial(4, func(i, worker int) { order = append(order, i+10*worker) })
	assert.Equal(t, []int{0, 1, 2, 3}, order)
}
