package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_ConcurrentInc(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(5000), c.Load())
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry()
	r.OrdersCreated.Inc()
	r.CompensationFailures.Add(3)

	snap := r.Snapshot()
	assert.Equal(t, uint64(1), snap["orders_created"])
	assert.Equal(t, uint64(3), snap["compensation_failures"])
	assert.Equal(t, uint64(0), snap["orders_cancelled"])
}
