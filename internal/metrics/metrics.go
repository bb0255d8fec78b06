package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry groups the counters the fulfillment engine reports into.
// Compensation counters are the only visibility into stock drift, since
// rollback/restock failures are swallowed by design.
type Registry struct {
	OrdersCreated        Counter
	OrdersFailed         Counter
	OrdersCancelled      Counter
	StockCompensations   Counter
	CompensationFailures Counter
	RestockFailures      Counter
	NotifyFailures       Counter
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"orders_created":        r.OrdersCreated.Load(),
		"orders_failed":         r.OrdersFailed.Load(),
		"orders_cancelled":      r.OrdersCancelled.Load(),
		"stock_compensations":   r.StockCompensations.Load(),
		"compensation_failures": r.CompensationFailures.Load(),
		"restock_failures":      r.RestockFailures.Load(),
		"notify_failures":       r.NotifyFailures.Load(),
	}
}
