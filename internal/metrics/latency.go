package metrics

import (
	"sync/atomic"
	"time"
)

// LatencyStats aggregates duration samples in nanoseconds using CAS
// loops, so Observe is safe to call concurrently from sharded ingestion.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Observe records one duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)
	raiseIfExtreme(&l.min, nanos, func(cur, sample uint64) bool { return cur == 0 || sample < cur })
	raiseIfExtreme(&l.max, nanos, func(cur, sample uint64) bool { return sample > cur })
}

// raiseIfExtreme retries a compare-and-swap on addr until sample no
// longer beats the stored value under isNewExtreme, so min and max
// tracking share one retry loop instead of each spelling it out.
func raiseIfExtreme(addr *uint64, sample uint64, isNewExtreme func(cur, sample uint64) bool) {
	for {
		cur := atomic.LoadUint64(addr)
		if !isNewExtreme(cur, sample) {
			return
		}
		if atomic.CompareAndSwapUint64(addr, cur, sample) {
			return
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
