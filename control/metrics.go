// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector: gauges set by key plus monotonically
// increasing counters for byte and error totals.

package control

import (
	"sync"
	"time"
)

// Metric keys recorded by the facade and the CLI.
const (
	MetricBytesIn      = "ring.bytes_in"
	MetricBytesOut     = "ring.bytes_out"
	MetricRingsOpen    = "ring.open"
	MetricFullErrors   = "ring.errors.full"
	MetricUnderflows   = "ring.errors.insufficient_data"
	MetricRegionsAlloc = "pool.alloc"
	MetricRegionsReuse = "pool.reused"
	MetricRegionsIdle  = "pool.idle"
)

// MetricsRegistry holds mutable and read-only metrics.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Add increments an int64 counter, creating it at zero. A key holding a
// non-counter value is overwritten.
func (mr *MetricsRegistry) Add(key string, delta int64) int64 {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	cur, _ := mr.metrics[key].(int64)
	cur += delta
	mr.metrics[key] = cur
	mr.updated = time.Now()
	return cur
}

// Updated returns the time of the last change.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}
