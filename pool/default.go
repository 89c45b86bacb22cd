package pool

import (
	"sync"
)

var (
	defaultOnce sync.Once
	defaultPool *RegionPool
)

// Default returns a process-wide RegionPool so short-lived rings of the
// same size reuse mappings instead of remapping on every construction.
func Default() *RegionPool {
	defaultOnce.Do(func() {
		defaultPool = NewRegionPool(Config{MaxIdle: DefaultMaxIdle})
	})
	return defaultPool
}
