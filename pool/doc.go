// Package pool
// Author: momentics <momentics@gmail.com>
//
// Memory layer for hioload-ring.
// Recycles double-mapped regions between rings of the same capacity so
// that the mmap/munmap cost is paid once per size class, not once per
// stream. See regionpool.go for the implementation.
package pool
