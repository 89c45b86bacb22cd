// File: ring/options.go
// Author: momentics <momentics@gmail.com>

package ring

import "github.com/momentics/hioload-ring/mirror"

// Allocator supplies and takes back regions, e.g. a recycling pool.
type Allocator interface {
	// Acquire returns a region of exactly size bytes.
	Acquire(size int) (*mirror.Region, error)
	// Recycle takes ownership of a region the ring no longer uses.
	Recycle(r *mirror.Region) error
}

type options struct {
	mirror []mirror.Option
	alloc  Allocator
}

// Option configures New.
type Option func(*options)

// WithRequireMirror fails construction with api.ErrMapping instead of
// using a split-copy region.
func WithRequireMirror() Option {
	return func(o *options) { o.mirror = append(o.mirror, mirror.WithRequireMirror()) }
}

// WithFallback accepts a split-copy region when the double mapping fails.
func WithFallback() Option {
	return func(o *options) { o.mirror = append(o.mirror, mirror.WithFallback()) }
}

// WithSplitCopy always uses a heap region with two-step copies at the wrap
// boundary, even where the double mapping is available.
func WithSplitCopy() Option {
	return func(o *options) { o.mirror = append(o.mirror, mirror.WithSplitCopy()) }
}

// WithAllocator takes regions from a instead of mapping them directly.
// Mirror options are ignored; the allocator decides.
func WithAllocator(a Allocator) Option {
	return func(o *options) { o.alloc = a }
}
