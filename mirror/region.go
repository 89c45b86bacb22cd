// File: mirror/region.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package mirror

import (
	"sync/atomic"

	"github.com/momentics/hioload-ring/api"
)

// Region is a ring-addressable block of memory of a power-of-two size.
// It is owned by exactly one ring at a time and must be released once.
type Region struct {
	buf      []byte
	size     int
	mask     uint64
	mirrored bool
	unmap    func() error
	released atomic.Bool
}

type options struct {
	requireMirror bool
	fallback      bool
	splitCopy     bool
}

// Option tunes Acquire.
type Option func(*options)

// WithRequireMirror makes Acquire fail with api.ErrMapping when the double
// mapping is unavailable, including on platforms that never support it.
func WithRequireMirror() Option {
	return func(o *options) { o.requireMirror = true }
}

// WithFallback lets Acquire return a heap region when the double mapping
// fails on a platform that normally supports it.
func WithFallback() Option {
	return func(o *options) { o.fallback = true }
}

// WithSplitCopy skips the double mapping and returns a heap region on
// every platform. Rings built on it behave exactly like mirrored ones but
// copy across the wrap boundary in two steps.
func WithSplitCopy() Option {
	return func(o *options) { o.splitCopy = true }
}

// PageSize returns the platform page granularity.
func PageSize() int {
	return pageSize()
}

// Supported reports whether this build can double-map memory.
func Supported() bool {
	return supported
}

// Acquire maps a region of size bytes. size must be a power of two and a
// multiple of the page size.
func Acquire(size int, opts ...Option) (*Region, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	ps := pageSize()
	if size <= 0 || size&(size-1) != 0 || size%ps != 0 {
		return nil, api.NewError(api.ErrCodeConfiguration,
			"region size must be a power-of-two multiple of the page size").
			WithContext("size", size).
			WithContext("page_size", ps)
	}

	if o.splitCopy {
		if o.requireMirror {
			return nil, api.NewError(api.ErrCodeConfiguration,
				"split-copy and require-mirror are mutually exclusive")
		}
		return newRegion(make([]byte, size), size, false, nil), nil
	}

	buf, unmap, err := mapMirrored(size)
	if err == nil {
		return newRegion(buf, size, true, unmap), nil
	}
	if o.requireMirror || (supported && !o.fallback) {
		return nil, api.NewError(api.ErrCodeMapping, "").
			WithContext("size", size).
			Wrap(err)
	}
	return newRegion(make([]byte, size), size, false, nil), nil
}

func newRegion(buf []byte, size int, mirrored bool, unmap func() error) *Region {
	return &Region{
		buf:      buf,
		size:     size,
		mask:     uint64(size - 1),
		mirrored: mirrored,
		unmap:    unmap,
	}
}

// Size returns the logical size in bytes.
func (r *Region) Size() int { return r.size }

// Mirrored reports whether the region is double-mapped.
func (r *Region) Mirrored() bool { return r.mirrored }

// Released reports whether Release has been called.
func (r *Region) Released() bool { return r.released.Load() }

// Window returns a contiguous view of n bytes starting at off mod Size.
// Mirrored regions always return n bytes; heap regions stop at the wrap
// boundary. n is clamped to Size.
func (r *Region) Window(off uint64, n int) []byte {
	if n > r.size {
		n = r.size
	}
	if n < 0 {
		n = 0
	}
	o := int(off & r.mask)
	end := o + n
	if !r.mirrored && end > r.size {
		end = r.size
	}
	return r.buf[o:end:end]
}

// CopyIn copies p into the region starting at off mod Size.
func (r *Region) CopyIn(off uint64, p []byte) {
	o := int(off & r.mask)
	if r.mirrored {
		copy(r.buf[o:o+len(p)], p)
		return
	}
	n := copy(r.buf[o:], p)
	copy(r.buf, p[n:])
}

// CopyOut fills p from the region starting at off mod Size.
func (r *Region) CopyOut(off uint64, p []byte) {
	o := int(off & r.mask)
	if r.mirrored {
		copy(p, r.buf[o:o+len(p)])
		return
	}
	n := copy(p, r.buf[o:])
	copy(p[n:], r.buf)
}

// Release unmaps the region. Only the first call has an effect.
func (r *Region) Release() error {
	if !r.released.CompareAndSwap(false, true) {
		return nil
	}
	r.buf = nil
	if r.unmap == nil {
		return nil
	}
	if err := r.unmap(); err != nil {
		return api.NewError(api.ErrCodeMapping, "munmap failed").
			WithContext("size", r.size).
			Wrap(err)
	}
	return nil
}
