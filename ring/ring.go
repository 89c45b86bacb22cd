// File: ring/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cursor and state tracking over a mirrored region.

package ring

import (
	"runtime"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/mirror"
)

var _ api.ByteRing = (*RingBuffer)(nil)

// RingBuffer is a fixed-capacity byte FIFO. Create it with New and release
// it with Close. A finalizer releases rings that become unreachable without
// Close; slices from FreeSpan and DataSpan do not count as references.
type RingBuffer struct {
	region   *mirror.Region
	alloc    Allocator
	order    int
	capacity uint64
	mirrored bool

	w, r   uint64 // monotonic cursors
	closed bool
}

// New maps a ring of 2^order bytes.
func New(order int, opts ...Option) (*RingBuffer, error) {
	capacity, err := CapacityForOrder(order)
	if err != nil {
		return nil, err
	}
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	var region *mirror.Region
	if o.alloc != nil {
		region, err = o.alloc.Acquire(capacity)
	} else {
		region, err = mirror.Acquire(capacity, o.mirror...)
	}
	if err != nil {
		return nil, err
	}

	rb := &RingBuffer{
		region:   region,
		alloc:    o.alloc,
		order:    order,
		capacity: uint64(capacity),
		mirrored: region.Mirrored(),
	}
	runtime.SetFinalizer(rb, (*RingBuffer).Close)
	return rb, nil
}

// With runs fn with a fresh ring and releases it on every exit path.
func With(order int, fn func(rb *RingBuffer) error, opts ...Option) (err error) {
	rb, err := New(order, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rb.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(rb)
}

// Order returns log2 of the capacity.
func (rb *RingBuffer) Order() int { return rb.order }

// Cap returns the capacity in bytes.
func (rb *RingBuffer) Cap() int { return int(rb.capacity) }

// Len returns the number of unread bytes.
func (rb *RingBuffer) Len() int { return int(rb.w - rb.r) }

// Free returns the number of bytes that can still be written.
func (rb *RingBuffer) Free() int { return int(rb.capacity - (rb.w - rb.r)) }

// Closed reports whether CloseWrite has been called.
func (rb *RingBuffer) Closed() bool { return rb.closed }

// EOF reports whether the ring is closed and fully drained.
func (rb *RingBuffer) EOF() bool { return rb.closed && rb.w == rb.r }

// Mirrored reports whether windows are always contiguous.
func (rb *RingBuffer) Mirrored() bool { return rb.mirrored }

// Write appends p in full or not at all. It implements io.Writer.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	if err := rb.checkWrite(len(p)); err != nil {
		return 0, err
	}
	rb.region.CopyIn(rb.w, p)
	rb.w += uint64(len(p))
	return len(p), nil
}

// ReadN consumes and returns exactly n bytes.
func (rb *RingBuffer) ReadN(n int) ([]byte, error) {
	p, err := rb.PeekN(n)
	if err != nil {
		return nil, err
	}
	rb.r += uint64(n)
	return p, nil
}

// PeekN returns a copy of the next n bytes without consuming them.
func (rb *RingBuffer) PeekN(n int) ([]byte, error) {
	if err := rb.checkRead(n); err != nil {
		return nil, err
	}
	p := make([]byte, n)
	rb.region.CopyOut(rb.r, p)
	return p, nil
}

// ReadPiece consumes and returns every unread byte.
func (rb *RingBuffer) ReadPiece() ([]byte, error) {
	n := rb.Len()
	if n == 0 {
		if rb.region == nil {
			return nil, errReleased()
		}
		return nil, api.NewError(api.ErrCodeInsufficientData, "no data in ring")
	}
	return rb.ReadN(n)
}

// CloseWrite ends the stream. Later writes fail with api.ErrClosed; reads
// continue until the ring is drained.
func (rb *RingBuffer) CloseWrite() {
	rb.closed = true
}

// Reset discards all unread bytes.
func (rb *RingBuffer) Reset() {
	rb.r = rb.w
}

// FreeSpan returns the writable window at the write cursor. On mirrored
// rings it covers all free space; otherwise it stops at the wrap boundary.
// The slice aliases ring memory and does not keep the ring reachable: it
// is valid until the next call on the ring, and only while the caller
// holds rb (use runtime.KeepAlive(rb) after the last access if rb is not
// used again), since an unreachable ring is released by its finalizer.
func (rb *RingBuffer) FreeSpan() []byte {
	if rb.region == nil || rb.closed {
		return nil
	}
	return rb.region.Window(rb.w, rb.Free())
}

// Commit publishes n bytes written into FreeSpan.
func (rb *RingBuffer) Commit(n int) error {
	if err := rb.checkWrite(n); err != nil {
		return err
	}
	rb.w += uint64(n)
	return nil
}

// DataSpan returns the unread window at the read cursor without copying.
// On mirrored rings it covers all unread data. Lifetime rules are those of
// FreeSpan.
func (rb *RingBuffer) DataSpan() []byte {
	if rb.region == nil {
		return nil
	}
	return rb.region.Window(rb.r, rb.Len())
}

// Discard consumes n bytes without copying them.
func (rb *RingBuffer) Discard(n int) error {
	if err := rb.checkRead(n); err != nil {
		return err
	}
	rb.r += uint64(n)
	return nil
}

// Stats is a point-in-time view of the ring.
type Stats struct {
	Capacity int    `json:"capacity" yaml:"capacity"`
	Len      int    `json:"len" yaml:"len"`
	Written  uint64 `json:"written" yaml:"written"`
	Read     uint64 `json:"read" yaml:"read"`
	Closed   bool   `json:"closed" yaml:"closed"`
	Mirrored bool   `json:"mirrored" yaml:"mirrored"`
	Released bool   `json:"released" yaml:"released"`
}

// Stats returns cursor totals and state flags.
func (rb *RingBuffer) Stats() Stats {
	return Stats{
		Capacity: rb.Cap(),
		Len:      rb.Len(),
		Written:  rb.w,
		Read:     rb.r,
		Closed:   rb.closed,
		Mirrored: rb.mirrored,
		Released: rb.region == nil,
	}
}

// Close releases the backing region, or hands it back to the allocator.
// Afterwards every data operation fails with api.ErrReleased. Close is
// idempotent.
func (rb *RingBuffer) Close() error {
	region := rb.region
	if region == nil {
		return nil
	}
	rb.region = nil
	rb.closed = true
	runtime.SetFinalizer(rb, nil)
	if rb.alloc != nil {
		return rb.alloc.Recycle(region)
	}
	return region.Release()
}

func (rb *RingBuffer) checkWrite(n int) error {
	switch {
	case rb.region == nil:
		return errReleased()
	case rb.closed:
		return api.NewError(api.ErrCodeClosed, "")
	case n < 0:
		return api.NewError(api.ErrCodeInternal, "negative length").
			WithContext("len", n)
	case uint64(n) > rb.capacity-(rb.w-rb.r):
		return api.NewError(api.ErrCodeFull, "").
			WithContext("len", n).
			WithContext("free", rb.Free())
	}
	return nil
}

func (rb *RingBuffer) checkRead(n int) error {
	switch {
	case rb.region == nil:
		return errReleased()
	case n < 0 || uint64(n) > rb.w-rb.r:
		return api.NewError(api.ErrCodeInsufficientData, "").
			WithContext("len", n).
			WithContext("available", rb.Len())
	}
	return nil
}

func errReleased() error {
	return api.NewError(api.ErrCodeReleased, "")
}
