// File: ring/io.go
// Author: momentics <momentics@gmail.com>
//
// Stream adapters. They move data through the contiguous windows, so a
// mirrored ring reaches the kernel with one syscall per direction.

package ring

import (
	"errors"
	"io"

	"github.com/momentics/hioload-ring/api"
)

var (
	_ io.Reader     = (*RingBuffer)(nil)
	_ io.WriterTo   = (*RingBuffer)(nil)
	_ io.ReaderFrom = (*RingBuffer)(nil)
)

// maxEmptyReads matches bufio: readers returning 0, nil this many times in
// a row are treated as stuck.
const maxEmptyReads = 100

var errInvalidWrite = errors.New("ring: writer returned invalid count")

// Read implements io.Reader. It copies up to len(p) unread bytes. An empty
// closed ring returns io.EOF; an empty open ring returns 0 and
// api.ErrInsufficientData because the ring never blocks.
func (rb *RingBuffer) Read(p []byte) (int, error) {
	if rb.region == nil {
		return 0, errReleased()
	}
	if len(p) == 0 {
		return 0, nil
	}
	avail := rb.Len()
	if avail == 0 {
		if rb.closed {
			return 0, io.EOF
		}
		return 0, api.NewError(api.ErrCodeInsufficientData, "no data in ring")
	}
	n := min(len(p), avail)
	rb.region.CopyOut(rb.r, p[:n])
	rb.r += uint64(n)
	return n, nil
}

// WriteTo implements io.WriterTo. It offers every unread byte to w and
// consumes what w accepted.
func (rb *RingBuffer) WriteTo(w io.Writer) (int64, error) {
	if rb.region == nil {
		return 0, errReleased()
	}
	var total int64
	for rb.w != rb.r {
		span := rb.region.Window(rb.r, rb.Len())
		n, err := w.Write(span)
		if n < 0 || n > len(span) {
			n = 0
			if err == nil {
				err = errInvalidWrite
			}
		}
		rb.r += uint64(n)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n != len(span) {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// Fill performs a single Read from r straight into the free window. It is
// the socket-feeding primitive: no intermediate buffer is involved. r's
// errors, including io.EOF, are returned unchanged.
func (rb *RingBuffer) Fill(r io.Reader) (int, error) {
	if err := rb.checkWrite(1); err != nil {
		return 0, err
	}
	span := rb.region.Window(rb.w, rb.Free())
	n, err := r.Read(span)
	if n < 0 || n > len(span) {
		return 0, errors.New("ring: reader returned invalid count")
	}
	rb.w += uint64(n)
	return n, err
}

// ReadFrom implements io.ReaderFrom. It fills the ring until r reports
// io.EOF, which is not returned as an error. If the ring fills up before
// that, ReadFrom stops with api.ErrFull.
func (rb *RingBuffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	empty := 0
	for {
		n, err := rb.Fill(r)
		total += int64(n)
		switch {
		case errors.Is(err, io.EOF):
			return total, nil
		case err != nil:
			return total, err
		case n == 0:
			if empty++; empty >= maxEmptyReads {
				return total, io.ErrNoProgress
			}
		default:
			empty = 0
		}
	}
}
