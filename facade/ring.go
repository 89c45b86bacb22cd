// File: facade/ring.go
// Author: momentics <momentics@gmail.com>
//
// Instrumented ring handed out by the facade.

package facade

import (
	"io"
	"strconv"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/ring"
)

// Ring is a ring.RingBuffer that reports byte and error counters to the
// facade's metrics. Like RingBuffer it is not safe for concurrent use.
type Ring struct {
	*ring.RingBuffer
	h  *HioloadRing
	id uint64
}

var _ api.ByteRing = (*Ring)(nil)

// ID identifies the ring in debug probes.
func (r *Ring) ID() uint64 { return r.id }

func (r *Ring) probeName() string {
	return "ring." + strconv.FormatUint(r.id, 10)
}

func (r *Ring) Write(p []byte) (int, error) {
	n, err := r.RingBuffer.Write(p)
	r.record(control.MetricBytesIn, n, err)
	return n, err
}

func (r *Ring) ReadN(n int) ([]byte, error) {
	p, err := r.RingBuffer.ReadN(n)
	r.record(control.MetricBytesOut, len(p), err)
	return p, err
}

func (r *Ring) ReadPiece() ([]byte, error) {
	p, err := r.RingBuffer.ReadPiece()
	r.record(control.MetricBytesOut, len(p), err)
	return p, err
}

func (r *Ring) Read(p []byte) (int, error) {
	n, err := r.RingBuffer.Read(p)
	r.record(control.MetricBytesOut, n, err)
	return n, err
}

func (r *Ring) Commit(n int) error {
	err := r.RingBuffer.Commit(n)
	if err != nil {
		n = 0
	}
	r.record(control.MetricBytesIn, n, err)
	return err
}

func (r *Ring) Discard(n int) error {
	err := r.RingBuffer.Discard(n)
	if err != nil {
		n = 0
	}
	r.record(control.MetricBytesOut, n, err)
	return err
}

func (r *Ring) Fill(src io.Reader) (int, error) {
	n, err := r.RingBuffer.Fill(src)
	r.record(control.MetricBytesIn, n, err)
	return n, err
}

func (r *Ring) ReadFrom(src io.Reader) (int64, error) {
	n, err := r.RingBuffer.ReadFrom(src)
	r.record(control.MetricBytesIn, int(n), err)
	return n, err
}

func (r *Ring) WriteTo(dst io.Writer) (int64, error) {
	n, err := r.RingBuffer.WriteTo(dst)
	r.record(control.MetricBytesOut, int(n), err)
	return n, err
}

// Close releases the ring's region back to the facade's pool.
func (r *Ring) Close() error {
	if r.Stats().Released {
		return nil
	}
	err := r.RingBuffer.Close()
	r.h.forget(r)
	return err
}

func (r *Ring) record(key string, n int, err error) {
	if !r.h.config.EnableMetrics {
		return
	}
	if n > 0 {
		r.h.control.AddMetric(key, int64(n))
	}
	switch api.CodeOf(err) {
	case api.ErrCodeFull:
		r.h.control.AddMetric(control.MetricFullErrors, 1)
	case api.ErrCodeInsufficientData:
		r.h.control.AddMetric(control.MetricUnderflows, 1)
	}
}
