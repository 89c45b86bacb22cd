// File: pool/regionpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Region recycling. Establishing a double mapping costs several syscalls,
// so regions released by closed rings are parked per size and handed to
// the next ring of the same capacity.

package pool

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/mirror"
	"github.com/momentics/hioload-ring/ring"
)

// DefaultMaxIdle is the number of idle regions kept per size.
const DefaultMaxIdle = 4

// Config tunes a RegionPool.
type Config struct {
	MaxIdle int             // idle regions kept per size; 0 disables parking
	Mirror  []mirror.Option // passed to mirror.Acquire for fresh regions
	Logger  *slog.Logger
}

// RegionPool hands out mirror.Regions by size and takes them back.
// It is safe for concurrent use.
type RegionPool struct {
	mu      sync.Mutex
	idle    map[int]*queue.Queue // size -> FIFO of *mirror.Region
	maxIdle int
	opts    []mirror.Option
	log     *slog.Logger
	closed  bool

	totalAlloc atomic.Int64
	totalFree  atomic.Int64
	reused     atomic.Int64
}

var (
	_ ring.Allocator       = (*RegionPool)(nil)
	_ api.PoolStatsSource  = (*RegionPool)(nil)
	_ api.GracefulShutdown = (*RegionPool)(nil)
)

// NewRegionPool creates an empty pool.
func NewRegionPool(cfg Config) *RegionPool {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxIdle := cfg.MaxIdle
	if maxIdle < 0 {
		maxIdle = 0
	}
	return &RegionPool{
		idle:    make(map[int]*queue.Queue),
		maxIdle: maxIdle,
		opts:    cfg.Mirror,
		log:     logger.With("component", "pool"),
	}
}

// Acquire returns a parked region of size bytes or maps a new one.
func (p *RegionPool) Acquire(size int) (*mirror.Region, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, api.NewError(api.ErrCodeReleased, "region pool is shut down")
	}
	if q := p.idle[size]; q != nil && q.Length() > 0 {
		r := q.Remove().(*mirror.Region)
		p.mu.Unlock()
		p.reused.Add(1)
		return r, nil
	}
	p.mu.Unlock()

	r, err := mirror.Acquire(size, p.opts...)
	if err != nil {
		p.log.Debug("region acquire failed", "size", size, "error", err)
		return nil, err
	}
	p.totalAlloc.Add(1)
	p.log.Debug("region mapped", "size", size, "mirrored", r.Mirrored())
	return r, nil
}

// Recycle parks r for reuse, or unmaps it when the size class is full or
// the pool is shut down.
func (p *RegionPool) Recycle(r *mirror.Region) error {
	if r == nil || r.Released() {
		return nil
	}
	p.mu.Lock()
	if !p.closed {
		q := p.idle[r.Size()]
		if q == nil {
			q = queue.New()
			p.idle[r.Size()] = q
		}
		if q.Length() < p.maxIdle {
			q.Add(r)
			p.mu.Unlock()
			return nil
		}
	}
	p.mu.Unlock()
	return p.release(r)
}

// NewRing creates a ring whose region comes from, and returns to, p.
func (p *RegionPool) NewRing(order int) (*ring.RingBuffer, error) {
	return ring.New(order, ring.WithAllocator(p))
}

// Shutdown unmaps every parked region. Regions still owned by rings are
// unmapped when those rings are closed.
func (p *RegionPool) Shutdown() error {
	p.mu.Lock()
	p.closed = true
	var parked []*mirror.Region
	for size, q := range p.idle {
		for q.Length() > 0 {
			parked = append(parked, q.Remove().(*mirror.Region))
		}
		delete(p.idle, size)
	}
	p.mu.Unlock()

	var errs []error
	for _, r := range parked {
		if err := p.release(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stats reports allocation and reuse counters.
func (p *RegionPool) Stats() api.RegionPoolStats {
	p.mu.Lock()
	bySize := make(map[int]int64, len(p.idle))
	var idle int64
	for size, q := range p.idle {
		bySize[size] = int64(q.Length())
		idle += int64(q.Length())
	}
	p.mu.Unlock()

	alloc := p.totalAlloc.Load()
	free := p.totalFree.Load()
	return api.RegionPoolStats{
		TotalAlloc: alloc,
		TotalFree:  free,
		Reused:     p.reused.Load(),
		Idle:       idle,
		InUse:      alloc - free - idle,
		IdleBySize: bySize,
	}
}

func (p *RegionPool) release(r *mirror.Region) error {
	if err := r.Release(); err != nil {
		p.log.Warn("region release failed", "size", r.Size(), "error", err)
		return err
	}
	p.totalFree.Add(1)
	p.log.Debug("region unmapped", "size", r.Size())
	return nil
}
