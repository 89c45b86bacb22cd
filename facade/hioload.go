// File: facade/hioload.go
// Unified facade layer for hioload-ring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the HioloadRing struct, which aggregates the region
// pool and the control plane behind a single facade. It builds them from
// one immutable Config, hands out rings that report byte and error
// counters, and exposes the default ring order through the Control
// interface for hot-reload.

package facade

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-ring/adapters"
	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/mirror"
	"github.com/momentics/hioload-ring/pool"
	"github.com/momentics/hioload-ring/ring"
)

// Config holds parameters immutable per run.
// Only Order can change at runtime, via the Control interface.
type Config struct {
	Order         int          // log2 of ring capacity; 0 selects ring.DefaultOrder
	RequireMirror bool         // fail instead of using split-copy regions
	Fallback      bool         // accept split-copy regions if mapping fails on Linux
	SplitCopy     bool         // always use split-copy regions
	PoolMaxIdle   int          // parked regions per size; 0 disables recycling
	EnableMetrics bool         // count bytes and errors per ring
	EnableDebug   bool         // register per-ring debug probes
	Logger        *slog.Logger // nil selects slog.Default()
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Order:         ring.DefaultOrder, // 4 KiB rings
		RequireMirror: false,
		Fallback:      true, // degrade to split copies rather than fail
		PoolMaxIdle:   pool.DefaultMaxIdle,
		EnableMetrics: true,
		EnableDebug:   true,
	}
}

// ConfigFromFile overlays a parsed config file on DefaultConfig.
func ConfigFromFile(fc *control.FileConfig) *Config {
	cfg := DefaultConfig()
	if fc == nil {
		return cfg
	}
	if fc.Order != 0 {
		cfg.Order = fc.Order
	}
	if fc.RequireMirror {
		cfg.RequireMirror = true
		cfg.Fallback = false
	} else {
		cfg.Fallback = fc.Fallback
	}
	cfg.SplitCopy = fc.SplitCopy
	if fc.Pool.MaxIdle != nil {
		cfg.PoolMaxIdle = *fc.Pool.MaxIdle
	}
	if fc.Metrics != nil {
		cfg.EnableMetrics = *fc.Metrics
	}
	if fc.Debug != nil {
		cfg.EnableDebug = *fc.Debug
	}
	return cfg
}

// Validate checks the order and option combination.
func (c *Config) Validate() error {
	order := c.Order
	if order == 0 {
		order = ring.DefaultOrder
	}
	if err := ring.ValidateOrder(order); err != nil {
		return err
	}
	if c.RequireMirror && c.Fallback {
		return api.NewError(api.ErrCodeConfiguration, "RequireMirror and Fallback are mutually exclusive")
	}
	if c.RequireMirror && c.SplitCopy {
		return api.NewError(api.ErrCodeConfiguration, "RequireMirror and SplitCopy are mutually exclusive")
	}
	if c.PoolMaxIdle < 0 {
		return api.NewError(api.ErrCodeConfiguration, "PoolMaxIdle must not be negative").
			WithContext("pool_max_idle", c.PoolMaxIdle)
	}
	return nil
}

// HioloadRing is the main facade type.
// It implements api.GracefulShutdown to allow unified shutdown logic.
type HioloadRing struct {
	pool    *pool.RegionPool
	control *adapters.ControlAdapter
	log     *slog.Logger

	config Config       // Immutable configuration
	order  atomic.Int64 // current default order, hot-reloadable

	mu       sync.Mutex
	nextID   uint64
	open     map[uint64]*Ring
	shutdown bool
}

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*HioloadRing)(nil)

// New constructs HioloadRing with the given configuration.
func New(cfg *Config) (*HioloadRing, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var mopts []mirror.Option
	switch {
	case cfg.SplitCopy:
		mopts = append(mopts, mirror.WithSplitCopy())
	case cfg.RequireMirror:
		mopts = append(mopts, mirror.WithRequireMirror())
	case cfg.Fallback:
		mopts = append(mopts, mirror.WithFallback())
	}

	h := &HioloadRing{
		config: *cfg,
		log:    logger.With("component", "facade"),
		open:   make(map[uint64]*Ring),
		pool: pool.NewRegionPool(pool.Config{
			MaxIdle: cfg.PoolMaxIdle,
			Mirror:  mopts,
			Logger:  logger,
		}),
		control: adapters.NewControlAdapter(),
	}
	order := cfg.Order
	if order == 0 {
		order = ring.DefaultOrder
	}
	h.order.Store(int64(order))

	capacity, _ := ring.CapacityForOrder(order)
	_ = h.control.SetConfig(map[string]any{
		control.KeyOrder:         order,
		control.KeyCapacity:      capacity,
		control.KeyRequireMirror: cfg.RequireMirror,
		control.KeyFallback:      cfg.Fallback,
		control.KeySplitCopy:     cfg.SplitCopy,
		control.KeyPoolMaxIdle:   cfg.PoolMaxIdle,
	})
	h.control.OnReload(h.reload)

	if cfg.EnableDebug {
		h.control.RegisterDebugProbe("pool.stats", func() any { return h.pool.Stats() })
	}
	if !mirror.Supported() {
		h.log.Info("double mapping unavailable, rings use split copies")
	}
	return h, nil
}

// reload applies a changed ring.order. Invalid values are logged and ignored.
func (h *HioloadRing) reload() {
	cur := int(h.order.Load())
	n := h.control.ConfigInt(control.KeyOrder, cur)
	if n == cur {
		return
	}
	if err := ring.ValidateOrder(n); err != nil {
		h.log.Warn("ignoring reloaded ring order", "order", n, "error", err)
		return
	}
	h.order.Store(int64(n))
	h.log.Info("default ring order reloaded", "order", n, "capacity", 1<<n)
}

// Order returns the current default order.
func (h *HioloadRing) Order() int { return int(h.order.Load()) }

// Config returns a copy of the configuration.
func (h *HioloadRing) Config() Config { return h.config }

// Control exposes dynamic config, metrics and debug probes.
func (h *HioloadRing) Control() api.Control { return h.control }

// Pool exposes the region pool.
func (h *HioloadRing) Pool() *pool.RegionPool { return h.pool }

// NewRing creates a ring of the current default order.
func (h *HioloadRing) NewRing() (*Ring, error) {
	return h.NewRingOrder(h.Order())
}

// NewRingOrder creates a ring of 2^order bytes backed by the pool.
func (h *HioloadRing) NewRingOrder(order int) (*Ring, error) {
	h.mu.Lock()
	if h.shutdown {
		h.mu.Unlock()
		return nil, api.NewError(api.ErrCodeReleased, "facade is shut down")
	}
	h.nextID++
	id := h.nextID
	h.mu.Unlock()

	rb, err := h.pool.NewRing(order)
	if err != nil {
		h.log.Error("ring construction failed", "order", order, "error", err)
		return nil, err
	}
	if mirror.Supported() && !rb.Mirrored() && !h.config.SplitCopy {
		h.log.Warn("ring fell back to split copies", "order", order)
	}

	r := &Ring{RingBuffer: rb, h: h, id: id}
	h.mu.Lock()
	h.open[id] = r
	h.mu.Unlock()

	if h.config.EnableMetrics {
		h.control.AddMetric(control.MetricRingsOpen, 1)
	}
	if h.config.EnableDebug {
		h.control.RegisterDebugProbe(r.probeName(), func() any { return rb.Stats() })
	}
	h.log.Debug("ring opened", "id", id, "order", order, "mirrored", rb.Mirrored())
	return r, nil
}

// OpenRings returns the number of rings not yet closed.
func (h *HioloadRing) OpenRings() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.open)
}

// Stats returns metrics and debug probes, refreshed with pool counters.
func (h *HioloadRing) Stats() map[string]any {
	if h.config.EnableMetrics {
		st := h.pool.Stats()
		h.control.SetMetric(control.MetricRegionsAlloc, st.TotalAlloc)
		h.control.SetMetric(control.MetricRegionsReuse, st.Reused)
		h.control.SetMetric(control.MetricRegionsIdle, st.Idle)
	}
	return h.control.Stats()
}

// Shutdown stops handing out rings and unmaps parked regions. Rings still
// open keep their memory until their owners close them.
func (h *HioloadRing) Shutdown() error {
	h.mu.Lock()
	if h.shutdown {
		h.mu.Unlock()
		return nil
	}
	h.shutdown = true
	open := len(h.open)
	h.mu.Unlock()

	h.control.Close()

	if open > 0 {
		h.log.Warn("shutdown with open rings", "open", open)
	}
	if err := h.pool.Shutdown(); err != nil {
		return fmt.Errorf("facade: pool shutdown: %w", err)
	}
	return nil
}

func (h *HioloadRing) forget(r *Ring) {
	h.mu.Lock()
	delete(h.open, r.id)
	h.mu.Unlock()
	if h.config.EnableMetrics {
		h.control.AddMetric(control.MetricRingsOpen, -1)
	}
	if h.config.EnableDebug {
		h.control.UnregisterDebugProbe(r.probeName())
	}
}
