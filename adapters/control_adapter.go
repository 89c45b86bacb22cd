// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control interface using control package primitives.

package adapters

import (
	"sync"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/control"
)

// ControlAdapter merges config, metrics and debug probes behind api.Control.
type ControlAdapter struct {
	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes

	mu     sync.Mutex
	detach []func()
}

var _ api.Control = (*ControlAdapter)(nil)

// NewControlAdapter creates an adapter with platform probes registered.
func NewControlAdapter() *ControlAdapter {
	adapter := &ControlAdapter{
		config:  control.NewConfigStore(),
		metrics: control.NewMetricsRegistry(),
		debug:   control.NewDebugProbes(),
	}
	control.RegisterPlatformProbes(adapter.debug)
	return adapter
}

func (c *ControlAdapter) GetConfig() map[string]any {
	return c.config.GetSnapshot()
}

// ConfigInt returns key as an int, accepting any numeric type a decoder
// may produce, or def when absent or not numeric.
func (c *ControlAdapter) ConfigInt(key string, def int) int {
	return c.config.GetInt(key, def)
}

func (c *ControlAdapter) SetConfig(cfg map[string]any) error {
	c.config.SetConfig(cfg)
	return nil
}

// Stats combines metrics with probe output under the "debug." prefix.
func (c *ControlAdapter) Stats() map[string]any {
	stats := c.metrics.GetSnapshot()
	debugStats := c.debug.DumpState()
	combined := make(map[string]any, len(stats)+len(debugStats))
	for k, v := range stats {
		combined[k] = v
	}
	for k, v := range debugStats {
		combined["debug."+k] = v
	}
	return combined
}

// OnReload runs fn on local config changes and on process-wide hot
// reloads until Close.
func (c *ControlAdapter) OnReload(fn func()) {
	c.config.OnReload(fn)
	unregister := control.RegisterReloadHook(fn)
	c.mu.Lock()
	c.detach = append(c.detach, unregister)
	c.mu.Unlock()
}

// Close detaches every hook installed through OnReload from the
// process-wide hot-reload list.
func (c *ControlAdapter) Close() {
	c.mu.Lock()
	detach := c.detach
	c.detach = nil
	c.mu.Unlock()
	for _, fn := range detach {
		fn()
	}
}

func (c *ControlAdapter) SetMetric(key string, value any) {
	c.metrics.Set(key, value)
}

// AddMetric increments a counter.
func (c *ControlAdapter) AddMetric(key string, delta int64) {
	c.metrics.Add(key, delta)
}

func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}

// UnregisterDebugProbe removes a probe.
func (c *ControlAdapter) UnregisterDebugProbe(name string) {
	c.debug.UnregisterProbe(name)
}
