// control/platform.go
// Author: momentics <momentics@gmail.com>
//
// Platform probes: page granularity and double-mapping support decide
// which ring orders are valid and whether windows are contiguous.

package control

import (
	"runtime"

	"github.com/momentics/hioload-ring/mirror"
	"github.com/momentics/hioload-ring/ring"
)

// RegisterPlatformProbes sets platform debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.os", func() any {
		return runtime.GOOS + "/" + runtime.GOARCH
	})
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.page_size", func() any {
		return mirror.PageSize()
	})
	dp.RegisterProbe("platform.mirror_supported", func() any {
		return mirror.Supported()
	})
	dp.RegisterProbe("ring.min_order", func() any {
		return ring.MinOrder()
	})
	dp.RegisterProbe("ring.max_order", func() any {
		return ring.MaxOrder
	})
	dp.RegisterProbe("control.reload_hooks", func() any {
		return ReloadHookCount()
	})
	registerOSProbes(dp)
}
