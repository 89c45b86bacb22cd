package adapters_test

import (
	"testing"

	"github.com/momentics/hioload-ring/adapters"
	"github.com/momentics/hioload-ring/control"
)

func TestControlAdapterBasic(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	cfg := ctrl.GetConfig()
	if len(cfg) != 0 {
		t.Error("Expected empty config on init")
	}
	if err := ctrl.SetConfig(map[string]any{control.KeyOrder: 14}); err != nil {
		t.Fatal(err)
	}
	if got := ctrl.GetConfig()[control.KeyOrder]; got != 14 {
		t.Errorf("SetConfig did not apply, got %v", got)
	}
	called := false
	ctrl.OnReload(func() { called = true })
	ctrl.SetConfig(map[string]any{control.KeyPoolMaxIdle: 2})
	if !called {
		t.Error("Reload hook not called")
	}
}

func TestControlAdapterStats(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	ctrl.AddMetric(control.MetricBytesIn, 10)
	ctrl.AddMetric(control.MetricBytesIn, 5)
	ctrl.RegisterDebugProbe("ring.test", func() any { return "ok" })

	stats := ctrl.Stats()
	if stats[control.MetricBytesIn] != int64(15) {
		t.Errorf("counter = %v, want 15", stats[control.MetricBytesIn])
	}
	if stats["debug.ring.test"] != "ok" {
		t.Errorf("probe missing from stats: %v", stats)
	}
	if _, ok := stats["debug.platform.page_size"]; !ok {
		t.Error("platform probes not registered")
	}

	ctrl.UnregisterDebugProbe("ring.test")
	if _, ok := ctrl.Stats()["debug.ring.test"]; ok {
		t.Error("probe still present after unregister")
	}
}

func TestControlAdapterCloseDetachesReloadHooks(t *testing.T) {
	base := control.ReloadHookCount()
	ctrl := adapters.NewControlAdapter()
	calls := 0
	ctrl.OnReload(func() { calls++ })
	if got := control.ReloadHookCount(); got != base+1 {
		t.Fatalf("hook count = %d, want %d", got, base+1)
	}

	control.TriggerHotReloadSync()
	if calls != 1 {
		t.Fatalf("calls = %d after hot reload, want 1", calls)
	}

	ctrl.Close()
	ctrl.Close()
	if got := control.ReloadHookCount(); got != base {
		t.Errorf("hook count = %d after Close, want %d", got, base)
	}
	control.TriggerHotReloadSync()
	if calls != 1 {
		t.Errorf("detached hook still called, calls = %d", calls)
	}
}

func TestControlAdapterConfigInt(t *testing.T) {
	ctrl := adapters.NewControlAdapter()
	ctrl.SetConfig(map[string]any{"a": int64(13), "b": float64(14), "c": "x"})
	if got := ctrl.ConfigInt("a", 0); got != 13 {
		t.Errorf("int64 = %d", got)
	}
	if got := ctrl.ConfigInt("b", 0); got != 14 {
		t.Errorf("float64 = %d", got)
	}
	if got := ctrl.ConfigInt("c", 7); got != 7 {
		t.Errorf("string = %d, want default", got)
	}
}
