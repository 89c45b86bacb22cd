package control

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/mirror"
)

func TestConfigStore_SetAndReload(t *testing.T) {
	cs := NewConfigStore()
	var calls atomic.Int32
	cs.OnReload(func() {
		// Listeners may read the store.
		_ = cs.GetSnapshot()
		calls.Add(1)
	})

	cs.SetConfig(map[string]any{KeyOrder: 16, KeyFallback: true})
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 16, cs.GetInt(KeyOrder, 12))
	assert.Equal(t, 7, cs.GetInt("missing", 7))
	assert.Equal(t, 7, cs.GetInt(KeyFallback, 7))

	snap := cs.GetSnapshot()
	snap[KeyOrder] = 99
	assert.Equal(t, 16, cs.GetInt(KeyOrder, 0))
}

func TestMetricsRegistry_Counters(t *testing.T) {
	mr := NewMetricsRegistry()
	assert.Equal(t, int64(5), mr.Add(MetricBytesIn, 5))
	assert.Equal(t, int64(12), mr.Add(MetricBytesIn, 7))
	mr.Set(MetricRingsOpen, 2)

	snap := mr.GetSnapshot()
	assert.Equal(t, int64(12), snap[MetricBytesIn])
	assert.Equal(t, 2, snap[MetricRingsOpen])
	assert.False(t, mr.Updated().IsZero())
}

func TestDebugProbes_PlatformProbes(t *testing.T) {
	dp := NewDebugProbes()
	RegisterPlatformProbes(dp)

	state := dp.DumpState()
	assert.Equal(t, mirror.PageSize(), state["platform.page_size"])
	assert.Equal(t, mirror.Supported(), state["platform.mirror_supported"])
	assert.Contains(t, state, "ring.min_order")

	dp.UnregisterProbe("platform.cpus")
	assert.NotContains(t, dp.DumpState(), "platform.cpus")
}

func TestHotReload_Sync(t *testing.T) {
	var hit atomic.Bool
	unregister := RegisterReloadHook(func() { hit.Store(true) })
	defer unregister()
	TriggerHotReloadSync()
	assert.True(t, hit.Load())
}

func TestHotReload_Unregister(t *testing.T) {
	base := ReloadHookCount()
	var calls atomic.Int32
	unregister := RegisterReloadHook(func() { calls.Add(1) })
	assert.Equal(t, base+1, ReloadHookCount())

	unregister()
	unregister()
	assert.Equal(t, base, ReloadHookCount())
	TriggerHotReloadSync()
	assert.Equal(t, int32(0), calls.Load())
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
order: 16
fallback: true
split_copy: true
pool:
  max_idle: 0
metrics: false
`))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Order)
	assert.True(t, cfg.Fallback)
	assert.True(t, cfg.SplitCopy)
	require.NotNil(t, cfg.Pool.MaxIdle)
	assert.Equal(t, 0, *cfg.Pool.MaxIdle)
	require.NotNil(t, cfg.Metrics)
	assert.False(t, *cfg.Metrics)
	assert.Nil(t, cfg.Debug)
}

func TestParseConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown key": "ordr: 12\n",
		"negative":    "order: -3\n",
		"exclusive":   "require_mirror: true\nfallback: true\n",
		"split":       "require_mirror: true\nsplit_copy: true\n",
		"idle":        "pool:\n  max_idle: -1\n",
		"syntax":      "order: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			assert.ErrorIs(t, err, api.ErrConfiguration)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring.yaml")
	require.NoError(t, os.WriteFile(path, []byte("order: 14\nrequire_mirror: true\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 14, cfg.Order)
	assert.True(t, cfg.RequireMirror)

	out, err := cfg.Marshal()
	require.NoError(t, err)
	again, err := ParseConfig(out)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
