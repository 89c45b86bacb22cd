package facade_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/facade"
	"github.com/momentics/hioload-ring/ring"
)

func testConfig() *facade.Config {
	cfg := facade.DefaultConfig()
	cfg.Order = ring.MinOrder()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return cfg
}

// TestHioloadRingFullLifecycle covers construction, ring traffic, metrics,
// debug probes, region recycling and shutdown.
func TestHioloadRingFullLifecycle(t *testing.T) {
	h, err := facade.New(testConfig())
	require.NoError(t, err)

	r, err := h.NewRing()
	require.NoError(t, err)
	assert.Equal(t, 1, h.OpenRings())

	_, err = r.Write([]byte("1234"))
	require.NoError(t, err)
	_, err = r.Write(make([]byte, r.Cap()))
	assert.ErrorIs(t, err, api.ErrFull)

	got, err := r.ReadN(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("1234"), got)
	_, err = r.ReadPiece()
	assert.ErrorIs(t, err, api.ErrInsufficientData)

	stats := h.Stats()
	assert.Equal(t, int64(4), stats[control.MetricBytesIn])
	assert.Equal(t, int64(4), stats[control.MetricBytesOut])
	assert.Equal(t, int64(1), stats[control.MetricFullErrors])
	assert.Equal(t, int64(1), stats[control.MetricUnderflows])
	assert.Equal(t, int64(1), stats[control.MetricRingsOpen])
	assert.Contains(t, stats, "debug.ring.1")

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.Equal(t, 0, h.OpenRings())
	assert.NotContains(t, h.Stats(), "debug.ring.1")

	// The second ring reuses the parked region.
	r2, err := h.NewRing()
	require.NoError(t, err)
	assert.Equal(t, int64(1), h.Pool().Stats().Reused)
	require.NoError(t, r2.Close())

	require.NoError(t, h.Shutdown())
	require.NoError(t, h.Shutdown())
	_, err = h.NewRing()
	assert.ErrorIs(t, err, api.ErrReleased)
}

func TestHioloadRingHotReloadOrder(t *testing.T) {
	h, err := facade.New(testConfig())
	require.NoError(t, err)
	defer h.Shutdown()

	next := ring.MinOrder() + 1
	require.NoError(t, h.Control().SetConfig(map[string]any{control.KeyOrder: next}))
	assert.Equal(t, next, h.Order())

	r, err := h.NewRing()
	require.NoError(t, err)
	assert.Equal(t, 2<<ring.MinOrder(), r.Cap())
	require.NoError(t, r.Close())

	// Invalid orders are ignored.
	require.NoError(t, h.Control().SetConfig(map[string]any{control.KeyOrder: ring.MaxOrder + 1}))
	assert.Equal(t, next, h.Order())
}

func TestHioloadRingHotReloadDecodedNumbers(t *testing.T) {
	h, err := facade.New(testConfig())
	require.NoError(t, err)
	defer h.Shutdown()

	// YAML decoders produce int64 (or uint64), JSON decoders float64.
	require.NoError(t, h.Control().SetConfig(map[string]any{control.KeyOrder: int64(ring.MinOrder() + 2)}))
	assert.Equal(t, ring.MinOrder()+2, h.Order())

	require.NoError(t, h.Control().SetConfig(map[string]any{control.KeyOrder: float64(ring.MinOrder() + 3)}))
	assert.Equal(t, ring.MinOrder()+3, h.Order())

	require.NoError(t, h.Control().SetConfig(map[string]any{control.KeyOrder: "big"}))
	assert.Equal(t, ring.MinOrder()+3, h.Order())
}

func TestHioloadRingShutdownDetachesReload(t *testing.T) {
	base := control.ReloadHookCount()
	h, err := facade.New(testConfig())
	require.NoError(t, err)
	assert.Equal(t, base+1, control.ReloadHookCount())

	require.NoError(t, h.Shutdown())
	assert.Equal(t, base, control.ReloadHookCount())
}

func TestHioloadRingSplitCopy(t *testing.T) {
	cfg := testConfig()
	cfg.SplitCopy = true
	h, err := facade.New(cfg)
	require.NoError(t, err)
	defer h.Shutdown()
	assert.Equal(t, true, h.Control().GetConfig()[control.KeySplitCopy])

	r, err := h.NewRing()
	require.NoError(t, err)
	defer r.Close()
	require.False(t, r.Mirrored())

	_, err = r.Write(make([]byte, r.Cap()-3))
	require.NoError(t, err)
	require.NoError(t, r.Discard(r.Cap()-3))

	payload := []byte("wrapped")
	_, err = r.Write(payload)
	require.NoError(t, err)
	got, err := r.ReadN(len(payload))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestHioloadRingStreamsThroughIO(t *testing.T) {
	h, err := facade.New(testConfig())
	require.NoError(t, err)
	defer h.Shutdown()

	r, err := h.NewRing()
	require.NoError(t, err)
	defer r.Close()

	payload := bytes.Repeat([]byte("abc"), 100)
	_, err = r.ReadFrom(bytes.NewReader(payload))
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = r.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, payload, out.Bytes())

	stats := h.Stats()
	assert.Equal(t, int64(len(payload)), stats[control.MetricBytesIn])
	assert.Equal(t, int64(len(payload)), stats[control.MetricBytesOut])
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	cfg.Order = ring.MaxOrder + 1
	_, err := facade.New(cfg)
	assert.ErrorIs(t, err, api.ErrConfiguration)

	cfg = testConfig()
	cfg.RequireMirror = true
	_, err = facade.New(cfg)
	assert.ErrorIs(t, err, api.ErrConfiguration)

	cfg = testConfig()
	cfg.Fallback = false
	cfg.RequireMirror = true
	cfg.SplitCopy = true
	assert.ErrorIs(t, cfg.Validate(), api.ErrConfiguration)

	cfg = testConfig()
	cfg.PoolMaxIdle = -1
	assert.ErrorIs(t, cfg.Validate(), api.ErrConfiguration)

	cfg = testConfig()
	cfg.Order = 0
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromFile(t *testing.T) {
	fc, err := control.ParseConfig([]byte("order: 14\nrequire_mirror: true\npool:\n  max_idle: 0\ndebug: false\n"))
	require.NoError(t, err)

	cfg := facade.ConfigFromFile(fc)
	assert.Equal(t, 14, cfg.Order)
	assert.True(t, cfg.RequireMirror)
	assert.False(t, cfg.Fallback)
	assert.Equal(t, 0, cfg.PoolMaxIdle)
	assert.True(t, cfg.EnableMetrics)
	assert.False(t, cfg.EnableDebug)

	assert.Equal(t, facade.DefaultConfig(), facade.ConfigFromFile(nil))
}
