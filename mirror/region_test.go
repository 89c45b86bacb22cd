package mirror

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
)

func TestAcquire_InvalidSize(t *testing.T) {
	ps := PageSize()
	for _, size := range []int{0, -ps, ps / 2, ps + 1, 3 * ps} {
		_, err := Acquire(size)
		require.Error(t, err, "size %d", size)
		assert.ErrorIs(t, err, api.ErrConfiguration)
	}
}

func TestRegion_WindowAndCopy(t *testing.T) {
	size := PageSize()
	r, err := Acquire(size, WithFallback())
	require.NoError(t, err)
	defer r.Release()

	assert.Equal(t, size, r.Size())
	assert.Equal(t, Supported(), r.Mirrored())

	// Straddle the boundary.
	payload := bytes.Repeat([]byte("0123456789"), 10)
	off := uint64(size - 37)
	r.CopyIn(off, payload)

	out := make([]byte, len(payload))
	r.CopyOut(off, out)
	assert.Equal(t, payload, out)

	// Offsets are taken modulo size.
	again := make([]byte, len(payload))
	r.CopyOut(off+uint64(size)*3, again)
	assert.Equal(t, payload, again)

	w := r.Window(off, len(payload))
	if r.Mirrored() {
		require.Len(t, w, len(payload))
		assert.Equal(t, payload, w)
	} else {
		require.Len(t, w, 37)
		assert.Equal(t, payload[:37], w)
	}
}

func TestRegion_MirrorAliases(t *testing.T) {
	if !Supported() {
		t.Skip("double mapping not available")
	}
	size := PageSize() * 4
	r, err := Acquire(size, WithRequireMirror())
	require.NoError(t, err)
	defer r.Release()

	require.True(t, r.Mirrored())
	require.Len(t, r.buf, 2*size)

	for i := 0; i < size; i += 511 {
		r.buf[i] = byte(i)
		assert.Equal(t, byte(i), r.buf[i+size], "offset %d", i)
	}
	r.buf[2*size-1] = 0x7f
	assert.Equal(t, byte(0x7f), r.buf[size-1])
}

func TestRegion_WindowClamp(t *testing.T) {
	size := PageSize()
	r, err := Acquire(size, WithFallback())
	require.NoError(t, err)
	defer r.Release()

	assert.Len(t, r.Window(0, size*2), size)
	assert.Len(t, r.Window(5, -1), 0)
}

func TestRegion_ReleaseIdempotent(t *testing.T) {
	r, err := Acquire(PageSize(), WithFallback())
	require.NoError(t, err)

	require.NoError(t, r.Release())
	assert.True(t, r.Released())
	require.NoError(t, r.Release())
}

func TestAcquire_RequireMirrorOnUnsupported(t *testing.T) {
	if Supported() {
		t.Skip("double mapping available")
	}
	_, err := Acquire(PageSize(), WithRequireMirror())
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrMapping))
}

func TestAcquire_SplitCopy(t *testing.T) {
	size := PageSize()
	r, err := Acquire(size, WithSplitCopy())
	require.NoError(t, err)
	defer r.Release()
	require.False(t, r.Mirrored())
	require.Len(t, r.buf, size)

	payload := []byte("wraps around the end of the heap region")
	off := uint64(size - 7)
	r.CopyIn(off, payload)
	assert.Equal(t, payload[:7], r.buf[size-7:])
	assert.Equal(t, payload[7:], r.buf[:len(payload)-7])

	out := make([]byte, len(payload))
	r.CopyOut(off, out)
	assert.Equal(t, payload, out)

	w := r.Window(off, len(payload))
	assert.Equal(t, payload[:7], w)
	assert.Equal(t, 7, cap(w), "window must not reach past the boundary")
	assert.Len(t, r.Window(0, size*2), size)
}

func TestAcquire_SplitCopyConflictsWithRequireMirror(t *testing.T) {
	_, err := Acquire(PageSize(), WithSplitCopy(), WithRequireMirror())
	assert.ErrorIs(t, err, api.ErrConfiguration)
}
