package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/texgen/internal/noise"
)

func TestKeyCanonical(t *testing.T) {
	p := noise.DefaultParams()
	require.Equal(t, Key(p), Key(p), "одинаковые параметры — одинаковый ключ")

	q := p
	q.SeedLo++
	assert.NotEqual(t, Key(p), Key(q), "смена seed должна менять ключ")

	q = p
	q.Octaves = 4
	assert.NotEqual(t, Key(p), Key(q), "смена октав должна менять ключ")
}

func TestCachePutGet(t *testing.T) {
	tc, err := NewTextureCache(t.TempDir())
	require.NoError(t, err)
	defer tc.Close()

	p := noise.DefaultParams()
	p.Width, p.Height = 32, 32
	key := Key(p)

	// Промах на пустом кэше.
	_, hit, err := tc.Get(key)
	require.NoError(t, err)
	require.False(t, hit)

	buf := make([]byte, 32*32)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	require.NoError(t, tc.Put(key, buf))

	got, hit, err := tc.Get(key)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, buf, got)
}

func TestCacheClosed(t *testing.T) {
	tc, err := NewTextureCache(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, tc.Close())

	_, _, err = tc.Get([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.Error(t, err)
	require.Error(t, tc.Put([]byte{1, 2, 3, 4, 5, 6, 7, 8}, []byte{1}))

	// Повторное закрытие безопасно.
	require.NoError(t, tc.Close())
}
