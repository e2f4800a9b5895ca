package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathNoEnv(t *testing.T) {
	t.Setenv("TEXGEN_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Nil(t, cfg, "без конфига ожидаются дефолты")
}

func TestLoadValidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texgen.yml")
	data := `
texture:
  width: 256
  height: 128
  octaves: 6
  attenuation: 0.5
  seed_lo: 12345
  seed_hi: 67890
server:
  rest_port: 9000
cache:
  enabled: true
  path: /tmp/texgen-cache
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	p := cfg.Texture.Params()
	assert.Equal(t, 256, p.Width)
	assert.Equal(t, 128, p.Height)
	assert.Equal(t, 6, p.Octaves)
	assert.Equal(t, 0.5, p.Attenuation)
	assert.Equal(t, uint64(12345), p.SeedLo)
	assert.Equal(t, uint64(67890), p.SeedHi)

	assert.Equal(t, 9000, cfg.Server.GetRESTPort())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "/tmp/texgen-cache", cfg.Cache.GetPath())
}

func TestLoadInvalidAttenuation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	data := `
texture:
  attenuation: 1.5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	_, err := Load(path)
	require.Error(t, err, "затухание вне (0,1) должно отклоняться при загрузке")
}

func TestDefaultsWhenUnset(t *testing.T) {
	var tc TextureConfig
	p := tc.Params()
	assert.Equal(t, 512, p.Width)
	assert.Equal(t, 512, p.Height)
	assert.Equal(t, 8, p.Octaves)
	assert.Equal(t, 0.75, p.Attenuation)
	assert.Equal(t, uint64(0x243F6A8885A308D3), p.SeedLo)
	assert.Equal(t, uint64(0x13198A2E03707344), p.SeedHi)
}

func TestRESTPortEnvFallback(t *testing.T) {
	var s ServerConfig
	t.Setenv("TEXGEN_REST_PORT", "7001")
	assert.Equal(t, 7001, s.GetRESTPort())

	t.Setenv("TEXGEN_REST_PORT", "")
	assert.Equal(t, 8090, s.GetRESTPort())
}
