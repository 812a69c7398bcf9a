package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "hogp-kbd", cfg.Name)
	assert.Equal(t, 500*time.Millisecond, cfg.AdvertiseInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Demo.Enabled)
	assert.Equal(t, "hello", cfg.Demo.Text)
	assert.Equal(t, 5*time.Second, cfg.Demo.Interval)
	require.NoError(t, cfg.Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
name: desk-kbd
advertise_interval: 200ms
log_level: debug
demo:
  enabled: true
  text: hi there
  interval: 2s
`))
	require.NoError(t, err)

	assert.Equal(t, "desk-kbd", cfg.Name)
	assert.Equal(t, 200*time.Millisecond, cfg.AdvertiseInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Demo.Enabled)
	assert.Equal(t, "hi there", cfg.Demo.Text)
	assert.Equal(t, 2*time.Second, cfg.Demo.Interval)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("name: partial\n"))
	require.NoError(t, err)

	assert.Equal(t, "partial", cfg.Name)
	assert.Equal(t, 500*time.Millisecond, cfg.AdvertiseInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", ":\n:"},
		{"bad duration", "advertise_interval: soon"},
		{"zero interval", "advertise_interval: 0s"},
		{"bad log level", "log_level: chatty"},
		{"demo without interval", "demo:\n  enabled: true\n  interval: 0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hogp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
