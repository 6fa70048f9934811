package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tabletop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 50.0, cfg.Board.GridSize)
	assert.Equal(t, "tokens", cfg.Board.ActiveLayer)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, `
server:
  addr: 127.0.0.1:9000
  token: secret
  shutdown_timeout: 3s
board:
  grid_size: 70
  layers: [map, tokens]
  active_layer: map
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "secret", cfg.Server.Token)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 70.0, cfg.Board.GridSize)
	assert.Equal(t, []string{"map", "tokens"}, cfg.Board.Layers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5.0, cfg.Board.UnitSize, "unset keys keep their defaults")
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "server:\n  addr: \":9000\"\n")
	t.Setenv("TABLETOP_SERVER_ADDR", ":9100")
	t.Setenv("TABLETOP_BOARD_USE_GRID", "false")
	t.Setenv("TABLETOP_SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.False(t, cfg.Board.UseGrid)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "server: [1, 2"))
	assert.Error(t, err)

	t.Setenv("TABLETOP_BOARD_GRID_SIZE", "not-a-number")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"zero grid", func(c *Config) { c.Board.GridSize = 0 }},
		{"negative zoom", func(c *Config) { c.Board.Zoom = -1 }},
		{"duplicate layer", func(c *Config) { c.Board.Layers = []string{"map", "map"} }},
		{"unknown active layer", func(c *Config) { c.Board.ActiveLayer = "walls" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"map count", func(c *Config) { c.Tools.MapXCount = 0 }},
		{"send queue", func(c *Config) { c.Server.SendQueue = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestBoardSettings(t *testing.T) {
	cfg := Default()
	s := cfg.BoardSettings("keep", "gm")
	assert.Equal(t, "keep", s.RoomName)
	assert.Equal(t, "gm", s.RoomCreator)
	assert.Equal(t, cfg.Board.GridSize, s.GridSize)

	s.Layers[0] = "changed"
	assert.Equal(t, "map", cfg.Board.Layers[0])
}
