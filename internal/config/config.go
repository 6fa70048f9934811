// Package config loads the server configuration from an optional YAML file
// followed by TABLETOP_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/tabletop/internal/core/board"
	"github.com/zeusync/tabletop/internal/core/observability/log"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TABLETOP_"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`
	Board  BoardConfig  `yaml:"board" envPrefix:"BOARD_"`
	Tools  ToolsConfig  `yaml:"tools" envPrefix:"TOOLS_"`
	Log    LogConfig    `yaml:"log" envPrefix:"LOG_"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
	// Token is the shared secret clients present; empty disables the check.
	Token           string        `yaml:"token" env:"TOKEN"`
	ReadBufferSize  int           `yaml:"read_buffer_size" env:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" env:"WRITE_BUFFER_SIZE"`
	SendQueue       int           `yaml:"send_queue" env:"SEND_QUEUE"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

type BoardConfig struct {
	Layers       []string `yaml:"layers" env:"LAYERS" envSeparator:","`
	ActiveLayer  string   `yaml:"active_layer" env:"ACTIVE_LAYER"`
	GridSize     float64  `yaml:"grid_size" env:"GRID_SIZE"`
	UnitSize     float64  `yaml:"unit_size" env:"UNIT_SIZE"`
	UseGrid      bool     `yaml:"use_grid" env:"USE_GRID"`
	FOWColour    string   `yaml:"fow_colour" env:"FOW_COLOUR"`
	Zoom         float64  `yaml:"zoom" env:"ZOOM"`
	LocationName string   `yaml:"location" env:"LOCATION"`
}

// ToolsConfig holds the initial detail settings of new toolsets.
type ToolsConfig struct {
	DrawFill   string `yaml:"draw_fill" env:"DRAW_FILL"`
	DrawBorder string `yaml:"draw_border" env:"DRAW_BORDER"`
	MapXCount  int    `yaml:"map_x_count" env:"MAP_X_COUNT"`
	MapYCount  int    `yaml:"map_y_count" env:"MAP_Y_COUNT"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

func Default() Config {
	bs := board.DefaultSettings()
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			SendQueue:       256,
			ShutdownTimeout: 10 * time.Second,
		},
		Board: BoardConfig{
			Layers:       bs.Layers,
			ActiveLayer:  bs.ActiveLayer,
			GridSize:     bs.GridSize,
			UnitSize:     bs.UnitSize,
			UseGrid:      bs.UseGrid,
			FOWColour:    bs.FOWColour,
			Zoom:         bs.Zoom,
			LocationName: bs.LocationName,
		},
		Tools: ToolsConfig{
			DrawFill:   "#000",
			DrawBorder: "rgba(0, 0, 0, 0)",
			MapXCount:  3,
			MapYCount:  3,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load starts from Default, merges the YAML file at path when path is not
// empty, then applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Server.Addr != "", "server.addr is empty")
	check(c.Server.ReadBufferSize >= 0, "server.read_buffer_size is negative")
	check(c.Server.WriteBufferSize >= 0, "server.write_buffer_size is negative")
	check(c.Server.SendQueue > 0, "server.send_queue must be positive")
	check(c.Server.ShutdownTimeout > 0, "server.shutdown_timeout must be positive")

	check(len(c.Board.Layers) > 0, "board.layers is empty")
	for i, name := range c.Board.Layers {
		check(name != "", "board.layers[%d] is empty", i)
		check(!slices.Contains(c.Board.Layers[:i], name), "board.layers has duplicate %q", name)
	}
	check(c.Board.ActiveLayer == "" || slices.Contains(c.Board.Layers, c.Board.ActiveLayer),
		"board.active_layer %q is not a layer", c.Board.ActiveLayer)
	check(c.Board.GridSize > 0, "board.grid_size must be positive")
	check(c.Board.UnitSize > 0, "board.unit_size must be positive")
	check(c.Board.Zoom > 0, "board.zoom must be positive")

	check(c.Tools.MapXCount > 0, "tools.map_x_count must be positive")
	check(c.Tools.MapYCount > 0, "tools.map_y_count must be positive")

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// BoardSettings converts the board section for a room.
func (c Config) BoardSettings(room, creator string) board.Settings {
	return board.Settings{
		Layers:       slices.Clone(c.Board.Layers),
		ActiveLayer:  c.Board.ActiveLayer,
		GridSize:     c.Board.GridSize,
		UnitSize:     c.Board.UnitSize,
		UseGrid:      c.Board.UseGrid,
		FOWColour:    c.Board.FOWColour,
		Zoom:         c.Board.Zoom,
		RoomName:     room,
		RoomCreator:  creator,
		LocationName: c.Board.LocationName,
	}
}
