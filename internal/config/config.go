// Package config loads the cubesim application configuration from YAML with
// environment fallbacks.
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	gocube "github.com/SeamusWaldron/gocube_sim"
)

// Environment variables consulted by Load.
const (
	EnvConfig = "GOCUBE_CONFIG"
	EnvDB     = "GOCUBE_DB"
)

// Config is the root of the configuration file.
type Config struct {
	Log         LogConfig         `yaml:"log"`
	Database    DatabaseConfig    `yaml:"database"`
	Cube        CubeConfig        `yaml:"cube"`
	Interaction InteractionConfig `yaml:"interaction"`
	Server      ServerConfig      `yaml:"server"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	// Path of the sqlite file. Empty means the default under the home
	// directory.
	Path string `yaml:"path"`
}

type CubeConfig struct {
	TwistDuration   time.Duration `yaml:"twist_duration"`
	HideInteriors   bool          `yaml:"hide_interiors"`
	ShuffleLength   int           `yaml:"shuffle_length"`
	ShuffleAlphabet string        `yaml:"shuffle_alphabet"`
	AutoRotate      bool          `yaml:"auto_rotate"`
	AutoRotateSpeed float64       `yaml:"auto_rotate_speed"`
	// Seed makes shuffles repeatable when non-zero.
	Seed uint64 `yaml:"seed"`
}

type InteractionConfig struct {
	DragThreshold float64 `yaml:"drag_threshold"`
	DragSpeed     float64 `yaml:"drag_speed"`
	FlickVelocity float64 `yaml:"flick_velocity"`
}

type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	StreamPath  string        `yaml:"stream_path"`
	MetricsPath string        `yaml:"metrics_path"`
	TickRate    time.Duration `yaml:"tick_rate"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "console"},
		Cube: CubeConfig{
			TwistDuration:   gocube.DefaultTwistDuration,
			HideInteriors:   true,
			ShuffleLength:   gocube.DefaultShuffleLength,
			ShuffleAlphabet: gocube.DefaultShuffleAlphabet,
			AutoRotateSpeed: gocube.DefaultAutoRotateSpeed,
		},
		Interaction: InteractionConfig{
			DragThreshold: gocube.DefaultDragThreshold,
			DragSpeed:     gocube.DefaultDragSpeed,
			FlickVelocity: gocube.DefaultFlickVelocity,
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8377",
			StreamPath:  "/ws",
			MetricsPath: "/metrics",
			TickRate:    16 * time.Millisecond,
		},
	}
}

// Load reads the YAML file at path over the defaults. With an empty path it
// falls back to $GOCUBE_CONFIG, and with neither set it returns the
// defaults. $GOCUBE_DB overrides the database path either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if db := os.Getenv(EnvDB); db != "" {
		cfg.Database.Path = db
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the cube cannot work with.
func (c *Config) Validate() error {
	if c.Cube.TwistDuration < 0 {
		return fmt.Errorf("cube.twist_duration must not be negative")
	}
	if c.Cube.ShuffleLength < 0 {
		return fmt.Errorf("cube.shuffle_length must not be negative")
	}
	if c.Interaction.DragSpeed <= 0 {
		return fmt.Errorf("interaction.drag_speed must be positive")
	}
	if c.Server.TickRate <= 0 {
		return fmt.Errorf("server.tick_rate must be positive")
	}
	return nil
}

// Options converts the cube section into cube options.
func (c CubeConfig) Options(logger *zap.Logger) []gocube.Option {
	opts := []gocube.Option{
		gocube.WithTwistDuration(c.TwistDuration),
		gocube.WithHideInteriors(c.HideInteriors),
		gocube.WithShuffleLength(c.ShuffleLength),
		gocube.WithAutoRotate(c.AutoRotate, c.AutoRotateSpeed),
	}
	if c.ShuffleAlphabet != "" {
		opts = append(opts, gocube.WithShuffleAlphabet(c.ShuffleAlphabet))
	}
	if c.Seed != 0 {
		opts = append(opts, gocube.WithSeed(c.Seed))
	}
	if logger != nil {
		opts = append(opts, gocube.WithLogger(logger))
	}
	return opts
}

// Apply copies the interaction section onto in.
func (c InteractionConfig) Apply(in *gocube.Interaction) {
	if c.DragThreshold > 0 {
		in.DragThreshold = c.DragThreshold
	}
	if c.DragSpeed > 0 {
		in.DragSpeed = c.DragSpeed
	}
	if c.FlickVelocity > 0 {
		in.FlickVelocity = c.FlickVelocity
	}
}
