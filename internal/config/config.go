// Package config loads minicube settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DirName is the per-user directory holding config, state, logs and the
// journal database.
const DirName = ".minicube"

// Config holds all user-tunable settings.
type Config struct {
	// Seed fixes the colour shuffle. Zero picks a random seed.
	Seed uint64 `yaml:"seed"`

	// AnimationSteps is the number of ticks per quarter turn.
	AnimationSteps int `yaml:"animation_steps"`

	// TickMs is the frame interval of the interactive view.
	TickMs int `yaml:"tick_ms"`

	// DBPath is the journal database. Empty means <dir>/minicube.db.
	DBPath string `yaml:"db_path"`

	// Journal enables recording of completed turns.
	Journal bool `yaml:"journal"`

	Server ServerConfig `yaml:"server"`
	Camera CameraConfig `yaml:"camera"`
}

// ServerConfig configures the websocket feed.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	TickMs int    `yaml:"tick_ms"`
}

// CameraConfig is the initial orbit camera.
type CameraConfig struct {
	Radius float64 `yaml:"radius"`
	Theta  float64 `yaml:"theta"`
	Phi    float64 `yaml:"phi"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		AnimationSteps: 1,
		TickMs:         33,
		Journal:        true,
		Server: ServerConfig{
			Addr:   "localhost:8080",
			TickMs: 50,
		},
		Camera: CameraConfig{
			Radius: 11,
			Theta:  0.7853981633974483,
			Phi:    0.7853981633974483,
		},
	}
}

// Dir returns the per-user directory, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(home, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path over the defaults. A missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects values the rest of the program cannot use.
func (c Config) Validate() error {
	if c.AnimationSteps < 1 {
		return fmt.Errorf("animation_steps must be at least 1, got %d", c.AnimationSteps)
	}
	if c.TickMs <= 0 {
		return fmt.Errorf("tick_ms must be positive, got %d", c.TickMs)
	}
	if c.Server.TickMs <= 0 {
		return fmt.Errorf("server.tick_ms must be positive, got %d", c.Server.TickMs)
	}
	if c.Camera.Radius <= 0 {
		return fmt.Errorf("camera.radius must be positive, got %v", c.Camera.Radius)
	}
	return nil
}
