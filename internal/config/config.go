// Package config loads the server configuration from a YAML file,
// falling back to sensible defaults when the file or a field is absent.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  Server  `yaml:"server"`
	Game    Game    `yaml:"game"`
	Redis   Redis   `yaml:"redis"`
	Logging Logging `yaml:"logging"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Game struct {
	WinScore int    `yaml:"winScore"`
	MaxHands int    `yaml:"maxHands"`
	Abandon  string `yaml:"abandon"`
}

type Redis struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Stream   string `yaml:"stream"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Server:  Server{Addr: ":2424"},
		Game:    Game{WinScore: 11, MaxHands: 16, Abandon: "wait"},
		Redis:   Redis{Addr: "localhost:6379", Stream: "cinch:events"},
		Logging: Logging{Level: "info", Format: "json"},
	}
}

// Load reads the file at path over the defaults. A missing path is not
// an error; a present but unreadable or invalid file is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Game.WinScore < 1 {
		return fmt.Errorf("game.winScore must be positive, got %d", c.Game.WinScore)
	}
	if c.Game.MaxHands < 1 {
		return fmt.Errorf("game.maxHands must be positive, got %d", c.Game.MaxHands)
	}
	switch c.Game.Abandon {
	case "wait", "end":
	default:
		return fmt.Errorf("game.abandon must be wait or end, got %q", c.Game.Abandon)
	}
	return nil
}

// SlogLevel maps the configured level name onto slog, defaulting to
// info for unknown names.
func (l Logging) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
