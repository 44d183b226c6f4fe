// Package config provides configuration management for skilltree.
//
// Values are layered: built-in defaults, then the YAML config file, then
// SKILLTREE_* environment variables. An environment variable maps to a key
// by dropping the prefix, lowercasing and turning underscores into dots, so
// SKILLTREE_SERVER_ADDR sets server.addr.
//
// Config file locations (priority order):
//  1. $SKILLTREE_CONFIG
//  2. ./skilltree.yaml
//  3. $XDG_CONFIG_HOME/skilltree/config.yaml
//  4. ~/.config/skilltree/config.yaml
//  5. /etc/skilltree/config.yaml
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"skilltree/internal/domain"
	"skilltree/internal/style"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "SKILLTREE_"

// Config is the top-level configuration
type Config struct {
	Version  int                     `yaml:"version" koanf:"version"`
	Server   ServerConfig            `yaml:"server" koanf:"server"`
	Database DatabaseConfig          `yaml:"database" koanf:"database"`
	Sources  SourcesConfig           `yaml:"sources" koanf:"sources"`
	Session  SessionConfig           `yaml:"session" koanf:"session"`
	Viewport SizeConfig              `yaml:"viewport" koanf:"viewport"`
	Paths    SizeConfig              `yaml:"paths" koanf:"paths"`
	Palette  PaletteConfig           `yaml:"palette" koanf:"palette"`
	Styles   map[string]domain.Color `yaml:"styles,omitempty" koanf:"styles"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Addr    string   `yaml:"addr" koanf:"addr"`
	Origins []string `yaml:"origins,omitempty" koanf:"origins"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" koanf:"path"`
}

// SourcesConfig selects the source files to merge
type SourcesConfig struct {
	Root     string        `yaml:"root" koanf:"root"`
	Include  []string      `yaml:"include" koanf:"include"`
	Primary  []string      `yaml:"primary,omitempty" koanf:"primary"`
	Watch    bool          `yaml:"watch" koanf:"watch"`
	Debounce time.Duration `yaml:"debounce" koanf:"debounce"`
}

// SessionConfig names the persisted session and the points it has earned
type SessionConfig struct {
	Key    string `yaml:"key" koanf:"key"`
	Points int    `yaml:"points" koanf:"points"`
}

// SizeConfig is a widget size in pixels
type SizeConfig struct {
	Width  int `yaml:"width" koanf:"width"`
	Height int `yaml:"height" koanf:"height"`
}

// ColorPair is a fill and stroke colour
type ColorPair struct {
	Fill   domain.Color `yaml:"fill" koanf:"fill"`
	Stroke domain.Color `yaml:"stroke" koanf:"stroke"`
}

// PaletteConfig overrides the connection palette
type PaletteConfig struct {
	Unlocked    ColorPair `yaml:"unlocked" koanf:"unlocked"`
	Progressing ColorPair `yaml:"progressing" koanf:"progressing"`
	Blocked     ColorPair `yaml:"blocked" koanf:"blocked"`
	Neutral     ColorPair `yaml:"neutral" koanf:"neutral"`
}

// Load finds and loads the config file, or returns defaults with the
// environment applied if none is found
func Load() (*Config, string, error) {
	return LoadFromPath(FindConfigPath())
}

// LoadFromPath loads config from a specific path. An empty path skips the
// file layer.
func LoadFromPath(path string) (*Config, string, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	rootFromFile := false
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, path, fmt.Errorf("read config %s: %w", path, err)
			}
			rootFromFile = k.Exists("sources.root")
		} else if !os.IsNotExist(err) {
			return nil, path, fmt.Errorf("access config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, path, fmt.Errorf("load env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	// a root written in the file is relative to the file, not the caller
	if rootFromFile && os.Getenv(EnvPrefix+"SOURCES_ROOT") == "" {
		cfg.Sources.Root = resolveFrom(path, cfg.Sources.Root)
	}
	cfg.applyDefaults()

	return cfg, path, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	p := style.DefaultPalette()
	return &Config{
		Version:  1,
		Server:   ServerConfig{Addr: ":3000"},
		Database: DatabaseConfig{Path: "./skilltree.db"},
		Sources: SourcesConfig{
			Root:     ".",
			Include:  []string{"trees/**/*.yaml", "trees/**/*.yml", "trees/**/*.json", "trees/**/*.toml"},
			Debounce: 500 * time.Millisecond,
		},
		Session:  SessionConfig{Key: "default"},
		Viewport: SizeConfig{Width: 800, Height: 600},
		Paths:    SizeConfig{Width: 800, Height: 600},
		Palette: PaletteConfig{
			Unlocked:    pair(p.Unlocked),
			Progressing: pair(p.Progressing),
			Blocked:     pair(p.Blocked),
			Neutral:     pair(p.Neutral),
		},
	}
}

// applyDefaults fills in values an override may have blanked
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Sources.Root == "" {
		c.Sources.Root = "."
	}
	if c.Session.Key == "" {
		c.Session.Key = "default"
	}
	if c.Sources.Debounce <= 0 {
		c.Sources.Debounce = 500 * time.Millisecond
	}
}

// Validate checks that the configuration contains usable values
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if len(c.Sources.Include) == 0 {
		return fmt.Errorf("sources.include needs at least one pattern")
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport size must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Paths.Width <= 0 || c.Paths.Height <= 0 {
		return fmt.Errorf("paths size must be positive, got %dx%d", c.Paths.Width, c.Paths.Height)
	}
	if c.Session.Points < 0 {
		return fmt.Errorf("session.points must be non-negative")
	}
	return nil
}

// StylePalette returns the configured connection palette
func (c *Config) StylePalette() style.Palette {
	return style.Palette{
		Unlocked:    c.Palette.Unlocked.fillStroke(),
		Progressing: c.Palette.Progressing.fillStroke(),
		Blocked:     c.Palette.Blocked.fillStroke(),
		Neutral:     c.Palette.Neutral.fillStroke(),
	}
}

func pair(fs style.FillStroke) ColorPair {
	return ColorPair{Fill: fs.Fill, Stroke: fs.Stroke}
}

func (p ColorPair) fillStroke() style.FillStroke {
	return style.FillStroke{Fill: p.Fill, Stroke: p.Stroke}
}
