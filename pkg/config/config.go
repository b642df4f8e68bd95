// Package config loads obscura's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/obscura/config.toml (falling back to
// ~/.config/obscura/config.toml). A missing file is not an error: [Load]
// returns [Default] in that case. Values present in the file override the
// defaults field by field, and command-line flags override the file.
//
//	[playback]
//	pacing = "word"
//	speed = 1.25
//	seed = 42
//	refresh_interval = "500ms"
//	fps = 30
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/obscura/pkg/cache"
	"github.com/matzehuels/obscura/pkg/errors"
	"github.com/matzehuels/obscura/pkg/lyrics"
)

const (
	appName  = "obscura"
	fileName = "config.toml"
)

// Duration is a time.Duration written as a Go duration string ("500ms").
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config is the full configuration file.
type Config struct {
	Playback Playback `toml:"playback"`
	Display  Display  `toml:"display"`
	Cache    Cache    `toml:"cache"`
	Lookup   Lookup   `toml:"lookup"`
	Server   Server   `toml:"server"`
}

// Playback controls pacing and the grid.
type Playback struct {
	Pacing          string   `toml:"pacing"`
	Speed           float64  `toml:"speed"`
	Seed            int64    `toml:"seed"` // 0 picks a seed from the clock
	RefreshInterval Duration `toml:"refresh_interval"`
	FPS             int      `toml:"fps"`
}

// Display controls terminal colours.
type Display struct {
	LyricColor   string `toml:"lyric_color"`
	AmbientColor string `toml:"ambient_color"`
	Border       bool   `toml:"border"`
}

// Cache selects the lookup cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
}

// Lookup configures the lrclib client.
type Lookup struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

// Server configures `obscura serve`.
type Server struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
	Sessions   string   `toml:"sessions"` // memory or redis
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Playback: Playback{
			Pacing:          string(lyrics.PaceLine),
			Speed:           1,
			RefreshInterval: Duration{500 * time.Millisecond},
			FPS:             30,
		},
		Display: Display{
			LyricColor:   "#BFE3FF",
			AmbientColor: "#8A8A8A",
			Border:       true,
		},
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Lookup: Lookup{
			BaseURL: "https://lrclib.net/api",
			Timeout: Duration{10 * time.Second},
		},
		Server: Server{
			Addr:       "127.0.0.1:8080",
			SessionTTL: Duration{time.Hour},
			Sessions:   "memory",
		},
	}
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads path on top of Default. An empty path uses Path. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := Decode(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML data into cfg, leaving keys absent from data
// untouched. Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return nil
}

// Encode renders cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write saves cfg to path, creating parent directories. It refuses to
// overwrite an existing file unless force is set.
func (c *Config) Write(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidConfig, "%s already exists", path)
		}
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := lyrics.ParsePacing(c.Playback.Pacing); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPacing, err, "playback.pacing")
	}
	if err := errors.ValidateSpeed(c.Playback.Speed); err != nil {
		return err
	}
	if c.Playback.RefreshInterval.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "playback.refresh_interval must be positive")
	}
	if c.Playback.FPS < 1 || c.Playback.FPS > 120 {
		return errors.New(errors.ErrCodeInvalidConfig, "playback.fps must be between 1 and 120, got %d", c.Playback.FPS)
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	if err := errors.ValidateURL(c.Lookup.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "lookup.base_url")
	}
	if c.Lookup.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "lookup.timeout must be positive")
	}
	switch c.Server.Sessions {
	case "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "server.sessions = \"redis\" needs cache.redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "server.sessions must be memory or redis, got %q", c.Server.Sessions)
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.session_ttl must be positive")
	}
	return nil
}

// PacingMode returns the validated pacing.
func (c *Config) PacingMode() lyrics.Pacing {
	p, err := lyrics.ParsePacing(c.Playback.Pacing)
	if err != nil {
		return lyrics.PaceLine
	}
	return p
}

// CacheOptions converts the cache section for cache.Open. dir is used
// when the file does not set one.
func (c *Config) CacheOptions(dir string) cache.Options {
	if c.Cache.Dir != "" {
		dir = c.Cache.Dir
	}
	return cache.Options{
		Backend:   c.Cache.Backend,
		Dir:       dir,
		RedisAddr: c.Cache.RedisAddr,
		RedisDB:   c.Cache.RedisDB,
	}
}
