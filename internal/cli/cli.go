// Package cli implements the obscura command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/obscura/pkg/cache"
	"github.com/matzehuels/obscura/pkg/config"
	"github.com/matzehuels/obscura/pkg/integrations/lrclib"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "obscura"

	// speed limits for the interactive player
	minSpeed  = 0.5
	maxSpeed  = 2.0
	speedStep = 0.25
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// config returns the loaded configuration, or the defaults before
// loadConfig has run.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Cache & Lookup Factories
// =============================================================================

// openCache opens the configured cache backend, or a null cache when
// noCache is set or no cache directory can be determined.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, c.config().CacheOptions(dir))
}

// newLookup creates an lrclib client over the configured cache. The
// returned close function releases the cache.
func (c *CLI) newLookup(ctx context.Context, noCache bool) (*lrclib.Client, func(), error) {
	backend, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	cfg := c.config()
	opts := lrclib.Options{
		BaseURL: cfg.Lookup.BaseURL,
		Timeout: cfg.Lookup.Timeout.Duration,
		TTL:     cfg.Cache.TTL.Duration,
	}
	// Entries from a mirror must not answer lookups against lrclib.net.
	if u, err := url.Parse(cfg.Lookup.BaseURL); err == nil && u.Host != "" {
		opts.Keyer = cache.NewScopedKeyer(nil, u.Host+":")
	}
	client := lrclib.NewClient(backend, opts)
	return client, func() { _ = backend.Close() }, nil
}

// seed returns the configured seed, or a clock-derived one when unset.
func (c *CLI) seed(flag int64) int64 {
	if flag != 0 {
		return flag
	}
	if s := c.config().Playback.Seed; s != 0 {
		return s
	}
	return time.Now().UnixMilli()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/obscura/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
