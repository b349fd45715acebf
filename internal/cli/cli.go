// Package cli implements the drawkit command-line interface.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawkit/pkg/cache"
	"github.com/matzehuels/drawkit/pkg/clipboard"
	"github.com/matzehuels/drawkit/pkg/config"
	"github.com/matzehuels/drawkit/pkg/upload"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "drawkit"

	// redisKeyPrefix namespaces upload results in a shared Redis.
	redisKeyPrefix = "drawkit:"
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
	dryRun     bool

	// clipboard replaces the system clipboard when set.
	clipboard clipboard.Backend
	// uploadOpts are applied after the configured upload options.
	uploadOpts []upload.Option
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration selected by --config and applies its
// log level unless --verbose already lowered it to debug.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil && c.Logger.GetLevel() != log.DebugLevel {
		c.Logger.SetLevel(lvl)
	}
	return cfg, nil
}

// =============================================================================
// Backend Factories
// =============================================================================

// newCache creates the upload-result cache selected by cfg.
func newCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case "file":
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr, Prefix: redisKeyPrefix})
	default:
		return cache.NewNullCache(), nil
	}
}

// clipboardBackend returns the system clipboard, or an in-process one when
// no clipboard tool is installed.
func (c *CLI) clipboardBackend() clipboard.Backend {
	if c.clipboard != nil {
		return c.clipboard
	}
	b, err := clipboard.NewToolBackend()
	if err != nil {
		if errors.Is(err, clipboard.ErrNoClipboardTool) {
			c.Logger.Warn("no clipboard tool found, using in-process clipboard")
		} else {
			c.Logger.Warn("clipboard unavailable, using in-process clipboard", "err", err)
		}
		return clipboard.NewMemoryBackend(clipboard.Capabilities{WriteText: true, WriteBlob: true, MultiItem: true})
	}
	c.Logger.Debug("using clipboard tool", "tool", b.Tool().Name)
	return b
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/drawkit/).
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

// sceneName derives an export name from a scene path ("notes.excalidraw" -> "notes").
func sceneName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseSelection splits a comma-separated id list.
func parseSelection(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
