package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/photogrid/pkg/cache"
	"github.com/matzehuels/photogrid/pkg/config"
	"github.com/matzehuels/photogrid/pkg/gallery"
	"github.com/matzehuels/photogrid/pkg/metrics"
	"github.com/matzehuels/photogrid/pkg/pipeline"
	"github.com/matzehuels/photogrid/pkg/prefs"
	"github.com/matzehuels/photogrid/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "photogrid"

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

	// configFile is the --config flag. Empty means photogrid.toml if present.
	configFile string
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

// loadConfig reads settings once per process. Flags are applied on top by
// each command.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded",
		"source", cfg.Gallery.Source, "cache", cfg.Cache.Backend, "prefs", cfg.Prefs.Backend)
	return nil
}

// config returns the loaded settings, or defaults when none were loaded.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Backend Factories
// =============================================================================

// newCache opens the probed-metrics cache named by the config.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.config().Cache
	if noCache || cfg.Backend == config.BackendNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == config.BackendRedis {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return rc, nil
	}

	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return fc, nil
}

// newPrefs opens the theme preference store named by the config.
func (c *CLI) newPrefs(ctx context.Context) (prefs.Store, error) {
	cfg := c.config().Prefs
	switch cfg.Backend {
	case config.BackendMemory:
		return prefs.NewMemoryStore(), nil
	case config.BackendRedis:
		s, err := prefs.DialRedisStore(ctx, cfg.RedisAddr, c.config().Cache.Redis.Password, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connect prefs: %w", err)
		}
		return s, nil
	case config.BackendSQLite:
		path, err := prefsPath(cfg.Path, "prefs.db")
		if err != nil {
			return nil, err
		}
		s, err := prefs.NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("open prefs: %w", err)
		}
		return s, nil
	default:
		path, err := prefsPath(cfg.Path, "prefs.json")
		if err != nil {
			return nil, err
		}
		s, err := prefs.NewFileStore(path)
		if err != nil {
			return nil, fmt.Errorf("open prefs: %w", err)
		}
		return s, nil
	}
}

// prefsPath resolves a preference file, defaulting to name in configDir.
func prefsPath(path, name string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return filepath.Join(dir, name), nil
}

// newSource opens the gallery content source named by the config.
func (c *CLI) newSource(ctx context.Context) (gallery.Source, error) {
	cfg := c.config().Gallery
	if cfg.Source == config.BackendMongo {
		src, err := gallery.DialMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect gallery: %w", err)
		}
		return src, nil
	}
	return gallery.FileSource{Path: cfg.File}, nil
}

// newProber measures images under the configured image directory.
func (c *CLI) newProber(ch cache.Cache) *metrics.Prober {
	return &metrics.Prober{
		FS:     os.DirFS(c.config().Gallery.ImageDir),
		Cache:  ch,
		Logger: c.Logger,
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The returned cleanup
// closes the cache and any network source.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, func(), error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	src, err := c.newSource(ctx)
	if err != nil {
		ch.Close()
		return nil, nil, err
	}

	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(src, c.newProber(ch), logger)
	cleanup := func() {
		if err := runner.Close(); err != nil {
			logger.Debug("close cache", "error", err)
		}
		if cl, ok := src.(interface{ Close(context.Context) error }); ok {
			if err := cl.Close(context.Background()); err != nil {
				logger.Debug("close source", "error", err)
			}
		}
	}
	return runner, cleanup, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/photogrid/).
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

// configDir returns the preferences directory (~/.config/photogrid/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions seeds pipeline options from the config.
func (c *CLI) pipelineOptions() pipeline.Options {
	cfg := c.config()
	return pipeline.Options{
		Collection: cfg.Gallery.Collection,
		Width:      cfg.Server.DefaultWidth,
		Layout:     cfg.Layout,
		Lightbox:   cfg.Lightbox,
		Logger:     c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputPath names the file for one format. A single format writes to
// output as given; several formats treat output as a base name.
func outputPath(output, format string, multi bool) string {
	if output == "" {
		output = "gallery"
	}
	if !multi && filepath.Ext(output) != "" {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
}

// formatsHelp lists the supported output formats for flag help.
var formatsHelp = strings.Join(render.Formats, ", ")
