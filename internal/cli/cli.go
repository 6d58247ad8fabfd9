// Package cli implements the pkgscout command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pkgscout/pkgscout/pkg/buildinfo"
	"github.com/pkgscout/pkgscout/pkg/cache"
	"github.com/pkgscout/pkgscout/pkg/search"
)

// appName is the application name used for directories and display.
const appName = "pkgscout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "pkgscout",
		Short:        "Pkgscout searches package registries in parallel",
		Long:         `Pkgscout looks packages up across PyPI, conda channels, CRAN, Homebrew, Bioconductor and Docker Hub at once and reports where each one is available.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/pkgscout/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "bypass the HTTP response cache")

	root.AddCommand(c.searchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newSearcher builds a Searcher from the loaded config: cache backend,
// source set, pool size and task timeout. The returned cleanup closes the
// cache backend.
func (c *CLI) newSearcher(ctx context.Context, cfg *Config, opts ...search.Option) (*search.Searcher, func(), error) {
	backend, err := c.newCacheBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	sources, err := buildSources(backend, cfg)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	opts = append([]search.Option{
		search.WithWorkers(cfg.Concurrency),
		search.WithTaskTimeout(cfg.Timeout.value),
		search.WithLogger(c.Logger),
	}, opts...)

	cleanup := func() { _ = backend.Close() }
	return search.New(sources, opts...), cleanup, nil
}

// newCacheBackend picks the cache backend per config; --no-cache and
// backend "none" both mean the null backend, so every request goes to the
// network.
func (c *CLI) newCacheBackend(ctx context.Context, cfg *Config) (cache.Cache, error) {
	if c.noCache || cfg.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == "redis" {
		return cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// loadConfig reads the config file named by --config, or the default path
// when the flag is unset.
func (c *CLI) loadConfig() (*Config, error) {
	return LoadConfig(c.configPath)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/pkgscout/).
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
