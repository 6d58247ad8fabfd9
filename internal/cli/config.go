package cli

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pkgscout/pkgscout/pkg/errors"
)

// defaultSources is the registry set searched when the config file names
// none. Order is the display order of the report.
var defaultSources = []string{
	"pypi",
	"anaconda",
	"bioconda",
	"conda-forge",
	"cran",
	"homebrew",
	"bioconductor",
	"ropensci",
	"posit",
	"dockerhub",
}

// Config is the on-disk configuration (~/.config/pkgscout/config.toml).
// Zero values are filled with defaults by LoadConfig; flags override the
// file at the command layer.
type Config struct {
	// Sources lists the enabled registries by name (see defaultSources).
	Sources []string `toml:"sources"`

	// Concurrency bounds the search worker pool.
	Concurrency int `toml:"concurrency"`

	// Timeout caps a single registry call, e.g. "30s".
	Timeout duration `toml:"timeout"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects the HTTP response cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis" or "none".
	Backend string `toml:"backend"`

	// TTL is how long cached responses stay fresh, e.g. "24h".
	TTL duration `toml:"ttl"`

	// RedisAddr is the host:port of the redis backend.
	RedisAddr string `toml:"redis_addr"`
}

// duration wraps time.Duration so TOML values can be written as "30s".
type duration struct {
	value time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.value = v
	return nil
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	// The slice must be a copy: toml decodes a shorter sources list into
	// the existing backing array, which would mutate defaultSources for
	// the rest of the process.
	cfg := &Config{
		Sources:     slices.Clone(defaultSources),
		Concurrency: 32,
		Timeout:     duration{30 * time.Second},
		Cache: CacheConfig{
			Backend:   "file",
			TTL:       duration{24 * time.Hour},
			RedisAddr: "localhost:6379",
		},
	}

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = slices.Clone(defaultSources)
	}
	if cfg.Concurrency <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "concurrency must be positive, got %d", cfg.Concurrency)
	}
	switch cfg.Cache.Backend {
	case "file", "redis", "none":
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Cache.Backend)
	}
	return cfg, nil
}

// defaultConfigPath returns the config path using XDG standard
// (~/.config/pkgscout/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
