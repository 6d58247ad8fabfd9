package cli

import (
	"time"

	"github.com/pkgscout/pkgscout/pkg/cache"
	"github.com/pkgscout/pkgscout/pkg/errors"
	"github.com/pkgscout/pkgscout/pkg/registry/anaconda"
	"github.com/pkgscout/pkgscout/pkg/registry/bioconductor"
	"github.com/pkgscout/pkgscout/pkg/registry/cran"
	"github.com/pkgscout/pkgscout/pkg/registry/dockerhub"
	"github.com/pkgscout/pkgscout/pkg/registry/homebrew"
	"github.com/pkgscout/pkgscout/pkg/registry/posit"
	"github.com/pkgscout/pkgscout/pkg/registry/pypi"
	"github.com/pkgscout/pkgscout/pkg/registry/ropensci"
	"github.com/pkgscout/pkgscout/pkg/search"
)

// sourceConstructors maps config source names to adapter constructors.
// The anaconda.org channels share one adapter parameterized by channel.
var sourceConstructors = map[string]func(cache.Cache, time.Duration) search.Source{
	"pypi": func(b cache.Cache, ttl time.Duration) search.Source { return pypi.New(b, ttl) },
	"anaconda": func(b cache.Cache, ttl time.Duration) search.Source {
		return anaconda.New(b, ttl, "anaconda", "Anaconda")
	},
	"bioconda": func(b cache.Cache, ttl time.Duration) search.Source {
		return anaconda.New(b, ttl, "bioconda", "Bioconda")
	},
	"conda-forge": func(b cache.Cache, ttl time.Duration) search.Source {
		return anaconda.New(b, ttl, "conda-forge", "Conda-forge")
	},
	"cran":         func(b cache.Cache, ttl time.Duration) search.Source { return cran.New(b, ttl) },
	"homebrew":     func(b cache.Cache, ttl time.Duration) search.Source { return homebrew.New(b, ttl) },
	"bioconductor": func(b cache.Cache, ttl time.Duration) search.Source { return bioconductor.New(b, ttl) },
	"ropensci":     func(b cache.Cache, ttl time.Duration) search.Source { return ropensci.New(b, ttl) },
	"posit":        func(b cache.Cache, ttl time.Duration) search.Source { return posit.New(b, ttl) },
	"dockerhub":    func(b cache.Cache, ttl time.Duration) search.Source { return dockerhub.New(b, ttl) },
}

// buildSources instantiates the configured registry adapters, all sharing
// one cache backend.
func buildSources(backend cache.Cache, cfg *Config) ([]search.Source, error) {
	sources := make([]search.Source, 0, len(cfg.Sources))
	for _, name := range cfg.Sources {
		construct, ok := sourceConstructors[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSource, "unknown source %q", name)
		}
		sources = append(sources, construct(backend, cfg.Cache.TTL.value))
	}
	return sources, nil
}
