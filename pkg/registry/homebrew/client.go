// Package homebrew implements the Homebrew source adapter.
//
// Homebrew publishes its whole formula catalog as one JSON document. The
// catalog is fetched once per process (coalesced across workers) and
// lookups resolve against it before fetching per-formula detail.
package homebrew

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pkgscout/pkgscout/pkg/cache"
	"github.com/pkgscout/pkgscout/pkg/registry"
	"github.com/pkgscout/pkgscout/pkg/search"
)

// Client queries the formulae.brew.sh API.
type Client struct {
	*registry.Client
	baseURL string
	catalog *cache.Memo[map[string]formula]
}

// New creates a Homebrew source with the given cache backend and TTL.
func New(backend cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  registry.NewClient(backend, "homebrew:", ttl, nil),
		baseURL: "https://formulae.brew.sh/api",
		catalog: cache.NewMemo[map[string]formula](),
	}
}

// Name returns the registry display label.
func (c *Client) Name() string { return "Homebrew" }

// Search resolves the name against the formula catalog (exact lowercase
// match first, then substring) and fetches the formula's detail document.
func (c *Client) Search(ctx context.Context, name string) (*search.Package, error) {
	catalog, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	f, ok := catalog[strings.ToLower(name)]
	if !ok {
		for key, candidate := range catalog {
			if strings.Contains(key, strings.ToLower(name)) {
				f = candidate
				ok = true
				break
			}
		}
	}
	if !ok {
		return nil, nil
	}

	// The detail endpoint carries license info the catalog entry lacks;
	// fall back to the catalog entry if it fails.
	var detail formula
	err = c.Cached(ctx, "formula:"+f.Name, &detail, func() error {
		return c.Get(ctx, fmt.Sprintf("%s/formula/%s.json", c.baseURL, f.Name), &detail)
	})
	if err != nil {
		detail = f
	}

	var vs []string
	if detail.Versions.Stable != "" {
		vs = append(vs, detail.Versions.Stable)
	}
	if detail.Versions.Head != "" {
		vs = append(vs, "head")
	}
	var latest string
	if len(vs) > 0 {
		latest = vs[0]
	}

	threading, flags := registry.ScanThreadFlags(detail.Desc, "")

	return &search.Package{
		Name:          detail.Name,
		Versions:      vs,
		Repository:    c.Name(),
		URL:           fmt.Sprintf("https://formulae.brew.sh/formula/%s", detail.Name),
		Description:   detail.Desc,
		LatestVersion: latest,
		License:       detail.License,
		ThreadSupport: threading,
		ThreadFlags:   flags,
	}, nil
}

// load fetches the full formula catalog, keyed by lowercased name. The
// Memo guarantees a single fetch regardless of worker concurrency.
func (c *Client) load(ctx context.Context) (map[string]formula, error) {
	return c.catalog.Do(ctx, "formulae", func(ctx context.Context) (map[string]formula, error) {
		var formulas []formula
		err := c.Cached(ctx, "catalog", &formulas, func() error {
			return c.Get(ctx, c.baseURL+"/formula.json", &formulas)
		})
		if errors.Is(err, registry.ErrNotFound) {
			return map[string]formula{}, nil
		}
		if err != nil {
			return nil, err
		}
		catalog := make(map[string]formula, len(formulas))
		for _, f := range formulas {
			catalog[strings.ToLower(f.Name)] = f
		}
		return catalog, nil
	})
}

type formula struct {
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	License  string `json:"license"`
	Versions struct {
		Stable string `json:"stable"`
		Head   string `json:"head"`
	} `json:"versions"`
}

var _ search.Source = (*Client)(nil)
