// Package bioconductor implements the Bioconductor source adapter.
//
// Bioconductor ships a package catalog per release (two releases a year
// since 2005). A search scans every release's catalog to reconstruct the
// full version history of a package; catalogs are fetched concurrently,
// memoized for the process lifetime, and coalesced across workers.
package bioconductor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pkgscout/pkgscout/pkg/cache"
	"github.com/pkgscout/pkgscout/pkg/normalize"
	"github.com/pkgscout/pkgscout/pkg/registry"
	"github.com/pkgscout/pkgscout/pkg/search"
	"github.com/pkgscout/pkgscout/pkg/versions"
)

// catalogWorkers bounds concurrent catalog fetches within one lookup.
const catalogWorkers = 10

// Client queries bioconductor.org per-release package catalogs.
type Client struct {
	*registry.Client
	baseURL  string
	releases []string
	catalogs *cache.Memo[map[string]catalogEntry]
}

// New creates a Bioconductor source with the given cache backend and TTL.
func New(backend cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:   registry.NewClient(backend, "bioconductor:", ttl, nil),
		baseURL:  "https://bioconductor.org/packages",
		releases: releaseCalendar(),
		catalogs: cache.NewMemo[map[string]catalogEntry](),
	}
}

// Name returns the registry display label.
func (c *Client) Name() string { return "Bioconductor" }

// releaseCalendar enumerates Bioconductor release numbers from 1.6 (spring
// 2005) through the 2025 cycle: two releases a year, the minor component
// rolling into the major past .9.
func releaseCalendar() []string {
	var rs []string
	major, minor := 1, 6
	for year := 2005; year <= 2025; year++ {
		for range 2 {
			rs = append(rs, fmt.Sprintf("%d.%d", major, minor))
			minor++
		}
		if minor > 9 {
			major++
			minor = 0
		}
	}
	return rs
}

// Search resolves the name against the newest catalog (with a normalized-
// key fallback), then scans every release for the package's version in
// that release.
func (c *Client) Search(ctx context.Context, name string) (*search.Package, error) {
	newest, err := c.catalog(ctx, c.releases[len(c.releases)-1])
	if err != nil {
		return nil, err
	}
	if _, ok := newest[name]; !ok {
		names := make([]string, 0, len(newest))
		for n := range newest {
			names = append(names, n)
		}
		match, ok := normalize.Match(name, names)
		if !ok {
			return nil, nil
		}
		name = match
	}

	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(catalogWorkers)
	for _, release := range c.releases {
		g.Go(func() error {
			catalog, err := c.catalog(gctx, release)
			if err != nil {
				// A missing or unreachable old release is not fatal.
				return nil
			}
			if entry, ok := catalog[name]; ok && entry.Version != "" {
				mu.Lock()
				seen[entry.Version] = true
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(seen) == 0 {
		return nil, nil
	}

	vs := make([]string, 0, len(seen))
	for v := range seen {
		vs = append(vs, v)
	}
	vs = versions.Sort(vs)
	first, last := vs[0], vs[len(vs)-1]

	entry := newest[name]
	description := entry.Title
	if description != "" {
		description = fmt.Sprintf("%s\nAvailable from Bioconductor %s to %s", description, first, last)
	}
	threading, flags := registry.ScanThreadFlags(entry.Title, "")

	return &search.Package{
		Name:          name,
		Versions:      vs,
		Repository:    c.Name(),
		URL:           fmt.Sprintf("%s/release/bioc/html/%s.html", c.baseURL, name),
		Description:   description,
		LatestVersion: last,
		License:       entry.License,
		ThreadSupport: threading,
		ThreadFlags:   flags,
	}, nil
}

// catalog loads one release's package catalog. Successes are memoized for
// the process lifetime; errors are not, so a flaky release gets retried on
// the next lookup.
func (c *Client) catalog(ctx context.Context, release string) (map[string]catalogEntry, error) {
	return c.catalogs.Do(ctx, release, func(ctx context.Context) (map[string]catalogEntry, error) {
		var catalog map[string]catalogEntry
		err := c.Cached(ctx, "catalog:"+release, &catalog, func() error {
			return c.Get(ctx, fmt.Sprintf("%s/json/%s/bioc/packages.json", c.baseURL, release), &catalog)
		})
		if errors.Is(err, registry.ErrNotFound) {
			return map[string]catalogEntry{}, nil
		}
		if err != nil {
			return nil, err
		}
		return catalog, nil
	})
}

type catalogEntry struct {
	Package string `json:"Package"`
	Version string `json:"Version"`
	Title   string `json:"Title"`
	License string `json:"License"`
}

var _ search.Source = (*Client)(nil)
