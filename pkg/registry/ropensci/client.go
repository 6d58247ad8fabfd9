// Package ropensci implements the rOpenSci r-universe source adapter.
package ropensci

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkgscout/pkgscout/pkg/cache"
	"github.com/pkgscout/pkgscout/pkg/normalize"
	"github.com/pkgscout/pkgscout/pkg/registry"
	"github.com/pkgscout/pkgscout/pkg/search"
	"github.com/pkgscout/pkgscout/pkg/versions"
)

// Client queries the rOpenSci r-universe API.
type Client struct {
	*registry.Client
	baseURL string
	webURL  string

	// listing memoizes the universe's package-name listing used by the
	// case-insensitive fallback.
	listing *cache.Memo[[]string]
}

// New creates an rOpenSci source with the given cache backend and TTL.
func New(backend cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  registry.NewClient(backend, "ropensci:", ttl, nil),
		baseURL: "https://ropensci.r-universe.dev/api",
		webURL:  "https://ropensci.r-universe.dev",
		listing: cache.NewMemo[[]string](),
	}
}

// Name returns the registry display label.
func (c *Client) Name() string { return "rOpenSci" }

// Search fetches the package document, falling back to a case-insensitive
// match over the universe listing, and lists its published versions from
// the versions endpoint.
func (c *Client) Search(ctx context.Context, name string) (*search.Package, error) {
	data, err := c.fetch(ctx, name)
	if errors.Is(err, registry.ErrNotFound) {
		match, ok, lerr := c.match(ctx, name)
		if lerr != nil || !ok {
			return nil, nil
		}
		name = match
		data, err = c.fetch(ctx, name)
		if errors.Is(err, registry.ErrNotFound) {
			return nil, nil
		}
	}
	if err != nil {
		return nil, err
	}

	vs, err := c.publishedVersions(ctx, name)
	if err != nil && !errors.Is(err, registry.ErrNotFound) {
		return nil, err
	}

	threading, flags := registry.ScanThreadFlags(data.Description, "")

	return &search.Package{
		Name:          name,
		Versions:      versions.Sort(vs),
		Repository:    c.Name(),
		URL:           fmt.Sprintf("%s/packages/%s", c.webURL, name),
		Description:   data.Description,
		LatestVersion: data.Version,
		License:       data.License,
		ThreadSupport: threading,
		ThreadFlags:   flags,
	}, nil
}

func (c *Client) fetch(ctx context.Context, name string) (*apiPackage, error) {
	var data apiPackage
	err := c.Cached(ctx, name, &data, func() error {
		return c.Get(ctx, fmt.Sprintf("%s/packages/%s", c.baseURL, name), &data)
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// publishedVersions lists every version the universe has published for the
// package.
func (c *Client) publishedVersions(ctx context.Context, name string) ([]string, error) {
	var entries []apiVersion
	err := c.Cached(ctx, "versions:"+name, &entries, func() error {
		return c.Get(ctx, fmt.Sprintf("%s/versions/%s", c.baseURL, name), &entries)
	})
	if err != nil {
		return nil, err
	}
	vs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Version != "" {
			vs = append(vs, e.Version)
		}
	}
	return vs, nil
}

// match resolves name against the universe listing by normalized key.
func (c *Client) match(ctx context.Context, name string) (string, bool, error) {
	names, err := c.listing.Do(ctx, "packages", func(ctx context.Context) ([]string, error) {
		var entries []apiListEntry
		err := c.Cached(ctx, "listing", &entries, func() error {
			return c.Get(ctx, c.baseURL+"/packages", &entries)
		})
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Package)
		}
		return names, nil
	})
	if err != nil {
		return "", false, err
	}
	m, ok := normalize.Match(name, names)
	return m, ok, nil
}

type apiPackage struct {
	Package     string `json:"Package"`
	Version     string `json:"Version"`
	Description string `json:"Description"`
	License     string `json:"License"`
}

type apiVersion struct {
	Version string `json:"Version"`
}

type apiListEntry struct {
	Package string `json:"Package"`
}

var _ search.Source = (*Client)(nil)
