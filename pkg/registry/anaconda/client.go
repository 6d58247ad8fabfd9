// Package anaconda implements source adapters for anaconda.org channels
// (Anaconda defaults, Bioconda, Conda-forge). One Client serves one channel.
package anaconda

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

// Client queries the anaconda.org package API for a single channel.
type Client struct {
	*registry.Client
	channel string
	label   string
	baseURL string

	// listing memoizes the channel's full package-name listing, which is
	// only fetched when an exact lookup misses and can be requested by
	// many workers at once.
	listing *cache.Memo[[]string]
}

// New creates a source for the given anaconda.org channel. The label is the
// display name put on records (e.g. channel "conda-forge", label
// "Conda-forge").
func New(backend cache.Cache, ttl time.Duration, channel, label string) *Client {
	return &Client{
		Client:  registry.NewClient(backend, "anaconda:"+channel+":", ttl, nil),
		channel: channel,
		label:   label,
		baseURL: "https://api.anaconda.org/package",
		listing: cache.NewMemo[[]string](),
	}
}

// Name returns the channel display label.
func (c *Client) Name() string { return c.label }

// Search tries the query name as-is and with the "bioconductor-" prefix
// (conda channels republish Bioconductor packages under that prefix),
// preferring the prefixed hit.
func (c *Client) Search(ctx context.Context, name string) (*search.Package, error) {
	exact, err := c.lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	bioc, err := c.lookup(ctx, "bioconductor-"+name)
	if err != nil {
		return nil, err
	}
	if bioc != nil {
		return bioc, nil
	}
	return exact, nil
}

// lookup fetches one package, falling back to a case-insensitive match
// over the channel listing when the exact name misses.
func (c *Client) lookup(ctx context.Context, name string) (*search.Package, error) {
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

	threading, flags := registry.ScanThreadFlags(data.Summary, data.Readme)

	return &search.Package{
		Name:          name,
		Versions:      versions.Sort(data.Versions),
		Repository:    c.label,
		URL:           fmt.Sprintf("https://anaconda.org/%s/%s", c.channel, name),
		Description:   data.Summary,
		LatestVersion: data.LatestVersion,
		License:       data.License,
		ThreadSupport: threading,
		ThreadFlags:   flags,
	}, nil
}

func (c *Client) fetch(ctx context.Context, name string) (*apiPackage, error) {
	var data apiPackage
	err := c.Cached(ctx, name, &data, func() error {
		return c.Get(ctx, fmt.Sprintf("%s/%s/%s", c.baseURL, c.channel, name), &data)
	})
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// match resolves name against the channel listing by normalized key.
func (c *Client) match(ctx context.Context, name string) (string, bool, error) {
	names, err := c.listing.Do(ctx, c.channel, func(ctx context.Context) ([]string, error) {
		var entries []apiListEntry
		err := c.Cached(ctx, "listing", &entries, func() error {
			return c.Get(ctx, fmt.Sprintf("%s/%s/", c.baseURL, c.channel), &entries)
		})
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name)
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
	Versions      []string `json:"versions"`
	LatestVersion string   `json:"latest_version"`
	License       string   `json:"license"`
	Summary       string   `json:"summary"`
	Readme        string   `json:"readme"`
}

type apiListEntry struct {
	Name string `json:"name"`
}

var _ search.Source = (*Client)(nil)
