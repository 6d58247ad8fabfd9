// Package cran implements the CRAN source adapter.
//
// CRAN has no JSON API; package metadata is scraped from the web package
// page and historical versions from the source archive listing.
package cran

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/pkgscout/pkgscout/pkg/cache"
	"github.com/pkgscout/pkgscout/pkg/normalize"
	"github.com/pkgscout/pkgscout/pkg/registry"
	"github.com/pkgscout/pkgscout/pkg/search"
	"github.com/pkgscout/pkgscout/pkg/versions"
)

var (
	versionRE = regexp.MustCompile(`Version:</td>\s*<td>([^<]+)</td>`)
	descRE    = regexp.MustCompile(`Description:</td>\s*<td>([^<]+)</td>`)
	licenseRE = regexp.MustCompile(`License:</td>\s*<td>([^<]+)</td>`)
	linkRE    = regexp.MustCompile(`href="[^"]+">([^<]+)</a>`)
)

// Client scrapes CRAN package pages.
type Client struct {
	*registry.Client
	baseURL    string
	archiveURL string

	// listing memoizes the by-name package index used for the
	// case-insensitive fallback.
	listing *cache.Memo[[]string]
}

// New creates a CRAN source with the given cache backend and TTL.
func New(backend cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:     registry.NewClient(backend, "cran:", ttl, nil),
		baseURL:    "https://cran.r-project.org/web/packages",
		archiveURL: "https://cran.r-project.org/src/contrib/Archive",
		listing:    cache.NewMemo[[]string](),
	}
}

// Name returns the registry display label.
func (c *Client) Name() string { return "CRAN" }

// Search fetches the package's index page, falling back to a
// case-insensitive match over the package listing, and unions the current
// version with the archive's historical versions.
func (c *Client) Search(ctx context.Context, name string) (*search.Package, error) {
	page, err := c.page(ctx, name)
	if errors.Is(err, registry.ErrNotFound) {
		match, ok, lerr := c.match(ctx, name)
		if lerr != nil || !ok {
			return nil, nil
		}
		name = match
		page, err = c.page(ctx, name)
		if errors.Is(err, registry.ErrNotFound) {
			return nil, nil
		}
	}
	if err != nil {
		return nil, err
	}

	latest := firstGroup(versionRE, page)
	description := firstGroup(descRE, page)
	license := firstGroup(licenseRE, page)

	all := c.archiveVersions(ctx, name)
	if latest != "" {
		all[latest] = true
	}
	vs := make([]string, 0, len(all))
	for v := range all {
		vs = append(vs, v)
	}

	threading, flags := registry.ScanThreadFlags(description, "")

	return &search.Package{
		Name:          name,
		Versions:      versions.Sort(vs),
		Repository:    c.Name(),
		URL:           fmt.Sprintf("%s/%s/index.html", c.baseURL, name),
		Description:   description,
		LatestVersion: latest,
		License:       license,
		ThreadSupport: threading,
		ThreadFlags:   flags,
	}, nil
}

func (c *Client) page(ctx context.Context, name string) (string, error) {
	var page string
	err := c.Cached(ctx, "page:"+name, &page, func() error {
		s, err := c.GetText(ctx, fmt.Sprintf("%s/%s/index.html", c.baseURL, name))
		page = s
		return err
	})
	return page, err
}

// archiveVersions scrapes {name}_{version}.tar.gz links from the source
// archive. A missing archive just means the package never had an older
// release, so failures yield an empty set rather than an error.
func (c *Client) archiveVersions(ctx context.Context, name string) map[string]bool {
	var listing string
	err := c.Cached(ctx, "archive:"+name, &listing, func() error {
		s, err := c.GetText(ctx, fmt.Sprintf("%s/%s/", c.archiveURL, name))
		listing = s
		return err
	})
	found := make(map[string]bool)
	if err != nil {
		return found
	}
	re := regexp.MustCompile(regexp.QuoteMeta(name) + `_([0-9.]+)\.tar\.gz`)
	for _, m := range re.FindAllStringSubmatch(listing, -1) {
		found[m[1]] = true
	}
	return found
}

func (c *Client) match(ctx context.Context, name string) (string, bool, error) {
	names, err := c.listing.Do(ctx, "by-name", func(ctx context.Context) ([]string, error) {
		var index string
		err := c.Cached(ctx, "index", &index, func() error {
			s, err := c.GetText(ctx, c.baseURL+"/available_packages_by_name.html")
			index = s
			return err
		})
		if err != nil {
			return nil, err
		}
		var names []string
		for _, m := range linkRE.FindAllStringSubmatch(index, -1) {
			names = append(names, m[1])
		}
		return names, nil
	})
	if err != nil {
		return "", false, err
	}
	m, ok := normalize.Match(name, names)
	return m, ok, nil
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return ""
}

var _ search.Source = (*Client)(nil)
