// Package dockerhub implements the Docker Hub source adapter.
package dockerhub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pkgscout/pkgscout/pkg/cache"
	"github.com/pkgscout/pkgscout/pkg/registry"
	"github.com/pkgscout/pkgscout/pkg/search"
	"github.com/pkgscout/pkgscout/pkg/versions"
)

const searchPageSize = 25

// Client queries the Docker Hub v2 API.
type Client struct {
	*registry.Client
	baseURL string
	webURL  string
}

// New creates a Docker Hub source with the given cache backend and TTL.
func New(backend cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  registry.NewClient(backend, "dockerhub:", ttl, nil),
		baseURL: "https://hub.docker.com/v2",
		webURL:  "https://hub.docker.com",
	}
}

// Name returns the registry display label.
func (c *Client) Name() string { return "Docker Hub" }

// Search finds the best-matching repository for name and lists its tags.
// Official images (the library namespace) win over community ones; a
// community repo whose name matches exactly wins over the first hit.
func (c *Client) Search(ctx context.Context, name string) (*search.Package, error) {
	lower := strings.ToLower(name)

	var results searchResponse
	err := c.Cached(ctx, "search:"+lower, &results, func() error {
		url := fmt.Sprintf("%s/search/repositories/?query=%s&page_size=%d",
			c.baseURL, registry.URLEncode(lower), searchPageSize)
		return c.Get(ctx, url, &results)
	})
	if errors.Is(err, registry.ErrNotFound) || (err == nil && len(results.Results) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	repo := bestMatch(lower, results.Results)
	tags, err := c.tags(ctx, repo.Slug)
	if err != nil && !errors.Is(err, registry.ErrNotFound) {
		return nil, err
	}

	rest, hasLatest := versions.Split(tags)
	vs := versions.Sort(rest)
	if hasLatest {
		vs = append(vs, versions.Latest)
	}
	latest := versions.Newest(vs)
	threading, flags := registry.ScanThreadFlags(repo.ShortDescription, "")

	return &search.Package{
		Name:          name,
		Versions:      vs,
		Repository:    fmt.Sprintf("%s (%s)", c.Name(), repo.Slug),
		URL:           fmt.Sprintf("%s/r/%s", c.webURL, repo.Slug),
		Description:   repo.ShortDescription,
		LatestVersion: latest,
		ThreadSupport: threading,
		ThreadFlags:   flags,
	}, nil
}

// bestMatch picks the official library/{name} repo if present, then any
// repo whose name component equals name, then the first search hit.
func bestMatch(name string, results []repoResult) repoResult {
	official := "library/" + name
	for _, r := range results {
		if r.Slug == official {
			return r
		}
	}
	for _, r := range results {
		if strings.HasSuffix(r.Slug, "/"+name) || r.Slug == name {
			return r
		}
	}
	return results[0]
}

// tags lists up to one page of tag names for a repository slug. Slugs
// without a namespace live under library/ on the tags endpoint.
func (c *Client) tags(ctx context.Context, slug string) ([]string, error) {
	if !strings.Contains(slug, "/") {
		slug = "library/" + slug
	}
	var resp tagsResponse
	err := c.Cached(ctx, "tags:"+slug, &resp, func() error {
		url := fmt.Sprintf("%s/repositories/%s/tags/?page_size=100", c.baseURL, slug)
		return c.Get(ctx, url, &resp)
	})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Results))
	for _, t := range resp.Results {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names, nil
}

type searchResponse struct {
	Results []repoResult `json:"results"`
}

type repoResult struct {
	Slug             string `json:"repo_name"`
	ShortDescription string `json:"short_description"`
}

type tagsResponse struct {
	Results []struct {
		Name string `json:"name"`
	} `json:"results"`
}

var _ search.Source = (*Client)(nil)
