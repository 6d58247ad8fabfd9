// Package pypi implements the PyPI source adapter.
package pypi

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

// Client queries the PyPI JSON API (https://pypi.org/pypi/<name>/json).
// All methods are safe for concurrent use.
type Client struct {
	*registry.Client
	baseURL string
	webURL  string
}

// New creates a PyPI source with the given cache backend and TTL.
func New(backend cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client:  registry.NewClient(backend, "pypi:", ttl, nil),
		baseURL: "https://pypi.org/pypi",
		webURL:  "https://pypi.org/project",
	}
}

// Name returns the registry display label.
func (c *Client) Name() string { return "PyPI" }

// Search looks the package up by exact name. PyPI's JSON endpoint is
// case-insensitive by itself, so no listing fallback is needed.
func (c *Client) Search(ctx context.Context, name string) (*search.Package, error) {
	var data apiResponse
	err := c.Cached(ctx, name, &data, func() error {
		return c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, name), &data)
	})
	if errors.Is(err, registry.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	versions := make([]string, 0, len(data.Releases))
	for v := range data.Releases {
		versions = append(versions, v)
	}

	displayName := data.Info.Name
	if displayName == "" {
		displayName = name
	}
	threading, flags := registry.ScanThreadFlags(data.Info.Summary, data.Info.Description)

	return &search.Package{
		Name:          displayName,
		Versions:      versions,
		Repository:    c.Name(),
		URL:           fmt.Sprintf("%s/%s", c.webURL, displayName),
		Description:   data.Info.Summary,
		LatestVersion: data.Info.Version,
		License:       extractLicenseType(data.Info.License, data.Info.Classifiers),
		ThreadSupport: threading,
		ThreadFlags:   flags,
	}, nil
}

type apiResponse struct {
	Info     apiInfo          `json:"info"`
	Releases map[string][]any `json:"releases"`
}

type apiInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	License     string   `json:"license"`
	Classifiers []string `json:"classifiers"`
}

// extractLicenseType extracts a short license identifier from PyPI data.
// It prefers the classifier (e.g., "License :: OSI Approved :: MIT License" -> "MIT License")
// and falls back to the license field if it's short enough.
func extractLicenseType(license string, classifiers []string) string {
	for _, c := range classifiers {
		if strings.HasPrefix(c, "License :: ") {
			parts := strings.Split(c, " :: ")
			if len(parts) >= 3 {
				return parts[len(parts)-1]
			}
		}
	}

	// If license field is short (likely just the type), use it
	if license != "" && len(license) < 100 && !strings.Contains(license, "\n") {
		return strings.TrimSpace(license)
	}

	// Otherwise, try to extract type from the beginning of the license text
	if license != "" {
		firstLine := strings.TrimSpace(strings.Split(license, "\n")[0])
		if len(firstLine) < 50 {
			return firstLine
		}
	}

	return ""
}

var _ search.Source = (*Client)(nil)
