package search

import "context"

// Package is the normalized result of one source answering one query.
// It is created by a source adapter and immutable after creation.
type Package struct {
	// Name is the display form of the package name; its casing may differ
	// from the query (registries report their canonical spelling).
	Name string `json:"name"`

	// Versions holds raw version strings as reported by the registry.
	// Order is not significant; may include the literal marker "latest".
	Versions []string `json:"versions,omitempty"`

	// Repository is the display label of the source, possibly with
	// sub-channel detail (e.g. "Docker Hub (library/redis)").
	Repository string `json:"repository"`

	// URL points at the package's page in the registry.
	URL string `json:"url"`

	Description   string `json:"description,omitempty"`
	LatestVersion string `json:"latest_version,omitempty"`
	License       string `json:"license,omitempty"`

	// ThreadSupport and ThreadFlags summarize the thread-flag scan of the
	// package's description and readme.
	ThreadSupport bool     `json:"thread_support"`
	ThreadFlags   []string `json:"thread_flags,omitempty"`
}

// Source is the capability each registry integration implements.
// One Source talks to one registry.
type Source interface {
	// Name returns the stable, non-empty display label of the registry.
	Name() string

	// Search looks the package up in the registry. A miss is (nil, nil),
	// not an error; errors are reserved for unexpected failures (network,
	// decoding) and are recovered at the orchestrator's task boundary.
	Search(ctx context.Context, name string) (*Package, error)
}

// Report maps each requested query to the records accepted for it.
// Every query passed to [Searcher.Search] is present as a key, even when
// nothing was found; slices are in completion order, never nil.
type Report map[string][]*Package

// Found returns the total number of accepted records across all queries.
func (r Report) Found() int {
	n := 0
	for _, pkgs := range r {
		n += len(pkgs)
	}
	return n
}

// AllFound reports whether every query produced at least one record.
// This drives the CLI exit status.
func (r Report) AllFound() bool {
	for _, pkgs := range r {
		if len(pkgs) == 0 {
			return false
		}
	}
	return true
}
