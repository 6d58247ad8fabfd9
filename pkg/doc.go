// Package pkg provides the core libraries for pkgscout package search.
//
// # Overview
//
// Pkgscout answers one question: where is this package available, and in
// which versions? The pkg directory is organized into three main areas:
//
//  1. [search] - The orchestrator: fans queries out across registry
//     sources under a bounded worker pool and merges the answers.
//  2. [registry] - Source adapters for the individual registries (PyPI,
//     anaconda.org channels, CRAN, Homebrew, Bioconductor, Docker Hub)
//     plus the shared caching HTTP client they compose.
//  3. Supporting libraries: [normalize] (name canonicalization),
//     [versions] (version ordering and grouping), [cache] (HTTP response
//     cache backends), [errors], [httputil], [observability], [buildinfo].
//
// # Architecture
//
// The typical data flow through pkgscout:
//
//	queries × sources
//	       ↓
//	search.Searcher (worker pool, panic/timeout isolation)
//	       ↓
//	registry adapters (cached HTTP, retry, case-insensitive fallback)
//	       ↓
//	search.Report (filtered, per-query record lists)
//
// The orchestrator performs no network I/O itself; adapters own their wire
// formats and share one cache backend.
package pkg
