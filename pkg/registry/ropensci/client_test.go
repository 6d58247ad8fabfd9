package ropensci

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkgscout/pkgscout/pkg/cache"
	"github.com/pkgscout/pkgscout/pkg/registry"
)

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/packages/targets":
			json.NewEncoder(w).Encode(apiPackage{
				Package:     "targets",
				Version:     "1.7.1",
				Description: "Pipeline toolkit for reproducible computation",
				License:     "MIT + file LICENSE",
			})
		case "/versions/targets":
			json.NewEncoder(w).Encode([]apiVersion{{Version: "1.6.0"}, {Version: "1.7.1"}, {Version: "1.5.0"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(server.URL)

	pkg, err := c.Search(context.Background(), "targets")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if pkg == nil {
		t.Fatal("expected a result")
	}

	if pkg.Repository != "rOpenSci" {
		t.Errorf("expected repository rOpenSci, got %s", pkg.Repository)
	}
	want := []string{"1.5.0", "1.6.0", "1.7.1"}
	if len(pkg.Versions) != len(want) {
		t.Fatalf("expected %v, got %v", want, pkg.Versions)
	}
	for i, v := range want {
		if pkg.Versions[i] != v {
			t.Errorf("version %d: expected %s, got %s", i, v, pkg.Versions[i])
		}
	}
	if pkg.LatestVersion != "1.7.1" {
		t.Errorf("expected latest 1.7.1, got %s", pkg.LatestVersion)
	}
	if pkg.License != "MIT + file LICENSE" {
		t.Errorf("unexpected license %q", pkg.License)
	}
}

func TestClient_Search_CaseInsensitiveFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/packages/RSelenium":
			json.NewEncoder(w).Encode(apiPackage{Package: "RSelenium", Version: "1.7.9"})
		case "/packages":
			json.NewEncoder(w).Encode([]apiListEntry{{Package: "RSelenium"}, {Package: "targets"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(server.URL)

	pkg, err := c.Search(context.Background(), "rselenium")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if pkg == nil {
		t.Fatal("expected listing fallback to resolve the name")
	}
	if pkg.Name != "RSelenium" {
		t.Errorf("expected resolved name RSelenium, got %s", pkg.Name)
	}
}

func TestClient_Search_VersionsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/packages/targets" {
			json.NewEncoder(w).Encode(apiPackage{Package: "targets", Version: "1.7.1"})
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := testClient(server.URL)

	pkg, err := c.Search(context.Background(), "targets")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if pkg == nil {
		t.Fatal("expected a result even without the versions endpoint")
	}
	if len(pkg.Versions) != 0 {
		t.Errorf("expected no versions, got %v", pkg.Versions)
	}
	if pkg.LatestVersion != "1.7.1" {
		t.Errorf("expected latest from the package document, got %q", pkg.LatestVersion)
	}
}

func TestClient_Search_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/packages" {
			json.NewEncoder(w).Encode([]apiListEntry{})
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := testClient(server.URL)

	pkg, err := c.Search(context.Background(), "no-such-package")
	if err != nil {
		t.Fatalf("expected miss without error, got %v", err)
	}
	if pkg != nil {
		t.Errorf("expected nil result, got %+v", pkg)
	}
}

func testClient(serverURL string) *Client {
	return &Client{
		Client:  registry.NewClient(cache.NewNullCache(), "ropensci:", time.Hour, nil),
		baseURL: serverURL,
		webURL:  serverURL,
		listing: cache.NewMemo[[]string](),
	}
}
