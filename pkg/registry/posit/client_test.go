package posit

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
		case "/packages/dplyr":
			json.NewEncoder(w).Encode(apiPackage{
				Package:     "dplyr",
				Version:     "1.1.4",
				Description: "A grammar of data manipulation",
				License:     "MIT + file LICENSE",
			})
		case "/packages/dplyr/versions":
			json.NewEncoder(w).Encode([]apiVersion{{Version: "1.1.4"}, {Version: "1.0.10"}, {Version: "1.1.0"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(server.URL)

	pkg, err := c.Search(context.Background(), "dplyr")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if pkg == nil {
		t.Fatal("expected a result")
	}

	if pkg.Repository != "Posit Package Manager" {
		t.Errorf("expected repository Posit Package Manager, got %s", pkg.Repository)
	}
	want := []string{"1.0.10", "1.1.0", "1.1.4"}
	if len(pkg.Versions) != len(want) {
		t.Fatalf("expected %v, got %v", want, pkg.Versions)
	}
	for i, v := range want {
		if pkg.Versions[i] != v {
			t.Errorf("version %d: expected %s, got %s", i, v, pkg.Versions[i])
		}
	}
	if pkg.LatestVersion != "1.1.4" {
		t.Errorf("expected latest 1.1.4, got %s", pkg.LatestVersion)
	}
}

func TestClient_Search_CaseInsensitiveFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/packages/Matrix":
			json.NewEncoder(w).Encode(apiPackage{Package: "Matrix", Version: "1.7-0"})
		case "/packages":
			json.NewEncoder(w).Encode([]apiListEntry{{Package: "Matrix"}, {Package: "dplyr"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(server.URL)

	pkg, err := c.Search(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if pkg == nil {
		t.Fatal("expected listing fallback to resolve the name")
	}
	if pkg.Name != "Matrix" {
		t.Errorf("expected resolved name Matrix, got %s", pkg.Name)
	}
}

func TestClient_Search_VersionsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/packages/dplyr" {
			json.NewEncoder(w).Encode(apiPackage{Package: "dplyr", Version: "1.1.4"})
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := testClient(server.URL)

	pkg, err := c.Search(context.Background(), "dplyr")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if pkg == nil {
		t.Fatal("expected a result even without the versions endpoint")
	}
	if len(pkg.Versions) != 0 {
		t.Errorf("expected no versions, got %v", pkg.Versions)
	}
	if pkg.LatestVersion != "1.1.4" {
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
		Client:  registry.NewClient(cache.NewNullCache(), "posit:", time.Hour, nil),
		baseURL: serverURL,
		listing: cache.NewMemo[[]string](),
	}
}
