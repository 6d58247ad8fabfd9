package anaconda

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
		case "/bioconda/samtools":
			json.NewEncoder(w).Encode(apiPackage{
				Versions:      []string{"1.9", "1.10", "1.2"},
				LatestVersion: "1.10",
				License:       "MIT",
				Summary:       "Tools for manipulating alignments",
			})
		case "/bioconda/":
			json.NewEncoder(w).Encode([]apiListEntry{{Name: "samtools"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(server.URL, "bioconda", "Bioconda")

	pkg, err := c.Search(context.Background(), "samtools")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if pkg == nil {
		t.Fatal("expected a result")
	}

	if pkg.Repository != "Bioconda" {
		t.Errorf("expected repository Bioconda, got %s", pkg.Repository)
	}
	want := []string{"1.2", "1.9", "1.10"}
	if len(pkg.Versions) != len(want) {
		t.Fatalf("expected %v, got %v", want, pkg.Versions)
	}
	for i, v := range want {
		if pkg.Versions[i] != v {
			t.Errorf("version %d: expected %s, got %s", i, v, pkg.Versions[i])
		}
	}
	if pkg.LatestVersion != "1.10" {
		t.Errorf("expected latest 1.10, got %s", pkg.LatestVersion)
	}
}

func TestClient_Search_PrefersBioconductorPrefix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bioconda/deseq2":
			json.NewEncoder(w).Encode(apiPackage{Versions: []string{"0.1"}, Summary: "stale upload"})
		case "/bioconda/bioconductor-deseq2":
			json.NewEncoder(w).Encode(apiPackage{Versions: []string{"1.40.0"}, Summary: "Differential expression"})
		case "/bioconda/":
			json.NewEncoder(w).Encode([]apiListEntry{})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(server.URL, "bioconda", "Bioconda")

	pkg, err := c.Search(context.Background(), "deseq2")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if pkg == nil {
		t.Fatal("expected a result")
	}
	if pkg.Name != "bioconductor-deseq2" {
		t.Errorf("expected prefixed package to win, got %s", pkg.Name)
	}
}

func TestClient_Search_CaseInsensitiveFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/conda-forge/NumPy":
			json.NewEncoder(w).Encode(apiPackage{Versions: []string{"1.26.0"}, Summary: "Array computing"})
		case "/conda-forge/":
			json.NewEncoder(w).Encode([]apiListEntry{{Name: "NumPy"}, {Name: "scipy"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := testClient(server.URL, "conda-forge", "Conda-forge")

	pkg, err := c.Search(context.Background(), "numpy")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if pkg == nil {
		t.Fatal("expected listing fallback to resolve the name")
	}
	if pkg.Name != "NumPy" {
		t.Errorf("expected resolved name NumPy, got %s", pkg.Name)
	}
}

func TestClient_Search_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/main/" {
			json.NewEncoder(w).Encode([]apiListEntry{})
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := testClient(server.URL, "main", "Anaconda")

	pkg, err := c.Search(context.Background(), "no-such-package")
	if err != nil {
		t.Fatalf("expected miss without error, got %v", err)
	}
	if pkg != nil {
		t.Errorf("expected nil result, got %+v", pkg)
	}
}

func testClient(serverURL, channel, label string) *Client {
	return &Client{
		Client:  registry.NewClient(cache.NewNullCache(), "anaconda:"+channel+":", time.Hour, nil),
		channel: channel,
		label:   label,
		baseURL: serverURL,
		listing: cache.NewMemo[[]string](),
	}
}
