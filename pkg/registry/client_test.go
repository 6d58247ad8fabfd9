package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkgscout/pkgscout/pkg/cache"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"flask"}`)
	}))
	defer server.Close()

	c := NewClient(cache.NewNullCache(), "test:", time.Hour, nil)

	var out struct {
		Name string `json:"name"`
	}
	if err := c.Get(context.Background(), server.URL, &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out.Name != "flask" {
		t.Errorf("expected flask, got %s", out.Name)
	}
}

func TestClient_Get_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := NewClient(cache.NewNullCache(), "test:", time.Hour, nil)

	var out any
	err := c.Get(context.Background(), server.URL, &out)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_Get_ServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(cache.NewNullCache(), "test:", time.Hour, nil)

	var out any
	err := c.Cached(context.Background(), "key", &out, func() error {
		return c.Get(context.Background(), server.URL, &out)
	})
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
	if calls.Load() < 2 {
		t.Errorf("expected retries for 5xx responses, got %d calls", calls.Load())
	}
}

func TestClient_Get_NotFoundNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := NewClient(cache.NewNullCache(), "test:", time.Hour, nil)

	var out any
	err := c.Cached(context.Background(), "key", &out, func() error {
		return c.Get(context.Background(), server.URL, &out)
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single call for 404, got %d", calls.Load())
	}
}

func TestClient_Cached_ServesSecondCallFromCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"name":"numpy"}`)
	}))
	defer server.Close()

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(backend, "test:", time.Hour, nil)

	fetch := func(out any) error {
		return c.Cached(context.Background(), "numpy", out, func() error {
			return c.Get(context.Background(), server.URL, out)
		})
	}

	var first, second struct {
		Name string `json:"name"`
	}
	if err := fetch(&first); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	if err := fetch(&second); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if calls.Load() != 1 {
		t.Errorf("expected one HTTP call, got %d", calls.Load())
	}
	if second.Name != "numpy" {
		t.Errorf("expected cached value, got %q", second.Name)
	}
}

func TestClient_Cached_PrefixNamespacesKeys(t *testing.T) {
	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := NewClient(backend, "a:", time.Hour, nil)
	b := NewClient(backend, "b:", time.Hour, nil)

	store := func(c *Client, val string) error {
		v := val
		return c.Cached(context.Background(), "shared", &v, func() error { return nil })
	}
	if err := store(a, "from-a"); err != nil {
		t.Fatal(err)
	}
	if err := store(b, "from-b"); err != nil {
		t.Fatal(err)
	}

	var got string
	if err := a.Cached(context.Background(), "shared", &got, func() error {
		t.Fatal("fetch should not run on cache hit")
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if got != "from-a" {
		t.Errorf("expected a's value, got %q", got)
	}
}

func TestClient_DefaultHeaders(t *testing.T) {
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	c := NewClient(cache.NewNullCache(), "test:", time.Hour, map[string]string{"Accept": "application/json"})

	var out any
	if err := c.Get(context.Background(), server.URL, &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if gotAccept != "application/json" {
		t.Errorf("expected Accept header, got %q", gotAccept)
	}
}

func TestCheckStatus(t *testing.T) {
	if err := checkStatus(http.StatusOK); err != nil {
		t.Errorf("200: expected nil, got %v", err)
	}
	if err := checkStatus(http.StatusForbidden); !errors.Is(err, ErrNetwork) {
		t.Errorf("403: expected ErrNetwork, got %v", err)
	}
}
