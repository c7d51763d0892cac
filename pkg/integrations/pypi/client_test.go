package pypi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stackprov/pkg/cache"
	"github.com/matzehuels/stackprov/pkg/integrations"
)

func TestClient_FetchRelease(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path == "/pypi/django-rest/3.14.0/json" {
			w.Write([]byte(`{"info":{"name":"django-rest","license":"BSD-3-Clause"}}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := testClient(t, server)

	data, err := c.FetchRelease(context.Background(), "Django_Rest", "3.14.0", false)
	if err != nil {
		t.Fatalf("FetchRelease failed: %v", err)
	}
	if !strings.Contains(string(data), "BSD-3-Clause") {
		t.Errorf("unexpected body: %s", data)
	}

	if _, err := c.FetchRelease(context.Background(), "django-rest", "3.14.0", false); err != nil {
		t.Fatalf("cached FetchRelease failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("normalized names should share a cache entry, server saw %d calls", calls)
	}
}

func TestClient_FetchRelease_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := testClient(t, server).FetchRelease(context.Background(), "nonexistent", "1.0", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(fc, time.Hour, server.URL+"/pypi")
	c.WithHTTPClient(server.Client()).WithRetry(1, time.Millisecond)
	return c
}
