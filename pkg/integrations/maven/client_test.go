package maven

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

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		coord        string
		wantGroup    string
		wantArtifact string
		wantErr      bool
	}{
		{"org.springframework:spring-core", "org.springframework", "spring-core", false},
		{"com.google.guava:guava", "com.google.guava", "guava", false},
		{"invalid", "", "", true},
		{"g:a:1.0", "", "", true},
		{":a", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.coord, func(t *testing.T) {
			g, a, err := parseCoordinate(tt.coord)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseCoordinate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if g != tt.wantGroup {
				t.Errorf("groupID = %v, want %v", g, tt.wantGroup)
			}
			if a != tt.wantArtifact {
				t.Errorf("artifactID = %v, want %v", a, tt.wantArtifact)
			}
		})
	}
}

func TestClient_FetchPOM(t *testing.T) {
	const pom = `<?xml version="1.0"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <licenses><license><name>Apache-2.0</name></license></licenses>
  <scm><url>https://github.com/example/mylib</url></scm>
</project>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/maven2/org/example/mylib/1.0.0/mylib-1.0.0.pom" {
			w.Header().Set("Content-Type", "application/xml")
			w.Write([]byte(pom))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := testClient(t, server)

	data, err := c.FetchPOM(context.Background(), "org.example:mylib", "1.0.0", true)
	if err != nil {
		t.Fatalf("FetchPOM failed: %v", err)
	}
	if !strings.Contains(string(data), "<scm>") {
		t.Errorf("unexpected body: %s", data)
	}
}

func TestClient_FetchPOM_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := testClient(t, server).FetchPOM(context.Background(), "org.missing:artifact", "1.0", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_FetchPOM_InvalidCoordinate(t *testing.T) {
	_, err := NewClient(nil, 0, "").FetchPOM(context.Background(), "no-colon", "1.0", false)
	if err == nil {
		t.Fatal("expected error for invalid coordinate")
	}
}

func TestPOMURL(t *testing.T) {
	c := NewClient(nil, 0, "")
	got := c.POMURL("org.apache.commons", "commons-lang3", "3.14.0")
	want := "https://repo1.maven.org/maven2/org/apache/commons/commons-lang3/3.14.0/commons-lang3-3.14.0.pom"
	if got != want {
		t.Errorf("POMURL = %s, want %s", got, want)
	}
}

func testClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(c, time.Hour, server.URL+"/maven2")
	client.WithHTTPClient(server.Client()).WithRetry(1, time.Millisecond)
	return client
}
