package clearlydefined

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/stackprov/pkg/integrations"
)

func TestCoordinatesString(t *testing.T) {
	tests := []struct {
		coord Coordinates
		want  string
	}{
		{Coordinates{"maven", "mavencentral", "junit", "junit", "4.12"}, "maven/mavencentral/junit/junit/4.12"},
		{Coordinates{"nuget", "nuget", "", "NLog", "4.7.9"}, "nuget/nuget/-/NLog/4.7.9"},
		{Coordinates{"npm", "npmjs", "@babel", "core", "7.0.0"}, "npm/npmjs/@babel/core/7.0.0"},
	}
	for _, tt := range tests {
		if got := tt.coord.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}

func TestDefinition(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{
			"coordinates": {"type": "maven"},
			"licensed": {
				"declared": "Apache-2.0",
				"facets": {"core": {"discovered": {"expressions": ["Apache-2.0", "MIT"]}}}
			}
		}`))
	}))
	defer server.Close()

	coord := Coordinates{"maven", "mavencentral", "org.apache.commons", "commons-lang3", "3.12.0"}
	def, err := testClient(server).Definition(context.Background(), coord, false)
	if err != nil {
		t.Fatalf("Definition() error: %v", err)
	}
	if gotPath != "/definitions/maven/mavencentral/org.apache.commons/commons-lang3/3.12.0" {
		t.Errorf("path = %s", gotPath)
	}
	if def.Declared != "Apache-2.0" {
		t.Errorf("Declared = %q", def.Declared)
	}
	if len(def.Discovered) != 2 || def.Discovered[1] != "MIT" {
		t.Errorf("Discovered = %v", def.Discovered)
	}
}

func TestDefinitionEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"described": {}, "licensed": {}}`))
	}))
	defer server.Close()

	def, err := testClient(server).Definition(context.Background(), Coordinates{"pypi", "pypi", "", "x", "1"}, false)
	if err != nil {
		t.Fatalf("Definition() error: %v", err)
	}
	if def.Declared != "" || len(def.Discovered) != 0 {
		t.Errorf("expected empty definition, got %+v", def)
	}
}

func TestDefinitionServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testClient(server).Definition(context.Background(), Coordinates{"npm", "npmjs", "", "x", "1"}, false)
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}

func TestDefinitionIncomplete(t *testing.T) {
	_, err := NewClient(nil, 0, "").Definition(context.Background(), Coordinates{Type: "npm"}, false)
	if err == nil {
		t.Error("incomplete coordinates should fail")
	}
}

func testClient(server *httptest.Server) *Client {
	c := NewClient(nil, time.Hour, server.URL)
	c.WithHTTPClient(server.Client()).WithRetry(1, time.Millisecond)
	return c
}
