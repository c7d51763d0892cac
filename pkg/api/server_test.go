package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/observability/prom"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

type stubResolver struct {
	got []provenance.PackageIdentity
}

func (s *stubResolver) Reconcile(_ context.Context, id provenance.PackageIdentity) *provenance.ProvenanceRecord {
	s.got = append(s.got, id)
	lic := provenance.NewCandidate(provenance.SourceRegistry, "", "MIT")
	return &provenance.ProvenanceRecord{
		Identity:            id,
		License:             &lic,
		ResolvedTag:         provenance.ResolvedTag{Confidence: provenance.ConfidenceNone},
		LicenseAlternatives: []provenance.LicenseCandidate{lic},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *stubResolver, *prometheus.Registry) {
	t.Helper()
	res := &stubResolver{}
	reg := prometheus.NewRegistry()
	s := New(res, Options{Gatherer: reg, Logger: log.New(io.Discard)})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv, res, reg
}

func TestProvenance(t *testing.T) {
	srv, res, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/v1/provenance?ecosystem=pip&name=requests&version=2.31.0")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	var rec provenance.ProvenanceRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.Identity.Ecosystem != provenance.PyPI || rec.License == nil || rec.License.SPDXExpression != "MIT" {
		t.Errorf("record = %+v", rec)
	}
	if len(res.got) != 1 || res.got[0].Name != "requests" {
		t.Errorf("resolver saw %+v", res.got)
	}
}

func TestProvenanceBadRequest(t *testing.T) {
	srv, res, _ := newTestServer(t)

	tests := []struct {
		query string
		code  errors.Code
	}{
		{"ecosystem=cargo&name=serde&version=1.0.0", errors.ErrCodeInvalidEcosystem},
		{"ecosystem=npm&name=lodash", errors.ErrCodeInvalidVersion},
		{"ecosystem=maven&name=junit&version=4.13", errors.ErrCodeInvalidPackage},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+"/v1/provenance?"+tt.query, nil)
			req.Header.Set("X-Request-ID", "req-42")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d", resp.StatusCode)
			}
			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.code || body.RequestID != "req-42" {
				t.Errorf("body = %+v, want code %s", body, tt.code)
			}
		})
	}
	if len(res.got) != 0 {
		t.Errorf("resolver called for invalid input: %+v", res.got)
	}
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		t.Errorf("status %d, body %+v", resp.StatusCode, body)
	}
}

func TestMetrics(t *testing.T) {
	srv, _, reg := newTestServer(t)
	h := prom.New(reg)
	h.OnStageComplete(context.Background(), "npm", "registry_lookup", "ok", 0, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "stackprov_stage_outcomes_total") {
		t.Errorf("metrics output missing stage counter:\n%s", data)
	}
}

func TestNotFoundRoute(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v2/provenance")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
