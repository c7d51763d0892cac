package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stackprov/pkg/cache"
	"github.com/matzehuels/stackprov/pkg/config"
	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/provenance"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"resolve", "batch", "serve", "cache", "config", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing persistent --config flag")
	}
}

func TestResolveRejectsInvalidPackage(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"resolve", "cargo", "serde", "1.0.0"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidEcosystem) {
		t.Errorf("err = %v, want INVALID_ECOSYSTEM", err)
	}
}

func TestReportFormat(t *testing.T) {
	tests := []struct {
		flag, output string
		want         string
		wantErr      bool
	}{
		{"", "", "csv", false},
		{"", "out.json", "json", false},
		{"", "out.ndjson", "jsonl", false},
		{"", "out.txt", "csv", false},
		{"JSONL", "out.csv", "jsonl", false},
		{"xml", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.flag+"|"+tt.output, func(t *testing.T) {
			got, err := reportFormat(tt.flag, tt.output)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("reportFormat(%q, %q) = %q, want %q", tt.flag, tt.output, got, tt.want)
			}
		})
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()

	cfg := config.NewDefaultConfig()
	c, err := newCache(ctx, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("default backend = %T, want *cache.NullCache", c)
	}

	cfg.Cache.Backend = config.CacheFile
	cfg.Cache.Dir = t.TempDir()
	c, err = newCache(ctx, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if data, ok, _ := c.Get(ctx, "k"); !ok || string(data) != "v" {
		t.Errorf("file cache round trip: %q, %v", data, ok)
	}
}

func TestRenderRecord(t *testing.T) {
	reg := provenance.NewCandidate(provenance.SourceRegistry, "", "MIT")
	vcs := provenance.NewCandidate(provenance.SourceVCS, "LICENSE", "Apache-2.0")
	rec := &provenance.ProvenanceRecord{
		Identity:      provenance.PackageIdentity{Ecosystem: provenance.NPM, Name: "left-pad", Version: "1.3.0"},
		RepositoryURL: "https://github.com/left-pad/left-pad",
		ResolvedTag: provenance.ResolvedTag{
			Tag:        &provenance.TagRecord{Name: "v1.3.0"},
			Confidence: provenance.ConfidenceExact,
		},
		License:             &reg,
		LicenseAlternatives: []provenance.LicenseCandidate{reg, vcs},
		Diagnostics: []provenance.Diagnostic{
			{Stage: provenance.StageRegistryLookup, Outcome: provenance.OutcomeOK},
		},
	}

	out := renderRecord(rec)
	for _, want := range []string{"npm:left-pad@1.3.0", "v1.3.0", "MIT", "Apache-2.0", "LICENSE", "registry_lookup"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stackprov.toml")
	t.Setenv("STACKPROV_GITHUB_TOKEN", "ghp_secret")

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"--config", path, "config", "init"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	out := captureStdout(t, func() {
		root := New(io.Discard, LogInfo).RootCommand()
		root.SetArgs([]string{"--config", path, "config", "show"})
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("config show: %v", err)
		}
	})
	if strings.Contains(out, "ghp_secret") {
		t.Errorf("config show leaked the token:\n%s", out)
	}
	if !strings.Contains(out, "[resolve]") {
		t.Errorf("config show missing sections:\n%s", out)
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()
	fn()
	w.Close()
	return <-done
}
