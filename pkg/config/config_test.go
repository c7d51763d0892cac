package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stackprov/pkg/errors"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := NewDefaultConfig()
	if cfg.Cache.Backend != want.Cache.Backend || cfg.Clearinghouse.Mode != want.Clearinghouse.Mode {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
	if cfg.Resolve.Workers != defaultWorkers || cfg.Serve.Listen != defaultListen {
		t.Errorf("resolve/serve = %+v / %+v", cfg.Resolve, cfg.Serve)
	}
	if cfg.CacheTTL() != 24*time.Hour {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := `
[clearinghouse]
mode = "fallback"

[cache]
backend = "file"
ttl = "1h"

[resolve]
workers = 2
repo_license_fallback = true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STACKPROV_RESOLVE_WORKERS", "16")
	t.Setenv("GITHUB_TOKEN", "ghp_fallback")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Clearinghouse.Mode != "fallback" || cfg.Cache.Backend != "file" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL())
	}
	if cfg.Resolve.Workers != 16 {
		t.Errorf("env should override file: workers = %d", cfg.Resolve.Workers)
	}
	if !cfg.Resolve.RepoLicenseFallback {
		t.Error("repo_license_fallback not read")
	}
	if cfg.GitHub.Token != "ghp_fallback" {
		t.Errorf("token = %q", cfg.GitHub.Token)
	}
	if cfg.Serve.Listen != defaultListen {
		t.Errorf("unset key should keep default, got %q", cfg.Serve.Listen)
	}
}

func TestLoadPrefixedTokenWins(t *testing.T) {
	isolate(t)
	t.Setenv("STACKPROV_GITHUB_TOKEN", "ghp_primary")
	t.Setenv("GITHUB_TOKEN", "ghp_fallback")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GitHub.Token != "ghp_primary" {
		t.Errorf("token = %q, want ghp_primary", cfg.GitHub.Token)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "stackprov.toml")

	cfg := NewDefaultConfig()
	cfg.Cache.Backend = CacheRedis
	cfg.Cache.Redis.DB = 3
	cfg.Registries.NPM = "https://npm.mirror.example"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Cache.Backend != CacheRedis || got.Cache.Redis.DB != 3 || got.Registries.NPM != cfg.Registries.NPM {
		t.Errorf("round trip = %+v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad mode", func(c *Config) { c.Clearinghouse.Mode = "sometimes" }},
		{"bad backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis; c.Cache.Redis.Addr = "" }},
		{"bad ttl", func(c *Config) { c.Cache.TTL = "forever" }},
		{"negative timeout", func(c *Config) { c.Resolve.Timeout = "-1s" }},
		{"negative workers", func(c *Config) { c.Resolve.Workers = -1 }},
		{"bad registry url", func(c *Config) { c.Registries.Maven = "ftp://mirror" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.GitHub.Token = "ghp_secret"
	cfg.Cache.Redis.Password = "hunter2"
	cfg.Store.MongoURI = "mongodb://user:pa@ss@db:27017"

	r := cfg.Redacted()
	data, err := Encode(r)
	if err != nil {
		t.Fatal(err)
	}
	for _, secret := range []string{"ghp_secret", "hunter2", "pa@ss"} {
		if strings.Contains(string(data), secret) {
			t.Errorf("encoded config leaks %q:\n%s", secret, data)
		}
	}
	if r.Store.MongoURI != "mongodb://user:"+redacted+"@db:27017" {
		t.Errorf("MongoURI = %q", r.Store.MongoURI)
	}
	if cfg.GitHub.Token != "ghp_secret" {
		t.Error("Redacted must not modify the original")
	}
}
