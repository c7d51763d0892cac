// Package config loads and saves stackprov settings.
//
// Settings live in stackprov.toml. [Load] layers them with viper:
//
//  1. Environment variables (STACKPROV_GITHUB_TOKEN, STACKPROV_CACHE_BACKEND, ...)
//  2. stackprov.toml
//  3. Defaults from [NewDefaultConfig]
//
// GITHUB_TOKEN is honored when STACKPROV_GITHUB_TOKEN is unset.
package config

import (
	"time"
)

// Config is the complete stackprov configuration.
type Config struct {
	GitHub        GitHubConfig        `toml:"github"`
	Registries    RegistriesConfig    `toml:"registries"`
	Clearinghouse ClearinghouseConfig `toml:"clearinghouse"`
	Cache         CacheConfig         `toml:"cache"`
	Store         StoreConfig         `toml:"store"`
	Resolve       ResolveConfig       `toml:"resolve"`
	Serve         ServeConfig         `toml:"serve"`
}

// GitHubConfig configures the VCS client.
type GitHubConfig struct {
	Token   string `toml:"token,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

// RegistriesConfig overrides registry endpoints, for mirrors and proxies.
type RegistriesConfig struct {
	Maven string `toml:"maven,omitempty"`
	NPM   string `toml:"npm,omitempty"`
	PyPI  string `toml:"pypi,omitempty"`
	NuGet string `toml:"nuget,omitempty"`
}

// ClearinghouseConfig configures ClearlyDefined.
type ClearinghouseConfig struct {
	// Mode is "always", "fallback" or "never".
	Mode    string `toml:"mode,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

// CacheConfig selects the HTTP response cache.
type CacheConfig struct {
	// Backend is "none", "file" or "redis".
	Backend string `toml:"backend,omitempty"`

	// Dir is the file cache directory; empty selects the XDG cache dir.
	Dir string `toml:"dir,omitempty"`

	// TTL is a Go duration string such as "24h".
	TTL string `toml:"ttl,omitempty"`

	Redis RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr,omitempty"`
	Password string `toml:"password,omitempty"`
	DB       int    `toml:"db,omitempty"`
	Prefix   string `toml:"prefix,omitempty"`
}

// StoreConfig configures the MongoDB record sink.
type StoreConfig struct {
	MongoURI   string `toml:"mongo_uri,omitempty"`
	Database   string `toml:"database,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// ResolveConfig tunes resolution.
type ResolveConfig struct {
	Workers             int    `toml:"workers,omitempty"`
	Timeout             string `toml:"timeout,omitempty"`
	Retries             int    `toml:"retries,omitempty"`
	RepoLicenseFallback bool   `toml:"repo_license_fallback,omitempty"`
}

// ServeConfig configures the HTTP API server.
type ServeConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// CacheTTL returns the parsed cache TTL. Call Validate first; an invalid
// value yields the default.
func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.Cache.TTL, defaultCacheTTL)
}

// ResolveTimeout returns the parsed per-package timeout.
func (c *Config) ResolveTimeout() time.Duration {
	return parseDuration(c.Resolve.Timeout, defaultResolveTimeout)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
