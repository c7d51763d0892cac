package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appName    = "stackprov"
	configName = "stackprov"
	envPrefix  = "STACKPROV"
)

// InitViper returns a viper instance with defaults registered, the config
// file read and environment variables bound. An explicit path must exist;
// otherwise stackprov.toml is searched in the working directory and the
// user config directory, and a missing file is fine.
func InitViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setViperDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if path != "" || !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Load builds a Config from defaults, the config file and the environment.
func Load(path string) (*Config, error) {
	v, err := InitViper(path)
	if err != nil {
		return nil, err
	}
	cfg := fromViper(v)
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	return cfg, nil
}

// Dir returns the user config directory (~/.config/stackprov/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns where `config init` writes the config file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configName+".toml"), nil
}

// setViperDefaults registers defaults from NewDefaultConfig() using
// dotted keys. Every key needs a default for AutomaticEnv to see it.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("github.token", d.GitHub.Token)
	v.SetDefault("github.base_url", d.GitHub.BaseURL)

	v.SetDefault("registries.maven", d.Registries.Maven)
	v.SetDefault("registries.npm", d.Registries.NPM)
	v.SetDefault("registries.pypi", d.Registries.PyPI)
	v.SetDefault("registries.nuget", d.Registries.NuGet)

	v.SetDefault("clearinghouse.mode", d.Clearinghouse.Mode)
	v.SetDefault("clearinghouse.base_url", d.Clearinghouse.BaseURL)

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.redis.addr", d.Cache.Redis.Addr)
	v.SetDefault("cache.redis.password", d.Cache.Redis.Password)
	v.SetDefault("cache.redis.db", d.Cache.Redis.DB)
	v.SetDefault("cache.redis.prefix", d.Cache.Redis.Prefix)

	v.SetDefault("store.mongo_uri", d.Store.MongoURI)
	v.SetDefault("store.database", d.Store.Database)
	v.SetDefault("store.collection", d.Store.Collection)

	v.SetDefault("resolve.workers", d.Resolve.Workers)
	v.SetDefault("resolve.timeout", d.Resolve.Timeout)
	v.SetDefault("resolve.retries", d.Resolve.Retries)
	v.SetDefault("resolve.repo_license_fallback", d.Resolve.RepoLicenseFallback)

	v.SetDefault("serve.listen", d.Serve.Listen)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		GitHub: GitHubConfig{
			Token:   v.GetString("github.token"),
			BaseURL: v.GetString("github.base_url"),
		},
		Registries: RegistriesConfig{
			Maven: v.GetString("registries.maven"),
			NPM:   v.GetString("registries.npm"),
			PyPI:  v.GetString("registries.pypi"),
			NuGet: v.GetString("registries.nuget"),
		},
		Clearinghouse: ClearinghouseConfig{
			Mode:    v.GetString("clearinghouse.mode"),
			BaseURL: v.GetString("clearinghouse.base_url"),
		},
		Cache: CacheConfig{
			Backend: v.GetString("cache.backend"),
			Dir:     v.GetString("cache.dir"),
			TTL:     v.GetString("cache.ttl"),
			Redis: RedisConfig{
				Addr:     v.GetString("cache.redis.addr"),
				Password: v.GetString("cache.redis.password"),
				DB:       v.GetInt("cache.redis.db"),
				Prefix:   v.GetString("cache.redis.prefix"),
			},
		},
		Store: StoreConfig{
			MongoURI:   v.GetString("store.mongo_uri"),
			Database:   v.GetString("store.database"),
			Collection: v.GetString("store.collection"),
		},
		Resolve: ResolveConfig{
			Workers:             v.GetInt("resolve.workers"),
			Timeout:             v.GetString("resolve.timeout"),
			Retries:             v.GetInt("resolve.retries"),
			RepoLicenseFallback: v.GetBool("resolve.repo_license_fallback"),
		},
		Serve: ServeConfig{
			Listen: v.GetString("serve.listen"),
		},
	}
}
