package config

import "time"

const (
	defaultCacheBackend    = "none"
	defaultCacheTTL        = 24 * time.Hour
	defaultRedisAddr       = "localhost:6379"
	defaultRedisPrefix     = "stackprov:"
	defaultClearinghouse   = "always"
	defaultWorkers         = 8
	defaultResolveTimeout  = 2 * time.Minute
	defaultRetries         = 2
	defaultListen          = ":8080"
	defaultMongoDatabase   = "stackprov"
	defaultMongoCollection = "provenance"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Clearinghouse: ClearinghouseConfig{
			Mode: defaultClearinghouse,
		},
		Cache: CacheConfig{
			Backend: defaultCacheBackend,
			TTL:     defaultCacheTTL.String(),
			Redis: RedisConfig{
				Addr:   defaultRedisAddr,
				Prefix: defaultRedisPrefix,
			},
		},
		Store: StoreConfig{
			Database:   defaultMongoDatabase,
			Collection: defaultMongoCollection,
		},
		Resolve: ResolveConfig{
			Workers: defaultWorkers,
			Timeout: defaultResolveTimeout.String(),
			Retries: defaultRetries,
		},
		Serve: ServeConfig{
			Listen: defaultListen,
		},
	}
}
