package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackprov/pkg/buildinfo"
	"github.com/matzehuels/stackprov/pkg/cache"
	"github.com/matzehuels/stackprov/pkg/config"
	"github.com/matzehuels/stackprov/pkg/errors"
	"github.com/matzehuels/stackprov/pkg/observability"
	"github.com/matzehuels/stackprov/pkg/provenance/reconcile"
	"github.com/matzehuels/stackprov/pkg/sources"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stackprov"
)

// Log levels for New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath and verbose are bound to persistent flags.
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Stackprov resolves where packages come from",
		Long:         `Stackprov finds the source repository, release tag and license of Maven, npm, PyPI and NuGet packages, reconciling registry metadata, repository contents and ClearlyDefined.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./stackprov.toml or "+configHint()+")")

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Resolver Factory
// =============================================================================

// loadConfig reads and validates the configuration.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolverDeps bundles what a command needs to resolve packages.
type resolverDeps struct {
	cfg        *config.Config
	sources    *sources.Set
	reconciler *reconcile.Reconciler
	cache      cache.Cache
}

func (d *resolverDeps) Close() error {
	return d.cache.Close()
}

// newResolver builds the cache, the adapters and the reconciler from cfg.
func (c *CLI) newResolver(ctx context.Context, cfg *config.Config, hooks observability.Hooks, refresh bool) (*resolverDeps, error) {
	hooks = hooks.WithDefaults()
	ch, err := newCache(ctx, cfg, hooks.Cache)
	if err != nil {
		return nil, err
	}
	set := sources.New(cfg, ch, hooks.HTTP)
	set.SetRefresh(refresh)

	opts, err := sources.Options(cfg, hooks.Resolution)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return &resolverDeps{
		cfg:        cfg,
		sources:    set,
		reconciler: set.Reconciler(opts),
		cache:      ch,
	}, nil
}

// newCache opens the configured cache backend.
func newCache(ctx context.Context, cfg *config.Config, hooks observability.CacheHooks) (cache.Cache, error) {
	var (
		c   cache.Cache
		err error
	)
	switch cfg.Cache.Backend {
	case config.CacheFile:
		dir := cfg.Cache.Dir
		if dir == "" {
			if dir, err = cacheDir(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve cache dir")
			}
		}
		c, err = cache.NewFileCache(dir)
	case config.CacheRedis:
		c, err = cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
	default:
		c = cache.NewNullCache()
	}
	if err != nil {
		return nil, err
	}
	return cache.WithHooks(c, hooks, "http"), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stackprov/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func configHint() string {
	if p, err := config.DefaultPath(); err == nil {
		return p
	}
	return "~/.config/stackprov/stackprov.toml"
}
