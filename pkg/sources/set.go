package sources

import (
	"time"

	"github.com/matzehuels/stackprov/pkg/cache"
	"github.com/matzehuels/stackprov/pkg/config"
	"github.com/matzehuels/stackprov/pkg/integrations"
	"github.com/matzehuels/stackprov/pkg/integrations/clearlydefined"
	"github.com/matzehuels/stackprov/pkg/integrations/github"
	"github.com/matzehuels/stackprov/pkg/integrations/maven"
	"github.com/matzehuels/stackprov/pkg/integrations/npm"
	"github.com/matzehuels/stackprov/pkg/integrations/nuget"
	"github.com/matzehuels/stackprov/pkg/integrations/pypi"
	"github.com/matzehuels/stackprov/pkg/observability"
	"github.com/matzehuels/stackprov/pkg/provenance/reconcile"
)

const retryDelay = time.Second

// Set holds one adapter per collaborator role, all sharing a cache.
type Set struct {
	Registry       *Registry
	GitHub         *GitHub
	ClearlyDefined *ClearlyDefined
}

// New builds every client from cfg. c may be nil for no caching; hooks
// observe every outgoing request and may be nil.
func New(cfg *config.Config, c cache.Cache, hooks observability.HTTPHooks) *Set {
	ttl := cfg.CacheTTL()
	tune := func(ic *integrations.Client) {
		ic.WithHooks(hooks).WithRetry(cfg.Resolve.Retries+1, retryDelay)
	}

	mc := maven.NewClient(c, ttl, cfg.Registries.Maven)
	nc := npm.NewClient(c, ttl, cfg.Registries.NPM)
	pc := pypi.NewClient(c, ttl, cfg.Registries.PyPI)
	uc := nuget.NewClient(c, ttl, cfg.Registries.NuGet)
	gc := github.NewClient(c, ttl, cfg.GitHub.Token, cfg.GitHub.BaseURL)
	cc := clearlydefined.NewClient(c, ttl, cfg.Clearinghouse.BaseURL)
	for _, ic := range []*integrations.Client{mc.Client, nc.Client, pc.Client, uc.Client, gc.Client, cc.Client} {
		tune(ic)
	}

	return &Set{
		Registry:       &Registry{Maven: mc, NPM: nc, PyPI: pc, NuGet: uc},
		GitHub:         &GitHub{Client: gc},
		ClearlyDefined: &ClearlyDefined{Client: cc},
	}
}

// SetRefresh makes every adapter bypass the cache.
func (s *Set) SetRefresh(refresh bool) {
	s.Registry.Refresh = refresh
	s.GitHub.Refresh = refresh
	s.ClearlyDefined.Refresh = refresh
}

// Reconciler wires the set into a reconciler. A "never" clearinghouse
// mode leaves the clearinghouse out entirely.
func (s *Set) Reconciler(opts reconcile.Options) *reconcile.Reconciler {
	var ch *ClearlyDefined
	if opts.Clearinghouse != reconcile.ClearinghouseNever {
		ch = s.ClearlyDefined
	}
	if ch == nil {
		return reconcile.New(s.Registry, s.GitHub, nil, opts)
	}
	return reconcile.New(s.Registry, s.GitHub, ch, opts)
}

// Options derives reconciler options from cfg.
func Options(cfg *config.Config, hooks observability.ResolutionHooks) (reconcile.Options, error) {
	mode, err := reconcile.ParseClearinghouseMode(cfg.Clearinghouse.Mode)
	if err != nil {
		return reconcile.Options{}, err
	}
	return reconcile.Options{
		Clearinghouse:       mode,
		RepoLicenseFallback: cfg.Resolve.RepoLicenseFallback,
		Hooks:               hooks,
	}, nil
}
