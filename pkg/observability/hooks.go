// Package observability provides hooks for metrics and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Hooks are plain
// interfaces with no-op defaults; callers construct a [Hooks] bundle and
// pass it down explicitly. There is no process-wide registry, so two
// resolvers in the same process can report to different backends.
//
// # Usage
//
//	hooks := observability.Hooks{
//	    Resolution: observability.MultiResolution(logHooks, promHooks),
//	    HTTP:       promHooks,
//	}
//	rec := reconcile.New(registry, vcs, ch, reconcile.Options{Hooks: hooks.Resolution})
//
// Libraries call hooks to emit events:
//
//	hooks.OnStageStart(ctx, "npm", "registry_lookup")
//	// ... do work ...
//	hooks.OnStageComplete(ctx, "npm", "registry_lookup", "ok", time.Since(start), nil)
package observability

import (
	"context"
	"time"
)

// =============================================================================
// Resolution Hooks
// =============================================================================

// ResolutionHooks receives stage events from the provenance reconciler.
// Stage and outcome names are the lower-case strings of the reconciler's
// stage and outcome enums.
type ResolutionHooks interface {
	OnStageStart(ctx context.Context, ecosystem, stage string)
	OnStageComplete(ctx context.Context, ecosystem, stage, outcome string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopResolutionHooks is a no-op implementation of ResolutionHooks.
type NoopResolutionHooks struct{}

func (NoopResolutionHooks) OnStageStart(context.Context, string, string) {}
func (NoopResolutionHooks) OnStageComplete(context.Context, string, string, string, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Bundle
// =============================================================================

// Hooks groups the three hook kinds so they can be passed around together.
// Nil fields are treated as no-ops by [Hooks.WithDefaults].
type Hooks struct {
	Resolution ResolutionHooks
	Cache      CacheHooks
	HTTP       HTTPHooks
}

// WithDefaults returns a copy of h with every nil field replaced by its
// no-op implementation.
func (h Hooks) WithDefaults() Hooks {
	if h.Resolution == nil {
		h.Resolution = NoopResolutionHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	if h.HTTP == nil {
		h.HTTP = NoopHTTPHooks{}
	}
	return h
}
