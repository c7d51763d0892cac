// Package prom implements the observability hook interfaces on top of
// Prometheus collectors.
//
// A single [Hooks] value satisfies ResolutionHooks, CacheHooks and
// HTTPHooks, so it can be dropped into every slot of an
// observability.Hooks bundle:
//
//	reg := prometheus.NewRegistry()
//	h := prom.New(reg)
//	hooks := observability.Hooks{Resolution: h, Cache: h, HTTP: h}
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/stackprov/pkg/observability"
)

const namespace = "stackprov"

// Hooks records resolution, cache and HTTP events as Prometheus metrics.
type Hooks struct {
	stages      *prometheus.CounterVec
	stageTime   *prometheus.HistogramVec
	cacheEvents *prometheus.CounterVec
	cacheBytes  prometheus.Counter
	requests    *prometheus.CounterVec
	reqTime     *prometheus.HistogramVec
	reqErrors   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Passing a
// dedicated registry keeps tests and multiple servers independent.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		stages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_outcomes_total",
			Help:      "Completed reconciliation stages by ecosystem, stage and outcome.",
		}, []string{"ecosystem", "stage", "outcome"}),
		stageTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Reconciliation stage latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"ecosystem", "stage"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "HTTP cache hits, misses and writes.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the HTTP cache.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Outgoing HTTP responses by host and status code.",
		}, []string{"host", "code"}),
		reqTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Outgoing HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		reqErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Outgoing HTTP requests that failed before a response.",
		}, []string{"host"}),
	}
	reg.MustRegister(h.stages, h.stageTime, h.cacheEvents, h.cacheBytes, h.requests, h.reqTime, h.reqErrors)
	return h
}

func (h *Hooks) OnStageStart(context.Context, string, string) {}

func (h *Hooks) OnStageComplete(_ context.Context, ecosystem, stage, outcome string, d time.Duration, _ error) {
	h.stages.WithLabelValues(ecosystem, stage, outcome).Inc()
	h.stageTime.WithLabelValues(ecosystem, stage).Observe(d.Seconds())
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.Add(float64(size))
}

func (h *Hooks) OnRequest(context.Context, string, string, string) {}

func (h *Hooks) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	h.requests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	h.reqTime.WithLabelValues(host).Observe(d.Seconds())
}

func (h *Hooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.reqErrors.WithLabelValues(host).Inc()
}

var (
	_ observability.ResolutionHooks = (*Hooks)(nil)
	_ observability.CacheHooks      = (*Hooks)(nil)
	_ observability.HTTPHooks       = (*Hooks)(nil)
)
