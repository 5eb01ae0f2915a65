// Package metrics exports translation cache counters to Prometheus.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Translation implements translation.Metrics on Prometheus collectors.
type Translation struct {
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	conflicts      *prometheus.CounterVec
	engineCalls    *prometheus.CounterVec
	engineDuration *prometheus.HistogramVec
}

var (
	defaultOnce sync.Once
	defaultInst *Translation
)

// Default returns the process-wide recorder registered on the default
// Prometheus registry. Repeated calls return the same instance.
func Default() *Translation {
	defaultOnce.Do(func() {
		defaultInst = NewTranslation(prometheus.DefaultRegisterer)
	})
	return defaultInst
}

// NewTranslation registers the translation collectors on reg.
func NewTranslation(reg prometheus.Registerer) *Translation {
	factory := promauto.With(reg)
	return &Translation{
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polyglot",
			Name:      "translation_cache_hits_total",
			Help:      "Exact-locale lookups served from the store.",
		}, []string{"locale"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polyglot",
			Name:      "translation_cache_misses_total",
			Help:      "Exact-locale lookups that required generation.",
		}, []string{"locale"}),
		conflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polyglot",
			Name:      "translation_insert_conflicts_total",
			Help:      "Generated translations discarded because a concurrent insert won.",
		}, []string{"locale"}),
		engineCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polyglot",
			Name:      "translation_engine_calls_total",
			Help:      "Upstream model calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		engineDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "polyglot",
			Name:      "translation_engine_duration_seconds",
			Help:      "Latency of upstream model calls.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"provider"}),
	}
}

func (t *Translation) CacheHit(locale string) {
	t.cacheHits.WithLabelValues(locale).Inc()
}

func (t *Translation) CacheMiss(locale string) {
	t.cacheMisses.WithLabelValues(locale).Inc()
}

func (t *Translation) InsertConflict(locale string) {
	t.conflicts.WithLabelValues(locale).Inc()
}

func (t *Translation) EngineCall(provider, outcome string, latencyMs int64) {
	t.engineCalls.WithLabelValues(provider, outcome).Inc()
	if latencyMs > 0 {
		t.engineDuration.WithLabelValues(provider).Observe(float64(latencyMs) / 1000)
	}
}
