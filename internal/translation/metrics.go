package translation

// Metrics receives resolver and engine events. The Prometheus implementation
// lives in internal/metrics.
type Metrics interface {
	CacheHit(locale string)
	CacheMiss(locale string)
	InsertConflict(locale string)
	EngineCall(provider, outcome string, latencyMs int64)
}

// NopMetrics discards every event.
type NopMetrics struct{}

func (NopMetrics) CacheHit(string)                  {}
func (NopMetrics) CacheMiss(string)                 {}
func (NopMetrics) InsertConflict(string)            {}
func (NopMetrics) EngineCall(string, string, int64) {}
