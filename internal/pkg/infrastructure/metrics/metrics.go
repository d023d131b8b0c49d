package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	Loads        prometheus.Counter
	LoadFailures prometheus.Counter
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
	LoadDuration prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	loads := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalog_loads_total"})
	failures := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalog_load_failures_total"})
	hits := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalog_cache_hits_total"})
	misses := prometheus.NewCounter(prometheus.CounterOpts{Name: "catalog_cache_misses_total"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_load_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(loads, failures, hits, misses, duration)

	return &Registry{
		reg:          r,
		Loads:        loads,
		LoadFailures: failures,
		CacheHits:    hits,
		CacheMisses:  misses,
		LoadDuration: duration,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
