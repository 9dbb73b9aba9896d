// Package metrics defines Prometheus metrics for the reserved username
// registry: lookups, remote refreshes, cache store operations and set size.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Lookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reserved_lookups_total",
		Help: "Total number of reserved-name membership checks",
	}, []string{"result"})
	Refreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reserved_refreshes_total",
		Help: "Total number of remote list refreshes by outcome",
	}, []string{"outcome"})
	CacheOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reserved_cache_operations_total",
		Help: "Cache record operations grouped by operation and outcome",
	}, []string{"op", "outcome"})
	SetSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "reserved_names",
		Help: "Current number of reserved names held in memory",
	})
	Imports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reserved_imported_names_total",
		Help: "Names merged through import, by format",
	}, []string{"format"})
)

func init() {
	prometheus.MustRegister(Lookups, Refreshes, CacheOps, SetSize, Imports)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveLookup(reserved bool) {
	if reserved {
		Lookups.WithLabelValues("reserved").Inc()
		return
	}
	Lookups.WithLabelValues("free").Inc()
}

func ObserveCache(op string, err error) {
	if err != nil {
		CacheOps.WithLabelValues(op, "error").Inc()
		return
	}
	CacheOps.WithLabelValues(op, "ok").Inc()
}
