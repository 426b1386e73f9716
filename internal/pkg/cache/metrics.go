package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик кэша
type Metrics struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	items  prometheus.Gauge
	bytes  prometheus.Gauge
}

var defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics создает и регистрирует метрики кэша в указанном реестре
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docgen_asset_cache_hits_total",
			Help: "Number of asset cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docgen_asset_cache_misses_total",
			Help: "Number of asset cache misses",
		}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docgen_asset_cache_items",
			Help: "Number of items in asset cache",
		}),
		bytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "docgen_asset_cache_size_bytes",
			Help: "Total size of cached assets in bytes",
		}),
	}
	reg.MustRegister(m.hits, m.misses, m.items, m.bytes)
	return m
}
