package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteTotal counts price quote computations by item type and outcome.
	QuoteTotal *prometheus.CounterVec
	// BatchQuoteSize records how many requests arrive per batch call.
	BatchQuoteSize prometheus.Histogram
	// CacheLookupTotal counts menu lookup cache hits and misses per entity.
	CacheLookupTotal *prometheus.CounterVec
	// CachePreloadTotal counts cache preload runs by outcome.
	CachePreloadTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_quote_total",
			Help:      "Count of price quote computations by item type and outcome.",
		}, []string{"item_type", "result"})
		BatchQuoteSize = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pricing_batch_size",
			Help:      "Distribution of batch quote request sizes.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		})
		CacheLookupTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_cache_lookup_total",
			Help:      "Count of menu lookup cache hits and misses per entity.",
		}, []string{"entity", "outcome"})
		CachePreloadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_cache_preload_total",
			Help:      "Count of menu cache preload runs by outcome.",
		}, []string{"result"})

		mustRegisterCollector(reg, QuoteTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteTotal = v
			}
		})
		mustRegisterCollector(reg, BatchQuoteSize, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				BatchQuoteSize = v
			}
		})
		mustRegisterCollector(reg, CacheLookupTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CacheLookupTotal = v
			}
		})
		mustRegisterCollector(reg, CachePreloadTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CachePreloadTotal = v
			}
		})
	})
}

// IncQuote bumps the quote counter when domain metrics are registered.
func IncQuote(itemType, result string) {
	if QuoteTotal != nil {
		QuoteTotal.WithLabelValues(itemType, result).Inc()
	}
}

// ObserveBatchSize records a batch request size when domain metrics are registered.
func ObserveBatchSize(n int) {
	if BatchQuoteSize != nil {
		BatchQuoteSize.Observe(float64(n))
	}
}

// IncCacheLookup bumps the cache lookup counter when domain metrics are registered.
func IncCacheLookup(entity, outcome string) {
	if CacheLookupTotal != nil {
		CacheLookupTotal.WithLabelValues(entity, outcome).Inc()
	}
}

// IncCachePreload bumps the preload counter when domain metrics are registered.
func IncCachePreload(result string) {
	if CachePreloadTotal != nil {
		CachePreloadTotal.WithLabelValues(result).Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
