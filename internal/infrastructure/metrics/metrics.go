package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CheckoutMetrics holds the counters of the dashboard state service.
type CheckoutMetrics struct {
	// Cache lookups by cache name and outcome (hit/miss)
	CacheLookupsTotal *prometheus.CounterVec

	// Exchange rate fetches
	RateFetchesTotal  *prometheus.CounterVec
	RateFetchDuration *prometheus.HistogramVec
	ConversionsTotal  *prometheus.CounterVec

	// GeoIP detections by outcome
	GeoIPLookupsTotal *prometheus.CounterVec

	// Store context operations
	StoreOperationsTotal *prometheus.CounterVec

	// Activation step status writes
	StepUpdatesTotal *prometheus.CounterVec
}

// NewCheckoutMetrics registers all collectors on reg.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	factory := promauto.With(reg)
	return &CheckoutMetrics{
		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_cache_lookups_total",
				Help: "Cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),

		RateFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_rate_fetches_total",
				Help: "Exchange rate fetches by provider and result",
			},
			[]string{"provider", "result"},
		),

		RateFetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "checkout_rate_fetch_duration_seconds",
				Help:    "Time spent fetching exchange rates",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"provider"},
		),

		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_currency_conversions_total",
				Help: "Currency conversions by path (identity/direct/inverse/unavailable)",
			},
			[]string{"path"},
		),

		GeoIPLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_geoip_lookups_total",
				Help: "GeoIP detections by result",
			},
			[]string{"result"},
		),

		StoreOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_store_operations_total",
				Help: "Store context operations by operation and result",
			},
			[]string{"operation", "result"},
		),

		StepUpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_activation_step_updates_total",
				Help: "Activation step status writes",
			},
			[]string{"step", "status"},
		),
	}
}

// The Record* helpers accept a nil receiver so services can run without metrics.

func (m *CheckoutMetrics) RecordCacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

func (m *CheckoutMetrics) RecordRateFetch(provider string, durationSeconds float64, err error) {
	if m == nil {
		return
	}
	m.RateFetchesTotal.WithLabelValues(provider, resultLabel(err)).Inc()
	m.RateFetchDuration.WithLabelValues(provider).Observe(durationSeconds)
}

func (m *CheckoutMetrics) RecordConversion(path string) {
	if m == nil {
		return
	}
	m.ConversionsTotal.WithLabelValues(path).Inc()
}

func (m *CheckoutMetrics) RecordGeoIPLookup(result string) {
	if m == nil {
		return
	}
	m.GeoIPLookupsTotal.WithLabelValues(result).Inc()
}

func (m *CheckoutMetrics) RecordStoreOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.StoreOperationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

func (m *CheckoutMetrics) RecordStepUpdate(step, status string) {
	if m == nil {
		return
	}
	m.StepUpdatesTotal.WithLabelValues(step, status).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
