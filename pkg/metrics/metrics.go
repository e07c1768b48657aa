// Package metrics exposes prometheus collectors for admin actions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AdminMetrics counts listing, export and bulk-action activity.
type AdminMetrics struct {
	listings       *prometheus.CounterVec
	filterApplied  *prometheus.CounterVec
	exportedRows   *prometheus.CounterVec
	actionOutcomes *prometheus.CounterVec
	actionDuration *prometheus.HistogramVec
}

// NewAdminMetrics creates the collectors and registers them on registry.
func NewAdminMetrics(registry prometheus.Registerer) (*AdminMetrics, error) {
	m := &AdminMetrics{
		listings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_listings_total",
				Help: "Listing requests served per admin surface",
			},
			[]string{"entity"},
		),
		filterApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_filter_applied_total",
				Help: "Listing filters applied with a non-empty value",
			},
			[]string{"entity", "filter"},
		),
		exportedRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_exported_rows_total",
				Help: "Rows written by CSV exports",
			},
			[]string{"entity"},
		),
		actionOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_action_items_total",
				Help: "Per-item outcomes of bulk actions",
			},
			[]string{"entity", "action", "outcome"},
		),
		actionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_action_duration_seconds",
				Help:    "Bulk action latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"entity", "action"},
		),
	}

	for _, c := range []prometheus.Collector{m.listings, m.filterApplied, m.exportedRows, m.actionOutcomes, m.actionDuration} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// NewNop returns metrics registered on a private registry, for tests.
func NewNop() *AdminMetrics {
	m, _ := NewAdminMetrics(prometheus.NewRegistry())
	return m
}

func (m *AdminMetrics) ListingServed(entity string) {
	m.listings.WithLabelValues(entity).Inc()
}

func (m *AdminMetrics) FilterApplied(entity, filter string) {
	m.filterApplied.WithLabelValues(entity, filter).Inc()
}

func (m *AdminMetrics) RowsExported(entity string, n int) {
	m.exportedRows.WithLabelValues(entity).Add(float64(n))
}

func (m *AdminMetrics) ActionItem(entity, action, outcome string) {
	m.actionOutcomes.WithLabelValues(entity, action, outcome).Inc()
}

func (m *AdminMetrics) ActionDuration(entity, action string, seconds float64) {
	m.actionDuration.WithLabelValues(entity, action).Observe(seconds)
}
