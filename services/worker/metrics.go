package worker

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for a run.
type Metrics struct {
	Registry          *prometheus.Registry
	SearchesTotal     *prometheus.CounterVec
	ProductsFound     prometheus.Counter
	ProductsQualified prometheus.Counter
	DuplicatesTotal   prometheus.Counter
	PublishesTotal    *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	searches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finder_searches_total",
			Help: "Total search API calls by status.",
		},
		[]string{"status"},
	)
	found := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "finder_products_found_total",
			Help: "Total products returned by the search API.",
		},
	)
	qualified := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "finder_products_qualified_total",
			Help: "Total products passing the discount threshold.",
		},
	)
	duplicates := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "finder_duplicates_total",
			Help: "Total products suppressed by the post history.",
		},
	)
	publishes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finder_publishes_total",
			Help: "Total publish attempts by platform and status.",
		},
		[]string{"platform", "status"},
	)

	registry.MustRegister(searches, found, qualified, duplicates, publishes)

	return &Metrics{
		Registry:          registry,
		SearchesTotal:     searches,
		ProductsFound:     found,
		ProductsQualified: qualified,
		DuplicatesTotal:   duplicates,
		PublishesTotal:    publishes,
	}
}

// IncSearch increments the search counter for a status label.
func (m *Metrics) IncSearch(status string) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(status).Inc()
}

// AddFound adds to the products found counter.
func (m *Metrics) AddFound(n int) {
	if m == nil {
		return
	}
	m.ProductsFound.Add(float64(n))
}

// AddQualified adds to the qualified products counter.
func (m *Metrics) AddQualified(n int) {
	if m == nil {
		return
	}
	m.ProductsQualified.Add(float64(n))
}

// IncDuplicate increments the suppressed duplicates counter.
func (m *Metrics) IncDuplicate() {
	if m == nil {
		return
	}
	m.DuplicatesTotal.Inc()
}

// IncPublish increments the publish counter for a platform and status.
func (m *Metrics) IncPublish(platform, status string) {
	if m == nil {
		return
	}
	m.PublishesTotal.WithLabelValues(platform, status).Inc()
}

// Summary renders all non-zero counters as a single line for the end-of-run
// log.
func (m *Metrics) Summary() string {
	if m == nil {
		return ""
	}

	families, err := m.Registry.Gather()
	if err != nil {
		return ""
	}

	var parts []string
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			value := metric.GetCounter().GetValue()
			if value == 0 {
				continue
			}
			name := family.GetName()
			var labels []string
			for _, label := range metric.GetLabel() {
				labels = append(labels, label.GetValue())
			}
			if len(labels) > 0 {
				name = name + "{" + strings.Join(labels, ",") + "}"
			}
			parts = append(parts, fmt.Sprintf("%s=%g", name, value))
		}
	}
	return strings.Join(parts, " ")
}
