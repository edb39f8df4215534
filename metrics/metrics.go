package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry the registry served on /metrics
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Exports export requests by format and outcome (ok, unauthorized, error)
	Exports = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ayya",
		Subsystem: "export",
		Name:      "requests_total",
		Help:      "Admin export requests by format and outcome.",
	}, []string{"format", "outcome"})

	// ExportDuration seconds spent building one export
	ExportDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ayya",
		Subsystem: "export",
		Name:      "duration_seconds",
		Help:      "Time to aggregate and serialize one export.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"format"})

	// CollectionRows rows exported per collection
	CollectionRows = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ayya",
		Subsystem: "export",
		Name:      "collection_rows_total",
		Help:      "Rows read from each collection.",
	}, []string{"collection"})

	// CollectionsOmitted collections left out of a bundle because the query failed
	CollectionsOmitted = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ayya",
		Subsystem: "export",
		Name:      "collections_omitted_total",
		Help:      "Collections omitted from an export, by reason (missing, error).",
	}, []string{"collection", "reason"})

	// Images image candidates by outcome (embedded, failed, capped)
	Images = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ayya",
		Subsystem: "export",
		Name:      "images_total",
		Help:      "Workbook image candidates by outcome.",
	}, []string{"outcome"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
