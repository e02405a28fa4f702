// Package metrics records per-run scraping counters on a private Prometheus
// registry and can dump them in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Skip reasons used as the "reason" label of listings_skipped_total.
const (
	ReasonFetch    = "fetch"
	ReasonParse    = "parse"
	ReasonExtract  = "extract"
	ReasonNumeric  = "numeric"
	ReasonDupe     = "duplicate"
	ReasonRejected = "rejected"
)

// Run holds the counters for one scraping run.
type Run struct {
	registry *prometheus.Registry

	PagesFetched     prometheus.Counter
	ListingsSeen     prometheus.Counter
	ListingsAccepted prometheus.Counter
	ListingsSkipped  *prometheus.CounterVec
	Aborted          prometheus.Gauge
}

// NewRun creates a Run with its own registry.
func NewRun() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		PagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rental_scraper",
			Name:      "pages_fetched_total",
			Help:      "Search result pages fetched successfully",
		}),
		ListingsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rental_scraper",
			Name:      "listings_seen_total",
			Help:      "Listing links discovered on search pages",
		}),
		ListingsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rental_scraper",
			Name:      "listings_accepted_total",
			Help:      "Listings that passed the filter",
		}),
		ListingsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rental_scraper",
			Name:      "listings_skipped_total",
			Help:      "Listings dropped, by reason",
		}, []string{"reason"}),
		Aborted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rental_scraper",
			Name:      "run_aborted",
			Help:      "1 if the run stopped on a search page fault",
		}),
	}

	r.registry.MustRegister(r.PagesFetched, r.ListingsSeen, r.ListingsAccepted, r.ListingsSkipped, r.Aborted)
	return r
}

// Skip increments the skipped counter for reason.
func (r *Run) Skip(reason string) {
	r.ListingsSkipped.WithLabelValues(reason).Inc()
}

// Registry exposes the underlying registry.
func (r *Run) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics to path atomically.
func (r *Run) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write textfile %q: %w", path, err)
	}
	return nil
}
