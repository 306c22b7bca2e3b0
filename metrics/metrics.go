// Package metrics provides Prometheus instrumentation for the journal.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Reconstructions counts full ledger rebuilds.
	Reconstructions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradejournal_reconstructions_total",
		Help: "Total number of ledger reconstructions",
	})

	// ReconstructDuration observes how long a rebuild takes.
	ReconstructDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tradejournal_reconstruct_duration_seconds",
		Help:    "Ledger reconstruction latency in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	// EntriesSkipped counts entries excluded from accounting as invalid.
	EntriesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradejournal_entries_skipped_total",
		Help: "Entries skipped during reconstruction because they were invalid",
	})

	// Entries, OpenPositions and ClosedLots describe the ledger each
	// rebuild produced. They carry no user label, so the series count
	// stays fixed whatever user names requests send.
	Entries = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tradejournal_reconstruct_entries",
		Help:    "Entries read per ledger reconstruction",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	OpenPositions = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tradejournal_reconstruct_open_positions",
		Help:    "Instruments with an open position after a reconstruction",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8),
	})

	ClosedLots = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tradejournal_reconstruct_closed_lots",
		Help:    "Closed lots with non-zero realized P/L per reconstruction",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	// StoreErrors counts failed entry store operations.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradejournal_store_errors_total",
		Help: "Entry store read/write failures",
	}, []string{"op"})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradejournal_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tradejournal_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveReconstruct records one rebuild.
func ObserveReconstruct(start time.Time, entries, skipped, open, lots int) {
	Reconstructions.Inc()
	ReconstructDuration.Observe(time.Since(start).Seconds())
	EntriesSkipped.Add(float64(skipped))
	Entries.Observe(float64(entries))
	OpenPositions.Observe(float64(open))
	ClosedLots.Observe(float64(lots))
}

// Middleware records request count and latency per route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				path = p
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
