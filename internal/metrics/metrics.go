package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the service's collectors. Each instance has its own
// prometheus.Registry so tests can build as many as they like.
type Registry struct {
	reg *prometheus.Registry

	RemoteRequests    *prometheus.CounterVec
	RemoteFetchFailed prometheus.Counter
	RowsSkipped       *prometheus.CounterVec
	SyncRuns          *prometheus.CounterVec
	SyncDuration      prometheus.Histogram
	LoginAttempts     *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	remoteRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_remote_requests_total",
		Help: "Synchronizer requests against the tabular store",
	}, []string{"op", "outcome"})
	remoteFetchFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_remote_fetch_failures_total",
		Help: "Aggregations that fell back to the empty catalog",
	})
	rowsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_aggregate_rows_skipped_total",
		Help: "Remote part rows dropped or coerced during aggregation",
	}, []string{"reason"})
	syncRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_sync_runs_total",
		Help: "Finished part synchronizations",
	}, []string{"status"})
	syncDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_sync_duration_seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})
	loginAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_login_attempts_total",
	}, []string{"outcome"})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_http_requests_total",
	}, []string{"method", "status"})

	r.MustRegister(remoteRequests, remoteFetchFailed, rowsSkipped, syncRuns, syncDuration, loginAttempts, httpRequests)
	return &Registry{
		reg:               r,
		RemoteRequests:    remoteRequests,
		RemoteFetchFailed: remoteFetchFailed,
		RowsSkipped:       rowsSkipped,
		SyncRuns:          syncRuns,
		SyncDuration:      syncDuration,
		LoginAttempts:     loginAttempts,
		HTTPRequests:      httpRequests,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
