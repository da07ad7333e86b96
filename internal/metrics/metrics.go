package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "old_runners"

// Registry collectors of the radar. A nil *Registry records nothing.
type Registry struct {
	reg *prometheus.Registry

	StageDuration   *prometheus.HistogramVec
	NetworkFailures *prometheus.CounterVec
	Candidates      *prometheus.GaugeVec
	RelaxedRuns     *prometheus.CounterVec
	ScanDuration    prometheus.Histogram

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of each pipeline stage per network",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
			},
			[]string{"network", "stage", "result"},
		),

		NetworkFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "network_failures_total",
				Help:      "Network scans that ended with an error and contributed no candidates",
			},
			[]string{"network"},
		),

		Candidates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "candidates",
				Help:      "Candidates returned by the last scan of each network",
			},
			[]string{"network"},
		),

		RelaxedRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "relaxed_filter_total",
				Help:      "Scans where the strict tier matched nothing and the relaxed tier ran",
			},
			[]string{"network"},
		),

		ScanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scan_duration_seconds",
				Help:      "Duration of a full multi network scan",
				Buckets:   prometheus.DefBuckets,
			},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.StageDuration,
		r.NetworkFailures,
		r.Candidates,
		r.RelaxedRuns,
		r.ScanDuration,
		r.HTTPRequests,
		r.HTTPDuration,
	)
	return r
}

func (r *Registry) ObserveStage(network, stage string, started time.Time, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.StageDuration.WithLabelValues(network, stage, result).Observe(time.Since(started).Seconds())
}

func (r *Registry) ObserveNetwork(network string, candidates int, relaxed bool, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.NetworkFailures.WithLabelValues(network).Inc()
	}
	if relaxed {
		r.RelaxedRuns.WithLabelValues(network).Inc()
	}
	r.Candidates.WithLabelValues(network).Set(float64(candidates))
}

func (r *Registry) ObserveScan(started time.Time) {
	if r == nil {
		return
	}
	r.ScanDuration.Observe(time.Since(started).Seconds())
}

func (r *Registry) ObserveHTTP(route string, code int, started time.Time) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.HTTPDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
}

// Gatherer exposes the underlying registry, mainly for tests
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
