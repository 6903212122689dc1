package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances can coexist in one
// process. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	recipeDuration  *prometheus.HistogramVec
	datasetRecords  prometheus.Gauge
	sseEvents       *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		recipeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_recipe_duration_seconds",
			Help:    "Time spent computing a dashboard view.",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"view"}),
		datasetRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_dataset_records",
			Help: "Records in the loaded dataset.",
		}),
		sseEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_sse_events_total",
			Help: "Server-sent events emitted by kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// TimeView starts a timer for the named view; call the result when done.
func (m *Metrics) TimeView(view string) func() {
	if m == nil {
		return func() {}
	}
	timer := prometheus.NewTimer(m.recipeDuration.WithLabelValues(view))
	return func() { timer.ObserveDuration() }
}

func (m *Metrics) SetDatasetRecords(n int) {
	if m == nil {
		return
	}
	m.datasetRecords.Set(float64(n))
}

func (m *Metrics) IncSSEEvent(kind string) {
	if m == nil {
		return
	}
	m.sseEvents.WithLabelValues(kind).Inc()
}
