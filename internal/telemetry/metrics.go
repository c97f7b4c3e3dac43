package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors for graph runs. Each instance
// owns its registry so tests can build as many as they like
type Metrics struct {
	registry *prometheus.Registry

	GraphRequests  *prometheus.CounterVec
	EngineDuration *prometheus.HistogramVec
	EngineErrors   *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	HttpRequests   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		GraphRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskgraph_graph_requests_total",
				Help: "Graph requests by terminal state",
			},
			[]string{"state"},
		),

		EngineDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskgraph_engine_duration_seconds",
				Help:    "Duration of each engine invocation in seconds",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"graph_type", "result"},
		),

		EngineErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskgraph_engine_errors_total",
				Help: "Graph types that resolved to null because of an error",
			},
			[]string{"graph_type", "kind"},
		),

		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskgraph_fetch_duration_seconds",
				Help:    "Duration of market snapshot and return stats fetches",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"input", "result"},
		),

		HttpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskgraph_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}

	m.registry.MustRegister(
		m.GraphRequests,
		m.EngineDuration,
		m.EngineErrors,
		m.FetchDuration,
		m.HttpRequests,
		collectors.NewGoCollector(),
	)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveEngine(graphType string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.EngineDuration.WithLabelValues(graphType, result(err)).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveFetch(input string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.FetchDuration.WithLabelValues(input, result(err)).Observe(time.Since(start).Seconds())
}

func (m *Metrics) CountEngineError(graphType, kind string) {
	if m == nil {
		return
	}
	m.EngineErrors.WithLabelValues(graphType, kind).Inc()
}

func (m *Metrics) CountRequest(state string) {
	if m == nil {
		return
	}
	m.GraphRequests.WithLabelValues(state).Inc()
}

func (m *Metrics) CountHttp(route, code string) {
	if m == nil {
		return
	}
	m.HttpRequests.WithLabelValues(route, code).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
