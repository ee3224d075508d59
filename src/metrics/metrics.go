package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dividendtracker"

// Quote request outcomes.
const (
	ResultHit   = "cache_hit"
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics owns a private registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	QuoteRequests     *prometheus.CounterVec
	QuoteLatency      *prometheus.HistogramVec
	StaleQuotes       prometheus.Counter
	Projections       prometheus.Counter
	HoldingsRefreshed prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		QuoteRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_requests_total",
			Help:      "Quote lookups by provider and result.",
		}, []string{"provider", "result"}),
		QuoteLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_provider_latency_seconds",
			Help:      "Latency of calls to quote providers.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		StaleQuotes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_quotes_total",
			Help:      "Quotes served from the last known price after every provider failed.",
		}),
		Projections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projections_total",
			Help:      "Portfolio income projections computed.",
		}),
		HoldingsRefreshed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holdings_refreshed_total",
			Help:      "Holdings whose stored price was updated from a live quote.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
	}
}

func (m *Metrics) ObserveQuote(provider, result string, elapsed time.Duration) {
	m.QuoteRequests.WithLabelValues(provider, result).Inc()
	if result != ResultHit {
		m.QuoteLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) ObserveHTTP(method string, code int) {
	m.HTTPRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
