package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "comicweb"

var (
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests being served.",
		},
	)

	// AuthEvents - исходы auth-операций (login/refresh/verify/...)
	AuthEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Authentication workflow outcomes.",
		},
		[]string{"event", "result"},
	)
	Purchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chapter_purchases_total",
			Help:      "Chapter purchase attempts by outcome.",
		},
		[]string{"result"},
	)
	Withdraws = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdraw_requests_total",
			Help:      "Withdraw request creation attempts by outcome.",
		},
		[]string{"result"},
	)
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		},
		[]string{"path"},
	)
)

// NewRegistry - отдельный реестр с коллекторами приложения и рантайма
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	Register(registry)
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		RequestCount,
		RequestDuration,
		InFlight,
		AuthEvents,
		Purchases,
		Withdraws,
		RateLimited,
	)
}

func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// AuthResult фиксирует исход auth-операции
func AuthResult(event string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	AuthEvents.WithLabelValues(event, result).Inc()
}
