package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avido/experiments-data-api/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "data_api"

// Collector records request counts and latencies per route pattern.
type Collector struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	c.registry.MustRegister(c.requests, c.duration)
	return c
}

// RegisterRefreshes exposes the number of successful snapshot refreshes.
func (c *Collector) RegisterRefreshes(refreshes func() int64) {
	c.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_refreshes_total",
			Help:      "Total number of successful data snapshot refreshes",
		},
		func() float64 {
			return float64(refreshes())
		},
	))
}

// Instrument wraps every route handler, labelling samples with the route pattern.
func (c *Collector) Instrument(routes []types.Route) []types.Route {
	result := make([]types.Route, 0, len(routes))
	for _, route := range routes {
		result = append(result, types.Route{
			Method:  route.Method,
			Pattern: route.Pattern,
			Handler: c.middleware(route.Pattern, route.Handler),
		})
	}
	return result
}

// Route serves the collected metrics in the Prometheus text format.
func (c *Collector) Route(pattern string) types.Route {
	return types.Route{
		Method:  http.MethodGet,
		Pattern: pattern,
		Handler: promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}),
	}
}

func (c *Collector) middleware(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		c.requests.WithLabelValues(r.Method, pattern, strconv.Itoa(rec.status)).Inc()
		c.duration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
