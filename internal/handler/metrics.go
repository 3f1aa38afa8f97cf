package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the analysis service.
var Metrics = struct {
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	CacheEvictions   prometheus.Counter
	CacheEntries     prometheus.GaugeFunc
	UpstreamCalls    *prometheus.CounterVec
	QuotaUnits       prometheus.Counter
	AnalysisDuration prometheus.Histogram
}{}

// InitMetrics creates every collector and registers it with reg. cacheLen
// feeds the cache size gauge and may be nil. Call once at startup.
func InitMetrics(reg prometheus.Registerer, cacheLen func() int) {
	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytanalysis_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ytanalysis_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytanalysis_cache_hits_total",
			Help: "Total analysis cache hits.",
		},
	)

	Metrics.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytanalysis_cache_misses_total",
			Help: "Total analysis cache misses.",
		},
	)

	Metrics.CacheEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytanalysis_cache_evictions_total",
			Help: "Analysis cache entries evicted for capacity or age.",
		},
	)

	Metrics.UpstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytanalysis_upstream_calls_total",
			Help: "YouTube Data API requests, by endpoint and HTTP status (0 = no response).",
		},
		[]string{"endpoint", "status"},
	)

	Metrics.QuotaUnits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytanalysis_quota_units_estimated_total",
			Help: "Estimated YouTube quota units spent on analyses.",
		},
	)

	Metrics.AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ytanalysis_analysis_duration_seconds",
			Help:    "Duration of uncached channel analyses.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
	)

	reg.MustRegister(
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.CacheHits,
		Metrics.CacheMisses,
		Metrics.CacheEvictions,
		Metrics.UpstreamCalls,
		Metrics.QuotaUnits,
		Metrics.AnalysisDuration,
	)

	if cacheLen != nil {
		Metrics.CacheEntries = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "ytanalysis_cache_entries",
				Help: "Entries currently held by the analysis cache.",
			},
			func() float64 {
				return float64(cacheLen())
			},
		)
		reg.MustRegister(Metrics.CacheEntries)
	}
}

// ObserveUpstreamCall records one YouTube API request.
func ObserveUpstreamCall(endpoint string, status int) {
	Metrics.UpstreamCalls.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// ObserveAnalysis records a completed uncached analysis.
func ObserveAnalysis(elapsed time.Duration, quotaUsed int) {
	Metrics.AnalysisDuration.Observe(elapsed.Seconds())
	Metrics.QuotaUnits.Add(float64(quotaUsed))
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next(); Fiber
		// returns slices backed by the fasthttp buffer which can be reused.
		endpoint := sanitizeEndpoint(string([]byte(c.Path())))
		method := string([]byte(c.Method()))

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint folds unknown paths into one label to bound cardinality.
func sanitizeEndpoint(path string) string {
	switch {
	case path == "/api/analyze", path == "/health", path == "/health/live", path == "/health/ready":
		return path
	case strings.HasPrefix(path, "/api/"):
		return "/api/:other"
	default:
		return "other"
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler(gatherer prometheus.Gatherer) fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
