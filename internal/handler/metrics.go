package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the API. Collectors exist from
// package init so handlers can record before (or without) InitMetrics.
var Metrics = struct {
	RatingsTotal        *prometheus.CounterVec
	ModerationTotal     *prometheus.CounterVec
	SubmissionsTotal    prometheus.Counter
	RateLimitedTotal    *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	RequestsInFlight    prometheus.Gauge
	DBPoolActive        prometheus.GaugeFunc
	DBPoolIdle          prometheus.GaugeFunc
}{
	RatingsTotal: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supaviewer_ratings_total",
			Help: "Rating mutations, by action (create, update, delete).",
		},
		[]string{"action"},
	),
	ModerationTotal: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supaviewer_moderation_decisions_total",
			Help: "Moderation decisions, by outcome.",
		},
		[]string{"decision"},
	),
	SubmissionsTotal: prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "supaviewer_submissions_total",
			Help: "Accepted public video submissions.",
		},
	),
	RateLimitedTotal: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supaviewer_rate_limited_total",
			Help: "Requests rejected by a rate limiter, by limiter.",
		},
		[]string{"limiter"},
	),
	RequestDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supaviewer_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	),
	RequestsInFlight: prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "supaviewer_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	),
}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(pool *pgxpool.Pool) {
	// DB pool gauges read live stats from pgxpool
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "supaviewer_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "supaviewer_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.RatingsTotal,
		Metrics.ModerationTotal,
		Metrics.SubmissionsTotal,
		Metrics.RateLimitedTotal,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
	)
}

// RecordRateLimited is the rate limiters' OnLimited hook.
func RecordRateLimited(name string) {
	Metrics.RateLimitedTotal.WithLabelValues(name).Inc()
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next(); Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

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

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		switch parts[i-1] {
		case "videos", "submissions", "ratings":
			parts[i] = ":id"
		case "creators":
			if parts[i] != "search" {
				parts[i] = ":id"
			}
		}
	}
	return strings.Join(parts, "/")
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
