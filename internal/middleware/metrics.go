package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type; incremented by the
	// cache layer's client hook.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planit_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// LikeToggles counts like toggles by resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planit_like_toggles_total",
		Help: "Total number of review like toggles by resulting state",
	}, []string{"state"})

	// TripReconciliations counts trip date-range reconciliations by outcome.
	TripReconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planit_trip_reconciliations_total",
		Help: "Total number of trip day reconciliations by duration change",
	}, []string{"change"})

	// DBQueryLatency records query latency by operation and table; observed
	// from GORM callbacks registered by the database package.
	DBQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planit_db_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

var (
	promOnce sync.Once
	promInst *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the fiberprometheus middleware for HTTP metrics.
// Repeated calls return the same instance; the underlying collectors can
// only be registered once per process.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInst = fiberprometheus.New(serviceName)
	})
	return promInst
}

// MetricsMiddleware returns the HTTP metrics collection handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
