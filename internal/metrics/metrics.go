// Package metrics exposes Prometheus instrumentation for the API and the
// stores. Register once at start-up with MustRegister, then mount Handler
// on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizkeeper",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	StoreMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizkeeper",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Successful store mutations by entity and action.",
		},
		[]string{"entity", "action"},
	)

	PersistFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizkeeper",
			Subsystem: "store",
			Name:      "persist_failures_total",
			Help:      "Snapshot writes that failed and were dropped.",
		},
		[]string{"key"},
	)

	Receipts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizkeeper",
			Subsystem: "receipt",
			Name:      "published_total",
			Help:      "Receipt publications by result.",
		},
		[]string{"result"},
	)

	OrderRevenue = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bizkeeper",
		Subsystem: "orders",
		Name:      "revenue_total",
		Help:      "Sum of order totals at creation time.",
	})

	registerOnce sync.Once
)

// MustRegister registers every collector with the default registry.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestDuration,
			StoreMutations,
			PersistFailures,
			Receipts,
			OrderRevenue,
			collectors.NewBuildInfoCollector(),
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request duration per route.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		RequestDuration.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
		return err
	}
}

func ObserveMutation(entity, action string) {
	StoreMutations.WithLabelValues(entity, action).Inc()
}

func ObservePersistFailure(key string, _ error) {
	PersistFailures.WithLabelValues(key).Inc()
}

func ObserveReceipt(err error) {
	if err != nil {
		Receipts.WithLabelValues("failure").Inc()
		return
	}
	Receipts.WithLabelValues("success").Inc()
}
