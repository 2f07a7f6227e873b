// Package metrics exposes the Prometheus registry and instruments shared by
// the HTTP layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	// RequestDuration observes HTTP latency per route pattern and status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// AssessmentsTotal counts finished fluency assessments by outcome:
	// scored, no_speech, unrecognized or error.
	AssessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fluency_assessments_total",
			Help: "Completed fluency assessments by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	registry.MustRegister(RequestDuration, AssessmentsTotal)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

// Middleware times every request. The scrape endpoint itself is not
// measured.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Route().Path is the registered pattern, so path params do not blow
		// up label cardinality.
		RequestDuration.
			WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())

		return err
	}
}
