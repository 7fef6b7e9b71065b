// Package metrics provides Prometheus instrumentation for the moderation bot.
// It exposes counters for checked messages and failed removals, plus a histogram of detection latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// result labels of MessagesTotal
const (
	ResultSkipped = "skipped"
	ResultClean   = "clean"
	ResultRemoved = "removed"
	ResultDry     = "dry"
)

var (
	// MessagesTotal counts processed messages, labeled by result:
	// "skipped", "clean", "removed" or "dry".
	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "modbot_messages_total",
		Help: "Total number of messages processed",
	}, []string{"result"})

	// DeleteFailures counts messages the platform refused to delete.
	DeleteFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "modbot_delete_failures_total",
		Help: "Total number of failed message removals",
	})

	// DetectDuration records detection latency in seconds.
	DetectDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "modbot_detect_seconds",
		Help:    "Restricted pairs detection latency in seconds",
		Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
	})
)

func init() {
	prometheus.MustRegister(
		MessagesTotal,
		DeleteFailures,
		DetectDuration,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
