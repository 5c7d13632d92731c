package metrics

import (
	"net/http"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lending"

type Metrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	gatherer   prometheus.Gatherer
}

func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Lifecycle operations by outcome.",
		}, []string{"operation", "result"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Lifecycle operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		gatherer: reg,
	}
	reg.MustRegister(m.operations, m.latency)
	return m
}

// Result is "ok", the rejection kind, or "error" for store failures.
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := errs.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}

func (m *Metrics) Observe(operation string, err error, took time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, Result(err)).Inc()
	m.latency.WithLabelValues(operation).Observe(took.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
