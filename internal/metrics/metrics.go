// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "contentcal"

// Metrics groups the collectors. Each server owns its own registry so tests
// can build several servers without duplicate-registration panics.
type Metrics struct {
	Registry *prometheus.Registry

	ContentScheduled     *prometheus.CounterVec
	ValidationRejections *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec
	ContentItems         prometheus.Gauge
	RemindersSent        prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ContentScheduled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_scheduled_total",
			Help:      "Content items scheduled, by platform.",
		}, []string{"platform"}),
		ValidationRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_rejections_total",
			Help:      "Rejected schedule requests, by offending field.",
		}, []string{"field"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route and status code.",
		}, []string{"path", "code"}),
		ContentItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "content_items",
			Help:      "Content items currently held in memory.",
		}),
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Due-content reminders emitted.",
		}),
	}
	m.Registry.MustRegister(
		m.ContentScheduled,
		m.ValidationRejections,
		m.HTTPRequests,
		m.ContentItems,
		m.RemindersSent,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveRequest counts one finished HTTP request.
func (m *Metrics) ObserveRequest(path string, code int) {
	m.HTTPRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
}
