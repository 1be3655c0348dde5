// Package metrics exposes the contact workflow and HTTP surface as Prometheus collectors.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "devcraft"

// Delivery outcomes.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	transitions      *prometheus.CounterVec
	validation       *prometheus.CounterVec
	deliveries       *prometheus.CounterVec
	deliveryDuration prometheus.Histogram
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, along with the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "transitions_total",
			Help:      "Contact form state transitions.",
		}, []string{"from", "to"}),
		validation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "validation_failures_total",
			Help:      "Field errors reported by rejected submits.",
		}, []string{"field", "kind"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "deliveries_total",
			Help:      "Delivery attempts by outcome.",
		}, []string{"outcome"}),
		deliveryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "contact",
			Name:      "delivery_duration_seconds",
			Help:      "Time spent handing a submission to the delivery backend.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 1.5, 2, 3, 5, 10},
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(
		m.transitions,
		m.validation,
		m.deliveries,
		m.deliveryDuration,
		m.requests,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks records workflow events.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
		OnValidationFailed: func(_ context.Context, e *domain.ValidationEvent) {
			for _, fe := range e.Errors {
				m.validation.WithLabelValues(string(fe.Field), string(fe.Kind)).Inc()
			}
		},
		OnDelivered: func(_ context.Context, e *domain.DeliveryEvent) {
			m.deliveries.WithLabelValues(OutcomeDelivered).Inc()
			m.deliveryDuration.Observe(e.Duration.Seconds())
		},
		OnDeliveryFailed: func(_ context.Context, e *domain.DeliveryEvent) {
			m.deliveries.WithLabelValues(OutcomeFailed).Inc()
			m.deliveryDuration.Observe(e.Duration.Seconds())
		},
	}
}

// ObserveRequest matches the HTTP adapter's request observer signature.
func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
