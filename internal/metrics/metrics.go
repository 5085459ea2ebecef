// Package metrics exposes per (provider, model) request, error and latency
// instruments backed by Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelProvider = "provider"
	labelModel    = "model"
)

// Metrics implements domain.MetricsSink.
type Metrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New creates the instruments and registers them with reg. Registering twice
// against the same registry reuses the existing collectors.
func New(reg prometheus.Registerer) (*Metrics, error) {
	labels := []string{labelProvider, labelModel}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_requests_total",
		Help: "Total LLM generate requests",
	}, labels)

	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_errors_total",
		Help: "Total LLM generate requests that ended in an error",
	}, labels)

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_request_latency_seconds",
		Help:    "LLM generate latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, labels)

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if errs, err = register(reg, errs); err != nil {
		return nil, err
	}
	if latency, err = register(reg, latency); err != nil {
		return nil, err
	}

	return &Metrics{
		requests: requests,
		errors:   errs,
		latency:  latency,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("failed to register metric: %w", err)
	}
	return c, nil
}

// IncRequests counts one generate call.
func (m *Metrics) IncRequests(provider, model string) {
	m.requests.WithLabelValues(provider, model).Inc()
}

// IncErrors counts one failed generate call.
func (m *Metrics) IncErrors(provider, model string) {
	m.errors.WithLabelValues(provider, model).Inc()
}

// ObserveLatency records the duration of one generate call.
func (m *Metrics) ObserveLatency(provider, model string, elapsed time.Duration) {
	m.latency.WithLabelValues(provider, model).Observe(elapsed.Seconds())
}
