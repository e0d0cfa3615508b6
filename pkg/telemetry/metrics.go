package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the storage facade and cookie store.
// A nil *Metrics, or one built from a disabled config, records nothing.
type Metrics struct {
	config MetricsConfig

	// Facade metrics
	storageOps      *prometheus.CounterVec
	storageDuration *prometheus.HistogramVec
	fallbacks       *prometheus.CounterVec
	probeFailures   *prometheus.CounterVec
	storageErrors   *prometheus.CounterVec

	// Cookie metrics
	cookieOps *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		storageOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "operations_total",
				Help:      "Total number of storage operations by serving backend",
			},
			[]string{"backend", "operation"},
		),
		storageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "operation_duration_seconds",
				Help:      "Duration of storage operations in seconds",
				Buckets:   buckets,
			},
			[]string{"backend", "operation"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "fallbacks_total",
				Help:      "Total number of operations served by the fallback backend",
			},
			[]string{"operation"},
		),
		probeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "probe_failures_total",
				Help:      "Total number of failed capability probes",
			},
			[]string{"backend", "class"},
		),
		storageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "errors_total",
				Help:      "Total number of backend errors by class",
			},
			[]string{"backend", "operation", "class"},
		),
		cookieOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cookie",
				Name:      "operations_total",
				Help:      "Total number of cookie store operations",
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		m.storageOps,
		m.storageDuration,
		m.fallbacks,
		m.probeFailures,
		m.storageErrors,
		m.cookieOps,
	)

	return m, nil
}

func (m *Metrics) enabled() bool {
	return m != nil && m.registry != nil
}

// RecordStorageOperation records an operation served by backend.
func (m *Metrics) RecordStorageOperation(backend, operation string, duration time.Duration) {
	if !m.enabled() {
		return
	}
	m.storageOps.WithLabelValues(backend, operation).Inc()
	m.storageDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordFallback records an operation routed to the fallback backend.
func (m *Metrics) RecordFallback(operation string) {
	if !m.enabled() {
		return
	}
	m.fallbacks.WithLabelValues(operation).Inc()
}

// RecordProbeFailure records a failed capability probe.
func (m *Metrics) RecordProbeFailure(backend, class string) {
	if !m.enabled() {
		return
	}
	m.probeFailures.WithLabelValues(backend, class).Inc()
}

// RecordStorageError records a backend error swallowed by the facade.
func (m *Metrics) RecordStorageError(backend, operation, class string) {
	if !m.enabled() {
		return
	}
	m.storageErrors.WithLabelValues(backend, operation, class).Inc()
}

// RecordCookieOperation records a cookie store operation.
func (m *Metrics) RecordCookieOperation(operation string) {
	if !m.enabled() {
		return
	}
	m.cookieOps.WithLabelValues(operation).Inc()
}

// Registry returns the underlying registry, or nil when metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if !m.enabled() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Serve exposes metrics over HTTP until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context) error {
	if !m.enabled() {
		return nil
	}

	path := m.config.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
