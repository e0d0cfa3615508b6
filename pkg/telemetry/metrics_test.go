package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func enabledMetrics(t *testing.T) *Metrics {
	t.Helper()
	cfg := DefaultConfig().Metrics
	cfg.Enabled = true
	m, err := NewMetrics(cfg)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	return m
}

func TestMetricsRecord(t *testing.T) {
	m := enabledMetrics(t)

	m.RecordStorageOperation("sqlite", "get", time.Millisecond)
	m.RecordStorageOperation("sqlite", "get", time.Millisecond)
	m.RecordFallback("set")
	m.RecordProbeFailure("sqlite", "quota")
	m.RecordStorageError("sqlite", "set", "io")
	m.RecordCookieOperation("set")

	if got := testutil.ToFloat64(m.storageOps.WithLabelValues("sqlite", "get")); got != 2 {
		t.Errorf("operations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.fallbacks.WithLabelValues("set")); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.probeFailures.WithLabelValues("sqlite", "quota")); got != 1 {
		t.Errorf("probe failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.storageErrors.WithLabelValues("sqlite", "set", "io")); got != 1 {
		t.Errorf("errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cookieOps.WithLabelValues("set")); got != 1 {
		t.Errorf("cookie operations = %v, want 1", got)
	}
}

func TestMetricsDisabled(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	// None of these may panic.
	m.RecordStorageOperation("sqlite", "get", time.Millisecond)
	m.RecordFallback("get")

	var nilMetrics *Metrics
	nilMetrics.RecordCookieOperation("set")
	nilMetrics.RecordProbeFailure("sqlite", "io")

	if m.Registry() != nil || nilMetrics.Registry() != nil {
		t.Error("disabled metrics should have no registry")
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled handler status = %d, want 404", rec.Code)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := enabledMetrics(t)
	m.RecordFallback("remove")

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `neat_storage_fallbacks_total{operation="remove"} 1`) {
		t.Errorf("metrics body missing fallback counter:\n%s", body)
	}
}
