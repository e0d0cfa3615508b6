// Package telemetry provides logging, tracing and metrics for neat.
//
// It wraps zerolog for structured logs, OpenTelemetry for spans and the
// Prometheus client for counters and histograms. The storage facade and the
// CLI take these as injected values so library callers can pass no-op
// implementations.
//
// # Usage
//
//	cfg := telemetry.DefaultConfig()
//	cfg.Metrics.Enabled = true
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx = tel.WithContext(ctx)
//
// # Logging
//
//	logger := tel.Logger.NewComponentLogger("storage")
//	logger.WithBackend("sqlite").WithKey("custom_theme").Debug("stored")
//
// Log levels: trace, debug, info, warn, error, fatal.
//
// # Tracing
//
// Every facade operation opens a span named storage.<operation>, and the
// cookie backend nests cookie.<operation> spans under it:
//
//	ctx, span := tel.Tracer.StartStorageSpan(ctx, "get", key)
//	defer span.End()
//
// Code holding a context from Telemetry.WithContext can use StartOperation,
// which bundles a span, a logger carrying trace ids and a timer:
//
//	op := telemetry.StartOperation(ctx, "script.run")
//	defer func() { op.End(err) }()
//
// Exporters: "stdout", "otlp" (gRPC) and "none".
//
// # Metrics
//
// Exposed under the configured namespace (default "neat"):
//
//   - neat_storage_operations_total{backend,operation}
//   - neat_storage_operation_duration_seconds{backend,operation}
//   - neat_storage_fallbacks_total{operation}
//   - neat_storage_probe_failures_total{backend,class}
//   - neat_storage_errors_total{backend,operation,class}
//   - neat_cookie_operations_total{operation}
//
// A nil or disabled *Metrics silently drops every observation.
package telemetry
