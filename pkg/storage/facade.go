package storage

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neatjs/neat/pkg/telemetry"
)

// DefaultPrefix is prepended to every caller key.
const DefaultPrefix = "custom_"

// ErrNoFallback is returned by New when no fallback backend is given.
var ErrNoFallback = errors.New("storage: fallback backend is required")

// Facade routes get/set/remove calls to a primary or fallback backend.
// It holds no per-call state and is safe for concurrent use when both
// backends are.
type Facade struct {
	primary  Backend
	fallback Backend
	prefix   string

	logger  *telemetry.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
	onError func(*StorageError)
}

// Option configures a Facade.
type Option func(*Facade)

// WithPrefix overrides DefaultPrefix. An empty prefix lets the caller key
// "test" collide with the probe sentinel of the local stores.
func WithPrefix(prefix string) Option {
	return func(f *Facade) {
		f.prefix = prefix
	}
}

// WithLogger sets the logger used for swallowed backend errors.
func WithLogger(l *telemetry.Logger) Option {
	return func(f *Facade) {
		if l != nil {
			f.logger = l.NewComponentLogger("storage")
		}
	}
}

// WithMetrics records facade operations on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(f *Facade) {
		f.metrics = m
	}
}

// WithTracer opens a span per facade operation.
func WithTracer(t *telemetry.Tracer) Option {
	return func(f *Facade) {
		if t != nil {
			f.tracer = t
		}
	}
}

// WithTelemetry applies the logger, metrics and tracer of tel.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(f *Facade) {
		if tel == nil {
			return
		}
		WithLogger(tel.Logger)(f)
		WithMetrics(tel.Metrics)(f)
		WithTracer(tel.Tracer)(f)
	}
}

// WithErrorHandler calls fn for every backend error the facade swallows.
func WithErrorHandler(fn func(*StorageError)) Option {
	return func(f *Facade) {
		f.onError = fn
	}
}

// New creates a facade over primary and fallback. A nil primary behaves as
// a backend whose probe always fails.
func New(primary, fallback Backend, opts ...Option) (*Facade, error) {
	if fallback == nil {
		return nil, ErrNoFallback
	}

	f := &Facade{
		primary:  primary,
		fallback: fallback,
		prefix:   DefaultPrefix,
		logger:   telemetry.NopLogger(),
		tracer:   telemetry.NopTracer(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Prefix returns the namespace prepended to caller keys.
func (f *Facade) Prefix() string {
	return f.prefix
}

// LocalAvailable probes the primary backend. The result is valid for the
// current call only.
func (f *Facade) LocalAvailable(ctx context.Context) bool {
	if f.primary == nil {
		return false
	}
	if err := f.primary.Probe(ctx); err != nil {
		serr := f.report(ctx, f.primary, "probe", "", err)
		f.metrics.RecordProbeFailure(f.primary.Name(), string(serr.Class))
		return false
	}
	return true
}

// Set stores value under key. Exactly one backend is written.
func (f *Facade) Set(ctx context.Context, key, value string) {
	full := f.prefix + key
	ctx, span := f.tracer.StartStorageSpan(ctx, "set", full)
	defer span.End()

	if f.LocalAvailable(ctx) {
		timer := telemetry.NewTimer()
		err := f.primary.Set(ctx, full, value)
		if err == nil {
			f.served(span, f.primary, "set", timer)
			return
		}
		f.report(ctx, f.primary, "set", full, err)
		f.logger.WithKey(full).Warn("primary write failed, writing to fallback")
	}

	f.metrics.RecordFallback("set")
	span.SetAttributes(telemetry.AttrFallback.Bool(true))

	timer := telemetry.NewTimer()
	if err := f.fallback.Set(ctx, full, value); err != nil {
		failed(span, f.report(ctx, f.fallback, "set", full, err))
		return
	}
	f.served(span, f.fallback, "set", timer)
}

// Get returns the value stored under key. The primary backend is read first
// when available; the fallback is consulted when the primary has nothing.
func (f *Facade) Get(ctx context.Context, key string) (string, bool) {
	full := f.prefix + key
	ctx, span := f.tracer.StartStorageSpan(ctx, "get", full)
	defer span.End()

	if f.LocalAvailable(ctx) {
		timer := telemetry.NewTimer()
		v, ok, err := f.primary.Get(ctx, full)
		switch {
		case err != nil:
			f.report(ctx, f.primary, "get", full, err)
		case ok:
			f.served(span, f.primary, "get", timer)
			span.SetAttributes(telemetry.AttrHit.Bool(true))
			return v, true
		}
	}

	f.metrics.RecordFallback("get")
	span.SetAttributes(telemetry.AttrFallback.Bool(true))

	timer := telemetry.NewTimer()
	v, ok, err := f.fallback.Get(ctx, full)
	if err != nil {
		failed(span, f.report(ctx, f.fallback, "get", full, err))
		return "", false
	}
	f.served(span, f.fallback, "get", timer)
	span.SetAttributes(telemetry.AttrHit.Bool(ok))
	if !ok {
		return "", false
	}
	return v, true
}

// Remove deletes key from the backend selected for this call. When the
// primary is available the fallback is left untouched.
func (f *Facade) Remove(ctx context.Context, key string) {
	full := f.prefix + key
	ctx, span := f.tracer.StartStorageSpan(ctx, "remove", full)
	defer span.End()

	target := f.fallback
	if f.LocalAvailable(ctx) {
		target = f.primary
	} else {
		f.metrics.RecordFallback("remove")
		span.SetAttributes(telemetry.AttrFallback.Bool(true))
	}

	timer := telemetry.NewTimer()
	if err := target.Remove(ctx, full); err != nil {
		failed(span, f.report(ctx, target, "remove", full, err))
		return
	}
	f.served(span, target, "remove", timer)
}

func (f *Facade) served(span trace.Span, b Backend, op string, timer *telemetry.Timer) {
	f.metrics.RecordStorageOperation(b.Name(), op, timer.Duration())
	span.SetAttributes(telemetry.AttrBackend.String(b.Name()))
	telemetry.RecordSuccess(span)
}

// failed marks the operation span as failed once no backend could serve it.
func failed(span trace.Span, serr *StorageError) {
	span.SetStatus(codes.Error, serr.Error())
}

// report classifies, logs and counts a swallowed backend error, and records
// it as an event on the span carried by ctx.
func (f *Facade) report(ctx context.Context, b Backend, op, key string, err error) *StorageError {
	serr := newStorageError(b.Name(), op, key, err)

	span := trace.SpanFromContext(ctx)
	span.RecordError(serr, trace.WithAttributes(
		telemetry.AttrBackend.String(b.Name()),
		telemetry.AttrOperation.String(op),
		telemetry.AttrErrorClass.String(string(serr.Class)),
	))
	span.SetAttributes(telemetry.AttrErrorClass.String(string(serr.Class)))

	logger := f.logger.WithBackend(b.Name()).WithOperation(op).WithError(err)
	if key != "" {
		logger = logger.WithKey(key)
	}
	if id := telemetry.TraceID(ctx); id != "" {
		logger = logger.WithField("trace_id", id)
	}
	if op == "probe" {
		logger.WithField("class", string(serr.Class)).Debug("backend unavailable")
	} else {
		logger.WithField("class", string(serr.Class)).Warn("backend operation failed")
	}

	if op != "probe" {
		f.metrics.RecordStorageError(b.Name(), op, string(serr.Class))
	}
	if f.onError != nil {
		f.onError(serr)
	}
	return serr
}
