package storage

import (
	"context"

	"github.com/neatjs/neat/pkg/cookie"
	"github.com/neatjs/neat/pkg/stores"
	"github.com/neatjs/neat/pkg/telemetry"
)

// DefaultCookieExpireDays is the expiration window for values written to
// the cookie fallback.
const DefaultCookieExpireDays = 3600

// Backend is a key/value store the facade can route calls to.
type Backend interface {
	// Name identifies the backend in logs, spans and metrics.
	Name() string

	// Probe reports whether the backend is usable for the current call.
	Probe(ctx context.Context) error

	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

var (
	_ Backend = (*stores.SQLiteStore)(nil)
	_ Backend = (*stores.MemoryStore)(nil)
	_ Backend = (*CookieBackend)(nil)
)

// CookieBackend adapts a cookie.Store to Backend. Keys are stored as
// escaped cookie names so any key survives the cookie string format.
type CookieBackend struct {
	store      *cookie.Store
	expireDays int
	metrics    *telemetry.Metrics
	tracer     *telemetry.Tracer
}

// CookieOption configures a CookieBackend.
type CookieOption func(*CookieBackend)

// WithCookieMetrics counts cookie operations on m.
func WithCookieMetrics(m *telemetry.Metrics) CookieOption {
	return func(b *CookieBackend) {
		b.metrics = m
	}
}

// WithCookieTracer opens a cookie span per operation.
func WithCookieTracer(t *telemetry.Tracer) CookieOption {
	return func(b *CookieBackend) {
		if t != nil {
			b.tracer = t
		}
	}
}

// NewCookieBackend wraps store. Values are written with an expiration of
// expireDays days; zero or negative selects DefaultCookieExpireDays.
func NewCookieBackend(store *cookie.Store, expireDays int, opts ...CookieOption) *CookieBackend {
	if expireDays <= 0 {
		expireDays = DefaultCookieExpireDays
	}
	b := &CookieBackend{
		store:      store,
		expireDays: expireDays,
		tracer:     telemetry.NopTracer(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements Backend.
func (b *CookieBackend) Name() string {
	return "cookie"
}

// Store returns the wrapped cookie store.
func (b *CookieBackend) Store() *cookie.Store {
	return b.store
}

// Probe implements Backend. Cookies are assumed to always be writable.
func (b *CookieBackend) Probe(context.Context) error {
	return nil
}

// Get implements Backend.
func (b *CookieBackend) Get(ctx context.Context, key string) (string, bool, error) {
	name := cookie.Escape(key)
	_, span := b.tracer.StartCookieSpan(ctx, "get", name)
	defer span.End()

	b.metrics.RecordCookieOperation("get")
	v, ok := b.store.Get(name)
	span.SetAttributes(telemetry.AttrHit.Bool(ok))
	return v, ok, nil
}

// Set implements Backend.
func (b *CookieBackend) Set(ctx context.Context, key, value string) error {
	name := cookie.Escape(key)
	_, span := b.tracer.StartCookieSpan(ctx, "set", name)
	defer span.End()

	b.metrics.RecordCookieOperation("set")
	err := b.store.Set(name, value, b.expireDays)
	telemetry.RecordError(span, err)
	return err
}

// Remove implements Backend.
func (b *CookieBackend) Remove(ctx context.Context, key string) error {
	name := cookie.Escape(key)
	_, span := b.tracer.StartCookieSpan(ctx, "delete", name)
	defer span.End()

	b.metrics.RecordCookieOperation("delete")
	err := b.store.Delete(name)
	telemetry.RecordError(span, err)
	return err
}
