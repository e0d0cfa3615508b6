package stores

import (
	"context"
	"errors"
)

// ProbeKey and ProbeValue are the sentinel pair written and removed by Probe.
const (
	ProbeKey   = "test"
	ProbeValue = "test"
)

// Sentinel errors returned by the stores in this package.
var (
	// ErrUnavailable indicates the store cannot be used at all (disabled,
	// restricted context, missing environment support).
	ErrUnavailable = errors.New("store unavailable")

	// ErrQuotaExceeded indicates a write was refused because the store is full.
	ErrQuotaExceeded = errors.New("store quota exceeded")

	// ErrNotInitialized is returned when a store is used before Init.
	ErrNotInitialized = errors.New("store not initialized")
)

// Item is a single stored key/value pair.
type Item struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	CreatedAt int64  `json:"created_at"` // unix milliseconds
	UpdatedAt int64  `json:"updated_at"` // unix milliseconds
}

// Store defines the interface for a local persistent key/value store.
type Store interface {
	// Name identifies the store in logs and metrics.
	Name() string

	// Probe writes and removes a sentinel entry. Any error means the store
	// is unavailable for the current call.
	Probe(ctx context.Context) error

	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error

	// Keys lists stored keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// probe performs the write/delete round trip shared by all stores.
func probe(ctx context.Context, s Store) error {
	if err := s.Set(ctx, ProbeKey, ProbeValue); err != nil {
		return err
	}
	return s.Remove(ctx, ProbeKey)
}
