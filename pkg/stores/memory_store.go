package stores

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. Quota exhaustion and disabled storage
// can be switched on to reproduce the failure modes of a real local store.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string]*Item
	quota    int
	disabled bool
}

// NewMemoryStore creates an empty memory store with no quota.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*Item),
	}
}

// Name implements Store.
func (m *MemoryStore) Name() string {
	return "memory"
}

// SetQuota caps the number of keys the store accepts. Zero disables the cap.
func (m *MemoryStore) SetQuota(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quota = n
}

// SetDisabled makes every operation fail with ErrUnavailable while true.
func (m *MemoryStore) SetDisabled(disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disabled = disabled
}

// Probe implements Store.
func (m *MemoryStore) Probe(ctx context.Context) error {
	return probe(ctx, m)
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.disabled {
		return "", false, ErrUnavailable
	}

	item, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	return item.Value, true, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return ErrUnavailable
	}

	now := time.Now().UnixMilli()
	if item, ok := m.items[key]; ok {
		item.Value = value
		item.UpdatedAt = now
		return nil
	}

	if m.quota > 0 && len(m.items) >= m.quota {
		return fmt.Errorf("set %q: %w (max %d entries)", key, ErrQuotaExceeded, m.quota)
	}

	m.items[key] = &Item{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

// Remove implements Store.
func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disabled {
		return ErrUnavailable
	}

	delete(m.items, key)
	return nil
}

// Keys implements Store.
func (m *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.disabled {
		return nil, ErrUnavailable
	}

	keys := []string{}
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored items.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
