//go:build js && wasm

package stores

import (
	"context"
	"fmt"
	"strings"
	"syscall/js"
)

// LocalStorage is a Store backed by the browser's window.localStorage.
type LocalStorage struct{}

// NewLocalStorage returns a store bound to window.localStorage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{}
}

// Name implements Store.
func (l *LocalStorage) Name() string {
	return "localStorage"
}

// Probe implements Store.
func (l *LocalStorage) Probe(ctx context.Context) error {
	return probe(ctx, l)
}

// Get implements Store.
func (l *LocalStorage) Get(_ context.Context, key string) (value string, ok bool, err error) {
	err = l.call(func(kv js.Value) {
		v := kv.Call("getItem", key)
		if v.IsNull() || v.IsUndefined() {
			return
		}
		value, ok = v.String(), true
	})
	return value, ok, err
}

// Set implements Store.
func (l *LocalStorage) Set(_ context.Context, key, value string) error {
	return l.call(func(kv js.Value) {
		kv.Call("setItem", key, value)
	})
}

// Remove implements Store.
func (l *LocalStorage) Remove(_ context.Context, key string) error {
	return l.call(func(kv js.Value) {
		kv.Call("removeItem", key)
	})
}

// Keys implements Store.
func (l *LocalStorage) Keys(_ context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := l.call(func(kv js.Value) {
		n := kv.Get("length").Int()
		for i := 0; i < n; i++ {
			k := kv.Call("key", i)
			if k.IsNull() {
				continue
			}
			if s := k.String(); strings.HasPrefix(s, prefix) {
				keys = append(keys, s)
			}
		}
	})
	return keys, err
}

// call runs fn against window.localStorage, converting a missing store or a
// thrown JS exception (quota, security error) into ErrUnavailable.
func (l *LocalStorage) call(fn func(kv js.Value)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("localStorage: %v: %w", r, ErrUnavailable)
		}
	}()

	kv := js.Global().Get("localStorage")
	if kv.IsUndefined() || kv.IsNull() {
		return ErrUnavailable
	}

	fn(kv)
	return nil
}
