// Package stores provides local persistent key/value stores for neat.
// It includes a SQLite-backed store with WAL mode and embedded migrations,
// an in-process memory store used as a fake in tests, and (on js/wasm) a
// store bound to the browser's localStorage.
package stores
