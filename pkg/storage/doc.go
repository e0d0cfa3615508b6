// Package storage provides the key/value facade used by neat callers.
//
// A Facade namespaces every caller key under a fixed prefix ("custom_" by
// default) and routes each call to one of two backends. The primary backend,
// normally a local persistent store, is probed on every call by writing and
// removing a sentinel entry. When the probe fails the call goes to the
// fallback backend, normally cookies.
//
//	local, _ := stores.NewSQLiteStore(stores.Config{Path: "neat.db"})
//	cookies := storage.NewCookieBackend(cookie.NewStore(jar), 0)
//	f, _ := storage.New(local, cookies)
//
//	f.Set(ctx, "theme", "dark")
//	v, ok := f.Get(ctx, "theme")
//
// Get, Set and Remove never return errors. Backend failures are classified
// as StorageError values, logged, counted and recorded on the operation span.
//
// Remove only touches the backend selected for that call. A value written to
// the fallback while the primary was unavailable survives a later Remove made
// while the primary is available.
package storage
