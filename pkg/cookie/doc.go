// Package cookie implements a cookie sub-store over an environment cookie
// string.
//
// A Jar models the environment: reading it yields every live cookie as a
// single "name=value; name2=value2" string, and writing one
// "name=value; expires=<date>" line sets, updates or (with a past date)
// evicts a single cookie. Store layers the classic helpers on top of a Jar:
//
//	jar := cookie.NewMemoryJar()
//	s := cookie.NewStore(jar)
//
//	_ = s.Set("theme", "dark", 30)
//	v, ok := s.Get("theme")
//	_ = s.Delete("theme")
//	_ = s.ClearAll()
//
// Values are encoded with the legacy percent-style escape/unescape pair so
// stored values stay interoperable with pages that use the same convention.
package cookie
