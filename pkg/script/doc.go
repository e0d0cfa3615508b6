// Package script runs Starlark scripts against a storage facade.
//
// Scripts see three modules:
//
//	storage.get(key, default=None)   storage.set(key, value)
//	storage.remove(key)              storage.available()
//	cookie.get(name)                 cookie.set(name, value, days=0)
//	cookie.delete(name)              cookie.clear()
//	cookie.names()
//	neat.guid()                      neat.hex_to_rgb(hex)
//	neat.url_param(name, url)
//
// Top-level globals not starting with an underscore are returned to the
// caller once the script finishes.
package script
