// Package neat collects small stateless helpers: GUID generation, hex color
// conversion, query parameter extraction and slice/object cloning.
package neat
