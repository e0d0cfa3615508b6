package neat

import (
	"fmt"
	"slices"

	"github.com/mitchellh/copystructure"
)

// IsSliceEqual reports whether a and b hold the same set of elements,
// ignoring order and duplicates.
func IsSliceEqual[T comparable](a, b []T) bool {
	return containsAll(a, b) && containsAll(b, a)
}

func containsAll[T comparable](set, items []T) bool {
	seen := make(map[T]struct{}, len(set))
	for _, v := range set {
		seen[v] = struct{}{}
	}
	for _, v := range items {
		if _, ok := seen[v]; !ok {
			return false
		}
	}
	return true
}

// CloneObject returns a deep copy of v. Maps, slices, pointers and
// structs are copied recursively. Unexported struct fields are not copied:
// they hold their zero value in the clone.
func CloneObject[T any](v T) (T, error) {
	var zero T

	out, err := copystructure.Copy(v)
	if err != nil {
		return zero, fmt.Errorf("failed to clone %T: %w", v, err)
	}
	if out == nil {
		return zero, nil
	}

	cloned, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("failed to clone %T: got %T", v, out)
	}
	return cloned, nil
}

// CloneSlice returns a shallow copy of s: the elements are copied, not
// what they point to.
func CloneSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}
