package catalog

// Named accessors for positional upstream arrays. Each one states what it
// does when the array is too short.

// At returns s[i], or ok=false when i is out of range.
func At[T any](s []T, i int) (v T, ok bool) {
	if i < 0 || i >= len(s) {
		return v, false
	}
	return s[i], true
}

// First returns the first element, or ok=false when s is empty.
func First[T any](s []T) (T, bool) {
	return At(s, 0)
}

// Last returns the final element, or ok=false when s is empty.
func Last[T any](s []T) (T, bool) {
	return At(s, len(s)-1)
}
