package kukan

// extendSlice extends a slice by n elements, reallocating if necessary.
func extendSlice[T any](s []T, n int) []T {
	newLen := len(s) + n
	if cap(s) >= newLen {
		return s[:newLen]
	}
	ns := make([]T, newLen, max(2*cap(s), newLen))
	copy(ns, s)
	return ns
}

// removeValue deletes the first occurrence of v, keeping order.
func removeValue[T comparable](s []T, v T) []T {
	for i := range s {
		if s[i] == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
