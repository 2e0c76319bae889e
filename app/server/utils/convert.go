package utils

// P returns a pointer to the given value, mostly for optional fields.
func P[T any](v T) *T {
	return &v
}
