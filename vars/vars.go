package vars

// FirstNonZero returns the first of values that is not the zero value.
func FirstNonZero[T comparable](values ...T) T {
	var zero T
	for _, value := range values {
		if value != zero {
			return value
		}
	}
	return zero
}

func DerefOrZero[T any](ptr *T) (ret T) {
	if ptr != nil {
		ret = *ptr
	}
	return
}
