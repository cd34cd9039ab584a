package utils

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// AverageFloat64 returns the mean of values, 0 for an empty slice.
func AverageFloat64(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Clamp bounds v to [low, high].
func Clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
