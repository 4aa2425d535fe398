package core

import "math"

// NormalizeVector scales a vector to unit length and returns the result as a
// new slice. A zero vector normalizes to a zero vector of the same length.
//
// Stored and query vectors are both normalized so that squared distances
// stay in [0, 4] whatever the embedding model's output scale.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	magnitude := math.Sqrt(sum)

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}
