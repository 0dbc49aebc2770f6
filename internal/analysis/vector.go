// Package analysis holds the pure parts of survey analysis: vector math,
// k-means clustering, answer statistics and prompt rendering.
package analysis

import "math"

// Distance returns the Euclidean distance between a and b.
// Both vectors must have the same length.
func Distance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Centroid returns the element-wise mean of a non-empty list of equal-length vectors
func Centroid(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	out := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for j, x := range v {
			out[j] += x
		}
	}
	n := float64(len(vectors))
	for j := range out {
		out[j] /= n
	}
	return out
}
