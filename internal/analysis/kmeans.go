package analysis

import (
	"errors"
	"math"
)

// DefaultIterations is the fixed number of assign/update rounds
const DefaultIterations = 20

// ErrDimensionMismatch is returned when input vectors differ in length
var ErrDimensionMismatch = errors.New("analysis: vectors have different dimensions")

// Clustering is the result of a k-means run
type Clustering struct {
	Labels    []int       // one cluster index per input vector
	Centroids [][]float64 // k centroids, some possibly without members
}

// K returns the effective cluster count
func (c Clustering) K() int {
	return len(c.Centroids)
}

// Groups partitions items by label, skipping clusters with no members.
// Groups are returned in ascending cluster index order.
func Groups[T any](c Clustering, items []T) [][]T {
	buckets := make([][]T, c.K())
	for i, label := range c.Labels {
		buckets[label] = append(buckets[label], items[i])
	}
	out := make([][]T, 0, len(buckets))
	for _, b := range buckets {
		if len(b) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// KMeans partitions vectors into k clusters with DefaultIterations rounds
func KMeans(vectors [][]float64, k int) (Clustering, error) {
	return KMeansN(vectors, k, DefaultIterations)
}

// KMeansN runs k-means for a fixed number of rounds, with no early exit.
// The first k vectors seed the centroids, so identical input gives identical output.
// k is clamped to [1, len(vectors)]. A centroid that loses all members keeps its position.
func KMeansN(vectors [][]float64, k, iterations int) (Clustering, error) {
	if len(vectors) == 0 {
		return Clustering{Labels: []int{}, Centroids: [][]float64{}}, nil
	}
	dim := len(vectors[0])
	for _, v := range vectors[1:] {
		if len(v) != dim {
			return Clustering{}, ErrDimensionMismatch
		}
	}

	k = clamp(k, 1, len(vectors))
	if iterations < 1 {
		iterations = 1
	}

	centroids := make([][]float64, k)
	for c := 0; c < k; c++ {
		centroids[c] = append([]float64(nil), vectors[c]...)
	}
	labels := make([]int, len(vectors))

	for iter := 0; iter < iterations; iter++ {
		for i, v := range vectors {
			labels[i] = nearest(v, centroids)
		}

		members := make([][][]float64, k)
		for i, v := range vectors {
			members[labels[i]] = append(members[labels[i]], v)
		}
		for c := range centroids {
			if len(members[c]) == 0 {
				continue
			}
			centroids[c] = Centroid(members[c])
		}
	}

	return Clustering{Labels: labels, Centroids: centroids}, nil
}

// nearest returns the index of the closest centroid; ties go to the lowest index
func nearest(v []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := Distance(v, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// ClusterCount picks k as roughly one cluster per perCluster answers, within [1, maxClusters]
func ClusterCount(answers, perCluster, maxClusters int) int {
	if perCluster < 1 {
		perCluster = 1
	}
	if maxClusters < 1 {
		maxClusters = 1
	}
	return clamp(answers/perCluster, 1, maxClusters)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
