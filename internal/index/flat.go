// Package index provides an exact nearest-neighbor index over fixed-dimension
// vectors, with binary persistence so the index is built once per deployment
// rather than once per request.
package index

import (
	"errors"
	"sort"

	"compass/internal/domain"
)

// Flat is a brute-force L2 index. Vectors are kept in insertion order;
// position i corresponds to the i-th document of the corpus the index was
// built from. After Build the index is read-only.
type Flat struct {
	dimensions int
	vectors    [][]float32
}

// Build creates an index from vectors. All vectors must share the same
// dimensionality.
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, errors.New("no vectors to index")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("zero-dimension vector")
	}
	stored := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, errors.New("vector dimension mismatch")
		}
		stored[i] = append([]float32(nil), v...)
	}
	return &Flat{dimensions: dim, vectors: stored}, nil
}

// Len returns the number of stored vectors.
func (f *Flat) Len() int { return len(f.vectors) }

// Dimensions returns the dimensionality of the stored vectors.
func (f *Flat) Dimensions() int { return f.dimensions }

// Search returns the k stored vectors nearest to query, ascending by squared
// Euclidean distance with ties broken by ascending position. A k larger than
// the stored count is clamped; k <= 0 yields no results.
func (f *Flat) Search(query []float32, k int) ([]domain.SearchResult, error) {
	if len(query) != f.dimensions {
		return nil, errors.New("query dimension mismatch")
	}
	if k <= 0 {
		return nil, nil
	}
	if k > len(f.vectors) {
		k = len(f.vectors)
	}
	results := make([]domain.SearchResult, len(f.vectors))
	for i, v := range f.vectors {
		results[i] = domain.SearchResult{Position: i, Distance: squaredL2(query, v)}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Position < results[j].Position
	})
	return results[:k], nil
}

func squaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
