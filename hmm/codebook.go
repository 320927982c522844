package hmm

import (
	"errors"
	"fmt"

	"github.com/ieee0824/recite-go/internal/simd"
)

// ErrInvalidCodebook is returned for empty or ragged centroid sets.
var ErrInvalidCodebook = errors.New("hmm: invalid codebook")

// Codebook maps continuous feature vectors to discrete observation symbols
// by nearest centroid.
type Codebook struct {
	centroids [][]float64
	dim       int
}

// NewCodebook copies centroids into a Codebook. Every centroid must share
// one non-zero width.
func NewCodebook(centroids [][]float64) (*Codebook, error) {
	if len(centroids) == 0 || len(centroids[0]) == 0 {
		return nil, fmt.Errorf("%w: no centroids", ErrInvalidCodebook)
	}
	dim := len(centroids[0])
	cb := &Codebook{centroids: make([][]float64, len(centroids)), dim: dim}
	for i, c := range centroids {
		if len(c) != dim {
			return nil, fmt.Errorf("%w: centroid %d has width %d, want %d", ErrInvalidCodebook, i, len(c), dim)
		}
		cb.centroids[i] = append([]float64(nil), c...)
	}
	return cb, nil
}

// TrainCodebook clusters rows into k centroids with Lloyd's k-means.
// Centroids start at evenly spaced rows, so the result depends only on the
// input.
func TrainCodebook(rows [][]float64, k, iterations int) (*Codebook, error) {
	if k <= 0 || len(rows) < k {
		return nil, fmt.Errorf("%w: %d rows for %d centroids", ErrInvalidCodebook, len(rows), k)
	}
	init := make([][]float64, k)
	for i := range init {
		init[i] = rows[i*len(rows)/k]
	}
	cb, err := NewCodebook(init)
	if err != nil {
		return nil, err
	}

	sums := make([][]float64, k)
	for i := range sums {
		sums[i] = make([]float64, cb.dim)
	}
	counts := make([]int, k)
	for it := 0; it < iterations; it++ {
		for i := range sums {
			clear(sums[i])
		}
		clear(counts)
		for _, r := range rows {
			c := cb.Symbol(r)
			if c < 0 {
				continue
			}
			counts[c]++
			for d, v := range r {
				sums[c][d] += v
			}
		}
		moved := false
		for c := range cb.centroids {
			if counts[c] == 0 {
				continue
			}
			for d := range sums[c] {
				v := sums[c][d] / float64(counts[c])
				if v != cb.centroids[c][d] {
					moved = true
				}
				cb.centroids[c][d] = v
			}
		}
		if !moved {
			break
		}
	}
	return cb, nil
}

// NumSymbols returns the alphabet size.
func (cb *Codebook) NumSymbols() int {
	return len(cb.centroids)
}

// Dim returns the centroid width.
func (cb *Codebook) Dim() int {
	return cb.dim
}

// Centroids returns a copy of the centroids.
func (cb *Codebook) Centroids() [][]float64 {
	out := make([][]float64, len(cb.centroids))
	for i, c := range cb.centroids {
		out[i] = append([]float64(nil), c...)
	}
	return out
}

// Symbol returns the index of the centroid nearest to x in squared
// Euclidean distance, lowest index on ties, or -1 when x has the wrong
// width.
func (cb *Codebook) Symbol(x []float64) int {
	if len(x) != cb.dim {
		return -1
	}
	best := -1
	bestDist := 0.0
	for i, c := range cb.centroids {
		d := simd.SquaredDistance(x, c)
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// Quantize converts every row of a feature matrix into a symbol.
func (cb *Codebook) Quantize(rows [][]float64) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = cb.Symbol(r)
	}
	return out
}
