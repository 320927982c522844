package dtw

import (
	"context"
	"math"
)

// step codes stored per cell for backtracking
const (
	stepNone uint8 = iota
	stepDiagonal
	stepHorizontal // from (i, j-1)
	stepVertical   // from (i-1, j)
)

// Align computes the DTW alignment between a and b.
//
// Algorithm outline:
//  1. D[0][0] = 0, every other cell = +Inf.
//  2. For i = 1..n, j in the band:
//     D[i][j] = cost(a[i-1], b[j-1]) + min(D[i-1][j-1], D[i][j-1], D[i-1][j])
//     Ties prefer the diagonal, then the horizontal, then the vertical step.
//  3. Backtrack from (n, m) while i > 0 and j > 0, then reverse.
func Align(a, b [][]float64, opts Options) Result {
	res, _ := AlignContext(context.Background(), a, b, opts)
	return res
}

// AlignContext is Align with cancellation checked once per row of the cost
// matrix. On cancellation it returns the context error and a zero Result.
func AlignContext(ctx context.Context, a, b [][]float64, opts Options) (Result, error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 || len(a[0]) != len(b[0]) {
		return incomparable(), nil
	}
	metric := opts.Metric
	if metric == "" {
		metric = Euclidean
	}

	// Flat (n+1)×(m+1) storage, row-major with stride m+1.
	stride := m + 1
	cost := make([]float64, (n+1)*stride)
	steps := make([]uint8, (n+1)*stride)
	inf := math.Inf(1)
	for k := range cost {
		cost[k] = inf
	}
	cost[0] = 0

	// A band wider than both sequences is the full row.
	w := min(opts.Bandwidth, max(n, m))
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		jStart, jEnd := 1, m
		if w >= 0 {
			jStart = max(1, i-w)
			jEnd = min(m, i+w)
		}
		row := i * stride
		prev := (i - 1) * stride
		for j := jStart; j <= jEnd; j++ {
			match := cost[prev+j-1]
			insertion := cost[row+j-1]
			deletion := cost[prev+j]

			best, step := match, stepDiagonal
			if insertion < best {
				best, step = insertion, stepHorizontal
			}
			if deletion < best {
				best, step = deletion, stepVertical
			}
			cost[row+j] = metric.Distance(a[i-1], b[j-1]) + best
			steps[row+j] = step
		}
	}

	distance := cost[n*stride+m]
	if math.IsInf(distance, 1) || math.IsNaN(distance) {
		return incomparable(), nil
	}

	path := make([]Coord, 0, n+m)
	i, j := n, m
	for i > 0 && j > 0 {
		path = append(path, Coord{I: i - 1, J: j - 1})
		switch steps[i*stride+j] {
		case stepDiagonal:
			i--
			j--
		case stepHorizontal:
			j--
		case stepVertical:
			i--
		default:
			return incomparable(), nil
		}
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return Result{Distance: distance, Path: path}, nil
}

// NormalizedDistance returns the path-length-normalised DTW distance between
// a and b, or +Inf when they cannot be aligned.
func NormalizedDistance(a, b [][]float64, opts Options) float64 {
	return Align(a, b, opts).Normalized()
}

// ValidPath reports whether path is a complete warping path for sequences
// of lengths n and m: it starts at (0,0), ends at (n−1,m−1), and every step
// advances i, j or both by exactly one.
func ValidPath(path []Coord, n, m int) bool {
	if len(path) == 0 || n <= 0 || m <= 0 {
		return false
	}
	if path[0] != (Coord{0, 0}) || path[len(path)-1] != (Coord{n - 1, m - 1}) {
		return false
	}
	for k := 1; k < len(path); k++ {
		di := path[k].I - path[k-1].I
		dj := path[k].J - path[k-1].J
		if di < 0 || dj < 0 || di > 1 || dj > 1 || di+dj == 0 {
			return false
		}
	}
	return true
}
