package dtw

import (
	"errors"
	"fmt"
	"math"

	"github.com/ieee0824/recite-go/internal/simd"
)

// ErrUnknownMetric indicates a metric name that ParseMetric does not recognise.
var ErrUnknownMetric = errors.New("dtw: unknown distance metric")

// Metric selects the local distance between two feature vectors.
type Metric string

const (
	// Euclidean is sqrt(Σ(a−b)²).
	Euclidean Metric = "euclidean"
	// Manhattan is Σ|a−b|.
	Manhattan Metric = "manhattan"
)

// ParseMetric converts a configuration string into a Metric.
// The empty string maps to Euclidean.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "":
		return Euclidean, nil
	case Euclidean, Manhattan:
		return Metric(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Distance returns the metric between a and b, or +Inf when their lengths
// differ.
func (m Metric) Distance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	if m == Manhattan {
		return simd.AbsDistance(a, b)
	}
	return math.Sqrt(simd.SquaredDistance(a, b))
}

// Unbanded disables the Sakoe-Chiba constraint.
const Unbanded = -1

// Options configures an alignment.
//
// A negative Bandwidth (Unbanded) visits every cell. Bandwidth w ≥ 0
// restricts row i to columns max(1, i−w)..min(m, i+w); the zero value is a
// band of 0, which only admits the diagonal.
type Options struct {
	Metric    Metric
	Bandwidth int
}

// DefaultOptions returns Euclidean distance without a band.
func DefaultOptions() Options {
	return Options{Metric: Euclidean, Bandwidth: Unbanded}
}

// Coord is one (i, j) pairing on the warping path.
type Coord struct {
	I int // index into the first sequence
	J int // index into the second sequence
}

// Result is the outcome of an alignment.
type Result struct {
	Distance float64 // cumulative cost at (n, m); +Inf if not comparable
	Path     []Coord // (0,0) … (n−1,m−1), empty if not comparable
}

// Normalized returns Distance divided by the path length. It returns
// Distance unchanged when the path is empty.
func (r Result) Normalized() float64 {
	if len(r.Path) == 0 {
		return r.Distance
	}
	return r.Distance / float64(len(r.Path))
}

// Comparable reports whether the two sequences could be aligned.
func (r Result) Comparable() bool {
	return !math.IsInf(r.Distance, 0) && !math.IsNaN(r.Distance)
}

func incomparable() Result {
	return Result{Distance: math.Inf(1), Path: []Coord{}}
}
