package dtw_test

import (
	"fmt"

	"github.com/ieee0824/recite-go/dtw"
)

// ExampleAlign aligns a short contour against a slower rendition of itself.
func ExampleAlign() {
	reference := [][]float64{{0}, {1}, {2}}
	attempt := [][]float64{{0}, {1}, {1}, {2}}

	res := dtw.Align(reference, attempt, dtw.DefaultOptions())
	fmt.Printf("distance=%.0f\npath=%v\n", res.Distance, res.Path)
	// Output:
	// distance=0
	// path=[{0 0} {1 1} {1 2} {2 3}]
}

// ExampleAlign_band shows that a band narrower than the length difference
// leaves the sequences incomparable.
func ExampleAlign_band() {
	a := [][]float64{{0}, {1}}
	b := [][]float64{{0}, {0}, {0}, {1}}

	res := dtw.Align(a, b, dtw.Options{Metric: dtw.Euclidean, Bandwidth: 1})
	fmt.Println(res.Distance, len(res.Path), res.Comparable())
	// Output:
	// +Inf 0 false
}
