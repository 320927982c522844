// Package dtw aligns two feature sequences with Dynamic Time Warping.
//
// Each sequence is a list of equal-width feature vectors. Align fills an
// (n+1)×(m+1) cumulative cost matrix, where the local cost of pairing row i
// of a with row j of b is the chosen Metric between the two vectors, and
// backtracks the cheapest monotone path from (n−1, m−1) to (0, 0).
//
// Usage:
//
//	opts := dtw.DefaultOptions()
//	opts.Bandwidth = 20 // Sakoe-Chiba band |i−j| ≤ 20
//	res := dtw.Align(reference, attempt, opts)
//	if res.Comparable() {
//		fmt.Println(res.Distance, res.Normalized(), len(res.Path))
//	}
//
// Invalid inputs are not errors: empty sequences, sequences whose vectors
// differ in width, and banded runs that cannot reach the final cell all
// produce Result{Distance: +Inf} with an empty path.
//
// Complexity: O(n·m) time and memory, O(n·w) cells visited with a band of w.
// Buffers are allocated per call, so concurrent Align calls never share state.
package dtw
