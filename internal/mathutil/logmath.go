package mathutil

import "math"

// LogZero represents log(0). It is a true -Inf so that impossible events
// propagate through sums and maxima without a magic threshold.
var LogZero = math.Inf(-1)

// LogAdd returns log(exp(a) + exp(b)) in a numerically stable way.
// If either operand is LogZero the other is returned unchanged.
func LogAdd(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a < b {
		a, b = b, a
	}
	return a + math.Log1p(math.Exp(b-a))
}

// LogSum folds LogAdd over xs. An empty slice yields LogZero.
func LogSum(xs []float64) float64 {
	sum := LogZero
	for _, x := range xs {
		sum = LogAdd(sum, x)
	}
	return sum
}

// FlooredLog returns log(max(x, floor)).
func FlooredLog(x, floor float64) float64 {
	if x < floor {
		x = floor
	}
	return math.Log(x)
}
