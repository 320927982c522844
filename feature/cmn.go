package feature

import "math"

// cmvnFloor is the standard deviation below which ApplyCMVN only centres a
// dimension.
const cmvnFloor = 1e-10

// ApplyCMN subtracts the utterance-level mean from each feature dimension (Cepstral Mean Normalization).
// This removes channel and speaker-dependent spectral bias.
func ApplyCMN(features [][]float64) {
	T := len(features)
	if T == 0 {
		return
	}
	dim := len(features[0])
	mean := make([]float64, dim)
	for t := 0; t < T; t++ {
		for d := 0; d < dim; d++ {
			mean[d] += features[t][d]
		}
	}
	invT := 1.0 / float64(T)
	for d := 0; d < dim; d++ {
		mean[d] *= invT
	}
	for t := 0; t < T; t++ {
		for d := 0; d < dim; d++ {
			features[t][d] -= mean[d]
		}
	}
}

// ApplyCMVN normalises every dimension in-place to zero mean and unit
// variance across all frames.
func ApplyCMVN(features [][]float64) {
	T := len(features)
	if T == 0 {
		return
	}
	ApplyCMN(features)
	dim := len(features[0])
	for d := 0; d < dim; d++ {
		varSum := 0.0
		for t := 0; t < T; t++ {
			varSum += features[t][d] * features[t][d]
		}
		std := math.Sqrt(varSum / float64(T))
		if std < cmvnFloor {
			continue
		}
		for t := 0; t < T; t++ {
			features[t][d] /= std
		}
	}
}
