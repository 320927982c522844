package audio

// Stretch changes the tempo of samples by factor using linear
// interpolation. A factor > 1.0 makes the audio faster (shorter, higher
// pitch); a factor < 1.0 makes it slower (longer, lower pitch). The sample
// rate is unchanged and the result has length int(len(samples) / factor).
func Stretch(samples []float64, factor float64) []float64 {
	if len(samples) == 0 || factor <= 0 {
		return nil
	}

	origLen := len(samples)
	newLen := int(float64(origLen) / factor)
	if newLen == 0 {
		return nil
	}

	result := make([]float64, newLen)
	for i := 0; i < newLen; i++ {
		srcIdx := float64(i) * factor
		idx0 := int(srcIdx)
		frac := srcIdx - float64(idx0)

		if idx0+1 < origLen {
			result[i] = samples[idx0]*(1.0-frac) + samples[idx0+1]*frac
		} else if idx0 < origLen {
			result[i] = samples[idx0]
		}
	}

	return result
}
