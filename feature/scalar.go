package feature

import "math"

// Pitch search range in Hz.
const (
	PitchMinHz = 80.0
	PitchMaxHz = 800.0
)

// DefaultRolloffFraction is the share of spectral energy below the rolloff frequency.
const DefaultRolloffFraction = 0.85

// Energy returns the root-mean-square amplitude of frame.
func Energy(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range frame {
		sum += x * x
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// ZeroCrossingRate returns the fraction of adjacent sample pairs whose signs
// differ. Zero counts as positive.
func ZeroCrossingRate(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i] >= 0) != (frame[i-1] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame))
}

// binFrequency maps bin i of an n-bin half spectrum to Hz.
func binFrequency(i, n int, sampleRate float64) float64 {
	return float64(i) * sampleRate / (2.0 * float64(n))
}

// SpectralCentroid returns the magnitude-weighted mean frequency of spectrum,
// or 0 when the spectrum carries no magnitude.
func SpectralCentroid(spectrum []float64, sampleRate float64) float64 {
	var weighted, total float64
	for i, m := range spectrum {
		weighted += binFrequency(i, len(spectrum), sampleRate) * m
		total += m
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// SpectralRolloff returns the lowest bin frequency at which the cumulative
// energy (squared magnitude) reaches fraction of the total. It returns 0 for
// a silent spectrum and the Nyquist frequency if the threshold is never met.
func SpectralRolloff(spectrum []float64, sampleRate, fraction float64) float64 {
	total := 0.0
	for _, m := range spectrum {
		total += m * m
	}
	if total == 0 {
		return 0
	}
	threshold := fraction * total
	cum := 0.0
	for i, m := range spectrum {
		cum += m * m
		if cum >= threshold {
			return binFrequency(i, len(spectrum), sampleRate)
		}
	}
	return sampleRate / 2.0
}

// Pitch estimates the fundamental frequency of frame by autocorrelation
// over lags covering PitchMinHz..PitchMaxHz. It returns 0 when no lag has a
// positive correlation.
func Pitch(frame []float64, sampleRate float64) float64 {
	minLag := int(sampleRate / PitchMaxHz)
	maxLag := int(sampleRate / PitchMinHz)
	if minLag < 1 {
		minLag = 1
	}

	bestLag := 0
	best := 0.0
	for lag := minLag; lag <= maxLag && lag < len(frame); lag++ {
		corr := 0.0
		for i := 0; i+lag < len(frame); i++ {
			corr += frame[i] * frame[i+lag]
		}
		if corr > best {
			best = corr
			bestLag = lag
		}
	}
	if bestLag == 0 {
		return 0
	}
	return sampleRate / float64(bestLag)
}
