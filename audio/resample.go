package audio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts mono samples from one sample rate to another with a
// high-quality polyphase resampler. Equal rates return a copy.
func Resample(samples []float64, from, to int) ([]float64, error) {
	if from <= 0 || to <= 0 {
		return nil, fmt.Errorf("%w: resample %d Hz -> %d Hz", ErrUnsupportedFormat, from, to)
	}
	if from == to || len(samples) == 0 {
		return append([]float64(nil), samples...), nil
	}
	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(from),
		OutputRate: float64(to),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}
	out, err := r.Process(samples)
	if err != nil {
		return nil, fmt.Errorf("resample %d Hz -> %d Hz: %w", from, to, err)
	}
	return out, nil
}
