package feature

import "fmt"

// NumScalars is the number of scalar features following the MFCC block in
// a flattened vector: energy, zero-crossing rate, centroid, rolloff, pitch.
const NumScalars = 5

// Vector is the feature set computed for one frame.
type Vector struct {
	MFCC             []float64 `json:"mfcc" msgpack:"mfcc"`
	Energy           float64   `json:"energy" msgpack:"energy"`
	ZeroCrossingRate float64   `json:"zero_crossing_rate" msgpack:"zcr"`
	SpectralCentroid float64   `json:"spectral_centroid" msgpack:"centroid"`
	SpectralRolloff  float64   `json:"spectral_rolloff" msgpack:"rolloff"`
	Pitch            float64   `json:"pitch" msgpack:"pitch"`
	Timestamp        float64   `json:"timestamp" msgpack:"ts"`
}

// Values flattens v as [mfcc..., energy, zcr, centroid, rolloff, pitch].
func (v Vector) Values() []float64 {
	out := make([]float64, 0, len(v.MFCC)+NumScalars)
	return v.appendValues(out)
}

func (v Vector) appendValues(dst []float64) []float64 {
	dst = append(dst, v.MFCC...)
	return append(dst, v.Energy, v.ZeroCrossingRate, v.SpectralCentroid, v.SpectralRolloff, v.Pitch)
}

// Sequence is the ordered list of vectors extracted from one recording.
type Sequence []Vector

// Layout selects which columns a matrix view carries.
type Layout string

const (
	// LayoutFull uses every feature: MFCCs followed by the scalar features.
	LayoutFull Layout = "full"
	// LayoutMFCC uses the cepstral coefficients only.
	LayoutMFCC Layout = "mfcc"
)

// ParseLayout converts a configuration string into a Layout.
// The empty string maps to LayoutFull.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case "":
		return LayoutFull, nil
	case LayoutFull, LayoutMFCC:
		return Layout(s), nil
	}
	return "", fmt.Errorf("%w: unknown layout %q", ErrInvalidConfig, s)
}

// MatrixOptions controls how a Sequence is turned into an alignment matrix.
type MatrixOptions struct {
	Layout    Layout
	Normalize bool // per-dimension mean/variance normalisation
	Deltas    bool // append delta and delta-delta columns
}

// Dim returns the width of a flattened vector, or 0 for an empty sequence.
func (s Sequence) Dim() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0].MFCC) + NumScalars
}

// Matrix returns a [len(s)][dim] view of the sequence. Rows are freshly
// allocated; s is not modified.
func (s Sequence) Matrix(opts MatrixOptions) [][]float64 {
	if len(s) == 0 {
		return nil
	}
	dim := len(s[0].MFCC)
	if opts.Layout != LayoutMFCC {
		dim += NumScalars
	}
	out := make([][]float64, len(s))
	buf := make([]float64, 0, len(s)*dim)
	for t, v := range s {
		start := len(buf)
		if opts.Layout == LayoutMFCC {
			buf = append(buf, v.MFCC...)
		} else {
			buf = v.appendValues(buf)
		}
		out[t] = buf[start:len(buf):len(buf)]
	}
	if opts.Normalize {
		ApplyCMVN(out)
	}
	if opts.Deltas {
		out = AppendDeltas(out)
	}
	return out
}

// Timestamps returns the start time of every vector in seconds.
func (s Sequence) Timestamps() []float64 {
	ts := make([]float64, len(s))
	for i, v := range s {
		ts[i] = v.Timestamp
	}
	return ts
}
