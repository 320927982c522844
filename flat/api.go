package flat

import (
	"fmt"

	"github.com/ieee0824/recite-go/dtw"
	"github.com/ieee0824/recite-go/feature"
	"github.com/ieee0824/recite-go/hmm"
	"github.com/ieee0824/recite-go/internal/mathutil"
)

func unflatten(data []float64, rows, dim int) ([][]float64, error) {
	if rows < 0 || dim < 0 {
		return nil, fmt.Errorf("%w: rows %d, dim %d", ErrShortBuffer, rows, dim)
	}
	if rows == 0 {
		return nil, nil
	}
	// rows > len/dim rather than len < rows*dim: the product can overflow.
	if dim == 0 || rows > len(data)/dim {
		return nil, fmt.Errorf("%w: have %d, need %d×%d", ErrShortBuffer, len(data), rows, dim)
	}
	return mathutil.Unflatten(data, rows, dim), nil
}

// ProcessAudioFeatures extracts features from samples with a hop of half a
// frame and returns them row-major as [mfcc..., energy, zcr, centroid,
// rolloff, pitch] per frame.
func (a *Arena) ProcessAudioFeatures(samples []float64, sampleRate, frameSize int) (h Handle, rows, dim int, err error) {
	cfg := feature.DefaultConfig()
	cfg.SampleRate = sampleRate
	cfg.FrameSize = frameSize
	cfg.HopSize = frameSize / 2
	seq, err := feature.Extract(samples, cfg)
	if err != nil {
		return 0, 0, 0, err
	}
	out := make([]float64, 0, len(seq)*cfg.Dim())
	for _, v := range seq {
		out = append(out, v.Values()...)
	}
	return a.put(buffer{f64: out}), len(seq), cfg.Dim(), nil
}

// ExtractMFCC windows one raw frame and returns its numCoeffs cepstral
// coefficients.
func (a *Arena) ExtractMFCC(frame []float64, sampleRate, numCoeffs int) (Handle, error) {
	cfg := feature.DefaultConfig()
	cfg.SampleRate = sampleRate
	cfg.FrameSize = len(frame)
	cfg.HopSize = max(1, len(frame)/2)
	cfg.NumCoefficients = numCoeffs
	ext, err := feature.NewExtractor(cfg)
	if err != nil {
		return 0, err
	}
	return a.put(buffer{f64: ext.Compute(frame, 0).MFCC}), nil
}

// DTWDistance returns the unbanded Euclidean DTW distance between two
// row-major sequences, or +Inf when they differ in dimension or either is
// empty.
func DTWDistance(seq1 []float64, n1, d1 int, seq2 []float64, n2, d2 int) (float64, error) {
	res, err := align(seq1, n1, d1, seq2, n2, d2)
	return res.Distance, err
}

// NormalizedDTW is DTWDistance divided by the warping path length.
func NormalizedDTW(seq1 []float64, n1, d1 int, seq2 []float64, n2, d2 int) (float64, error) {
	res, err := align(seq1, n1, d1, seq2, n2, d2)
	return res.Normalized(), err
}

func align(seq1 []float64, n1, d1 int, seq2 []float64, n2, d2 int) (dtw.Result, error) {
	a, err := unflatten(seq1, n1, d1)
	if err != nil {
		return dtw.Result{}, err
	}
	b, err := unflatten(seq2, n2, d2)
	if err != nil {
		return dtw.Result{}, err
	}
	return dtw.Align(a, b, dtw.DefaultOptions()), nil
}

func model(trans, emis, init []float64, numStates, numSymbols int) (*hmm.Model, error) {
	a, err := unflatten(trans, numStates, numStates)
	if err != nil {
		return nil, err
	}
	b, err := unflatten(emis, numStates, numSymbols)
	if err != nil {
		return nil, err
	}
	if len(init) < numStates {
		return nil, fmt.Errorf("%w: have %d initial probabilities, need %d", ErrShortBuffer, len(init), numStates)
	}
	return hmm.NewModel(a, b, init[:numStates])
}

// ViterbiDecode builds a model from row-major transition
// [numStates×numStates] and emission [numStates×numSymbols] tables and
// returns a handle to the most likely state path with its log probability.
func (a *Arena) ViterbiDecode(obs []int, trans, emis, init []float64, numStates, numSymbols int) (Handle, float64, error) {
	m, err := model(trans, emis, init, numStates, numSymbols)
	if err != nil {
		return 0, 0, err
	}
	res := hmm.Viterbi(m, obs)
	path := res.Path
	if path == nil {
		path = []int{}
	}
	return a.put(buffer{ints: path}), res.LogProb, nil
}

// ForwardAlgorithm returns log P(obs | model) for a model given as flat tables.
func ForwardAlgorithm(obs []int, trans, emis, init []float64, numStates, numSymbols int) (float64, error) {
	m, err := model(trans, emis, init, numStates, numSymbols)
	if err != nil {
		return 0, err
	}
	return hmm.LogLikelihood(m, obs), nil
}
