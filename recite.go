// Package recite scores recitations by comparing acoustic feature
// sequences. It ties together the feature front-end, dynamic time warping
// and HMM decoding behind a single Engine interface.
package recite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ieee0824/recite-go/dtw"
	"github.com/ieee0824/recite-go/feature"
	"github.com/ieee0824/recite-go/hmm"
	"github.com/ieee0824/recite-go/stream"
)

// Engine is the analysis surface shared by every scoring backend.
type Engine interface {
	ExtractFeatures(ctx context.Context, samples []float64) (feature.Sequence, error)
	Align(ctx context.Context, reference, attempt feature.Sequence) (dtw.Result, error)
	Decode(ctx context.Context, m *hmm.Model, obs []int) (hmm.ViterbiResult, error)
	Likelihood(ctx context.Context, m *hmm.Model, obs []int) (float64, error)
}

// Scorer is the canonical Engine implementation. It is immutable after New
// and safe for concurrent use.
type Scorer struct {
	featCfg  feature.Config
	alignOpt dtw.Options
	matrix   feature.MatrixOptions
	log      *slog.Logger
	ext      *feature.Extractor
}

var _ Engine = (*Scorer)(nil)

// Option configures a Scorer.
type Option func(*Scorer)

// WithFeatureConfig sets the front-end parameters.
func WithFeatureConfig(cfg feature.Config) Option {
	return func(s *Scorer) {
		s.featCfg = cfg
	}
}

// WithAlignOptions sets the DTW metric and band.
func WithAlignOptions(opts dtw.Options) Option {
	return func(s *Scorer) {
		s.alignOpt = opts
	}
}

// WithMatrixOptions selects which feature columns are aligned and how they
// are normalized.
func WithMatrixOptions(opts feature.MatrixOptions) Option {
	return func(s *Scorer) {
		s.matrix = opts
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a Scorer. Defaults are feature.DefaultConfig,
// dtw.DefaultOptions and the full vector layout without normalization.
func New(opts ...Option) (*Scorer, error) {
	s := &Scorer{
		featCfg:  feature.DefaultConfig(),
		alignOpt: dtw.DefaultOptions(),
		matrix:   feature.MatrixOptions{Layout: feature.LayoutFull},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := dtw.ParseMetric(string(s.alignOpt.Metric)); err != nil {
		return nil, err
	}
	if _, err := feature.ParseLayout(string(s.matrix.Layout)); err != nil {
		return nil, err
	}
	ext, err := feature.NewExtractor(s.featCfg)
	if err != nil {
		return nil, fmt.Errorf("create extractor: %w", err)
	}
	s.ext = ext
	return s, nil
}

// FeatureConfig returns the front-end configuration in use.
func (s *Scorer) FeatureConfig() feature.Config {
	return s.featCfg
}

// ExtractFeatures converts PCM samples into a feature sequence.
func (s *Scorer) ExtractFeatures(ctx context.Context, samples []float64) (feature.Sequence, error) {
	seq, err := s.ext.ExtractContext(ctx, samples)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}
	s.log.Debug("features extracted", "samples", len(samples), "frames", len(seq))
	return seq, nil
}

// Align aligns two feature sequences. An incomparable pair yields a +Inf
// distance and an empty path, not an error.
func (s *Scorer) Align(ctx context.Context, reference, attempt feature.Sequence) (dtw.Result, error) {
	a := reference.Matrix(s.matrix)
	b := attempt.Matrix(s.matrix)
	res, err := dtw.AlignContext(ctx, a, b, s.alignOpt)
	if err != nil {
		return dtw.Result{}, fmt.Errorf("align: %w", err)
	}
	s.log.Debug("sequences aligned",
		"reference", len(a), "attempt", len(b),
		"distance", res.Distance, "path", len(res.Path))
	return res, nil
}

// Decode returns the most probable state path for obs.
func (s *Scorer) Decode(ctx context.Context, m *hmm.Model, obs []int) (hmm.ViterbiResult, error) {
	res, err := hmm.ViterbiContext(ctx, m, obs)
	if err != nil {
		return hmm.ViterbiResult{}, fmt.Errorf("decode: %w", err)
	}
	s.log.Debug("observations decoded", "steps", len(obs), "logprob", res.LogProb)
	return res, nil
}

// Likelihood returns the total log-likelihood of obs under m.
func (s *Scorer) Likelihood(ctx context.Context, m *hmm.Model, obs []int) (float64, error) {
	res, err := hmm.ForwardContext(ctx, m, obs)
	if err != nil {
		return 0, fmt.Errorf("likelihood: %w", err)
	}
	return res.LogLikelihood, nil
}

// Compare extracts features from both recordings and aligns them.
func (s *Scorer) Compare(ctx context.Context, reference, attempt []float64) (dtw.Result, error) {
	ref, err := s.ExtractFeatures(ctx, reference)
	if err != nil {
		return dtw.Result{}, fmt.Errorf("reference: %w", err)
	}
	att, err := s.ExtractFeatures(ctx, attempt)
	if err != nil {
		return dtw.Result{}, fmt.Errorf("attempt: %w", err)
	}
	return s.Align(ctx, ref, att)
}

// Quantize maps seq to codebook symbols using the Scorer's matrix view.
func (s *Scorer) Quantize(cb *hmm.Codebook, seq feature.Sequence) []int {
	return cb.Quantize(seq.Matrix(s.matrix))
}

// DecodeSequence quantizes seq with cb and decodes the resulting symbols.
func (s *Scorer) DecodeSequence(ctx context.Context, m *hmm.Model, cb *hmm.Codebook, seq feature.Sequence) (hmm.ViterbiResult, error) {
	return s.Decode(ctx, m, s.Quantize(cb, seq))
}

// NewStream starts a live session that shares the Scorer's extractor.
func (s *Scorer) NewStream(opts ...stream.Option) *stream.Coordinator {
	opts = append([]stream.Option{stream.WithLogger(s.log)}, opts...)
	return stream.NewCoordinator(s.ext, opts...)
}
