package feature

import (
	"context"
	"fmt"
)

// Config holds all feature extraction parameters.
type Config struct {
	SampleRate      int
	FrameSize       int // samples per frame
	HopSize         int // samples between frame starts
	NumCoefficients int // MFCCs kept per frame
	NumFilters      int // triangular mel filters
	Window          WindowType
	PreEmphasis     float64 // 0 disables pre-emphasis
	RolloffFraction float64
}

// DefaultConfig returns the standard extraction configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:      44100,
		FrameSize:       2048,
		HopSize:         512,
		NumCoefficients: 13,
		NumFilters:      26,
		Window:          WindowHann,
		PreEmphasis:     0,
		RolloffFraction: DefaultRolloffFraction,
	}
}

// Validate reports the first invalid parameter as an ErrInvalidConfig.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d must be positive", ErrInvalidConfig, c.SampleRate)
	}
	if err := checkFraming(c.FrameSize, c.HopSize); err != nil {
		return err
	}
	if c.FrameSize < 2 {
		return fmt.Errorf("%w: frame size %d too small for a spectrum", ErrInvalidConfig, c.FrameSize)
	}
	if c.NumFilters <= 0 {
		return fmt.Errorf("%w: mel filter count %d must be positive", ErrInvalidConfig, c.NumFilters)
	}
	if c.NumCoefficients <= 0 || c.NumCoefficients > c.NumFilters {
		return fmt.Errorf("%w: coefficient count %d must be in [1, %d]", ErrInvalidConfig, c.NumCoefficients, c.NumFilters)
	}
	if c.PreEmphasis < 0 || c.PreEmphasis >= 1 {
		return fmt.Errorf("%w: pre-emphasis %g must be in [0, 1)", ErrInvalidConfig, c.PreEmphasis)
	}
	if c.RolloffFraction <= 0 || c.RolloffFraction > 1 {
		return fmt.Errorf("%w: rolloff fraction %g must be in (0, 1]", ErrInvalidConfig, c.RolloffFraction)
	}
	if _, err := Window(c.Window, 1); err != nil {
		return err
	}
	return nil
}

// Dim returns the flattened feature vector dimension.
func (c Config) Dim() int {
	return c.NumCoefficients + NumScalars
}

// HopSeconds returns the time between consecutive frames.
func (c Config) HopSeconds() float64 {
	return float64(c.HopSize) / float64(c.SampleRate)
}

// Extractor computes feature vectors for a fixed Config. The window, filter
// bank and DCT table are built once and only read afterwards, so one
// Extractor may serve concurrent callers.
type Extractor struct {
	cfg    Config
	window []float64
	melFB  *MelFilterbank
	dct    *dctTable
}

// NewExtractor validates cfg and precomputes the tables it needs.
func NewExtractor(cfg Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, err := Window(cfg.Window, cfg.FrameSize)
	if err != nil {
		return nil, err
	}
	return &Extractor{
		cfg:    cfg,
		window: w,
		melFB:  NewMelFilterbank(cfg.NumFilters, cfg.FrameSize, float64(cfg.SampleRate)),
		dct:    newDCTTable(cfg.NumCoefficients, cfg.NumFilters),
	}, nil
}

// Config returns the configuration the extractor was built with.
func (e *Extractor) Config() Config {
	return e.cfg
}

// Extract computes one vector per frame of samples.
func (e *Extractor) Extract(samples []float64) (Sequence, error) {
	return e.ExtractContext(context.Background(), samples)
}

// ExtractContext is Extract with cancellation checked between frames.
func (e *Extractor) ExtractContext(ctx context.Context, samples []float64) (Sequence, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySamples
	}
	if len(samples) < e.cfg.FrameSize {
		return nil, fmt.Errorf("%w: %d samples, frame size %d", ErrTooShort, len(samples), e.cfg.FrameSize)
	}
	if e.cfg.PreEmphasis > 0 {
		samples = PreEmphasize(samples, e.cfg.PreEmphasis)
	}

	n := NumFrames(len(samples), e.cfg.FrameSize, e.cfg.HopSize)
	seq := make(Sequence, n)
	s := e.newScratch()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := i * e.cfg.HopSize
		seq[i] = e.compute(s, samples[start:start+e.cfg.FrameSize], i)
	}
	return seq, nil
}

// Compute returns the vector for a single frame of FrameSize raw samples
// whose hop index is index. Pre-emphasis, if configured, must already have
// been applied by the caller.
func (e *Extractor) Compute(raw []float64, index int) Vector {
	return e.compute(e.newScratch(), raw, index)
}

// MFCC returns the cepstral coefficients of an already windowed frame.
func (e *Extractor) MFCC(windowed []float64) []float64 {
	s := e.newScratch()
	copy(s.windowed, windowed)
	s.fft.computeMagnitude(s.windowed)
	return e.mfcc(s, s.fft.mag)
}

// scratch holds per-call buffers so the Extractor itself stays read-only.
type scratch struct {
	windowed []float64
	fft      *fftWorkspace
	mel      []float64
}

func (e *Extractor) newScratch() *scratch {
	return &scratch{
		windowed: make([]float64, e.cfg.FrameSize),
		fft:      newFFTWorkspace(e.cfg.FrameSize),
		mel:      make([]float64, e.cfg.NumFilters),
	}
}

func (e *Extractor) compute(s *scratch, raw []float64, index int) Vector {
	sr := float64(e.cfg.SampleRate)
	applyWindow(s.windowed, raw, e.window)
	s.fft.computeMagnitude(s.windowed)
	spectrum := s.fft.mag

	return Vector{
		MFCC:             e.mfcc(s, spectrum),
		Energy:           Energy(raw),
		ZeroCrossingRate: ZeroCrossingRate(raw),
		SpectralCentroid: SpectralCentroid(spectrum, sr),
		SpectralRolloff:  SpectralRolloff(spectrum, sr, e.cfg.RolloffFraction),
		Pitch:            Pitch(raw, sr),
		Timestamp:        float64(index) * e.cfg.HopSeconds(),
	}
}

func (e *Extractor) mfcc(s *scratch, spectrum []float64) []float64 {
	e.melFB.applyInto(spectrum, s.mel)
	out := make([]float64, e.cfg.NumCoefficients)
	e.dct.applyInto(s.mel, out)
	return out
}

// Extract computes the feature sequence of samples with a one-off Extractor.
func Extract(samples []float64, cfg Config) (Sequence, error) {
	e, err := NewExtractor(cfg)
	if err != nil {
		return nil, err
	}
	return e.Extract(samples)
}
