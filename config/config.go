// Package config loads engine settings and HMM model files from YAML.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ieee0824/recite-go/dtw"
	"github.com/ieee0824/recite-go/feature"
)

// Config is the on-disk engine configuration.
type Config struct {
	Processing Processing `yaml:"processing"`
	Alignment  Alignment  `yaml:"alignment"`
}

// Processing holds the feature front-end parameters.
type Processing struct {
	SampleRate       int     `yaml:"sample_rate"`
	FrameSize        int     `yaml:"frame_size"`
	HopSize          int     `yaml:"hop_size"`
	MFCCCoefficients int     `yaml:"mfcc_coefficients"`
	MelFilters       int     `yaml:"mel_filters"`
	WindowType       string  `yaml:"window_type"`
	PreEmphasis      float64 `yaml:"pre_emphasis"`
	RolloffFraction  float64 `yaml:"rolloff_fraction"`
}

// Alignment holds the DTW parameters and the matrix view used for
// alignment. A negative bandwidth disables the band.
type Alignment struct {
	DistanceMetric string `yaml:"distance_metric"`
	Bandwidth      int    `yaml:"bandwidth"`
	Layout         string `yaml:"layout"`
	Normalize      bool   `yaml:"normalize"`
	Deltas         bool   `yaml:"deltas"`
}

// Default returns the configuration matching feature.DefaultConfig and
// dtw.DefaultOptions.
func Default() *Config {
	fc := feature.DefaultConfig()
	return &Config{
		Processing: Processing{
			SampleRate:       fc.SampleRate,
			FrameSize:        fc.FrameSize,
			HopSize:          fc.HopSize,
			MFCCCoefficients: fc.NumCoefficients,
			MelFilters:       fc.NumFilters,
			WindowType:       string(fc.Window),
			PreEmphasis:      fc.PreEmphasis,
			RolloffFraction:  fc.RolloffFraction,
		},
		Alignment: Alignment{
			DistanceMetric: string(dtw.Euclidean),
			Bandwidth:      dtw.Unbanded,
			Layout:         string(feature.LayoutFull),
		},
	}
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every section.
func (c *Config) Validate() error {
	fc, err := c.FeatureConfig()
	if err != nil {
		return err
	}
	if err := fc.Validate(); err != nil {
		return fmt.Errorf("processing: %w", err)
	}
	if _, err := c.AlignOptions(); err != nil {
		return err
	}
	if _, err := c.MatrixOptions(); err != nil {
		return err
	}
	return nil
}

// FeatureConfig converts the processing section. It does not range-check
// the values; feature.NewExtractor does.
func (c *Config) FeatureConfig() (feature.Config, error) {
	p := c.Processing
	w, err := feature.ParseWindowType(p.WindowType)
	if err != nil {
		return feature.Config{}, fmt.Errorf("processing: %w", err)
	}
	return feature.Config{
		SampleRate:      p.SampleRate,
		FrameSize:       p.FrameSize,
		HopSize:         p.HopSize,
		NumCoefficients: p.MFCCCoefficients,
		NumFilters:      p.MelFilters,
		Window:          w,
		PreEmphasis:     p.PreEmphasis,
		RolloffFraction: p.RolloffFraction,
	}, nil
}

// AlignOptions converts the alignment section into DTW options.
func (c *Config) AlignOptions() (dtw.Options, error) {
	m, err := dtw.ParseMetric(c.Alignment.DistanceMetric)
	if err != nil {
		return dtw.Options{}, fmt.Errorf("alignment: %w", err)
	}
	bw := c.Alignment.Bandwidth
	if bw < 0 {
		bw = dtw.Unbanded
	}
	return dtw.Options{Metric: m, Bandwidth: bw}, nil
}

// MatrixOptions converts the alignment section into a matrix view.
func (c *Config) MatrixOptions() (feature.MatrixOptions, error) {
	l, err := feature.ParseLayout(c.Alignment.Layout)
	if err != nil {
		return feature.MatrixOptions{}, fmt.Errorf("alignment: %w", err)
	}
	return feature.MatrixOptions{
		Layout:    l,
		Normalize: c.Alignment.Normalize,
		Deltas:    c.Alignment.Deltas,
	}, nil
}
