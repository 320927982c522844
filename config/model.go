package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ieee0824/recite-go/hmm"
)

// ModelFile is the YAML form of a discrete HMM, optionally with the
// codebook that maps feature vectors to its symbols.
type ModelFile struct {
	Transition [][]float64 `yaml:"transition"`
	Emission   [][]float64 `yaml:"emission"`
	Initial    []float64   `yaml:"initial"`
	Codebook   [][]float64 `yaml:"codebook,omitempty"`
}

// LoadModel reads the model file at path.
func LoadModel(path string) (*ModelFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	mf, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mf, nil
}

// ParseModel decodes a model file and checks that it builds.
func ParseModel(data []byte) (*ModelFile, error) {
	var mf ModelFile
	if err := yaml.UnmarshalWithOptions(data, &mf, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if _, err := mf.Model(); err != nil {
		return nil, err
	}
	if _, err := mf.Quantizer(); err != nil {
		return nil, err
	}
	return &mf, nil
}

// Model builds the HMM.
func (f *ModelFile) Model() (*hmm.Model, error) {
	return hmm.NewModel(f.Transition, f.Emission, f.Initial)
}

// Quantizer builds the codebook, or returns nil when the file has none.
// The codebook must have one centroid per emission symbol.
func (f *ModelFile) Quantizer() (*hmm.Codebook, error) {
	if len(f.Codebook) == 0 {
		return nil, nil
	}
	if len(f.Emission) > 0 && len(f.Codebook) != len(f.Emission[0]) {
		return nil, fmt.Errorf("%w: %d centroids for %d symbols", hmm.ErrInvalidCodebook, len(f.Codebook), len(f.Emission[0]))
	}
	return hmm.NewCodebook(f.Codebook)
}

// Marshal encodes f as YAML.
func (f *ModelFile) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}
