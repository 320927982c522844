package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	recite "github.com/ieee0824/recite-go"
	"github.com/ieee0824/recite-go/audio"
	"github.com/ieee0824/recite-go/feature"
)

// featureFile is the on-disk form of an extracted sequence.
type featureFile struct {
	SampleRate int              `json:"sample_rate" msgpack:"sample_rate"`
	FrameSize  int              `json:"frame_size" msgpack:"frame_size"`
	HopSize    int              `json:"hop_size" msgpack:"hop_size"`
	Vectors    feature.Sequence `json:"vectors" msgpack:"vectors"`
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func isWAVPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

func encodeFeatures(w io.Writer, ff *featureFile, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ff)
	}
	return msgpack.NewEncoder(w).Encode(ff)
}

func decodeFeatures(r io.Reader, asJSON bool) (*featureFile, error) {
	var ff featureFile
	var err error
	if asJSON {
		err = json.NewDecoder(r).Decode(&ff)
	} else {
		err = msgpack.NewDecoder(r).Decode(&ff)
	}
	if err != nil {
		return nil, err
	}
	return &ff, nil
}

func writeFeatureFile(path string, ff *featureFile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encodeFeatures(f, ff, isJSONPath(path)); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func readFeatureFile(path string) (*featureFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	ff, err := decodeFeatures(f, isJSONPath(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ff, nil
}

// checkFeatureFile warns when ff was extracted with settings that differ
// from fc. It reports whether the file matches.
func checkFeatureFile(path string, ff *featureFile, fc feature.Config) bool {
	ok := true
	if ff.SampleRate != fc.SampleRate || ff.FrameSize != fc.FrameSize || ff.HopSize != fc.HopSize {
		slog.Warn("feature file was extracted with different settings",
			"file", path,
			"sample_rate", ff.SampleRate, "frame_size", ff.FrameSize, "hop_size", ff.HopSize,
			"want_sample_rate", fc.SampleRate, "want_frame_size", fc.FrameSize, "want_hop_size", fc.HopSize)
		ok = false
	}
	if dim := ff.Vectors.Dim(); dim != 0 && dim != fc.Dim() {
		slog.Warn("feature file vectors have a different width; alignment will be incomparable",
			"file", path, "dim", dim, "want_dim", fc.Dim())
		ok = false
	}
	return ok
}

// loadAudio reads a WAV file and resamples it to sampleRate when needed.
func loadAudio(path string, sampleRate int) ([]float64, error) {
	samples, hdr, err := audio.ReadWAVFile(path)
	if err != nil {
		return nil, fmt.Errorf("read WAV: %w", err)
	}
	if int(hdr.SampleRate) != sampleRate {
		slog.Debug("resampling", "file", path, "from", hdr.SampleRate, "to", sampleRate)
		samples, err = audio.Resample(samples, int(hdr.SampleRate), sampleRate)
		if err != nil {
			return nil, err
		}
	}
	return samples, nil
}

// loadSequence returns the features of a WAV file or a saved feature file.
func loadSequence(ctx context.Context, s *recite.Scorer, path string) (feature.Sequence, error) {
	if !isWAVPath(path) {
		ff, err := readFeatureFile(path)
		if err != nil {
			return nil, err
		}
		checkFeatureFile(path, ff, s.FeatureConfig())
		return ff.Vectors, nil
	}
	samples, err := loadAudio(path, s.FeatureConfig().SampleRate)
	if err != nil {
		return nil, err
	}
	return s.ExtractFeatures(ctx, samples)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
