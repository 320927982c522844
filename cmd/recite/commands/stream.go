package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ieee0824/recite-go/feature"
)

var streamChunk int

var streamCmd = &cobra.Command{
	Use:   "stream <wav>",
	Short: "Feed a WAV file through the streaming coordinator",
	Long: `Push a WAV file to the streaming coordinator in fixed-size chunks, as a
live capture would, and print each vector as soon as it is emitted.

With --json every vector is written as one JSON object per line.

Examples:
  recite stream attempt.wav --chunk 441
  recite stream attempt.wav --json | jq .pitch`,
	Args: cobra.ExactArgs(1),
	RunE: runStream,
}

func init() {
	streamCmd.Flags().IntVar(&streamChunk, "chunk", 1024, "samples per push")
}

func runStream(cmd *cobra.Command, args []string) error {
	if streamChunk <= 0 {
		return fmt.Errorf("--chunk must be positive, got %d", streamChunk)
	}
	s, err := newScorer()
	if err != nil {
		return err
	}
	samples, err := loadAudio(args[0], s.FeatureConfig().SampleRate)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	emit := func(v feature.Vector) {
		if outputJSON {
			if err := enc.Encode(v); err != nil {
				slog.Error("encode vector", "error", err)
			}
			return
		}
		fmt.Fprintf(out, "%8.3f  energy=%.4f  zcr=%.4f  centroid=%.1f  pitch=%.1f\n",
			v.Timestamp, v.Energy, v.ZeroCrossingRate, v.SpectralCentroid, v.Pitch)
	}

	c := s.NewStream()
	ctx := cmd.Context()
	for start := 0; start < len(samples); start += streamChunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, v := range c.Push(samples[start:min(start+streamChunk, len(samples))]) {
			emit(v)
		}
	}

	st := c.Stats()
	slog.Info("stream finished",
		"session", c.ID(),
		"samples", st.Samples,
		"frames", st.Frames,
		"overruns", st.Overruns,
		"max_compute", st.MaxCompute)
	return nil
}
