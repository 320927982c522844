package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var featuresOutput string

var featuresCmd = &cobra.Command{
	Use:   "features <wav>",
	Short: "Extract a feature sequence from a WAV file",
	Long: `Extract one feature vector per frame from a WAV file.

The audio is downmixed to mono and resampled to the configured sample rate.
With -o the sequence is saved as MessagePack, or as JSON when the output
path ends in .json. Without -o a per-frame summary is printed.

Examples:
  recite features reference.wav -o reference.msgpack
  recite features attempt.wav --json`,
	Args: cobra.ExactArgs(1),
	RunE: runFeatures,
}

func init() {
	featuresCmd.Flags().StringVarP(&featuresOutput, "output", "o", "", "write the sequence to a file (.msgpack or .json)")
}

func runFeatures(cmd *cobra.Command, args []string) error {
	s, err := newScorer()
	if err != nil {
		return err
	}
	fc := s.FeatureConfig()
	samples, err := loadAudio(args[0], fc.SampleRate)
	if err != nil {
		return err
	}
	seq, err := s.ExtractFeatures(cmd.Context(), samples)
	if err != nil {
		return err
	}
	ff := &featureFile{
		SampleRate: fc.SampleRate,
		FrameSize:  fc.FrameSize,
		HopSize:    fc.HopSize,
		Vectors:    seq,
	}

	out := cmd.OutOrStdout()
	switch {
	case featuresOutput != "":
		if err := writeFeatureFile(featuresOutput, ff); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d frames (dim %d) to %s\n", len(seq), seq.Dim(), featuresOutput)
	case outputJSON:
		return encodeFeatures(out, ff, true)
	default:
		fmt.Fprintf(out, "%-8s %-8s %-8s %-10s %-10s %-8s\n", "TIME", "ENERGY", "ZCR", "CENTROID", "ROLLOFF", "PITCH")
		for _, v := range seq {
			fmt.Fprintf(out, "%-8.3f %-8.4f %-8.4f %-10.1f %-10.1f %-8.1f\n",
				v.Timestamp, v.Energy, v.ZeroCrossingRate, v.SpectralCentroid, v.SpectralRolloff, v.Pitch)
		}
	}
	return nil
}
