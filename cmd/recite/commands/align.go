package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ieee0824/recite-go/dtw"
)

var alignShowPath bool

var alignCmd = &cobra.Command{
	Use:   "align <reference> <attempt>",
	Short: "Align two recordings with dynamic time warping",
	Long: `Align two recordings and report the DTW distance.

Each argument is a WAV file or a feature file written by 'recite features'.
Metric, band and feature view come from the alignment section of the
config file.

Examples:
  recite align reference.msgpack attempt.wav
  recite --config strict.yaml align a.wav b.wav --path --json`,
	Args: cobra.ExactArgs(2),
	RunE: runAlign,
}

func init() {
	alignCmd.Flags().BoolVar(&alignShowPath, "path", false, "include the warping path")
}

// alignReport is the JSON form of an alignment. Distances are null when the
// sequences cannot be compared.
type alignReport struct {
	Reference  int         `json:"reference_frames"`
	Attempt    int         `json:"attempt_frames"`
	Distance   *float64    `json:"distance"`
	Normalized *float64    `json:"normalized"`
	PathLength int         `json:"path_length"`
	Path       []dtw.Coord `json:"path,omitempty"`
}

func runAlign(cmd *cobra.Command, args []string) error {
	s, err := newScorer()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	ref, err := loadSequence(ctx, s, args[0])
	if err != nil {
		return err
	}
	att, err := loadSequence(ctx, s, args[1])
	if err != nil {
		return err
	}
	res, err := s.Align(ctx, ref, att)
	if err != nil {
		return err
	}

	report := alignReport{
		Reference:  len(ref),
		Attempt:    len(att),
		PathLength: len(res.Path),
	}
	if res.Comparable() {
		d, n := res.Distance, res.Normalized()
		report.Distance, report.Normalized = &d, &n
	}
	if alignShowPath {
		report.Path = res.Path
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		return printJSON(out, report)
	}
	fmt.Fprintf(out, "Frames:     %d x %d\n", report.Reference, report.Attempt)
	if !res.Comparable() {
		fmt.Fprintln(out, "Distance:   incomparable")
		return nil
	}
	fmt.Fprintf(out, "Distance:   %.4f\n", res.Distance)
	fmt.Fprintf(out, "Normalized: %.4f\n", res.Normalized())
	fmt.Fprintf(out, "Path:       %d steps\n", len(res.Path))
	if alignShowPath {
		for _, c := range res.Path {
			fmt.Fprintf(out, "  %d\t%d\n", c.I, c.J)
		}
	}
	return nil
}
