package commands

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ieee0824/recite-go/config"
	"github.com/ieee0824/recite-go/hmm"
)

var (
	decodeModel  string
	decodeObs    string
	decodeExpect string
)

var decodeCmd = &cobra.Command{
	Use:   "decode [recording]",
	Short: "Decode observations with a discrete HMM",
	Long: `Find the most probable state path for an observation sequence.

Observations are given with --obs as comma-separated symbols, or derived
from a recording (WAV or feature file) using the codebook stored in the
model file.

Model file format (YAML):
  transition: [[0.7, 0.3], [0.4, 0.6]]
  emission:   [[0.9, 0.1], [0.2, 0.8]]
  initial:    [0.6, 0.4]
  codebook:   [[...], [...]]   # optional, one centroid per symbol

Examples:
  recite decode --model model.yaml --obs 0,1,1,0
  recite decode --model model.yaml attempt.wav --json
  recite decode --model model.yaml attempt.wav --expect 0,1,2,3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVarP(&decodeModel, "model", "m", "", "HMM model file (YAML)")
	decodeCmd.Flags().StringVar(&decodeObs, "obs", "", "comma-separated observation symbols")
	decodeCmd.Flags().StringVar(&decodeExpect, "expect", "", "expected state order, compared against the decoded segments")
}

// decodeReport is the JSON form of a decode. Log probabilities are null
// when the observations are impossible under the model.
type decodeReport struct {
	Observations  []int         `json:"observations"`
	Path          []int         `json:"path"`
	LogProb       *float64      `json:"log_prob"`
	LogLikelihood *float64      `json:"log_likelihood"`
	Segments      []hmm.Segment `json:"segments"`
	EditDistance  *int          `json:"edit_distance,omitempty"`
	StepLogProbs  []float64     `json:"step_log_probs,omitempty"`
}

func parseObs(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	obs := make([]int, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid observation %q: %w", f, err)
		}
		obs = append(obs, v)
	}
	return obs, nil
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func runDecode(cmd *cobra.Command, args []string) error {
	if decodeModel == "" {
		return fmt.Errorf("--model is required")
	}
	if (decodeObs == "") == (len(args) == 0) {
		return fmt.Errorf("give either --obs or a recording")
	}
	mf, err := config.LoadModel(decodeModel)
	if err != nil {
		return err
	}
	m, err := mf.Model()
	if err != nil {
		return err
	}
	s, err := newScorer()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var obs []int
	if decodeObs != "" {
		if obs, err = parseObs(decodeObs); err != nil {
			return err
		}
	} else {
		cb, err := mf.Quantizer()
		if err != nil {
			return err
		}
		if cb == nil {
			return fmt.Errorf("%s has no codebook; use --obs", decodeModel)
		}
		seq, err := loadSequence(ctx, s, args[0])
		if err != nil {
			return err
		}
		obs = s.Quantize(cb, seq)
	}
	res, err := s.Decode(ctx, m, obs)
	if err != nil {
		return err
	}
	ll, err := s.Likelihood(ctx, m, obs)
	if err != nil {
		return err
	}

	var expect []int
	var dist int
	if decodeExpect != "" {
		if expect, err = parseObs(decodeExpect); err != nil {
			return fmt.Errorf("--expect: %w", err)
		}
		dist = hmm.EditDistance(expect, hmm.StateOrder(res.Path))
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		report := decodeReport{
			Observations:  obs,
			Path:          res.Path,
			LogProb:       finite(res.LogProb),
			LogLikelihood: finite(ll),
			Segments:      hmm.Segments(res.Path),
		}
		if expect != nil {
			report.EditDistance = &dist
		}
		if verbose {
			report.StepLogProbs = make([]float64, 0, len(res.StepLogProbs))
			for _, p := range res.StepLogProbs {
				if math.IsInf(p, 0) {
					break
				}
				report.StepLogProbs = append(report.StepLogProbs, p)
			}
		}
		return printJSON(out, report)
	}
	fmt.Fprintf(out, "Path:           %v\n", res.Path)
	fmt.Fprintf(out, "Log prob:       %.6f\n", res.LogProb)
	fmt.Fprintf(out, "Log likelihood: %.6f\n", ll)
	fmt.Fprintf(out, "State order:    %v\n", hmm.StateOrder(res.Path))
	if expect != nil {
		fmt.Fprintf(out, "Edit distance:  %d (expected %v)\n", dist, expect)
	}
	if verbose {
		for t, p := range res.StepLogProbs {
			fmt.Fprintf(out, "  t=%d\tobs=%d\tstate=%d\t%.6f\n", t, obs[t], res.Path[t], p)
		}
	}
	return nil
}
