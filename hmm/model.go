// Package hmm decodes discrete observation sequences against a
// hidden Markov model in the natural-log domain.
//
// Probabilities are converted once, at model construction, with a floored
// log: log(max(p, ProbFloor)). Symbols outside [0, NumSymbols) are
// impossible and contribute exactly -Inf.
package hmm

import (
	"errors"
	"fmt"
	"math"

	"github.com/ieee0824/recite-go/internal/mathutil"
)

const (
	// ProbFloor is the smallest probability admitted into the log tables.
	ProbFloor = 1e-300

	// Tolerance is the allowed deviation of a stochastic row sum from 1.
	Tolerance = 1e-6
)

// ErrInvalidModel is returned by NewModel for malformed parameters.
var ErrInvalidModel = errors.New("hmm: invalid model")

// Model is a discrete-emission HMM. It is immutable once built and may be
// shared by concurrent decodes; callers must not modify the exported
// slices.
type Model struct {
	NumStates  int
	NumSymbols int
	Transition [][]float64 // [NumStates][NumStates], rows sum to 1
	Emission   [][]float64 // [NumStates][NumSymbols], rows sum to 1
	Initial    []float64   // [NumStates], sums to 1

	logA  mathutil.Mat // floored log transition
	logB  mathutil.Mat // floored log emission
	logPi mathutil.Vec // floored log initial
}

// NewModel validates and copies the parameters and precomputes their log
// tables.
func NewModel(transition, emission [][]float64, initial []float64) (*Model, error) {
	n := len(initial)
	if n == 0 {
		return nil, fmt.Errorf("%w: no states", ErrInvalidModel)
	}
	if len(transition) != n || len(emission) != n {
		return nil, fmt.Errorf("%w: %d initial, %d transition rows, %d emission rows",
			ErrInvalidModel, n, len(transition), len(emission))
	}
	k := len(emission[0])
	if k == 0 {
		return nil, fmt.Errorf("%w: no symbols", ErrInvalidModel)
	}
	if err := checkStochastic("initial", initial, n); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := checkStochastic(fmt.Sprintf("transition row %d", i), transition[i], n); err != nil {
			return nil, err
		}
		if err := checkStochastic(fmt.Sprintf("emission row %d", i), emission[i], k); err != nil {
			return nil, err
		}
	}

	m := &Model{
		NumStates:  n,
		NumSymbols: k,
		Transition: mathutil.NewMat(n, n),
		Emission:   mathutil.NewMat(n, k),
		Initial:    make([]float64, n),
		logA:       mathutil.NewMat(n, n),
		logB:       mathutil.NewMat(n, k),
		logPi:      make([]float64, n),
	}
	copy(m.Initial, initial)
	for i := 0; i < n; i++ {
		copy(m.Transition[i], transition[i])
		copy(m.Emission[i], emission[i])
		m.logPi[i] = mathutil.FlooredLog(initial[i], ProbFloor)
		for j := 0; j < n; j++ {
			m.logA[i][j] = mathutil.FlooredLog(transition[i][j], ProbFloor)
		}
		for o := 0; o < k; o++ {
			m.logB[i][o] = mathutil.FlooredLog(emission[i][o], ProbFloor)
		}
	}
	return m, nil
}

func checkStochastic(name string, row []float64, want int) error {
	if len(row) != want {
		return fmt.Errorf("%w: %s has %d entries, want %d", ErrInvalidModel, name, len(row), want)
	}
	sum := 0.0
	for i, p := range row {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: %s[%d] = %g", ErrInvalidModel, name, i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > Tolerance {
		return fmt.Errorf("%w: %s sums to %g", ErrInvalidModel, name, sum)
	}
	return nil
}

// LogEmission returns the floored log probability of state emitting
// symbol, or -Inf for a symbol outside the alphabet.
func (m *Model) LogEmission(state, symbol int) float64 {
	if symbol < 0 || symbol >= m.NumSymbols {
		return mathutil.LogZero
	}
	return m.logB[state][symbol]
}

// LogTransition returns the floored log probability of moving from i to j.
func (m *Model) LogTransition(i, j int) float64 {
	return m.logA[i][j]
}

// LogInitial returns the floored log probability of starting in state.
func (m *Model) LogInitial(state int) float64 {
	return m.logPi[state]
}
