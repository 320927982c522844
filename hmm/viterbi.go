package hmm

import (
	"context"

	"github.com/ieee0824/recite-go/internal/mathutil"
)

// ViterbiResult is the single most likely state sequence.
type ViterbiResult struct {
	Path         []int     // most likely state per time step
	LogProb      float64   // log probability of Path jointly with the observations
	StepLogProbs []float64 // delta[t][Path[t]], the best partial score at each step
}

// Viterbi returns the most likely state path for obs. An empty observation
// sequence yields a nil path and a -Inf log probability. Ties keep the
// lowest state index.
func Viterbi(m *Model, obs []int) ViterbiResult {
	res, _ := ViterbiContext(context.Background(), m, obs)
	return res
}

// ViterbiContext is Viterbi with cancellation checked once per time step.
func ViterbiContext(ctx context.Context, m *Model, obs []int) (ViterbiResult, error) {
	T := len(obs)
	if T == 0 {
		return ViterbiResult{LogProb: mathutil.LogZero}, nil
	}
	N := m.NumStates

	delta := mathutil.NewMatFill(T, N, mathutil.LogZero)
	// Backpointer matrix: psi[t][j] = best predecessor of j at t
	psi := make([][]int32, T)
	psiBuf := make([]int32, T*N)
	for t := range psi {
		psi[t] = psiBuf[t*N : (t+1)*N : (t+1)*N]
	}

	if err := ctx.Err(); err != nil {
		return ViterbiResult{}, err
	}
	for i := 0; i < N; i++ {
		delta[0][i] = m.logPi[i] + m.LogEmission(i, obs[0])
	}

	for t := 1; t < T; t++ {
		if err := ctx.Err(); err != nil {
			return ViterbiResult{}, err
		}
		prev, curr := delta[t-1], delta[t]
		for j := 0; j < N; j++ {
			best := mathutil.LogZero
			bestPrev := int32(0)
			for i := 0; i < N; i++ {
				if s := prev[i] + m.logA[i][j]; s > best {
					best = s
					bestPrev = int32(i)
				}
			}
			curr[j] = best + m.LogEmission(j, obs[t])
			psi[t][j] = bestPrev
		}
	}

	// Termination: best final state, lowest index on ties
	last := 0
	best := mathutil.LogZero
	for i := 0; i < N; i++ {
		if delta[T-1][i] > best {
			best = delta[T-1][i]
			last = i
		}
	}

	path := make([]int, T)
	path[T-1] = last
	for t := T - 2; t >= 0; t-- {
		path[t] = int(psi[t+1][path[t+1]])
	}

	steps := make([]float64, T)
	for t := range steps {
		steps[t] = delta[t][path[t]]
	}
	return ViterbiResult{Path: path, LogProb: best, StepLogProbs: steps}, nil
}
