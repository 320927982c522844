package hmm

import (
	"context"
	"math"

	"github.com/ieee0824/recite-go/internal/mathutil"
)

// ForwardResult holds the forward variables.
// Alpha[t][j] = log P(o_0..o_t, q_t=j | model).
type ForwardResult struct {
	Alpha         [][]float64
	LogLikelihood float64
}

// BackwardResult holds the backward variables.
// Beta[t][i] = log P(o_{t+1}..o_{T-1} | q_t=i, model).
type BackwardResult struct {
	Beta          [][]float64
	LogLikelihood float64
}

// Forward computes the forward variables and the total log-likelihood
// log P(obs | model). An empty sequence yields -Inf.
func Forward(m *Model, obs []int) ForwardResult {
	res, _ := ForwardContext(context.Background(), m, obs)
	return res
}

// ForwardContext is Forward with cancellation checked once per time step.
func ForwardContext(ctx context.Context, m *Model, obs []int) (ForwardResult, error) {
	T := len(obs)
	if T == 0 {
		return ForwardResult{LogLikelihood: mathutil.LogZero}, nil
	}
	N := m.NumStates
	alpha := mathutil.NewMatFill(T, N, mathutil.LogZero)

	if err := ctx.Err(); err != nil {
		return ForwardResult{}, err
	}
	for i := 0; i < N; i++ {
		alpha[0][i] = m.logPi[i] + m.LogEmission(i, obs[0])
	}

	for t := 1; t < T; t++ {
		if err := ctx.Err(); err != nil {
			return ForwardResult{}, err
		}
		for j := 0; j < N; j++ {
			logSum := mathutil.LogZero
			for i := 0; i < N; i++ {
				logSum = mathutil.LogAdd(logSum, alpha[t-1][i]+m.logA[i][j])
			}
			alpha[t][j] = logSum + m.LogEmission(j, obs[t])
		}
	}

	return ForwardResult{Alpha: alpha, LogLikelihood: mathutil.LogSum(alpha[T-1])}, nil
}

// Backward computes the backward variables. Its LogLikelihood is
// logsum_s(log pi_s + log b_s(o_0) + Beta[0][s]), which equals the forward
// likelihood up to rounding.
func Backward(m *Model, obs []int) BackwardResult {
	res, _ := BackwardContext(context.Background(), m, obs)
	return res
}

// BackwardContext is Backward with cancellation checked once per time step.
func BackwardContext(ctx context.Context, m *Model, obs []int) (BackwardResult, error) {
	T := len(obs)
	if T == 0 {
		return BackwardResult{LogLikelihood: mathutil.LogZero}, nil
	}
	N := m.NumStates
	// beta[T-1][i] = log 1
	beta := mathutil.NewMat(T, N)

	for t := T - 2; t >= 0; t-- {
		if err := ctx.Err(); err != nil {
			return BackwardResult{}, err
		}
		for i := 0; i < N; i++ {
			logSum := mathutil.LogZero
			for j := 0; j < N; j++ {
				logSum = mathutil.LogAdd(logSum,
					m.logA[i][j]+m.LogEmission(j, obs[t+1])+beta[t+1][j])
			}
			beta[t][i] = logSum
		}
	}
	if err := ctx.Err(); err != nil {
		return BackwardResult{}, err
	}

	ll := mathutil.LogZero
	for i := 0; i < N; i++ {
		ll = mathutil.LogAdd(ll, m.logPi[i]+m.LogEmission(i, obs[0])+beta[0][i])
	}
	return BackwardResult{Beta: beta, LogLikelihood: ll}, nil
}

// Posteriors returns the state occupancy probabilities
// gamma[t][s] = P(q_t=s | obs) = exp(alpha + beta - LL) together with the
// log-likelihood. When the observations are impossible under the model the
// occupancies are nil and the likelihood is -Inf.
func Posteriors(m *Model, obs []int) ([][]float64, float64) {
	fwd := Forward(m, obs)
	if math.IsInf(fwd.LogLikelihood, -1) {
		return nil, fwd.LogLikelihood
	}
	bwd := Backward(m, obs)

	T := len(obs)
	gamma := mathutil.NewMat(T, m.NumStates)
	for t := 0; t < T; t++ {
		for s := 0; s < m.NumStates; s++ {
			gamma[t][s] = math.Exp(fwd.Alpha[t][s] + bwd.Beta[t][s] - fwd.LogLikelihood)
		}
	}
	return gamma, fwd.LogLikelihood
}

// LogLikelihood returns log P(obs | model).
func LogLikelihood(m *Model, obs []int) float64 {
	return Forward(m, obs).LogLikelihood
}
