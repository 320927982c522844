package dtw_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/recite-go/dtw"
)

func column(xs ...float64) [][]float64 {
	out := make([][]float64, len(xs))
	for i, x := range xs {
		out[i] = []float64{x}
	}
	return out
}

// TestAlign_Identical verifies the zero-cost diagonal alignment of a sequence with itself.
func TestAlign_Identical(t *testing.T) {
	a := column(0, 1, 2)
	res := dtw.Align(a, a, dtw.DefaultOptions())

	assert.Equal(t, 0.0, res.Distance)
	assert.Equal(t, []dtw.Coord{{0, 0}, {1, 1}, {2, 2}}, res.Path)
	assert.True(t, res.Comparable())
}

// TestAlign_Stretched checks a perfect match against a time-stretched copy.
func TestAlign_Stretched(t *testing.T) {
	a := column(1, 2, 3)
	b := column(1, 2, 2, 3)
	res := dtw.Align(a, b, dtw.DefaultOptions())

	assert.Equal(t, 0.0, res.Distance)
	require.Len(t, res.Path, 4)
	assert.Equal(t, dtw.Coord{I: 0, J: 0}, res.Path[0])
	assert.Equal(t, dtw.Coord{I: 2, J: 3}, res.Path[3])
	assert.True(t, dtw.ValidPath(res.Path, 3, 4))
}

// TestAlign_HorizontalTie prefers the horizontal step when it is the only finite predecessor.
func TestAlign_HorizontalTie(t *testing.T) {
	res := dtw.Align(column(0), column(0, 0), dtw.DefaultOptions())
	assert.Equal(t, []dtw.Coord{{0, 0}, {0, 1}}, res.Path)
}

func TestAlign_Normalized(t *testing.T) {
	res := dtw.Align(column(0, 1), column(1, 2), dtw.DefaultOptions())

	assert.Equal(t, 2.0, res.Distance)
	assert.Equal(t, []dtw.Coord{{0, 0}, {1, 1}}, res.Path)
	assert.Equal(t, 1.0, res.Normalized())
	assert.Equal(t, 1.0, dtw.NormalizedDistance(column(0, 1), column(1, 2), dtw.DefaultOptions()))
}

func TestAlign_Metrics(t *testing.T) {
	a := [][]float64{{0, 0}}
	b := [][]float64{{3, 4}}

	assert.InDelta(t, 5.0, dtw.Align(a, b, dtw.Options{Metric: dtw.Euclidean, Bandwidth: dtw.Unbanded}).Distance, 1e-12)
	assert.InDelta(t, 7.0, dtw.Align(a, b, dtw.Options{Metric: dtw.Manhattan, Bandwidth: dtw.Unbanded}).Distance, 1e-12)
	// zero-value metric falls back to Euclidean
	assert.InDelta(t, 5.0, dtw.Align(a, b, dtw.Options{Bandwidth: dtw.Unbanded}).Distance, 1e-12)
}

// TestAlign_Sentinels covers the inputs that cannot be aligned.
func TestAlign_Sentinels(t *testing.T) {
	opts := dtw.DefaultOptions()
	tests := []struct {
		name string
		a, b [][]float64
	}{
		{"empty first", nil, column(1, 2)},
		{"empty second", column(1, 2), [][]float64{}},
		{"dimension mismatch", [][]float64{{1, 2}}, [][]float64{{1, 2, 3}}},
		{"ragged rows", [][]float64{{1, 2}, {3}}, [][]float64{{1, 2}, {3, 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := dtw.Align(tt.a, tt.b, opts)
			assert.True(t, math.IsInf(res.Distance, 1), "distance = %v", res.Distance)
			assert.Empty(t, res.Path)
			assert.False(t, res.Comparable())
			assert.True(t, math.IsInf(res.Normalized(), 1))
		})
	}
}

// TestAlign_Band verifies the Sakoe-Chiba constraint.
func TestAlign_Band(t *testing.T) {
	a := column(0, 1, 2, 3, 4, 5, 6, 7)
	b := column(0, 0, 0, 1, 2, 3, 4, 5, 6, 7)

	free := dtw.Align(a, b, dtw.DefaultOptions())
	require.True(t, free.Comparable())

	for _, w := range []int{2, 3, 5} {
		banded := dtw.Align(a, b, dtw.Options{Metric: dtw.Euclidean, Bandwidth: w})
		require.True(t, banded.Comparable(), "w=%d", w)
		assert.GreaterOrEqual(t, banded.Distance, free.Distance, "w=%d", w)
		for _, c := range banded.Path {
			assert.LessOrEqual(t, abs(c.I-c.J), w, "w=%d coord %v outside band", w, c)
		}
		assert.True(t, dtw.ValidPath(banded.Path, len(a), len(b)))
	}

	// a band narrower than the length difference cannot reach (n, m)
	narrow := dtw.Align(a, b, dtw.Options{Metric: dtw.Euclidean, Bandwidth: 1})
	assert.True(t, math.IsInf(narrow.Distance, 1))
	assert.Empty(t, narrow.Path)

	// a band wider than both sequences is unconstrained
	for _, w := range []int{len(b), math.MaxInt} {
		wide := dtw.Align(a, b, dtw.Options{Metric: dtw.Euclidean, Bandwidth: w})
		assert.Equal(t, free, wide, "w=%d", w)
	}

	// band 0 on equal lengths is the pure diagonal
	diag := dtw.Align(a, a, dtw.Options{Metric: dtw.Euclidean, Bandwidth: 0})
	assert.Equal(t, 0.0, diag.Distance)
	assert.Len(t, diag.Path, len(a))
}

// TestAlign_Properties checks identity, symmetry and path validity on pseudo-random sequences.
func TestAlign_Properties(t *testing.T) {
	gen := func(n, dim int, seed float64) [][]float64 {
		out := make([][]float64, n)
		for i := range out {
			out[i] = make([]float64, dim)
			for d := range out[i] {
				out[i][d] = math.Sin(seed*float64(i+1) + float64(d)*0.7)
			}
		}
		return out
	}
	opts := dtw.DefaultOptions()
	for _, tc := range []struct{ n, m int }{{1, 1}, {1, 5}, {5, 1}, {7, 12}, {20, 13}} {
		a := gen(tc.n, 4, 0.31)
		b := gen(tc.m, 4, 0.57)

		assert.Equal(t, 0.0, dtw.Align(a, a, opts).Distance)

		ab := dtw.Align(a, b, opts)
		ba := dtw.Align(b, a, opts)
		assert.InDelta(t, ab.Distance, ba.Distance, 1e-12)
		assert.GreaterOrEqual(t, ab.Distance, 0.0)
		assert.True(t, dtw.ValidPath(ab.Path, tc.n, tc.m), "n=%d m=%d path=%v", tc.n, tc.m, ab.Path)
		assert.GreaterOrEqual(t, len(ab.Path), max(tc.n, tc.m))
		assert.LessOrEqual(t, len(ab.Path), tc.n+tc.m-1)
	}
}

func TestAlignContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := dtw.AlignContext(ctx, column(1, 2, 3), column(1, 2), dtw.DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAlign_DoesNotModifyInput(t *testing.T) {
	a := column(3, 1, 2)
	b := column(1, 2)
	dtw.Align(a, b, dtw.DefaultOptions())
	assert.Equal(t, column(3, 1, 2), a)
	assert.Equal(t, column(1, 2), b)
}

func TestValidPath(t *testing.T) {
	assert.True(t, dtw.ValidPath([]dtw.Coord{{0, 0}, {0, 1}, {1, 1}}, 2, 2))
	assert.False(t, dtw.ValidPath(nil, 2, 2), "empty")
	assert.False(t, dtw.ValidPath([]dtw.Coord{{0, 1}, {1, 1}}, 2, 2), "bad start")
	assert.False(t, dtw.ValidPath([]dtw.Coord{{0, 0}, {1, 0}}, 2, 2), "bad end")
	assert.False(t, dtw.ValidPath([]dtw.Coord{{0, 0}, {0, 0}, {1, 1}}, 2, 2), "repeat")
	assert.False(t, dtw.ValidPath([]dtw.Coord{{0, 0}, {2, 2}}, 3, 3), "jump")
	assert.False(t, dtw.ValidPath([]dtw.Coord{{0, 0}, {1, 1}, {0, 1}, {1, 1}}, 2, 2), "backwards")
}

func TestParseMetric(t *testing.T) {
	m, err := dtw.ParseMetric("")
	require.NoError(t, err)
	assert.Equal(t, dtw.Euclidean, m)

	m, err = dtw.ParseMetric("manhattan")
	require.NoError(t, err)
	assert.Equal(t, dtw.Manhattan, m)

	_, err = dtw.ParseMetric("cosine")
	assert.ErrorIs(t, err, dtw.ErrUnknownMetric)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
