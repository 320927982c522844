package hmm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/recite-go/hmm"
)

func TestCodebook_Quantize(t *testing.T) {
	cb, err := hmm.NewCodebook([][]float64{{0, 0}, {10, 0}, {0, 10}})
	require.NoError(t, err)
	assert.Equal(t, 3, cb.NumSymbols())
	assert.Equal(t, 2, cb.Dim())

	got := cb.Quantize([][]float64{{1, 1}, {9, -1}, {-1, 8}, {5, 0}, {1}})
	// {5, 0} is equidistant from 0 and 1: lowest index wins
	assert.Equal(t, []int{0, 1, 2, 0, -1}, got)
}

func TestCodebook_Invalid(t *testing.T) {
	_, err := hmm.NewCodebook(nil)
	assert.ErrorIs(t, err, hmm.ErrInvalidCodebook)
	_, err = hmm.NewCodebook([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, hmm.ErrInvalidCodebook)
	_, err = hmm.TrainCodebook([][]float64{{1}}, 2, 10)
	assert.ErrorIs(t, err, hmm.ErrInvalidCodebook)
}

func TestTrainCodebook(t *testing.T) {
	var rows [][]float64
	for i := 0; i < 10; i++ {
		d := float64(i%3) * 0.1
		rows = append(rows, []float64{d, d}, []float64{100 + d, 100 - d})
	}
	cb, err := hmm.TrainCodebook(rows, 2, 20)
	require.NoError(t, err)

	symbols := cb.Quantize(rows)
	for i := 0; i < len(rows); i += 2 {
		assert.NotEqual(t, symbols[i], symbols[i+1], "row %d", i)
		assert.Equal(t, symbols[0], symbols[i])
	}
	for _, c := range cb.Centroids() {
		near := c[0] < 1 || c[0] > 99
		assert.True(t, near, "centroid %v", c)
	}

	again, err := hmm.TrainCodebook(rows, 2, 20)
	require.NoError(t, err)
	assert.Equal(t, cb.Centroids(), again.Centroids())
}
