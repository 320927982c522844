package hmm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ieee0824/recite-go/hmm"
)

func TestSegments(t *testing.T) {
	assert.Nil(t, hmm.Segments(nil))
	assert.Equal(t, []hmm.Segment{
		{State: 0, Start: 0, End: 2},
		{State: 2, Start: 2, End: 3},
		{State: 1, Start: 3, End: 6},
		{State: 0, Start: 6, End: 7},
	}, hmm.Segments([]int{0, 0, 2, 1, 1, 1, 0}))
	assert.Equal(t, []int{0, 2, 1, 0}, hmm.StateOrder([]int{0, 0, 2, 1, 1, 1, 0}))
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []int
		want int
	}{
		{"identical", []int{1, 2}, []int{1, 2}, 0},
		{"empty_both", nil, nil, 0},
		{"empty_a", nil, []int{1, 2}, 2},
		{"empty_b", []int{1}, nil, 1},
		{"substitution", []int{1, 2}, []int{3, 2}, 1},
		{"insertion", []int{1, 2}, []int{1, 2, 3}, 1},
		{"deletion", []int{1, 2, 3}, []int{1, 2}, 1},
		{"leading_drop", []int{4, 0, 5, 0}, []int{0, 5, 0}, 1},
		{"two_edits", []int{1, 2, 3, 4}, []int{2, 3, 5}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hmm.EditDistance(tt.a, tt.b))
			assert.Equal(t, tt.want, hmm.EditDistance(tt.b, tt.a))
		})
	}
	assert.Equal(t, 3, hmm.EditDistance([]rune("kitten"), []rune("sitting")))
}
