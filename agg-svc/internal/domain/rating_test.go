package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRating(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []int
		wantAvg   float64
		wantCount int
	}{
		{name: "no reviews", ratings: nil, wantAvg: 0, wantCount: 0},
		{name: "single", ratings: []int{4}, wantAvg: 4, wantCount: 1},
		{name: "half", ratings: []int{5, 4}, wantAvg: 4.5, wantCount: 2},
		{name: "rounds down", ratings: []int{5, 4, 4}, wantAvg: 4.33, wantCount: 3},
		{name: "rounds up", ratings: []int{1, 2, 2}, wantAvg: 1.67, wantCount: 3},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			avg, count := ComputeRating(testCase.ratings)
			assert.Equal(t, testCase.wantAvg, avg)
			assert.Equal(t, testCase.wantCount, count)

			again, _ := ComputeRating(testCase.ratings)
			assert.Equal(t, avg, again)
		})
	}
}
