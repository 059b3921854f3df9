package rng

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays a scripted sequence of floats.
type fixedSource struct {
	floats []float64
	pos    int
}

func (f *fixedSource) Float64() float64 {
	v := f.floats[f.pos%len(f.floats)]
	f.pos++
	return v
}

func (f *fixedSource) IntN(n int) int {
	return int(f.Float64() * float64(n))
}

func TestWeightedSample_CumulativeSearch(t *testing.T) {
	// probabilities 0.1, 0.2, 0.3, 0.4 -> cumulative 0.1, 0.3, 0.6, 1.0
	weights := []float64{1, 2, 3, 4}

	testCases := []struct {
		name     string
		u        float64
		expected int
	}{
		{"first bucket", 0.05, 0},
		{"second bucket", 0.2, 1},
		{"third bucket", 0.45, 2},
		{"last bucket", 0.99, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := &fixedSource{floats: []float64{tc.u}}
			picked := WeightedSample(src, weights, 1)
			require.Len(t, picked, 1)
			assert.Equal(t, tc.expected, picked[0])
		})
	}
}

func TestWeightedSample_RemovesPickedMass(t *testing.T) {
	weights := []float64{1, 2, 3, 4}
	// u=0.99 selects index 3; the remaining cumulative table is 0.1, 0.3, 0.6
	// so u=0.6 of the remaining 0.6 lands at 0.36, inside index 2.
	src := &fixedSource{floats: []float64{0.99, 0.6}}

	picked := WeightedSample(src, weights, 2)
	assert.Equal(t, []int{3, 2}, picked)
}

func TestWeightedSample_ZeroWeightsFallBackToUniform(t *testing.T) {
	src := &fixedSource{floats: []float64{0.0, 0.99}}
	picked := WeightedSample(src, []float64{0, 0, 0}, 2)
	assert.Equal(t, []int{0, 2}, picked)
}

func TestWeightedSample_ZeroWeightItemsNeverChosenWhileMassRemains(t *testing.T) {
	stream := New(99)
	weights := []float64{0, 5, 0, 5, 0}
	for i := 0; i < 200; i++ {
		picked := WeightedSample(stream, weights, 2)
		sort.Ints(picked)
		require.Equal(t, []int{1, 3}, picked)
	}
}

func TestWeightedSample_ExhaustedMassUsesRemainingItems(t *testing.T) {
	stream := New(3)
	picked := WeightedSample(stream, []float64{1, 0, 0}, 2)
	require.Len(t, picked, 2)
	assert.Equal(t, 0, picked[0])
	assert.NotEqual(t, 0, picked[1])
}

func TestWeightedSample_Bounds(t *testing.T) {
	stream := New(1)
	assert.Nil(t, WeightedSample(stream, []float64{1, 2}, 0))
	assert.Nil(t, WeightedSample(stream, nil, 2))
	assert.Len(t, WeightedSample(stream, []float64{1, 2}, 5), 2)
}

func TestWeightedSample_Distinct(t *testing.T) {
	stream := New(11)
	weights := make([]float64, 12)
	for i := range weights {
		weights[i] = float64(i + 1)
	}
	for i := 0; i < 100; i++ {
		picked := WeightedSample(stream, weights, 6)
		seen := map[int]bool{}
		for _, p := range picked {
			require.False(t, seen[p])
			seen[p] = true
		}
	}
}

func TestSampleRange(t *testing.T) {
	stream := New(5)
	for i := 0; i < 100; i++ {
		values := SampleRange(stream, 60, 6)
		require.Len(t, values, 6)
		seen := map[int]bool{}
		for _, v := range values {
			require.GreaterOrEqual(t, v, 1)
			require.LessOrEqual(t, v, 60)
			require.False(t, seen[v])
			seen[v] = true
		}
	}

	assert.Len(t, SampleRange(stream, 3, 10), 3)
	assert.Nil(t, SampleRange(stream, 60, 0))
}

func TestSampleRange_Deterministic(t *testing.T) {
	assert.Equal(t, SampleRange(New(8), 60, 6), SampleRange(New(8), 60, 6))
}
