package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraw_Valid(t *testing.T) {
	testCases := []struct {
		name  string
		draw  Draw
		valid bool
	}{
		{"valid", Draw{DrawID: 1, Numbers: [6]int{1, 2, 3, 4, 5, 60}}, true},
		{"zero id", Draw{DrawID: 0, Numbers: [6]int{1, 2, 3, 4, 5, 6}}, false},
		{"out of range high", Draw{DrawID: 1, Numbers: [6]int{1, 2, 3, 4, 5, 61}}, false},
		{"out of range low", Draw{DrawID: 1, Numbers: [6]int{0, 2, 3, 4, 5, 6}}, false},
		{"duplicate number", Draw{DrawID: 1, Numbers: [6]int{1, 1, 3, 4, 5, 6}}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.draw.Valid())
		})
	}
}

func TestDataset_CloneIsIndependent(t *testing.T) {
	original := Dataset{Draws: []Draw{
		{DrawID: 1, Numbers: [6]int{1, 2, 3, 4, 5, 6}},
		{DrawID: 2, Numbers: [6]int{7, 8, 9, 10, 11, 12}},
	}}

	clone := original.Clone()
	clone.Draws[0].Numbers[0] = 60
	clone.Draws[1].DrawID = 99

	assert.Equal(t, 1, original.Draws[0].Numbers[0])
	assert.Equal(t, 2, original.Draws[1].DrawID)
	assert.Equal(t, 0, Dataset{}.Clone().Len())
}

func TestDataset_HeadTail(t *testing.T) {
	ds := Dataset{}
	for i := 1; i <= 5; i++ {
		ds.Draws = append(ds.Draws, Draw{DrawID: i, Numbers: [6]int{1, 2, 3, 4, 5, 6}})
	}

	assert.Equal(t, 3, ds.Head(3).Len())
	assert.Equal(t, 3, ds.Head(3).LatestDrawID())
	assert.Equal(t, 5, ds.Head(10).Len())
	assert.Equal(t, 0, ds.Head(-1).Len())

	tail := ds.Tail(2)
	require.Equal(t, 2, tail.Len())
	assert.Equal(t, 4, tail.Draws[0].DrawID)
	assert.Equal(t, 5, ds.Tail(50).Len())
	assert.Equal(t, 0, ds.Tail(0).Len())
	assert.Equal(t, 5, ds.LatestDrawID())
	assert.Equal(t, 0, Dataset{}.LatestDrawID())
}

func TestScoreTable_GetSet(t *testing.T) {
	var scores ScoreTable
	scores.Set(1, 0.25)
	scores.Set(60, 1)

	assert.Equal(t, 0.25, scores.Get(1))
	assert.Equal(t, 1.0, scores.Get(60))
	assert.Equal(t, 0.0, scores.Get(0))
	assert.Equal(t, 0.0, scores.Get(61))

	m := scores.Map()
	assert.Len(t, m, NumberCount)
	assert.Equal(t, 0.25, m[1])
}

func TestCombination_KeyAndHits(t *testing.T) {
	combo := Combination{Numbers: [6]int{9, 3, 1, 60, 22, 7}}
	assert.Equal(t, [6]int{1, 3, 7, 9, 22, 60}, combo.Key())

	draw := Draw{DrawID: 1, Numbers: [6]int{1, 2, 3, 4, 5, 60}}
	assert.Equal(t, 3, combo.Hits(draw))
}

func TestCardID(t *testing.T) {
	assert.Equal(t, "card-001", CardID(1))
	assert.Equal(t, "card-042", CardID(42))
	assert.Equal(t, "card-1000", CardID(1000))
}

func TestGroupPartition_Tier(t *testing.T) {
	g := GroupPartition{A: []int{1}, B: []int{2}, C: []int{3}, D: []int{4}}
	assert.Equal(t, []int{1}, g.Tier(TierA))
	assert.Equal(t, []int{4}, g.Tier(TierD))
	assert.Nil(t, g.Tier(Tier("Z")))
}
