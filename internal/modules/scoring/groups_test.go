package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/megafacil/internal/domain"
)

func TestAssignGroups_Sizes(t *testing.T) {
	groups := AssignGroups(Compute(threeDrawDataset(), 1))

	assert.Len(t, groups.A, 12)
	assert.Len(t, groups.B, 18)
	assert.Len(t, groups.C, 18)
	assert.Len(t, groups.D, 12)
}

func TestAssignGroups_RankOrderWithAscendingTieBreak(t *testing.T) {
	groups := AssignGroups(Compute(threeDrawDataset(), 1))

	assert.Equal(t, []int{1, 10, 11, 12, 13, 14, 2, 3, 7, 8, 9, 4}, groups.A)
	assert.Equal(t, []int{5, 6, 15, 16}, groups.B[:4])
	assert.Equal(t, []int{49, 50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60}, groups.D)
}

func TestAssignGroups_AllEqualScoresFollowNumberOrder(t *testing.T) {
	groups := AssignGroups(Compute(domain.Dataset{}, 10))

	expected := make([]int, 0, 12)
	for n := 1; n <= 12; n++ {
		expected = append(expected, n)
	}
	assert.Equal(t, expected, groups.A)
	assert.Equal(t, 13, groups.B[0])
	assert.Equal(t, 31, groups.C[0])
	assert.Equal(t, 49, groups.D[0])
}

func TestAssignGroups_PartitionProperty(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		groups := AssignGroups(Compute(randomDataset(seed, 40), 10))

		seen := make(map[int]domain.Tier)
		for _, tier := range []domain.Tier{domain.TierA, domain.TierB, domain.TierC, domain.TierD} {
			for _, n := range groups.Tier(tier) {
				prev, dup := seen[n]
				require.False(t, dup, "number %d in both %s and %s", n, prev, tier)
				seen[n] = tier
			}
		}
		require.Len(t, seen, domain.NumberCount)
		for n := domain.MinNumber; n <= domain.MaxNumber; n++ {
			assert.Contains(t, seen, n)
		}
	}
}

func TestAssignGroups_TiersAreRankOrdered(t *testing.T) {
	scores := Compute(randomDataset(3, 30), 8)
	groups := AssignGroups(scores)

	ranked := append(append(append(append([]int{}, groups.A...), groups.B...), groups.C...), groups.D...)
	assert.Equal(t, Rank(scores), ranked)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, scores.Get(ranked[i-1]), scores.Get(ranked[i]))
	}
}
