package scoring

import (
	"math"
	"sort"

	"github.com/aristath/megafacil/internal/domain"
)

// TierBounds are the cumulative rank fractions closing tiers A, B, C and D.
var TierBounds = [4]float64{0.2, 0.5, 0.8, 1.0}

// Rank orders the board numbers by score descending. Equal scores keep
// ascending number order.
func Rank(scores domain.ScoreTable) []int {
	ranked := make([]int, domain.NumberCount)
	for i := range ranked {
		ranked[i] = i + domain.MinNumber
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores.Get(ranked[i]) > scores.Get(ranked[j])
	})
	return ranked
}

// AssignGroups partitions the ranked numbers into tiers A..D. Tier sizes are
// successive differences of ceil(bound*60), each clamped at zero.
func AssignGroups(scores domain.ScoreTable) domain.GroupPartition {
	ranked := Rank(scores)
	total := len(ranked)

	var sizes [4]int
	assigned := 0
	for i, bound := range TierBounds {
		size := int(math.Ceil(float64(total)*bound)) - assigned
		if size < 0 {
			size = 0
		}
		if assigned+size > total {
			size = total - assigned
		}
		sizes[i] = size
		assigned += size
	}

	var tiers [4][]int
	start := 0
	for i, size := range sizes {
		tier := make([]int, size)
		copy(tier, ranked[start:start+size])
		tiers[i] = tier
		start += size
	}

	return domain.GroupPartition{A: tiers[0], B: tiers[1], C: tiers[2], D: tiers[3]}
}
