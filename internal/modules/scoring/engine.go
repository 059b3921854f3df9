// Package scoring ranks the 60 board numbers from draw history and splits
// them into quantile tiers.
package scoring

import (
	"gonum.org/v1/gonum/floats"

	"github.com/aristath/megafacil/internal/domain"
)

// Signal weights of the raw score.
const (
	GlobalFrequencyWeight = 0.5
	RecentFrequencyWeight = 0.3
	RecencyWeight         = 0.2
)

// Result bundles the score table with the tiers derived from it.
type Result struct {
	Scores domain.ScoreTable     `json:"scores"`
	Groups domain.GroupPartition `json:"groups"`
}

// Analyze computes the scores and assigns tiers in one pass.
func Analyze(dataset domain.Dataset, windowSize int) Result {
	scores := Compute(dataset, windowSize)
	return Result{
		Scores: scores,
		Groups: AssignGroups(scores),
	}
}

// Compute scores every number from its global frequency, its frequency in the
// last windowSize draws, and how recently it was drawn.
//
// Each signal is normalized across all 60 numbers, the weighted sum is
// min-max normalized, and equal values collapse to 1.0. The table always has
// 60 entries, including for an empty dataset (all 1.0).
func Compute(dataset domain.Dataset, windowSize int) domain.ScoreTable {
	global := normalizeByMax(countOccurrences(dataset))
	recent := normalizeByMax(countOccurrences(dataset.Tail(windowSize)))
	recency := normalizeInverted(recencyGaps(dataset))

	raw := make([]float64, domain.NumberCount)
	for i := range raw {
		raw[i] = GlobalFrequencyWeight*global[i] +
			RecentFrequencyWeight*recent[i] +
			RecencyWeight*recency[i]
	}

	var table domain.ScoreTable
	copy(table[:], normalizeMinMax(raw))
	return table
}

func countOccurrences(dataset domain.Dataset) []float64 {
	counts := make([]float64, domain.NumberCount)
	for _, draw := range dataset.Draws {
		for _, n := range draw.Numbers {
			counts[n-domain.MinNumber]++
		}
	}
	return counts
}

// recencyGaps returns, per number, how many draws ago it last appeared
// (0 = the most recent draw). Numbers never drawn get the largest observed
// gap plus one.
func recencyGaps(dataset domain.Dataset) []float64 {
	gaps := make([]float64, domain.NumberCount)
	seen := make([]bool, domain.NumberCount)

	maxSeen := 0
	draws := dataset.Draws
	for offset := 0; offset < len(draws); offset++ {
		for _, n := range draws[len(draws)-1-offset].Numbers {
			i := n - domain.MinNumber
			if seen[i] {
				continue
			}
			seen[i] = true
			gaps[i] = float64(offset)
			if offset > maxSeen {
				maxSeen = offset
			}
		}
	}

	for i := range gaps {
		if !seen[i] {
			gaps[i] = float64(maxSeen + 1)
		}
	}
	return gaps
}

func normalizeByMax(values []float64) []float64 {
	out := make([]float64, len(values))
	maxValue := floats.Max(values)
	if maxValue == 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / maxValue
	}
	return out
}

func normalizeMinMax(values []float64) []float64 {
	out := make([]float64, len(values))
	minValue, maxValue := floats.Min(values), floats.Max(values)
	if maxValue == minValue {
		for i := range out {
			out[i] = 1.0
		}
		return out
	}
	for i, v := range values {
		out[i] = (v - minValue) / (maxValue - minValue)
	}
	return out
}

// normalizeInverted min-max normalizes and flips so the smallest value maps to 1.
func normalizeInverted(values []float64) []float64 {
	out := normalizeMinMax(values)
	if floats.Min(values) == floats.Max(values) {
		return out
	}
	for i, v := range out {
		out[i] = 1 - v
	}
	return out
}
