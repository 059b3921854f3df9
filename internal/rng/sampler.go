package rng

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// WeightedSample draws k distinct indices of weights without replacement.
//
// Weights are renormalized into a probability vector first; a vector whose sum
// is not positive falls back to uniform weighting. Each pick builds the
// cumulative table of the remaining mass, draws u = Float64()*total, takes the
// first index whose cumulative value exceeds u and removes that index's mass.
// When the remaining mass drops to zero (only zero-weight items left) the
// remaining items are treated as uniform.
//
// Exactly one Float64 is consumed per pick, so the output is reproducible for
// a given stream position. k is clamped to len(weights).
func WeightedSample(src Source, weights []float64, k int) []int {
	n := len(weights)
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}

	probs := make([]float64, n)
	copy(probs, weights)
	for i, w := range probs {
		if w < 0 {
			probs[i] = 0
		}
	}
	if total := floats.Sum(probs); total > 0 {
		floats.Scale(1/total, probs)
	} else {
		uniform(probs)
	}

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	picked := make([]int, 0, k)
	cumulative := make([]float64, n)
	for len(picked) < k {
		mass := make([]float64, len(remaining))
		for i, idx := range remaining {
			mass[i] = probs[idx]
		}
		if floats.Sum(mass) <= 0 {
			uniform(mass)
		}

		cum := floats.CumSum(cumulative[:len(mass)], mass)
		total := cum[len(cum)-1]
		u := src.Float64() * total

		pos := sort.Search(len(cum), func(i int) bool { return cum[i] > u })
		if pos == len(cum) {
			pos = lastPositive(mass)
		}

		picked = append(picked, remaining[pos])
		remaining = append(remaining[:pos], remaining[pos+1:]...)
	}

	return picked
}

// SampleRange draws k distinct integers uniformly from [1,n] using a partial
// Fisher-Yates shuffle. Values are returned in draw order.
func SampleRange(src Source, n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}

	pool := make([]int, n)
	for i := range pool {
		pool[i] = i + 1
	}
	for i := 0; i < k; i++ {
		j := i + src.IntN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	out := make([]int, k)
	copy(out, pool[:k])
	return out
}

func uniform(dst []float64) {
	for i := range dst {
		dst[i] = 1
	}
}

func lastPositive(mass []float64) int {
	for i := len(mass) - 1; i >= 0; i-- {
		if mass[i] > 0 {
			return i
		}
	}
	return len(mass) - 1
}
