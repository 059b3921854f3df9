// Package cards builds cards of unique weighted combinations from the tiers
// produced by the scoring engine.
package cards

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/megafacil/internal/domain"
	"github.com/aristath/megafacil/internal/rng"
)

// Explanation is attached to every generated combination.
const Explanation = "Combinação formada por 2 números do Grupo A, 2 do Grupo B e 2 do Grupo C, " +
	"priorizando o score do modelo com base em análise estatística como ferramenta auxiliar."

const (
	// PicksPerTier is how many numbers each of tiers A, B and C contributes.
	PicksPerTier = 2
	// AttemptsPerCombination bounds the uniqueness retries of one card.
	AttemptsPerCombination = 20
)

var sampledTiers = []domain.Tier{domain.TierA, domain.TierB, domain.TierC}

// Generate produces cardCount cards of combosPerCard unique combinations each.
//
// The stream is consumed card by card, attempt by attempt, tier A then B then
// C, so identical inputs and an identically seeded stream reproduce the
// output exactly. A card that runs out of attempts fails the whole call.
func Generate(
	scores domain.ScoreTable,
	groups domain.GroupPartition,
	src rng.Source,
	cardCount int,
	combosPerCard int,
) ([]domain.Card, error) {
	for _, tier := range sampledTiers {
		if len(groups.Tier(tier)) < PicksPerTier {
			return nil, fmt.Errorf("%w: tier %s has %d", domain.ErrInsufficientGroupSize, tier, len(groups.Tier(tier)))
		}
	}

	weights := make(map[domain.Tier][]float64, len(sampledTiers))
	for _, tier := range sampledTiers {
		members := groups.Tier(tier)
		w := make([]float64, len(members))
		for i, n := range members {
			w[i] = scores.Get(n)
		}
		weights[tier] = w
	}

	cards := make([]domain.Card, 0, max(cardCount, 0))
	for i := 0; i < cardCount; i++ {
		combinations, err := generateCard(scores, groups, weights, src, combosPerCard)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i+1, err)
		}
		cards = append(cards, domain.Card{
			ID:           domain.CardID(i + 1),
			Combinations: combinations,
		})
	}

	return cards, nil
}

func generateCard(
	scores domain.ScoreTable,
	groups domain.GroupPartition,
	weights map[domain.Tier][]float64,
	src rng.Source,
	combosPerCard int,
) ([]domain.Combination, error) {
	combinations := make([]domain.Combination, 0, max(combosPerCard, 0))
	seen := make(map[[domain.NumbersPerDraw]int]struct{}, max(combosPerCard, 0))
	maxAttempts := combosPerCard * AttemptsPerCombination

	for attempts := 0; len(combinations) < combosPerCard && attempts < maxAttempts; attempts++ {
		var numbers [domain.NumbersPerDraw]int
		pos := 0
		for _, tier := range sampledTiers {
			members := groups.Tier(tier)
			for _, idx := range rng.WeightedSample(src, weights[tier], PicksPerTier) {
				numbers[pos] = members[idx]
				pos++
			}
		}
		sort.Ints(numbers[:])

		if _, dup := seen[numbers]; dup {
			continue
		}
		seen[numbers] = struct{}{}

		combinations = append(combinations, domain.Combination{
			Numbers:     numbers,
			Score:       Score(numbers, scores),
			Explanation: Explanation,
		})
	}

	if len(combinations) < combosPerCard {
		return nil, fmt.Errorf("%w: %d of %d after %d attempts",
			domain.ErrGenerationExhausted, len(combinations), combosPerCard, maxAttempts)
	}
	return combinations, nil
}

// Score is the mean score of the numbers scaled to 0..100, rounded to 2 decimals.
func Score(numbers [domain.NumbersPerDraw]int, scores domain.ScoreTable) float64 {
	values := make([]float64, len(numbers))
	for i, n := range numbers {
		values[i] = scores.Get(n)
	}
	return roundTo(stat.Mean(values, nil)*100, 2)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
