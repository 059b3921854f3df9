// Package backtest replays the draw history through scoring and card
// generation and compares the hits against a uniformly random baseline.
package backtest

import (
	"fmt"
	"math"
	"sort"

	"github.com/aristath/megafacil/internal/domain"
	"github.com/aristath/megafacil/internal/modules/cards"
	"github.com/aristath/megafacil/internal/modules/scoring"
	"github.com/aristath/megafacil/internal/rng"
)

// Score bucket labels, lowest first.
const (
	Bucket0To20   = "0-20"
	Bucket20To40  = "20-40"
	Bucket40To60  = "40-60"
	Bucket60To80  = "60-80"
	Bucket80To100 = "80-100"
)

// Config parameterizes a backtest run.
type Config struct {
	WindowSize    int
	CardsPerDraw  int
	CombosPerCard int
	Seed          int64
	// Progress, when set, is called after each replayed draw.
	Progress func(Progress)
}

// Progress reports how far a run has advanced.
type Progress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
	DrawID    int `json:"draw_id"`
}

// Bucket aggregates the combinations whose score fell in one range.
type Bucket struct {
	Count   int     `json:"count"`
	AvgHits float64 `json:"avg_hits"`
}

// Statistics is the outcome of a backtest run.
type Statistics struct {
	TotalCombinations         int                `json:"total_combinations"`
	MatchDistribution         map[int]int        `json:"match_distribution"`
	BaselineMatchDistribution map[int]int        `json:"baseline_match_distribution"`
	ScoreBuckets              map[string]*Bucket `json:"score_buckets"`
}

func emptyStatistics() Statistics {
	return Statistics{
		MatchDistribution:         map[int]int{},
		BaselineMatchDistribution: map[int]int{},
		ScoreBuckets:              map[string]*Bucket{},
	}
}

// Run walks the dataset from the second draw on. Each draw is predicted from
// the draws before it, then scored against the real result. A baseline of as
// many uniformly random combinations is drawn from the same stream right after
// the generated cards.
//
// Datasets with fewer than two draws yield empty statistics. Generation
// failures abort the run.
func Run(dataset domain.Dataset, cfg Config) (Statistics, error) {
	stats := emptyStatistics()
	if dataset.Len() < 2 {
		return stats, nil
	}

	stream := rng.New(cfg.Seed)
	hitSums := make(map[string]int)
	total := dataset.Len() - 1

	for i := 1; i < dataset.Len(); i++ {
		actual := dataset.Draws[i]
		result := scoring.Analyze(dataset.Head(i), cfg.WindowSize)

		generated, err := cards.Generate(result.Scores, result.Groups, stream, cfg.CardsPerDraw, cfg.CombosPerCard)
		if err != nil {
			return Statistics{}, fmt.Errorf("backtest draw %d: %w", actual.DrawID, err)
		}

		combos := 0
		for _, card := range generated {
			for _, combo := range card.Combinations {
				hits := combo.Hits(actual)
				stats.MatchDistribution[hits]++

				label := ScoreBucket(combo.Score)
				bucket, ok := stats.ScoreBuckets[label]
				if !ok {
					bucket = &Bucket{}
					stats.ScoreBuckets[label] = bucket
				}
				bucket.Count++
				hitSums[label] += hits
				combos++
			}
		}

		for j := 0; j < combos; j++ {
			var numbers [domain.NumbersPerDraw]int
			copy(numbers[:], rng.SampleRange(stream, domain.MaxNumber, domain.NumbersPerDraw))
			sort.Ints(numbers[:])
			stats.BaselineMatchDistribution[domain.CountHits(numbers, actual)]++
		}

		if cfg.Progress != nil {
			cfg.Progress(Progress{Processed: i, Total: total, DrawID: actual.DrawID})
		}
	}

	for label, bucket := range stats.ScoreBuckets {
		bucket.AvgHits = math.Round(float64(hitSums[label])/float64(bucket.Count)*1000) / 1000
	}
	for _, count := range stats.MatchDistribution {
		stats.TotalCombinations += count
	}

	return stats, nil
}

// ScoreBucket maps a 0..100 combination score to its bucket label.
// The top bucket is closed so a perfect 100 lands in 80-100.
func ScoreBucket(score float64) string {
	switch {
	case score >= 80:
		return Bucket80To100
	case score >= 60:
		return Bucket60To80
	case score >= 40:
		return Bucket40To60
	case score >= 20:
		return Bucket20To40
	default:
		return Bucket0To20
	}
}
