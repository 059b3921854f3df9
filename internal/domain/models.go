// Package domain contains the core lottery types shared by every module.
package domain

import (
	"fmt"
	"sort"
)

const (
	// MinNumber and MaxNumber bound the lottery board.
	MinNumber = 1
	MaxNumber = 60
	// NumberCount is the size of the board.
	NumberCount = MaxNumber - MinNumber + 1
	// NumbersPerDraw is how many numbers a draw or combination holds.
	NumbersPerDraw = 6
)

// Draw is one historical lottery result.
type Draw struct {
	DrawID  int                 `json:"draw_id"`
	Numbers [NumbersPerDraw]int `json:"numbers"`
}

// Valid reports whether the draw has a positive id and six distinct in-range numbers.
func (d Draw) Valid() bool {
	if d.DrawID <= 0 {
		return false
	}
	var seen [NumberCount + 1]bool
	for _, n := range d.Numbers {
		if n < MinNumber || n > MaxNumber || seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}

// Contains reports whether n is one of the drawn numbers.
func (d Draw) Contains(n int) bool {
	for _, v := range d.Numbers {
		if v == n {
			return true
		}
	}
	return false
}

// Dataset is the cleaned draw history, ascending by DrawID with unique ids.
// A Dataset is never mutated once built; use Clone to hand out copies.
type Dataset struct {
	Draws []Draw `json:"draws"`
}

// Len returns the number of draws.
func (d Dataset) Len() int {
	return len(d.Draws)
}

// Clone returns a deep, independent copy.
func (d Dataset) Clone() Dataset {
	if d.Draws == nil {
		return Dataset{}
	}
	draws := make([]Draw, len(d.Draws))
	copy(draws, d.Draws)
	return Dataset{Draws: draws}
}

// Head returns a view over the first n draws. The view shares storage and
// must be treated as read-only.
func (d Dataset) Head(n int) Dataset {
	if n > len(d.Draws) {
		n = len(d.Draws)
	}
	if n < 0 {
		n = 0
	}
	return Dataset{Draws: d.Draws[:n]}
}

// Tail returns a view over the last n draws (the whole dataset when n exceeds it).
func (d Dataset) Tail(n int) Dataset {
	if n >= len(d.Draws) {
		return d
	}
	if n <= 0 {
		return Dataset{}
	}
	return Dataset{Draws: d.Draws[len(d.Draws)-n:]}
}

// LatestDrawID returns the id of the most recent draw, or 0 when empty.
func (d Dataset) LatestDrawID() int {
	if len(d.Draws) == 0 {
		return 0
	}
	return d.Draws[len(d.Draws)-1].DrawID
}

// ScoreTable maps every board number to a weight in [0,1].
// Index i holds the score of number i+1, so all 60 numbers are always present.
type ScoreTable [NumberCount]float64

// Get returns the score of number n, or 0 when n is off the board.
func (s ScoreTable) Get(n int) float64 {
	if n < MinNumber || n > MaxNumber {
		return 0
	}
	return s[n-MinNumber]
}

// Set assigns the score of number n.
func (s *ScoreTable) Set(n int, v float64) {
	s[n-MinNumber] = v
}

// Map returns the scores keyed by number, the shape API responses use.
func (s ScoreTable) Map() map[int]float64 {
	out := make(map[int]float64, NumberCount)
	for i, v := range s {
		out[i+MinNumber] = v
	}
	return out
}

// Tier names one quantile bucket of the ranked numbers.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// GroupPartition splits the board into four disjoint tiers, A holding the
// top-ranked numbers and D the bottom ones. Each tier keeps rank order.
type GroupPartition struct {
	A []int `json:"A"`
	B []int `json:"B"`
	C []int `json:"C"`
	D []int `json:"D"`
}

// Tier returns the numbers of the named tier.
func (g GroupPartition) Tier(t Tier) []int {
	switch t {
	case TierA:
		return g.A
	case TierB:
		return g.B
	case TierC:
		return g.C
	case TierD:
		return g.D
	default:
		return nil
	}
}

// Combination is one candidate selection of six numbers.
type Combination struct {
	Numbers     [NumbersPerDraw]int `json:"numbers"`
	Score       float64             `json:"score"`
	Explanation string              `json:"explanation"`
}

// Key returns the sorted-tuple identity of the combination.
func (c Combination) Key() [NumbersPerDraw]int {
	key := c.Numbers
	sort.Ints(key[:])
	return key
}

// Hits counts how many of the combination's numbers appear in the draw.
func (c Combination) Hits(d Draw) int {
	return CountHits(c.Numbers, d)
}

// CountHits counts how many numbers of a selection appear in the draw.
func CountHits(numbers [NumbersPerDraw]int, d Draw) int {
	hits := 0
	for _, n := range numbers {
		if d.Contains(n) {
			hits++
		}
	}
	return hits
}

// Card is a purchasable bundle of combinations.
type Card struct {
	ID           string        `json:"id"`
	Combinations []Combination `json:"combinations"`
}

// CardID formats the 1-based card index as card-NNN.
func CardID(index int) string {
	return fmt.Sprintf("card-%03d", index)
}
