// Package testing provides fixtures and mocks shared by the package tests.
package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aristath/megafacil/internal/domain"
)

// drawRows is a fixed, valid draw history used by fixtures.
var drawRows = [][domain.NumbersPerDraw]int{
	{4, 8, 15, 16, 23, 42},
	{1, 9, 17, 25, 33, 41},
	{4, 10, 15, 30, 45, 60},
	{2, 8, 19, 23, 37, 55},
	{5, 11, 16, 29, 42, 58},
	{3, 12, 21, 34, 47, 59},
	{6, 13, 22, 35, 48, 57},
	{7, 14, 24, 36, 49, 56},
	{8, 18, 26, 38, 50, 54},
	{9, 20, 27, 39, 51, 53},
	{10, 28, 31, 40, 44, 52},
	{1, 15, 23, 32, 43, 46},
}

// MaxFixtureDraws is the largest history NewDrawFixtures can build.
var MaxFixtureDraws = len(drawRows)

// NewDrawFixtures returns the first n fixture draws with ids 1..n.
func NewDrawFixtures(n int) domain.Dataset {
	if n > len(drawRows) {
		panic(fmt.Sprintf("at most %d fixture draws available, asked for %d", len(drawRows), n))
	}
	ds := domain.Dataset{}
	for i := 0; i < n; i++ {
		ds.Draws = append(ds.Draws, domain.Draw{DrawID: i + 1, Numbers: drawRows[i]})
	}
	return ds
}

// HistoryCSV renders a dataset in the drawId,n1..n6 layout.
func HistoryCSV(ds domain.Dataset) string {
	var b strings.Builder
	b.WriteString("drawId,n1,n2,n3,n4,n5,n6\n")
	for _, d := range ds.Draws {
		fmt.Fprintf(&b, "%d", d.DrawID)
		for _, n := range d.Numbers {
			fmt.Fprintf(&b, ",%d", n)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteHistoryCSV writes ds to a CSV in a temp dir and returns its path.
func WriteHistoryCSV(t *testing.T, ds domain.Dataset) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	if err := os.WriteFile(path, []byte(HistoryCSV(ds)), 0644); err != nil {
		t.Fatalf("failed to write history csv: %v", err)
	}
	return path
}
