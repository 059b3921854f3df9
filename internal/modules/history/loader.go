// Package history loads the draw history CSV and caches the cleaned dataset.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/aristath/megafacil/internal/domain"
)

// Column names of the history source.
const (
	ColumnDrawID = "drawId"
	// ColumnDrawIDLegacy is the header used by the official Mega-Sena exports.
	ColumnDrawIDLegacy = "concurso"
)

// NumberColumns are the six drawn-number columns.
var NumberColumns = [domain.NumbersPerDraw]string{"n1", "n2", "n3", "n4", "n5", "n6"}

// Load reads and cleans the history CSV at path.
func Load(path string) (domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Dataset{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return domain.Dataset{}, fmt.Errorf("failed to open history csv: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse cleans history rows read from r.
//
// Every field is coerced to a number and rows with unparsable fields are
// dropped. Rows need a positive draw id and six distinct numbers in [1,60].
// Duplicate draw ids keep the last occurrence; the result is sorted by id.
func Parse(r io.Reader) (domain.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Dataset{}, fmt.Errorf("%w: empty csv", domain.ErrDataFormat)
		}
		return domain.Dataset{}, fmt.Errorf("%w: %v", domain.ErrDataFormat, err)
	}

	idCol, numberCols, err := resolveColumns(header)
	if err != nil {
		return domain.Dataset{}, err
	}

	byID := make(map[int]domain.Draw)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("%w: %v", domain.ErrDataFormat, err)
		}

		draw, ok := parseRow(record, idCol, numberCols)
		if !ok || !draw.Valid() {
			continue
		}
		byID[draw.DrawID] = draw
	}

	if len(byID) == 0 {
		return domain.Dataset{}, fmt.Errorf("%w: no valid rows", domain.ErrDataFormat)
	}

	draws := make([]domain.Draw, 0, len(byID))
	for _, d := range byID {
		draws = append(draws, d)
	}
	sort.Slice(draws, func(i, j int) bool {
		return draws[i].DrawID < draws[j].DrawID
	})

	return domain.Dataset{Draws: draws}, nil
}

func resolveColumns(header []string) (int, [domain.NumbersPerDraw]int, error) {
	var numberCols [domain.NumbersPerDraw]int
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	idCol, ok := index[ColumnDrawID]
	if !ok {
		idCol, ok = index[ColumnDrawIDLegacy]
	}
	if !ok {
		missing = append(missing, ColumnDrawID)
	}
	for i, name := range NumberColumns {
		col, ok := index[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		numberCols[i] = col
	}

	if len(missing) > 0 {
		return 0, numberCols, fmt.Errorf("%w: missing columns in csv: %s",
			domain.ErrDataFormat, strings.Join(missing, ", "))
	}
	return idCol, numberCols, nil
}

func parseRow(record []string, idCol int, numberCols [domain.NumbersPerDraw]int) (domain.Draw, bool) {
	var draw domain.Draw

	id, ok := parseField(record, idCol)
	if !ok {
		return draw, false
	}
	draw.DrawID = id

	for i, col := range numberCols {
		n, ok := parseField(record, col)
		if !ok {
			return draw, false
		}
		draw.Numbers[i] = n
	}
	return draw, true
}

// parseField coerces one cell to an integer. Decimal values are truncated
// toward zero; empty, non-numeric and non-finite cells are rejected.
func parseField(record []string, col int) (int, bool) {
	if col >= len(record) {
		return 0, false
	}
	raw := strings.TrimSpace(record[col])
	if raw == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
