package dataset

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Row is one dataset record as found in the source file.
type Row struct {
	ID               string `mapstructure:"id"`
	Goal             string `mapstructure:"goal"`
	Domain           string `mapstructure:"domain"`
	Roadmap          string `mapstructure:"roadmap"`
	Difficulty       string `mapstructure:"difficulty"`
	EstimatedHours   string `mapstructure:"estimated_hours"`
	Prerequisites    string `mapstructure:"prerequisites"`
	LearningOutcomes string `mapstructure:"learning_outcomes"`
}

var headerAliases = map[string]string{
	"roadmap_text": "roadmap",
	"hours":        "estimated_hours",
	"outcomes":     "learning_outcomes",
}

// normalizeHeader turns "Estimated Hours" into "estimated_hours".
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.Join(strings.Fields(h), "_")
	if alias, ok := headerAliases[h]; ok {
		return alias
	}
	return h
}

// decodeRow maps raw cells onto Row. Cells are strings, so numbers are decoded weakly.
func decodeRow(record map[string]any) (*Row, error) {
	var row Row
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &row,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(record); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}

	row.ID = strings.TrimSpace(row.ID)
	row.Goal = strings.TrimSpace(row.Goal)
	row.Domain = strings.TrimSpace(row.Domain)
	row.Difficulty = strings.TrimSpace(row.Difficulty)
	row.Prerequisites = strings.TrimSpace(row.Prerequisites)
	row.LearningOutcomes = strings.TrimSpace(row.LearningOutcomes)
	row.EstimatedHours = strings.TrimSpace(row.EstimatedHours)

	return &row, nil
}

var leadingNumber = regexp.MustCompile(`^\d+(\.\d+)?`)

// parseHours reads an hours cell such as "250", "300.0" or "1200 hours".
// An empty or NaN cell is 0 with no error.
func parseHours(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return 0, nil
	}

	number := cell
	if _, err := strconv.ParseFloat(cell, 64); err != nil {
		number = leadingNumber.FindString(cell)
		if number == "" {
			return 0, fmt.Errorf("estimated hours %q is not a number", cell)
		}
	}

	hours, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return 0, fmt.Errorf("estimated hours %q is not a number", cell)
	}
	return int(math.Round(hours)), nil
}
