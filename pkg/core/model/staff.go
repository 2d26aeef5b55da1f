package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumn is returned when the staff sheet header lacks a required column
var ErrMissingColumn = errors.New("missing required column")

// StaffColumns names the staff sheet headers
type StaffColumns struct {
	Name        string `yaml:"name"`
	Constraints string `yaml:"constraints"`
	Score       string `yaml:"score"`
}

// DefaultStaffColumns returns the headers of the standard staff template
func DefaultStaffColumns() StaffColumns {
	return StaffColumns{
		Name:        "Name",
		Constraints: "On Leave/Course",
		Score:       "Current Score",
	}
}

// WithDefaults fills unset column names from DefaultStaffColumns
func (c StaffColumns) WithDefaults() StaffColumns {
	d := DefaultStaffColumns()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.Constraints == "" {
		c.Constraints = d.Constraints
	}
	if c.Score == "" {
		c.Score = d.Score
	}
	return c
}

// ParseStaffTable converts a sheet (header row first) into staff records.
// Headers are matched case-insensitively; rows without a name are skipped.
func ParseStaffTable(raw [][]string, cols StaffColumns) ([]StaffRecord, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}
	cols = cols.WithDefaults()

	// Build field index map from header row
	fieldIndexes := make(map[string]int)
	for _, field := range []string{cols.Name, cols.Constraints, cols.Score} {
		index := -1
		for i, cell := range raw[0] {
			if strings.EqualFold(strings.TrimSpace(cell), field) {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, field)
		}
		fieldIndexes[field] = index
	}

	getField := func(field string, row []string) string {
		index := fieldIndexes[field]
		if index >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[index])
	}

	records := make([]StaffRecord, 0, len(raw)-1)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		name := getField(cols.Name, row)
		if name == "" {
			continue
		}

		records = append(records, StaffRecord{
			Row:         i + 1,
			Name:        name,
			Constraints: getField(cols.Constraints, row),
			Score:       getField(cols.Score, row),
		})
	}

	return records, nil
}
