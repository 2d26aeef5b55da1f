package sheetsclient

import (
	"context"
	"fmt"

	"github.com/jakechorley/duty-planner/pkg/core/model"
)

// StaffSource reads the staff table from a spreadsheet range, e.g. "Sheet1" or "Staff!A1:D"
type StaffSource struct {
	Client        *Client
	SpreadsheetID string
	Range         string
	Columns       model.StaffColumns
}

// ListStaff retrieves and parses staff from the configured spreadsheet
func (s *StaffSource) ListStaff(ctx context.Context) ([]model.StaffRecord, error) {
	values, err := s.Client.GetValues(ctx, s.SpreadsheetID, s.Range)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	records, err := model.ParseStaffTable(toStrings(values), s.Columns)
	if err != nil {
		return nil, fmt.Errorf("failed to parse staff: %w", err)
	}

	return records, nil
}

// toStrings renders API cell values as text; numbers keep their shortest form
func toStrings(raw [][]interface{}) [][]string {
	out := make([][]string, len(raw))
	for i, row := range raw {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			switch v := cell.(type) {
			case nil:
				out[i][j] = ""
			case string:
				out[i][j] = v
			default:
				out[i][j] = fmt.Sprint(v)
			}
		}
	}
	return out
}
