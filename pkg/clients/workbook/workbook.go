// Package workbook reads the staff sheet from and writes the planning report to
// local .xlsx files.
package workbook

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jakechorley/duty-planner/pkg/core/model"
)

// DefaultOutputPath is the report workbook written when none is configured
const DefaultOutputPath = "Duty_Planner_Combined.xlsx"

// Source reads staff records from one sheet of a workbook
type Source struct {
	Path    string
	Sheet   string // First sheet when empty
	Columns model.StaffColumns
}

// ListStaff opens the workbook and parses the staff sheet
func (s *Source) ListStaff(ctx context.Context) ([]model.StaffRecord, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open staff workbook %s: %w", s.Path, err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	records, err := model.ParseStaffTable(rows, s.Columns)
	if err != nil {
		return nil, fmt.Errorf("failed to parse staff: %w", err)
	}
	return records, nil
}

// Sink writes the report as a two-sheet workbook, replacing any existing file
type Sink struct {
	Path string
}

// Name identifies the sink in logs
func (s *Sink) Name() string {
	return "workbook:" + s.Path
}

// PublishReport writes the duty schedule and updated scores sheets
func (s *Sink) PublishReport(ctx context.Context, report *model.Report) error {
	path := s.Path
	if path == "" {
		path = DefaultOutputPath
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// The default sheet becomes the schedule so it opens first
	if err := f.SetSheetName(f.GetSheetName(0), model.SheetDutySchedule); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	if err := writeTable(f, model.SheetDutySchedule, report.ScheduleTable(), headerStyle); err != nil {
		return err
	}
	f.SetColWidth(model.SheetDutySchedule, "A", "A", 12)
	f.SetColWidth(model.SheetDutySchedule, "B", "B", 24)
	f.SetColWidth(model.SheetDutySchedule, "D", "D", 24)

	if _, err := f.NewSheet(model.SheetUpdatedScores); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", model.SheetUpdatedScores, err)
	}
	if err := writeTable(f, model.SheetUpdatedScores, report.ScoreTable(), headerStyle); err != nil {
		return err
	}
	f.SetColWidth(model.SheetUpdatedScores, "A", "A", 24)
	f.SetColWidth(model.SheetUpdatedScores, "B", "D", 20)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report workbook %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i+1, sheet, err)
		}
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header of %q: %w", sheet, err)
		}
	}
	return nil
}
