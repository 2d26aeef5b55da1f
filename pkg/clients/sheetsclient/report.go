package sheetsclient

import (
	"context"
	"fmt"
	"slices"

	"github.com/jakechorley/duty-planner/pkg/core/model"
)

// ReportSink publishes the planning report as two tabs of a spreadsheet
type ReportSink struct {
	Client        *Client
	SpreadsheetID string
}

// Name identifies the sink in logs
func (s *ReportSink) Name() string {
	return "sheets:" + s.SpreadsheetID
}

// PublishReport writes the schedule and score tabs for the report's month.
// Existing tabs of the same month are cleared and overwritten.
func (s *ReportSink) PublishReport(ctx context.Context, report *model.Report) error {
	existing, err := s.Client.SheetTitles(ctx, s.SpreadsheetID)
	if err != nil {
		return err
	}

	tabs := []struct {
		title  string
		values [][]interface{}
	}{
		{tabTitle(model.SheetDutySchedule, report), report.ScheduleTable()},
		{tabTitle(model.SheetUpdatedScores, report), report.ScoreTable()},
	}

	for _, tab := range tabs {
		if slices.Contains(existing, tab.title) {
			if err := s.Client.ClearValues(ctx, s.SpreadsheetID, quoteTab(tab.title)); err != nil {
				return fmt.Errorf("failed to clear tab %q: %w", tab.title, err)
			}
		} else if _, err := s.Client.CreateSheet(ctx, s.SpreadsheetID, tab.title); err != nil {
			return fmt.Errorf("failed to create tab %q: %w", tab.title, err)
		}

		if err := s.Client.UpdateValues(ctx, s.SpreadsheetID, quoteTab(tab.title)+"!A1", tab.values); err != nil {
			return fmt.Errorf("failed to write tab %q: %w", tab.title, err)
		}
	}

	return nil
}

// tabTitle names a month's tab, e.g. "Duty Schedule - February 2027"
func tabTitle(sheet string, report *model.Report) string {
	return fmt.Sprintf("%s - %s", sheet, report.Title())
}

// quoteTab wraps a tab title for use in A1 notation
func quoteTab(title string) string {
	return "'" + title + "'"
}
