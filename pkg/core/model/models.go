package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sheet names of the published workbook
const (
	SheetDutySchedule  = "Duty Schedule"
	SheetUpdatedScores = "Updated Scores"
)

// Header rows of the published sheets
var (
	ScheduleHeaders = []string{"Date", "Assigned To", "Points", "Standby"}
	ScoreHeaders    = []string{"Name", "Score After Planning", "Next Score to Use", "Average Duty Score"}
)

// StaffRecord is one raw row of the staff sheet
type StaffRecord struct {
	Row         int // 1-based sheet row, header is row 1
	Name        string
	Constraints string
	Score       string
}

// ScheduleRow is one day of the published duty schedule
type ScheduleRow struct {
	Date       time.Time
	AssignedTo string // Empty when nobody could take the day
	Points     decimal.Decimal
	Standby    string
}

// ScoreRow is one person's published score line
type ScoreRow struct {
	Name               string
	ScoreAfterPlanning decimal.Decimal
	NextScore          decimal.Decimal
}

// Report is the published outcome of one planning run
type Report struct {
	RunID            string
	Year             int
	Month            time.Month
	Schedule         []ScheduleRow
	Scores           []ScoreRow
	AverageDutyScore decimal.Decimal
}

// Title names the planned month, e.g. "February 2027"
func (r *Report) Title() string {
	return time.Date(r.Year, r.Month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// ScheduleTable renders the duty schedule sheet, header first
func (r *Report) ScheduleTable() [][]interface{} {
	rows := make([][]interface{}, 0, len(r.Schedule)+1)
	rows = append(rows, toRow(ScheduleHeaders))
	for _, s := range r.Schedule {
		rows = append(rows, []interface{}{
			s.Date.Format("2006-01-02"),
			s.AssignedTo,
			s.Points.InexactFloat64(),
			s.Standby,
		})
	}
	return rows
}

// ScoreTable renders the updated scores sheet, header first.
// The average duty score only appears on the first data row.
func (r *Report) ScoreTable() [][]interface{} {
	rows := make([][]interface{}, 0, len(r.Scores)+1)
	rows = append(rows, toRow(ScoreHeaders))
	for i, s := range r.Scores {
		row := []interface{}{
			s.Name,
			s.ScoreAfterPlanning.InexactFloat64(),
			s.NextScore.InexactFloat64(),
		}
		if i == 0 {
			row = append(row, r.AverageDutyScore.InexactFloat64())
		}
		rows = append(rows, row)
	}
	return rows
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
