package services

import (
	"github.com/jakechorley/duty-planner/pkg/core/model"
	"github.com/jakechorley/duty-planner/pkg/core/planner"
	"github.com/jakechorley/duty-planner/pkg/db"
)

// buildReport converts a roster into the published report shape
func buildReport(runID string, month *MonthPlan, problem *planner.Problem, roster *planner.Roster) *model.Report {
	report := &model.Report{
		RunID:            runID,
		Year:             month.Year,
		Month:            month.Month,
		Schedule:         make([]model.ScheduleRow, len(roster.Days)),
		Scores:           make([]model.ScoreRow, len(roster.Scores.Lines)),
		AverageDutyScore: roster.Scores.AverageMonthPoints.Decimal(),
	}

	for d, rd := range roster.Days {
		report.Schedule[d] = model.ScheduleRow{
			Date:       rd.Day.Date,
			AssignedTo: roster.AssigneeName(problem, planner.DayID(d)),
			Points:     rd.Day.Points.Decimal(),
			Standby:    roster.StandbyName(problem, planner.DayID(d)),
		}
	}

	for i, line := range roster.Scores.Lines {
		report.Scores[i] = model.ScoreRow{
			Name:               line.DisplayName,
			ScoreAfterPlanning: line.Final,
			NextScore:          line.Next,
		}
	}

	return report
}

// convertToDBRecords flattens a planned month for the history store
func convertToDBRecords(runID string, month *MonthPlan, roster *planner.Roster, report *model.Report) (*db.PlanningRun, []db.RosterEntry, []db.ScoreEntry) {
	holidays := make([]int32, 0, len(month.Holidays))
	for _, d := range month.HolidayDays() {
		holidays = append(holidays, int32(d))
	}

	run := &db.PlanningRun{
		ID:                 runID,
		Month:              month.Key(),
		Status:             roster.Solution.Status.String(),
		Objective:          int64(roster.Solution.Objective),
		AverageMonthPoints: int64(roster.Scores.AverageMonthPoints),
		Holidays:           holidays,
		LastDayIsEve:       month.LastDayIsEve,
		Nodes:              roster.Solution.Stats.Nodes,
	}

	entries := make([]db.RosterEntry, len(report.Schedule))
	for i, row := range report.Schedule {
		standby := row.Standby
		if roster.Days[i].Standby == planner.NoPerson {
			standby = ""
		}
		entries[i] = db.RosterEntry{
			RunID:    runID,
			DutyDate: row.Date.Format("2006-01-02"),
			Points:   int64(roster.Days[i].Day.Points),
			Assignee: row.AssignedTo,
			Standby:  standby,
		}
	}

	scores := make([]db.ScoreEntry, len(roster.Scores.Lines))
	for i, line := range roster.Scores.Lines {
		scores[i] = db.ScoreEntry{
			RunID:    runID,
			Position: i,
			Name:     line.DisplayName,
			Frozen:   line.Frozen,
			Duties:   line.Duties,
			Final:    line.Final.String(),
			Next:     line.Next.String(),
		}
	}

	return run, entries, scores
}
