package services

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-planner/pkg/core/calendar"
	"github.com/jakechorley/duty-planner/pkg/core/holidays"
)

// MonthPlan is the weighted calendar of a month
type MonthPlan struct {
	Year         int
	Month        time.Month
	Holidays     calendar.Holidays
	LastDayIsEve bool
	EveDerived   bool // LastDayIsEve came from the holiday calendar
	Days         []calendar.DutyDay
	TotalPoints  calendar.Points
}

// Key returns the month as YYYY-MM
func (m *MonthPlan) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// HolidayDays returns the holidays in ascending order
func (m *MonthPlan) HolidayDays() []int {
	days := make([]int, 0, len(m.Holidays))
	for d, ok := range m.Holidays {
		if ok {
			days = append(days, d)
		}
	}
	sort.Ints(days)
	return days
}

// ResolveMonth weighs every day of a month. When lastDayIsEve is nil it is true
// if day 1 of the following month is a holiday in cal.
func ResolveMonth(cal holidays.Calendar, year int, month time.Month, lastDayIsEve *bool, logger *zap.Logger) (*MonthPlan, error) {
	plan := &MonthPlan{
		Year:     year,
		Month:    month,
		Holidays: calendar.NewHolidays(),
	}

	if cal != nil {
		h, err := cal.HolidaysIn(year, month)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve holidays: %w", err)
		}
		plan.Holidays = h
	}
	logger.Debug("Resolved holidays", zap.Ints("days", plan.HolidayDays()))

	switch {
	case lastDayIsEve != nil:
		plan.LastDayIsEve = *lastDayIsEve
	case cal != nil:
		next := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
		h, err := cal.HolidaysIn(next.Year(), next.Month())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve holidays of %s: %w", next.Format("2006-01"), err)
		}
		plan.LastDayIsEve = h.Contains(1)
		plan.EveDerived = true
		logger.Debug("Derived last-day eve from next month", zap.Bool("last_day_is_eve", plan.LastDayIsEve))
	}

	plan.Days = calendar.BuildDutyDays(year, month, plan.Holidays, plan.LastDayIsEve)
	plan.TotalPoints = calendar.TotalPoints(plan.Days)

	return plan, nil
}
