package calendar

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDutyDays_FebruaryStartingMonday(t *testing.T) {
	// February 2027 starts on a Monday and has 28 days
	days := BuildDutyDays(2027, time.February, nil, false)
	require.Len(t, days, 28)

	assert.Equal(t, time.Monday, days[0].Date.Weekday())
	assert.Equal(t, WeekdayPoints, days[0].Points)
	assert.Equal(t, FridayPoints, days[4].Points, "first Friday")
	assert.Equal(t, ClassFriday, days[4].Class)
	assert.Equal(t, WeekendPoints, days[5].Points, "first Saturday")
	assert.Equal(t, WeekendPoints, days[6].Points, "first Sunday")

	// 4 weeks of (4 x 1 + 1.5 + 2 x 2)
	assert.Equal(t, Points(38000), TotalPoints(days))
}

func TestBuildDutyDays_ThirtyDayMonthNoHolidays(t *testing.T) {
	// June 2026: 30 days starting on a Monday
	days := BuildDutyDays(2026, time.June, nil, false)
	require.Len(t, days, 30)
	assert.Equal(t, Points(40000), TotalPoints(days))
}

func TestWeigh_HolidayAndEve(t *testing.T) {
	// Wednesday 10 Feb 2027 as a holiday, Tuesday 9th becomes its eve
	days := BuildDutyDays(2027, time.February, NewHolidays(10), false)

	assert.Equal(t, HolidayEvePoints, days[8].Points)
	assert.Equal(t, ClassHolidayEve, days[8].Class)
	assert.Equal(t, HolidayPoints, days[9].Points)
	assert.Equal(t, ClassHoliday, days[9].Class)
	assert.Equal(t, Points(39500), TotalPoints(days))
}

func TestWeigh_EveNeverDowngradesWeekend(t *testing.T) {
	// Monday 15 Feb 2027 holiday: Sunday 14th stays a weekend day
	days := BuildDutyDays(2027, time.February, NewHolidays(15), false)

	assert.Equal(t, WeekendPoints, days[13].Points)
	assert.Equal(t, ClassWeekend, days[13].Class)
	assert.Equal(t, HolidayPoints, days[14].Points)
}

func TestWeigh_HolidayTakesPrecedenceOverEve(t *testing.T) {
	// Consecutive holidays: the 9th is itself a holiday, so it stays at 2
	days := BuildDutyDays(2027, time.February, NewHolidays(9, 10), false)

	assert.Equal(t, HolidayPoints, days[8].Points)
	assert.Equal(t, ClassHoliday, days[8].Class)
	assert.Equal(t, HolidayEvePoints, days[7].Points)
}

func TestWeigh_LastDayEve(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    time.Month
		expected Points
	}{
		{name: "weekday Tuesday upgraded", year: 2026, month: time.June, expected: HolidayEvePoints},
		{name: "Friday stays 1.5", year: 2026, month: time.July, expected: HolidayEvePoints},
		{name: "Sunday unchanged", year: 2027, month: time.February, expected: WeekendPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := BuildDutyDays(tt.year, tt.month, nil, true)
			last := days[len(days)-1]
			assert.Equal(t, tt.expected, last.Points)
		})
	}
}

func TestWeigh_LastDayEveWithoutFlag(t *testing.T) {
	days := BuildDutyDays(2026, time.June, nil, false)
	assert.Equal(t, WeekdayPoints, days[len(days)-1].Points)
}

func TestWeigh_HolidayOnFirstDoesNotMarkLastDay(t *testing.T) {
	// Day 1 being a holiday says nothing about the next month
	days := BuildDutyDays(2026, time.June, NewHolidays(1), false)
	assert.Equal(t, WeekdayPoints, days[len(days)-1].Points)
	assert.Equal(t, HolidayPoints, days[0].Points)
}

func TestPoints_DecimalRoundTrip(t *testing.T) {
	p := PointsFromDecimal(decimal.RequireFromString("12.3456"))
	assert.Equal(t, Points(12346), p)
	assert.Equal(t, "12.346", p.String())
	assert.Equal(t, "1.5", FridayPoints.String())
	assert.Equal(t, "-0.25", Points(-250).String())
}

func TestParseMonth(t *testing.T) {
	year, month, err := ParseMonth("2027-02")
	require.NoError(t, err)
	assert.Equal(t, 2027, year)
	assert.Equal(t, time.February, month)

	_, _, err = ParseMonth("Feb 2027")
	assert.Error(t, err)
}

func TestDutyDay_OrdinalAndISOWeek(t *testing.T) {
	days := BuildDutyDays(2027, time.February, nil, false)
	assert.Equal(t, 4, days[4].Ordinal()-days[0].Ordinal())

	_, w0 := days[0].ISOWeek()
	_, w6 := days[6].ISOWeek()
	_, w7 := days[7].ISOWeek()
	assert.Equal(t, w0, w6)
	assert.Equal(t, w0+1, w7)
}
