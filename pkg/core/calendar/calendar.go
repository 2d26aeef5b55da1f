package calendar

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Scale is the fixed-point factor for duty points (3 decimal places)
const Scale = 1000

// Points is a fixed-point duty point value (points × Scale)
type Points int64

// Day weights
const (
	WeekdayPoints    Points = 1 * Scale
	FridayPoints     Points = 3 * Scale / 2
	WeekendPoints    Points = 2 * Scale
	HolidayPoints    Points = 2 * Scale
	HolidayEvePoints Points = 3 * Scale / 2
)

var scaleDecimal = decimal.NewFromInt(Scale)

// PointsFromDecimal converts a decimal value to fixed-point, rounding half away from zero at the 3rd place
func PointsFromDecimal(d decimal.Decimal) Points {
	return Points(d.Mul(scaleDecimal).Round(0).IntPart())
}

// Decimal returns the exact decimal value of p
func (p Points) Decimal() decimal.Decimal {
	return decimal.New(int64(p), -3)
}

// String formats p without trailing zeros (1.5, 2, 0.125)
func (p Points) String() string {
	return p.Decimal().String()
}

// Class describes why a day carries its weight
type Class string

const (
	ClassWeekday    Class = "weekday"
	ClassFriday     Class = "friday"
	ClassWeekend    Class = "weekend"
	ClassHoliday    Class = "holiday"
	ClassHolidayEve Class = "holiday-eve"
)

// Holidays is a set of public-holiday day-of-month numbers (1..31) within one month
type Holidays map[int]bool

// NewHolidays builds a set from day numbers
func NewHolidays(days ...int) Holidays {
	h := make(Holidays, len(days))
	for _, d := range days {
		h[d] = true
	}
	return h
}

// Contains reports whether day is a public holiday
func (h Holidays) Contains(day int) bool {
	return h[day]
}

// Merge adds all days of other into h
func (h Holidays) Merge(other Holidays) {
	for d := range other {
		h[d] = true
	}
}

// DutyDay is one calendar date of the target month requiring exactly one assignee
type DutyDay struct {
	Date   time.Time
	Class  Class
	Points Points
}

// DayOfMonth returns the day number within the month
func (d DutyDay) DayOfMonth() int {
	return d.Date.Day()
}

// Ordinal returns a day count usable for gap arithmetic between dates
func (d DutyDay) Ordinal() int {
	return int(d.Date.Unix() / 86400)
}

// ISOWeek returns the ISO year and week number of the date
func (d DutyDay) ISOWeek() (int, int) {
	return d.Date.ISOWeek()
}

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseMonth parses "YYYY-MM" into its year and month
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

// baseWeight returns the weekday/weekend weight of a date
func baseWeight(wd time.Weekday) (Class, Points) {
	switch wd {
	case time.Saturday, time.Sunday:
		return ClassWeekend, WeekendPoints
	case time.Friday:
		return ClassFriday, FridayPoints
	default:
		return ClassWeekday, WeekdayPoints
	}
}

// Weigh computes the class and points for a single day.
//
// Rules, in order:
//   - Mon-Thu 1, Fri 1.5, Sat/Sun 2
//   - a public holiday is 2
//   - the day before a public holiday is 1.5, only if still below 2
//   - the last day of the month flagged as a holiday eve is 1.5, only if still below 2
func Weigh(date time.Time, holidays Holidays, lastDayIsEve bool) (Class, Points) {
	class, points := baseWeight(date.Weekday())

	day := date.Day()
	lastDay := DaysIn(date.Year(), date.Month())

	if holidays.Contains(day) {
		return ClassHoliday, HolidayPoints
	}

	// The eve check only looks inside the month; the month boundary is the lastDayIsEve flag
	if day < lastDay && holidays.Contains(day+1) && points < WeekendPoints {
		class, points = ClassHolidayEve, HolidayEvePoints
	}

	if day == lastDay && lastDayIsEve && points < WeekendPoints {
		class, points = ClassHolidayEve, HolidayEvePoints
	}

	return class, points
}

// BuildDutyDays returns every day of the month in order with its weight
func BuildDutyDays(year int, month time.Month, holidays Holidays, lastDayIsEve bool) []DutyDay {
	n := DaysIn(year, month)
	days := make([]DutyDay, 0, n)
	for d := 1; d <= n; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		class, points := Weigh(date, holidays, lastDayIsEve)
		days = append(days, DutyDay{
			Date:   date,
			Class:  class,
			Points: points,
		})
	}
	return days
}

// TotalPoints sums the weights of days
func TotalPoints(days []DutyDay) Points {
	var total Points
	for _, d := range days {
		total += d.Points
	}
	return total
}
