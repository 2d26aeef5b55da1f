// Package holidays resolves the public holidays of a month from operator input,
// recurrence rules in config and iCalendar files.
package holidays

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-planner/pkg/core/availability"
	"github.com/jakechorley/duty-planner/pkg/core/calendar"
)

// Calendar provides the holidays falling in a month
type Calendar interface {
	HolidaysIn(year int, month time.Month) (calendar.Holidays, error)
}

// monthRange returns the first and last instant of a month in UTC
func monthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// addInMonth marks every occurrence that falls in the month
func addInMonth(h calendar.Holidays, occurrences []time.Time, year int, month time.Month) {
	for _, o := range occurrences {
		if o.Year() == year && o.Month() == month {
			h[o.Day()] = true
		}
	}
}

// StaticCalendar is a fixed set of days that applies to whatever month is asked for
type StaticCalendar struct {
	days   []int
	logger *zap.Logger
}

// ParseDayList decodes operator input such as "5/19" or "5, 19"
func ParseDayList(text string, logger *zap.Logger) (*StaticCalendar, []string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	days, warnings := availability.ParseDays(text)
	return &StaticCalendar{days: days, logger: logger}, warnings
}

// HolidaysIn returns the days that exist in the month; others are dropped with a warning
func (c *StaticCalendar) HolidaysIn(year int, month time.Month) (calendar.Holidays, error) {
	last := calendar.DaysIn(year, month)
	h := calendar.NewHolidays()
	for _, d := range c.days {
		if d > last {
			c.logger.Warn("Ignoring holiday day outside the month",
				zap.Int("day", d),
				zap.String("month", fmt.Sprintf("%d-%02d", year, int(month))))
			continue
		}
		h[d] = true
	}
	return h, nil
}

// MonthOnly limits a calendar to a single month; other months have no holidays
type MonthOnly struct {
	Year     int
	Month    time.Month
	Calendar Calendar
}

// HolidaysIn returns the wrapped calendar's holidays for the configured month only
func (m MonthOnly) HolidaysIn(year int, month time.Month) (calendar.Holidays, error) {
	if year != m.Year || month != m.Month || m.Calendar == nil {
		return calendar.NewHolidays(), nil
	}
	return m.Calendar.HolidaysIn(year, month)
}

// Rule is a named recurrence rule, e.g. FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25
type Rule struct {
	Name  string
	RRule string
}

type compiledRule struct {
	name   string
	option *rrule.ROption
	set    *rrule.Set
}

// RuleCalendar expands recurrence rules. A rule is either a bare RRULE value
// (DTSTART=... allowed inline) or an iCalendar block with DTSTART: and RRULE: lines.
// Rules without a start are anchored at the start of the requested month.
type RuleCalendar struct {
	rules []compiledRule
}

// NewRuleCalendar parses every rule up front
func NewRuleCalendar(rules []Rule) (*RuleCalendar, error) {
	c := &RuleCalendar{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		compiled := compiledRule{name: r.Name}
		if strings.Contains(strings.ToUpper(r.RRule), "DTSTART:") {
			set, err := rrule.StrToRRuleSet(r.RRule)
			if err != nil {
				return nil, fmt.Errorf("failed to parse rrule for holiday %d (%s): %w", i, r.Name, err)
			}
			compiled.set = set
		} else {
			option, err := rrule.StrToROption(r.RRule)
			if err != nil {
				return nil, fmt.Errorf("failed to parse rrule for holiday %d (%s): %w", i, r.Name, err)
			}
			compiled.option = option
		}
		c.rules = append(c.rules, compiled)
	}
	return c, nil
}

// HolidaysIn expands every rule over the month
func (c *RuleCalendar) HolidaysIn(year int, month time.Month) (calendar.Holidays, error) {
	start, end := monthRange(year, month)
	h := calendar.NewHolidays()

	for _, r := range c.rules {
		if r.set != nil {
			addInMonth(h, r.set.Between(start, end, true), year, month)
			continue
		}
		option := *r.option
		if option.Dtstart.IsZero() {
			option.Dtstart = start
		}
		rule, err := rrule.NewRRule(option)
		if err != nil {
			return nil, fmt.Errorf("failed to expand holiday %s: %w", r.name, err)
		}
		addInMonth(h, rule.Between(start, end, true), year, month)
	}

	return h, nil
}

// Union merges the holidays of several calendars
type Union []Calendar

// HolidaysIn returns the union of every member's holidays
func (u Union) HolidaysIn(year int, month time.Month) (calendar.Holidays, error) {
	h := calendar.NewHolidays()
	for _, c := range u {
		if c == nil {
			continue
		}
		more, err := c.HolidaysIn(year, month)
		if err != nil {
			return nil, err
		}
		h.Merge(more)
	}
	return h, nil
}
