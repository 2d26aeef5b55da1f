package holidays

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/jakechorley/duty-planner/pkg/core/calendar"
)

var icsDateFormats = []string{
	"20060102T150405Z",
	"20060102T150405",
	"20060102",
}

type icsHoliday struct {
	summary string
	start   time.Time
	days    int // days covered by each occurrence, at least 1
	rrule   string
}

// ICSCalendar holds the holiday events of an iCalendar file, recurring or not
type ICSCalendar struct {
	events []icsHoliday
}

// ParseICS reads VEVENTs from an iCalendar stream. Events without a usable
// DTSTART are skipped.
func ParseICS(r io.Reader) (*ICSCalendar, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse holiday calendar: %w", err)
	}

	c := &ICSCalendar{}
	for _, evt := range cal.Events() {
		dtStart := evt.GetProperty(ics.ComponentPropertyDtStart)
		if dtStart == nil {
			continue
		}
		start, err := parseICSDate(dtStart.Value)
		if err != nil {
			continue
		}

		holiday := icsHoliday{start: start, days: 1}
		// DTEND is exclusive: a date, or a time that spills into its own day
		if dtEnd := evt.GetProperty(ics.ComponentPropertyDtEnd); dtEnd != nil {
			if end, err := parseICSTime(dtEnd.Value); err == nil {
				last := dateOf(end)
				if end.Equal(last) {
					last = last.AddDate(0, 0, -1)
				}
				if span := int(last.Sub(start).Hours()/24) + 1; span > 1 {
					holiday.days = span
				}
			}
		}
		if summary := evt.GetProperty(ics.ComponentPropertySummary); summary != nil {
			holiday.summary = strings.TrimSpace(summary.Value)
		}
		if rule := evt.GetProperty(ics.ComponentPropertyRrule); rule != nil {
			holiday.rrule = rule.Value
		}
		c.events = append(c.events, holiday)
	}

	return c, nil
}

// Len returns the number of events read
func (c *ICSCalendar) Len() int {
	return len(c.events)
}

// HolidaysIn returns the days of the month covered by an event or one of its recurrences
func (c *ICSCalendar) HolidaysIn(year int, month time.Month) (calendar.Holidays, error) {
	start, end := monthRange(year, month)
	h := calendar.NewHolidays()

	for _, evt := range c.events {
		if evt.rrule == "" {
			addInMonth(h, spanDays([]time.Time{evt.start}, evt.days), year, month)
			continue
		}

		option, err := rrule.StrToROption(evt.rrule)
		if err != nil {
			return nil, fmt.Errorf("invalid RRULE on holiday %q: %w", evt.summary, err)
		}
		option.Dtstart = evt.start
		rule, err := rrule.NewRRule(*option)
		if err != nil {
			return nil, fmt.Errorf("invalid RRULE on holiday %q: %w", evt.summary, err)
		}
		// Occurrences starting before the month may still run into it
		from := start.AddDate(0, 0, 1-evt.days)
		addInMonth(h, spanDays(rule.Between(from, end, true), evt.days), year, month)
	}

	return h, nil
}

// spanDays expands each occurrence into the consecutive days it covers
func spanDays(occurrences []time.Time, days int) []time.Time {
	if days <= 1 {
		return occurrences
	}
	out := make([]time.Time, 0, len(occurrences)*days)
	for _, o := range occurrences {
		for i := 0; i < days; i++ {
			out = append(out, o.AddDate(0, 0, i))
		}
	}
	return out
}

func parseICSTime(value string) (time.Time, error) {
	for _, format := range icsDateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

func parseICSDate(value string) (time.Time, error) {
	t, err := parseICSTime(value)
	if err != nil {
		return time.Time{}, err
	}
	return dateOf(t), nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
