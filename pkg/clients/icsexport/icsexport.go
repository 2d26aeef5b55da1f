// Package icsexport publishes a duty schedule as an iCalendar file of all-day events.
package icsexport

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/jakechorley/duty-planner/pkg/core/model"
)

const productID = "-//duty-planner//roster//EN"

// Sink writes the report's schedule to an .ics file
type Sink struct {
	Path string

	// Now stamps DTSTAMP; time.Now when nil
	Now func() time.Time
}

// Name identifies the sink in logs
func (s *Sink) Name() string {
	return "ics:" + s.Path
}

// PublishReport writes one duty and one standby event per day
func (s *Sink) PublishReport(ctx context.Context, report *model.Report) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	content := Serialize(report, now().UTC())
	if err := os.WriteFile(s.Path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write calendar %s: %w", s.Path, err)
	}
	return nil
}

// Serialize renders the schedule as an iCalendar document
func Serialize(report *model.Report, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName("Duty roster " + report.Title())

	for _, row := range report.Schedule {
		day := row.Date.Format("20060102")

		if row.AssignedTo != "" {
			duty := cal.AddEvent(eventUID(report, day, "duty"))
			duty.SetDtStampTime(stamp)
			duty.SetAllDayStartAt(row.Date)
			duty.SetAllDayEndAt(row.Date.AddDate(0, 0, 1))
			duty.SetSummary("Duty: " + row.AssignedTo)
			duty.SetDescription(fmt.Sprintf("Points: %s", row.Points.String()))
		}

		standby := cal.AddEvent(eventUID(report, day, "standby"))
		standby.SetDtStampTime(stamp)
		standby.SetAllDayStartAt(row.Date)
		standby.SetAllDayEndAt(row.Date.AddDate(0, 0, 1))
		standby.SetSummary("Standby: " + row.Standby)
	}

	return cal.Serialize()
}

func eventUID(report *model.Report, day, kind string) string {
	run := report.RunID
	if run == "" {
		run = "draft"
	}
	return strings.ToLower(fmt.Sprintf("%s-%s-%s@duty-planner", day, kind, run))
}
