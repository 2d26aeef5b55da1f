package icsexport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/duty-planner/pkg/core/model"
)

func testReport() *model.Report {
	return &model.Report{
		RunID: "run-1",
		Year:  2027,
		Month: time.February,
		Schedule: []model.ScheduleRow{
			{Date: time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC), AssignedTo: "Alice", Points: decimal.NewFromInt(1), Standby: "Bob"},
			{Date: time.Date(2027, 2, 2, 0, 0, 0, 0, time.UTC), AssignedTo: "", Points: decimal.NewFromInt(1), Standby: "No eligible staff"},
		},
	}
}

func TestSerialize(t *testing.T) {
	stamp := time.Date(2027, 1, 20, 9, 0, 0, 0, time.UTC)
	out := Serialize(testReport(), stamp)

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 3, "unassigned day only gets a standby event")

	summaries := make([]string, len(events))
	for i, evt := range events {
		summaries[i] = evt.GetProperty(ics.ComponentPropertySummary).Value
	}
	assert.Equal(t, []string{"Duty: Alice", "Standby: Bob", "Standby: No eligible staff"}, summaries)

	start := events[0].GetProperty(ics.ComponentPropertyDtStart)
	require.NotNil(t, start)
	assert.Equal(t, "20270201", start.Value)
	assert.Equal(t, "20270201-duty-run-1@duty-planner", events[0].Id())
}

func TestSink_PublishReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.ics")
	sink := &Sink{Path: path, Now: func() time.Time { return time.Date(2027, 1, 20, 0, 0, 0, 0, time.UTC) }}

	require.NoError(t, sink.PublishReport(context.Background(), testReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN:VCALENDAR")
	assert.Contains(t, string(data), "SUMMARY:Duty: Alice")
}
