package holidays

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jakechorley/duty-planner/pkg/core/calendar"
)

func TestParseDayList(t *testing.T) {
	c, warnings := ParseDayList("5/19", nil)
	assert.Empty(t, warnings)

	h, err := c.HolidaysIn(2027, time.May)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(5, 19), h)
}

func TestParseDayList_WarningsAndMissingDays(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c, warnings := ParseDayList("10, easter 30", zap.New(core))
	assert.Len(t, warnings, 1)

	// 30 February does not exist and is skipped
	h, err := c.HolidaysIn(2027, time.February)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(10), h)

	entries := logs.FilterMessage("Ignoring holiday day outside the month").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(30), entries[0].ContextMap()["day"])
	assert.Equal(t, "2027-02", entries[0].ContextMap()["month"])

	h, err = c.HolidaysIn(2027, time.March)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(10, 30), h)
}

func TestParseDayList_DayMissingFromShortMonth(t *testing.T) {
	c, _ := ParseDayList("31", nil)

	h, err := c.HolidaysIn(2026, time.June)
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestRuleCalendar(t *testing.T) {
	c, err := NewRuleCalendar([]Rule{
		{Name: "Christmas", RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"},
		{Name: "Boxing Day", RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=26"},
		{Name: "Spring bank holiday", RRule: "FREQ=YEARLY;BYMONTH=5;BYDAY=-1MO"},
	})
	require.NoError(t, err)

	h, err := c.HolidaysIn(2026, time.December)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(25, 26), h)

	h, err = c.HolidaysIn(2027, time.May)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(31), h)

	h, err = c.HolidaysIn(2027, time.February)
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestRuleCalendar_WithStart(t *testing.T) {
	c, err := NewRuleCalendar([]Rule{
		{Name: "Jubilee", RRule: "DTSTART:20270510T000000Z\nRRULE:FREQ=DAILY;COUNT=1"},
	})
	require.NoError(t, err)

	h, err := c.HolidaysIn(2027, time.May)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(10), h)

	h, err = c.HolidaysIn(2028, time.May)
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestNewRuleCalendar_InvalidRule(t *testing.T) {
	_, err := NewRuleCalendar([]Rule{{Name: "Broken", RRule: "FREQ=SOMETIMES"}})
	assert.Error(t, err)
}

const testICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//duty-planner//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:founders@test\r\n" +
	"DTSTAMP:20260101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20270210\r\n" +
	"SUMMARY:Founders Day\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:christmas@test\r\n" +
	"DTSTAMP:20260101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20251225\r\n" +
	"RRULE:FREQ=YEARLY\r\n" +
	"SUMMARY:Christmas\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:nodate@test\r\n" +
	"SUMMARY:Undated\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseICS(t *testing.T) {
	c, err := ParseICS(strings.NewReader(testICS))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	h, err := c.HolidaysIn(2027, time.February)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(10), h)

	h, err = c.HolidaysIn(2026, time.December)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(25), h)
}

const multiDayICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//duty-planner//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:easter@test\r\n" +
	"DTSTAMP:20260101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20270412\r\n" +
	"DTEND;VALUE=DATE:20270415\r\n" +
	"SUMMARY:Spring break\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:mayday@test\r\n" +
	"DTSTAMP:20260101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20270430\r\n" +
	"DTEND;VALUE=DATE:20270503\r\n" +
	"SUMMARY:May weekend\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:newyear@test\r\n" +
	"DTSTAMP:20260101T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20251231\r\n" +
	"DTEND;VALUE=DATE:20260102\r\n" +
	"RRULE:FREQ=YEARLY\r\n" +
	"SUMMARY:New Year\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:workshop@test\r\n" +
	"DTSTAMP:20260101T000000Z\r\n" +
	"DTSTART:20270607T090000Z\r\n" +
	"DTEND:20270607T170000Z\r\n" +
	"SUMMARY:Single day with times\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseICS_MultiDayEvents(t *testing.T) {
	c, err := ParseICS(strings.NewReader(multiDayICS))
	require.NoError(t, err)

	h, err := c.HolidaysIn(2027, time.April)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(12, 13, 14, 30), h)

	h, err = c.HolidaysIn(2027, time.May)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(1, 2), h)

	// the yearly occurrence from the 31st of December spills into January
	h, err = c.HolidaysIn(2028, time.January)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(1), h)

	h, err = c.HolidaysIn(2027, time.December)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(31), h)

	h, err = c.HolidaysIn(2027, time.June)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(7), h)
}

func TestUnion(t *testing.T) {
	static, _ := ParseDayList("1", nil)
	rules, err := NewRuleCalendar([]Rule{{Name: "Christmas", RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"}})
	require.NoError(t, err)

	h, err := Union{static, nil, rules}.HolidaysIn(2026, time.December)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(1, 25), h)
}

func TestMonthOnly(t *testing.T) {
	static, _ := ParseDayList("31", nil)
	cal := MonthOnly{Year: 2026, Month: time.May, Calendar: static}

	h, err := cal.HolidaysIn(2026, time.May)
	require.NoError(t, err)
	assert.Equal(t, calendar.NewHolidays(31), h)

	// June has no 31st, but the day only applies to May
	h, err = cal.HolidaysIn(2026, time.June)
	require.NoError(t, err)
	assert.Empty(t, h)
}
