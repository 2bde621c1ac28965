package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventcal/internal/model"
)

func icsBody(lines ...string) []byte {
	all := append([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
	}, lines...)
	all = append(all, "END:VCALENDAR")
	return []byte(strings.Join(all, "\r\n") + "\r\n")
}

func TestImport_singleTimedEvent(t *testing.T) {
	body := icsBody(
		"BEGIN:VEVENT",
		"UID:one@example.com",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240607T180000Z",
		"DTEND:20240607T193000Z",
		"SUMMARY:Trivia Night",
		"LOCATION:Corner Pub",
		"URL:https://example.org/trivia",
		"END:VEVENT",
	)

	events, err := Import(Source{ID: "pub"}, body)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "Trivia Night", ev.Name)
	assert.Equal(t, "2024-06-07", ev.Date)
	assert.Equal(t, "18:00", ev.StartTime)
	assert.Equal(t, "19:30", ev.EndTime)
	assert.Equal(t, "Corner Pub", ev.Location)
	assert.Equal(t, "https://example.org/trivia", ev.Website)
	assert.Nil(t, ev.Recurrence)
}

func TestImport_allDayEventHasNoClockTimes(t *testing.T) {
	body := icsBody(
		"BEGIN:VEVENT",
		"UID:two@example.com",
		"DTSTAMP:20240101T000000Z",
		"DTSTART;VALUE=DATE:20240704",
		"SUMMARY:Independence Day Parade",
		"END:VEVENT",
	)

	events, err := Import(Source{ID: "city"}, body)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "2024-07-04", events[0].Date)
	assert.Empty(t, events[0].StartTime)
	assert.Empty(t, events[0].EndTime)
}

func TestImport_weeklyRRuleBecomesAnchoredRule(t *testing.T) {
	body := icsBody(
		"BEGIN:VEVENT",
		"UID:three@example.com",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240607T180000Z",
		"SUMMARY:Run Club",
		"RRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=FR;UNTIL=20240901T000000Z",
		"END:VEVENT",
	)

	events, err := Import(Source{ID: "club"}, body)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Empty(t, ev.Date, "recurring imports anchor instead of dating")
	assert.Equal(t, "2024-06-07", ev.StartDate)
	require.NotNil(t, ev.Recurrence)
	assert.Equal(t, model.FreqWeekly, ev.Recurrence.Freq)
	assert.Equal(t, 2, ev.Recurrence.Interval)
	assert.Equal(t, []string{"FR"}, ev.Recurrence.ByWeekday)
	assert.Equal(t, "2024-09-01", ev.Recurrence.Until)
}

func TestImport_weeklyWithoutByDayUsesStartWeekday(t *testing.T) {
	// 2024-06-07 is a Friday.
	body := icsBody(
		"BEGIN:VEVENT",
		"UID:four@example.com",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240607T180000Z",
		"SUMMARY:Run Club",
		"RRULE:FREQ=WEEKLY",
		"END:VEVENT",
	)

	events, err := Import(Source{ID: "club"}, body)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].Recurrence)
	assert.Equal(t, []string{"FR"}, events[0].Recurrence.ByWeekday)
}

func TestImport_monthlyOrdinalRRule(t *testing.T) {
	body := icsBody(
		"BEGIN:VEVENT",
		"UID:five@example.com",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240118T190000Z",
		"SUMMARY:Board Meeting",
		"RRULE:FREQ=MONTHLY;BYDAY=3TH",
		"END:VEVENT",
	)

	events, err := Import(Source{ID: "org"}, body)
	require.NoError(t, err)
	require.Len(t, events, 1)

	rule := events[0].Recurrence
	require.NotNil(t, rule)
	assert.Equal(t, model.FreqMonthlyByWeekday, rule.Freq)
	assert.Equal(t, "TH", rule.Weekday)
	assert.Equal(t, 3, rule.Nth)
}

func TestImport_monthlyByMonthDayRRule(t *testing.T) {
	body := icsBody(
		"BEGIN:VEVENT",
		"UID:six@example.com",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240115T090000Z",
		"SUMMARY:Rent Reminder Social",
		"RRULE:FREQ=MONTHLY;BYMONTHDAY=15",
		"END:VEVENT",
	)

	events, err := Import(Source{ID: "org"}, body)
	require.NoError(t, err)
	require.Len(t, events, 1)

	rule := events[0].Recurrence
	require.NotNil(t, rule)
	assert.Equal(t, model.FreqMonthlyByDate, rule.Freq)
	assert.Equal(t, 15, rule.ByMonthDay)
}

func TestImport_unsupportedRRuleKeepsSingleOccurrence(t *testing.T) {
	body := icsBody(
		"BEGIN:VEVENT",
		"UID:seven@example.com",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240607T180000Z",
		"SUMMARY:Daily Standup Social",
		"RRULE:FREQ=DAILY",
		"END:VEVENT",
	)

	events, err := Import(Source{ID: "org"}, body)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Recurrence)
	assert.Equal(t, "2024-06-07", events[0].Date)
}

func TestImport_skipsEventsWithoutSummary(t *testing.T) {
	body := icsBody(
		"BEGIN:VEVENT",
		"UID:eight@example.com",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240607T180000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:nine@example.com",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240608T180000Z",
		"SUMMARY:Kept",
		"END:VEVENT",
	)

	events, err := Import(Source{ID: "org"}, body)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Kept", events[0].Name)
}

func TestImport_rejectsGarbagePayload(t *testing.T) {
	_, err := Import(Source{ID: "org"}, []byte("<html>not a calendar</html>"))
	assert.Error(t, err)
}
