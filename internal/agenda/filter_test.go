package agenda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventcal/internal/model"
)

func datedOccurrence(t *testing.T, name, date string) model.Occurrence {
	t.Helper()
	d, err := model.ParseDate(date)
	require.NoError(t, err)
	return model.Occurrence{BaseEvent: model.BaseEvent{Name: name}, Date: d}
}

func TestMatches_pastEventRule(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	yesterday := datedOccurrence(t, "Was", "2024-06-14")
	today := datedOccurrence(t, "Is", "2024-06-15")

	assert.False(t, Matches(&yesterday, Query{Now: now}))
	assert.True(t, Matches(&yesterday, Query{Now: now, IncludePast: true}))

	// Today's end-of-day is still ahead of now, so today is never "past".
	assert.True(t, Matches(&today, Query{Now: now}))
}

func TestMatches_yearAndMonthFilters(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	occ := datedOccurrence(t, "Fair", "2024-06-14")

	assert.True(t, Matches(&occ, Query{Now: now, Year: 2024, Month: MonthFilter(6)}))
	assert.False(t, Matches(&occ, Query{Now: now, Year: 2023}))
	assert.False(t, Matches(&occ, Query{Now: now, Month: MonthFilter(7)}))

	undated := model.Occurrence{BaseEvent: model.BaseEvent{Name: "Someday"}}
	assert.True(t, Matches(&undated, Query{Now: now}))
	assert.False(t, Matches(&undated, Query{Now: now, Year: 2024}))
	assert.False(t, Matches(&undated, Query{Now: now, Month: MonthFilter(6)}))
}

func TestMatches_textQuery(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	occ := model.Occurrence{BaseEvent: model.BaseEvent{
		Name:        "Farmers Market at the Riverfront",
		StartTime:   "08:00",
		Location:    "Riverfront Park",
		Description: "Local produce and crafts",
		Tags:        []string{"outdoors", "family-friendly"},
		Website:     "https://example.org/market",
		Tickets:     "https://tickets.example.org",
	}}

	// Case-insensitive, whitespace-collapsed substring match.
	assert.True(t, Matches(&occ, Query{Now: now, Text: "  Farmers   MARKET "}))
	assert.True(t, Matches(&occ, Query{Now: now, Text: "family-friendly"}))
	assert.True(t, Matches(&occ, Query{Now: now, Text: "tickets.example"}))
	assert.False(t, Matches(&occ, Query{Now: now, Text: "symphony"}))

	// Empty query always passes.
	assert.True(t, Matches(&occ, Query{Now: now}))
}

func TestMatches_textQueryIncludesResolvedDate(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	occ := datedOccurrence(t, "Concert", "2024-06-14")
	occ.Derived = true

	assert.True(t, Matches(&occ, Query{Now: now, Text: "2024-06-14"}))
}

func TestFilter_preservesOrder(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []model.Occurrence{
		datedOccurrence(t, "A", "2024-03-01"),
		datedOccurrence(t, "B", "2023-03-01"),
		datedOccurrence(t, "C", "2024-04-01"),
	}

	got := Filter(list, Query{Now: now, Year: 2024})
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "C", got[1].Name)
}

func TestParseYearFilter(t *testing.T) {
	y, ok := ParseYearFilter("all")
	require.True(t, ok)
	assert.Equal(t, AllYears, y)

	y, ok = ParseYearFilter("2025")
	require.True(t, ok)
	assert.Equal(t, YearFilter(2025), y)

	_, ok = ParseYearFilter("never")
	assert.False(t, ok)
}
