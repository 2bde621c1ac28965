package agenda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"eventcal/internal/model"
)

func TestYears_spansReferencedYears(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []model.BaseEvent{
		{Name: "A", Date: "2023-11-05"},
		{Name: "B", StartDate: "2024-01-04", Recurrence: &model.RecurrenceRule{
			Freq:      model.FreqWeekly,
			ByWeekday: []string{"TH"},
			Until:     "2026-03-01",
		}},
	}

	assert.Equal(t, []int{2023, 2024, 2025, 2026}, Years(events, now))
}

func TestYears_clampsOutliers(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []model.BaseEvent{
		{Name: "Ancient", Date: "1999-01-01"},
		{Name: "Far", Recurrence: &model.RecurrenceRule{
			Freq:       model.FreqMonthlyByDate,
			ByMonthDay: 1,
			Until:      "2099-01-01",
		}},
	}

	// Bounded to [currentYear-1, currentYear+5] regardless of the data.
	assert.Equal(t, []int{2023, 2024, 2025, 2026, 2027, 2028, 2029}, Years(events, now))
}

func TestYears_emptyDataStillOffersCurrentYear(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []int{2024}, Years(nil, now))
}

func TestYears_ignoresMalformedDates(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []model.BaseEvent{
		{Name: "Bad", Date: "soon", StartDate: "2024-99-01"},
	}
	assert.Equal(t, []int{2024}, Years(events, now))
}
