package agenda

import (
	"time"

	"eventcal/internal/model"
)

// Years derives the selectable year range from the raw events: every year
// referenced by an explicit date, an anchor, or a rule's until bound, clamped
// to [currentYear-1, currentYear+5] so a stray outlier record cannot blow up
// the dropdown. The current year is always part of the range.
func Years(events []model.BaseEvent, now time.Time) []int {
	minYear, maxYear := now.Year(), now.Year()

	consider := func(s string) {
		if s == "" {
			return
		}
		d, err := model.ParseDate(s)
		if err != nil {
			return
		}
		if d.Year() < minYear {
			minYear = d.Year()
		}
		if d.Year() > maxYear {
			maxYear = d.Year()
		}
	}

	for i := range events {
		ev := &events[i]
		consider(ev.Date)
		consider(ev.StartDate)
		if ev.Recurrence != nil {
			consider(ev.Recurrence.Until)
		}
	}

	if lo := now.Year() - 1; minYear < lo {
		minYear = lo
	}
	if hi := now.Year() + 5; maxYear > hi {
		maxYear = hi
	}

	years := make([]int, 0, maxYear-minYear+1)
	for y := minYear; y <= maxYear; y++ {
		years = append(years, y)
	}
	return years
}
