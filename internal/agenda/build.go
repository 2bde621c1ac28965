package agenda

import (
	"slices"

	"eventcal/internal/model"
)

// Materialize binds an expanded date back onto a copy of the base event,
// producing a rule-derived occurrence. Only the date is substituted;
// per-occurrence overrides of any other field are not supported.
func Materialize(ev *model.BaseEvent, date model.DateOnly) model.Occurrence {
	return model.Occurrence{
		BaseEvent: *ev,
		Date:      date,
		Derived:   true,
	}
}

// Build assembles the full occurrence list for a year/month selection.
//
// Each raw event contributes its explicit date verbatim (when present) plus
// every rule-derived date from Expand; an event carrying both contributes
// both, with no deduplication between the two. Rule-less events are included
// verbatim even when undated, so they still show up in unfiltered listings.
//
// The result is sorted ascending by date. Entries without a resolvable date
// sort after all dated entries, keeping their original relative order.
func Build(events []model.BaseEvent, year int, months MonthFilter) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(events))

	for i := range events {
		ev := &events[i]

		if ev.Date != "" || ev.Recurrence == nil {
			out = append(out, verbatim(ev))
		}
		for _, d := range Expand(ev, year, months) {
			out = append(out, Materialize(ev, d))
		}
	}

	slices.SortStableFunc(out, func(a, b model.Occurrence) int {
		switch {
		case a.Dated() && b.Dated():
			return a.Date.Compare(b.Date)
		case a.Dated():
			return -1
		case b.Dated():
			return 1
		default:
			return 0
		}
	})
	return out
}

// verbatim copies the event through unchanged; an unparseable explicit date
// leaves the occurrence undated rather than dropping the entry.
func verbatim(ev *model.BaseEvent) model.Occurrence {
	occ := model.Occurrence{BaseEvent: *ev}
	if ev.Date != "" {
		if d, err := model.ParseDate(ev.Date); err == nil {
			occ.Date = d
		}
	}
	return occ
}
