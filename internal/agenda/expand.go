// Package agenda is the recurrence engine: it expands recurrence rules into
// concrete calendar dates for a year/month window, materializes them into
// occurrences, and builds the sorted, filterable event list served to clients.
package agenda

import (
	"strconv"
	"time"

	"eventcal/internal/model"
)

// MonthFilter restricts expansion and filtering to a single month of the
// target year. The zero value means all twelve months.
type MonthFilter int

// AllMonths matches every month.
const AllMonths MonthFilter = 0

// All reports whether the filter matches every month.
func (m MonthFilter) All() bool { return m < 1 || m > 12 }

// ParseMonthFilter parses "all" or "1".."12". ok is false otherwise.
func ParseMonthFilter(s string) (MonthFilter, bool) {
	if s == "" || s == "all" {
		return AllMonths, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return AllMonths, false
	}
	return MonthFilter(n), true
}

// Expand enumerates the dates on which ev occurs within the given year,
// optionally restricted to a single month. The result is ordered ascending
// within each month and concatenated in month order; the list builder re-sorts
// the full list anyway.
//
// Expand is pure: no state is shared between calls and fixed inputs always
// produce the same dates. Events without a rule, rules with out-of-range
// fields, and rules whose until bound cannot be parsed all produce nothing.
func Expand(ev *model.BaseEvent, year int, months MonthFilter) []model.DateOnly {
	rule := ev.Recurrence
	if rule == nil {
		return nil
	}

	var until model.DateOnly
	hasUntil := false
	if rule.Until != "" {
		u, err := model.ParseDate(rule.Until)
		if err != nil {
			// A malformed until bound disables the rule outright; silently
			// running past the intended end would be worse than omission.
			return nil
		}
		until, hasUntil = u, true
	}

	targets := targetMonths(months)

	// Interval counting is measured from the anchor when the event has one.
	// Without an anchor the origin degrades to the start of the expansion
	// window (first target month), which means the qualifying weeks shift
	// when the viewer changes the selected year or month. That is the
	// documented weak fallback; do not infer an anchor.
	origin := ev.Anchor()
	if origin.IsZero() {
		origin = model.FirstOfMonth(year, targets[0])
	}

	var out []model.DateOnly
	for _, m := range targets {
		out = append(out, expandMonth(rule, origin, year, m, until, hasUntil)...)
	}
	return out
}

func targetMonths(months MonthFilter) []time.Month {
	if !months.All() {
		return []time.Month{time.Month(months)}
	}
	all := make([]time.Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		all = append(all, m)
	}
	return all
}

func expandMonth(rule *model.RecurrenceRule, origin model.DateOnly, year int, month time.Month, until model.DateOnly, hasUntil bool) []model.DateOnly {
	switch rule.Freq {
	case model.FreqWeekly:
		return weeklyInMonth(rule, origin, year, month, until, hasUntil)
	case model.FreqMonthlyByDate:
		return monthlyByDate(rule, origin, year, month, until, hasUntil)
	case model.FreqMonthlyByWeekday:
		return monthlyByWeekday(rule, origin, year, month, until, hasUntil)
	}
	return nil
}

// weeklyInMonth walks every day of the month; a day qualifies when its weekday
// is in the rule's set and the whole-week offset from the origin is
// non-negative and divisible by the interval. Week counting uses elapsed 7-day
// spans, not day-of-month arithmetic, so "every other week" stays anchored
// across month boundaries.
func weeklyInMonth(rule *model.RecurrenceRule, origin model.DateOnly, year int, month time.Month, until model.DateOnly, hasUntil bool) []model.DateOnly {
	set := make(map[time.Weekday]bool, len(rule.ByWeekday))
	for _, code := range rule.ByWeekday {
		wd, ok := model.ParseWeekdayCode(code)
		if !ok {
			// Bad weekday code: the month contributes nothing.
			return nil
		}
		set[wd] = true
	}
	if len(set) == 0 {
		return nil
	}

	interval := rule.EffectiveInterval()
	first := model.FirstOfMonth(year, month)
	end := model.LastOfMonth(year, month)
	if hasUntil {
		if until.Before(first) {
			return nil
		}
		if until.Before(end) {
			end = until
		}
	}

	var out []model.DateOnly
	for d := first; !d.After(end); d = d.AddDays(1) {
		if !set[d.Weekday()] {
			continue
		}
		days := d.DaysSince(origin)
		if days < 0 {
			continue
		}
		if (days/7)%interval == 0 {
			out = append(out, d)
		}
	}
	return out
}

// monthQualifies applies interval counting for the monthly frequencies: the
// number of calendar months elapsed from the origin month must be non-negative
// and divisible by the interval. Without an anchor the elapsed count is simply
// month-1, i.e. measured from January of the requested year.
func monthQualifies(rule *model.RecurrenceRule, anchor model.DateOnly, year int, month time.Month) bool {
	var elapsed int
	if anchor.IsZero() {
		elapsed = int(month) - 1
	} else {
		elapsed = (year-anchor.Year())*12 + int(month) - int(anchor.Month())
	}
	return elapsed >= 0 && elapsed%rule.EffectiveInterval() == 0
}

func monthlyByDate(rule *model.RecurrenceRule, anchor model.DateOnly, year int, month time.Month, until model.DateOnly, hasUntil bool) []model.DateOnly {
	if rule.ByMonthDay < 1 || rule.ByMonthDay > 31 {
		return nil
	}
	if !monthQualifies(rule, anchor, year, month) {
		return nil
	}
	// No roll-forward or roll-back: day 31 in April simply does not occur.
	if rule.ByMonthDay > model.DaysInMonth(year, month) {
		return nil
	}
	d := model.FirstOfMonth(year, month).AddDays(rule.ByMonthDay - 1)
	if hasUntil && d.After(until) {
		return nil
	}
	return []model.DateOnly{d}
}

func monthlyByWeekday(rule *model.RecurrenceRule, anchor model.DateOnly, year int, month time.Month, until model.DateOnly, hasUntil bool) []model.DateOnly {
	if rule.Nth < 1 || rule.Nth > 5 {
		return nil
	}
	wd, ok := model.ParseWeekdayCode(rule.Weekday)
	if !ok {
		return nil
	}
	if !monthQualifies(rule, anchor, year, month) {
		return nil
	}
	first := model.FirstOfMonth(year, month)
	offset := (int(wd) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + (rule.Nth-1)*7
	// No clamping: a month without a 5th Friday contributes nothing.
	if day > model.DaysInMonth(year, month) {
		return nil
	}
	d := first.AddDays(day - 1)
	if hasUntil && d.After(until) {
		return nil
	}
	return []model.DateOnly{d}
}
