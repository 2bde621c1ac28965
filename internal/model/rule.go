package model

import (
	"strings"
	"time"
)

// Frequency tags the kind of recurrence a rule describes.
type Frequency string

const (
	// FreqWeekly repeats on a set of weekdays every Interval weeks.
	FreqWeekly Frequency = "weekly"
	// FreqMonthlyByDate repeats on a fixed day-of-month every Interval months.
	FreqMonthlyByDate Frequency = "monthly_by_date"
	// FreqMonthlyByWeekday repeats on the Nth weekday of the month
	// (e.g. 3rd Thursday) every Interval months.
	FreqMonthlyByWeekday Frequency = "monthly_by_weekday_ordinal"
)

// RecurrenceRule is the wire-shape recurrence description owned by the data
// source. Fields are interpreted per Freq; out-of-range values make the rule
// produce zero occurrences rather than an error.
type RecurrenceRule struct {
	Freq Frequency `json:"freq" yaml:"freq"`

	// Interval is the number of weeks/months between qualifying
	// occurrences. Values below 1 are treated as 1.
	Interval int `json:"interval,omitempty" yaml:"interval,omitempty"`

	// ByWeekday holds two-letter weekday codes (SU..SA) for weekly rules.
	ByWeekday []string `json:"byweekday,omitempty" yaml:"byweekday,omitempty"`

	// ByMonthDay is the 1-31 day-of-month for monthly_by_date rules.
	ByMonthDay int `json:"bymonthday,omitempty" yaml:"bymonthday,omitempty"`

	// Weekday and Nth select the ordinal weekday for
	// monthly_by_weekday_ordinal rules ("TH" + 3 = third Thursday).
	Weekday string `json:"weekday,omitempty" yaml:"weekday,omitempty"`
	Nth     int    `json:"nth,omitempty" yaml:"nth,omitempty"`

	// Until is the inclusive YYYY-MM-DD last date the rule may produce.
	Until string `json:"until,omitempty" yaml:"until,omitempty"`
}

// EffectiveInterval returns the rule interval clamped to at least 1.
func (r *RecurrenceRule) EffectiveInterval() int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}

var weekdayCodes = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

// ParseWeekdayCode maps a two-letter weekday code (case-insensitive) to a
// time.Weekday. ok is false for unknown codes.
func ParseWeekdayCode(code string) (time.Weekday, bool) {
	wd, ok := weekdayCodes[strings.ToUpper(strings.TrimSpace(code))]
	return wd, ok
}

// WeekdayCode is the inverse of ParseWeekdayCode.
func WeekdayCode(wd time.Weekday) string {
	switch wd {
	case time.Sunday:
		return "SU"
	case time.Monday:
		return "MO"
	case time.Tuesday:
		return "TU"
	case time.Wednesday:
		return "WE"
	case time.Thursday:
		return "TH"
	case time.Friday:
		return "FR"
	case time.Saturday:
		return "SA"
	}
	return ""
}
