package model

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	// ErrInvalidDate is returned for text that is not a real YYYY-MM-DD
	// calendar date (bad shape, month 13, Feb 31, ...).
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidTime is returned for text that is not a 24-hour H:MM clock time.
	ErrInvalidTime = errors.New("invalid time")
)

var (
	dateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	timeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// DateOnly is a plain calendar date with no time-of-day or timezone attached.
//
// All internal day arithmetic (weekday, day deltas) is anchored to noon so that
// daylight-saving transitions can never shift a value across a day boundary.
// A timezone only enters the picture when a DateOnly is combined with a
// TimeOfDay into a concrete instant (At, EndOfDay).
type DateOnly struct {
	year  int
	month time.Month
	day   int
}

// NewDate builds a DateOnly from year/month/day, rejecting values that do not
// name a real calendar day. There is no roll-over: Feb 30 is ErrInvalidDate,
// not Mar 2.
func NewDate(year int, month time.Month, day int) (DateOnly, error) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return DateOnly{}, ErrInvalidDate
	}
	t := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return DateOnly{}, ErrInvalidDate
	}
	return DateOnly{year: year, month: month, day: day}, nil
}

// ParseDate parses the literal pattern YYYY-MM-DD. Anything else, including
// dates that merely look plausible (2024-02-31), is ErrInvalidDate.
func ParseDate(s string) (DateOnly, error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return DateOnly{}, ErrInvalidDate
	}
	year := atoi(m[1])
	month := time.Month(atoi(m[2]))
	day := atoi(m[3])
	return NewDate(year, month, day)
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

func (d DateOnly) Year() int         { return d.year }
func (d DateOnly) Month() time.Month { return d.month }
func (d DateOnly) Day() int          { return d.day }

// IsZero reports whether d is the zero value, used to mark "no date".
func (d DateOnly) IsZero() bool { return d == DateOnly{} }

func (d DateOnly) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// noon is the fixed mid-day instant backing all day arithmetic.
func (d DateOnly) noon() time.Time {
	return time.Date(d.year, d.month, d.day, 12, 0, 0, 0, time.UTC)
}

func (d DateOnly) Weekday() time.Weekday { return d.noon().Weekday() }

// Compare orders by calendar day only: -1 if d is before o, 0 if equal, 1 after.
func (d DateOnly) Compare(o DateOnly) int {
	return d.noon().Compare(o.noon())
}

func (d DateOnly) Before(o DateOnly) bool { return d.Compare(o) < 0 }
func (d DateOnly) After(o DateOnly) bool  { return d.Compare(o) > 0 }

// AddDays returns the date n calendar days after d (n may be negative).
func (d DateOnly) AddDays(n int) DateOnly {
	t := d.noon().AddDate(0, 0, n)
	return DateOnly{year: t.Year(), month: t.Month(), day: t.Day()}
}

// DaysSince returns the number of whole calendar days from o to d
// (negative when d precedes o).
func (d DateOnly) DaysSince(o DateOnly) int {
	return int(d.noon().Sub(o.noon()) / (24 * time.Hour))
}

// At combines the date with a clock time into a wall-clock instant in loc.
func (d DateOnly) At(t TimeOfDay, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.year, d.month, d.day, t.Hour, t.Minute, 0, 0, loc)
}

// EndOfDay returns the latest representable instant within the calendar day
// in loc, used for past/future comparisons against "now".
func (d DateOnly) EndOfDay(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.year, d.month, d.day, 23, 59, 59, int(time.Second-time.Nanosecond), loc)
}

// DaysInMonth returns the number of days in the given month of year.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// FirstOfMonth returns the first day of the given month.
func FirstOfMonth(year int, month time.Month) DateOnly {
	return DateOnly{year: year, month: month, day: 1}
}

// LastOfMonth returns the last day of the given month.
func LastOfMonth(year int, month time.Month) DateOnly {
	return DateOnly{year: year, month: month, day: DaysInMonth(year, month)}
}

// TimeOfDay is a 24-hour wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTime parses a strict H:MM or HH:MM 24-hour literal, range-checked.
func ParseTime(s string) (TimeOfDay, error) {
	m := timeRe.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, ErrInvalidTime
	}
	hour := atoi(m[1])
	minute := atoi(m[2])
	if hour > 23 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTime
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
