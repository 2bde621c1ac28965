// Package model defines the calendar data types shared across the service:
// date/time value types, the recurrence rule wire shape, raw events as
// delivered by the data source, and the expanded occurrences served to clients.
package model

// BaseEvent is one raw record from the event payload. Date-ish fields stay as
// source text here; they are parsed where needed so that a single malformed
// record degrades gracefully instead of breaking the whole list.
type BaseEvent struct {
	Name string `json:"name" yaml:"name"`

	// Date is an optional explicit YYYY-MM-DD occurrence date. Purely
	// recurring events leave it empty.
	Date string `json:"date,omitempty" yaml:"date,omitempty"`

	// StartDate anchors recurrence interval counting (the rule's first
	// intended occurrence). Optional.
	StartDate string `json:"start_date,omitempty" yaml:"start_date,omitempty"`

	// StartTime / EndTime are optional HH:MM 24-hour clock times.
	StartTime string `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty" yaml:"end_time,omitempty"`

	Location    string   `json:"location,omitempty" yaml:"location,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Website     string   `json:"website,omitempty" yaml:"website,omitempty"`
	Tickets     string   `json:"tickets,omitempty" yaml:"tickets,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	Recurrence *RecurrenceRule `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
}

// Anchor returns the parsed StartDate, or a zero DateOnly when StartDate is
// absent or malformed (the documented window-origin fallback applies then).
func (e *BaseEvent) Anchor() DateOnly {
	if e.StartDate == "" {
		return DateOnly{}
	}
	d, err := ParseDate(e.StartDate)
	if err != nil {
		return DateOnly{}
	}
	return d
}

// Occurrence is one concrete calendar-date instance of an event, either the
// event's explicit date or a recurrence-derived one. Occurrences are snapshots:
// rebuilt wholesale on every list build, never mutated afterwards.
type Occurrence struct {
	BaseEvent

	// Date is the resolved calendar date. Zero only for verbatim entries
	// whose explicit date is missing or unparseable; rule-derived
	// occurrences always carry a valid date.
	Date DateOnly

	// Derived marks rule-derived occurrences (false for explicit dates).
	Derived bool
}

// Dated reports whether the occurrence has a resolvable calendar date.
func (o *Occurrence) Dated() bool { return !o.Date.IsZero() }
