// Package feed imports external ICS subscription feeds as raw events, so
// curated listings and subscribed calendars flow through the same pipeline.
package feed

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"eventcal/internal/log"
	"eventcal/internal/model"
)

// Source identifies one ICS subscription.
type Source struct {
	ID   string
	Name string
	URL  string
}

// Import parses an ICS payload into raw events. Individual VEVENTs that
// cannot be imported are logged and skipped; only an unparseable calendar
// fails the whole feed.
func Import(src Source, body []byte) ([]model.BaseEvent, error) {
	cal, err := ics.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	events := make([]model.BaseEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		ev, err := importVEvent(ve)
		if err != nil {
			log.Error("feed: skipping event", err, "feed", src.ID)
			continue
		}
		events = append(events, ev)
	}
	log.Info("feed imported", "feed", src.ID, "event_count", len(events))
	return events, nil
}

func importVEvent(ve *ics.VEvent) (model.BaseEvent, error) {
	var ev model.BaseEvent

	if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil {
		ev.Name = p.Value
	}
	if ev.Name == "" {
		return ev, errors.New("missing SUMMARY")
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return ev, errors.New("missing DTSTART")
	}
	date := start.Format("2006-01-02")

	// All-day events carry a bare date DTSTART; timed events get clock times.
	allDay := true
	if p := ve.GetProperty(ics.ComponentPropertyDtStart); p != nil {
		allDay = !strings.Contains(p.Value, "T")
	}
	if !allDay {
		ev.StartTime = start.Format("15:04")
		if end, err := ve.GetEndAt(); err == nil {
			ev.EndTime = end.Format("15:04")
		}
	}

	if p := ve.GetProperty(ics.ComponentPropertyLocation); p != nil {
		ev.Location = p.Value
	}
	if p := ve.GetProperty(ics.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}
	if p := ve.GetProperty(ics.ComponentPropertyUrl); p != nil {
		ev.Website = p.Value
	}

	rp := ve.GetProperty(ics.ComponentPropertyRrule)
	if rp == nil {
		ev.Date = date
		return ev, nil
	}

	rule, ok := mapRRule(rp.Value, start.Weekday())
	if !ok {
		// Unsupported recurrence degrades to the first occurrence only.
		log.Info("feed: unsupported RRULE, keeping single occurrence",
			"summary", ev.Name, "rrule", rp.Value)
		ev.Date = date
		return ev, nil
	}
	ev.Recurrence = rule
	ev.StartDate = date
	return ev, nil
}

// mapRRule converts the supported RFC 5545 RRULE subset onto the internal
// rule shape: WEEKLY with BYDAY, MONTHLY with BYMONTHDAY, and MONTHLY with a
// single ordinal BYDAY, each with optional INTERVAL and UNTIL. startWeekday
// supplies the implied weekday for a WEEKLY rule without BYDAY. Anything
// else (COUNT, negative ordinals, other frequencies) reports ok=false.
func mapRRule(raw string, startWeekday time.Weekday) (*model.RecurrenceRule, bool) {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return nil, false
	}
	if opt.Count > 0 {
		return nil, false
	}

	until := ""
	if !opt.Until.IsZero() {
		until = opt.Until.Format("2006-01-02")
	}

	switch opt.Freq {
	case rrule.WEEKLY:
		codes := make([]string, 0, len(opt.Byweekday))
		for _, wd := range opt.Byweekday {
			if wd.N() != 0 {
				return nil, false
			}
			codes = append(codes, rruleWeekdayCode(wd))
		}
		if len(codes) == 0 {
			codes = append(codes, model.WeekdayCode(startWeekday))
		}
		return &model.RecurrenceRule{
			Freq:      model.FreqWeekly,
			Interval:  opt.Interval,
			ByWeekday: codes,
			Until:     until,
		}, true

	case rrule.MONTHLY:
		if len(opt.Byweekday) == 1 && len(opt.Bymonthday) == 0 {
			wd := opt.Byweekday[0]
			if wd.N() < 1 || wd.N() > 5 {
				return nil, false
			}
			return &model.RecurrenceRule{
				Freq:     model.FreqMonthlyByWeekday,
				Interval: opt.Interval,
				Weekday:  rruleWeekdayCode(wd),
				Nth:      wd.N(),
				Until:    until,
			}, true
		}
		if len(opt.Bymonthday) == 1 && len(opt.Byweekday) == 0 {
			return &model.RecurrenceRule{
				Freq:       model.FreqMonthlyByDate,
				Interval:   opt.Interval,
				ByMonthDay: opt.Bymonthday[0],
				Until:      until,
			}, true
		}
		return nil, false
	}
	return nil, false
}

// rruleWeekdayCode maps rrule-go's Monday-based weekday numbering onto the
// two-letter codes used by the internal rule shape.
func rruleWeekdayCode(wd rrule.Weekday) string {
	codes := [...]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}
	d := wd.Day()
	if d < 0 || d >= len(codes) {
		return ""
	}
	return codes[d]
}
