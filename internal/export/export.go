// Package export converts occurrences into artifacts for third-party calendar
// tools: UTC timestamp pairs, a Google Calendar deep link, and a minimal
// single-VEVENT ICS document.
package export

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"eventcal/internal/model"
)

// StampLayout is the UTC timestamp format used by ICS and the Google
// Calendar dates parameter.
const StampLayout = "20060102T150405Z"

// defaultDuration is assumed when an occurrence has no end time.
const defaultDuration = 60 * time.Minute

// Span resolves an occurrence's start/end UTC instants. The wall-clock times
// are interpreted in loc (time.Local when nil) and converted to UTC.
//
// ok is false when the occurrence has no date or no parseable start time;
// callers must treat that as "no exportable calendar entry". A missing or
// malformed end time falls back to start plus one hour, added to the local
// instant before conversion so the block stays one hour long around DST
// transitions.
func Span(occ *model.Occurrence, loc *time.Location) (start, end time.Time, ok bool) {
	if !occ.Dated() {
		return time.Time{}, time.Time{}, false
	}
	st, err := model.ParseTime(occ.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	startLocal := occ.Date.At(st, loc)
	endLocal := startLocal.Add(defaultDuration)
	if et, err := model.ParseTime(occ.EndTime); err == nil {
		endLocal = occ.Date.At(et, loc)
	}
	return startLocal.UTC(), endLocal.UTC(), true
}

// Stamp formats an instant as an ICS UTC timestamp.
func Stamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}

// GoogleCalendarLink builds a calendar.google.com render deep link for the
// occurrence, or "" when it is not exportable.
func GoogleCalendarLink(occ *model.Occurrence, loc *time.Location) string {
	start, end, ok := Span(occ, loc)
	if !ok {
		return ""
	}

	v := url.Values{}
	v.Set("action", "TEMPLATE")
	v.Set("text", occ.Name)
	v.Set("details", occ.Description)
	v.Set("location", occ.Location)
	v.Set("dates", Stamp(start)+"/"+Stamp(end))

	u := url.URL{
		Scheme:   "https",
		Host:     "calendar.google.com",
		Path:     "/calendar/render",
		RawQuery: v.Encode(),
	}
	return u.String()
}

// ICS renders the occurrence as a single-VEVENT VCALENDAR document with CRLF
// line endings. now feeds DTSTAMP. ok is false when the occurrence is not
// exportable. Optional lines (LOCATION, DESCRIPTION, URL) are omitted rather
// than emitted blank.
func ICS(occ *model.Occurrence, loc *time.Location, now time.Time) (string, bool) {
	start, end, ok := Span(occ, loc)
	if !ok {
		return "", false
	}

	cal := ics.NewCalendarFor("eventcal")
	cal.SetMethod(ics.MethodPublish)
	cal.SetCalscale("GREGORIAN")

	ev := cal.AddEvent(UID(occ))
	ev.SetDtStampTime(now)
	ev.SetStartAt(start)
	ev.SetEndAt(end)
	ev.SetSummary(occ.Name)
	if occ.Location != "" {
		ev.SetLocation(occ.Location)
	}
	if occ.Description != "" {
		ev.SetDescription(occ.Description)
	}
	if occ.Website != "" {
		ev.SetURL(occ.Website)
	}

	// RFC 5545 mandates CRLF; the library defaults to LF on Unix.
	return cal.Serialize(ics.WithNewLineWindows), true
}

// UID returns a per-occurrence identifier, stable across rebuilds: a SHA1
// UUID of the normalized title and date. Two occurrences collide only when
// they share both, in which case their exported entries are identical anyway.
func UID(occ *model.Occurrence) string {
	seed := "eventcal/" + normalizeTitle(occ.Name) + "/" + occ.Date.String()
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String() + "@eventcal"
}

var titleSpaceRe = regexp.MustCompile(`\s+`)

func normalizeTitle(s string) string {
	return strings.TrimSpace(titleSpaceRe.ReplaceAllString(strings.ToLower(s), " "))
}
