package agenda

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"eventcal/internal/model"
)

// YearFilter restricts matching to a single calendar year; 0 means all years.
type YearFilter int

// AllYears matches every year.
const AllYears YearFilter = 0

// ParseYearFilter parses "all" or a four-digit year. ok is false otherwise.
func ParseYearFilter(s string) (YearFilter, bool) {
	if s == "" || s == "all" {
		return AllYears, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return AllYears, false
	}
	return YearFilter(n), true
}

// Query bundles the parameters of one filter pass. Now supplies both the
// current instant and, through its location, the viewer's notion of "today".
type Query struct {
	Text        string
	Month       MonthFilter
	Year        YearFilter
	IncludePast bool
	Now         time.Time
}

// Matches reports whether an occurrence passes the query.
//
// Past occurrences (end of their day strictly before Now) are excluded unless
// IncludePast is set. Year/month filters compare against the occurrence's
// resolved date; undated entries fail any specific year or month selection.
// The text query is a case-insensitive, whitespace-collapsed substring match
// over the occurrence's searchable fields; an empty query always passes.
func Matches(occ *model.Occurrence, q Query) bool {
	if !q.IncludePast && occ.Dated() {
		if occ.Date.EndOfDay(q.Now.Location()).Before(q.Now) {
			return false
		}
	}

	if q.Year != AllYears {
		if !occ.Dated() || occ.Date.Year() != int(q.Year) {
			return false
		}
	}
	if !q.Month.All() {
		if !occ.Dated() || occ.Date.Month() != time.Month(q.Month) {
			return false
		}
	}

	text := normalize(q.Text)
	if text == "" {
		return true
	}
	return strings.Contains(searchText(occ), text)
}

// Filter applies Matches over a built list, preserving order.
func Filter(list []model.Occurrence, q Query) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(list))
	for i := range list {
		if Matches(&list[i], q) {
			out = append(out, list[i])
		}
	}
	return out
}

// searchText concatenates every queryable field of the occurrence.
func searchText(occ *model.Occurrence) string {
	date := occ.BaseEvent.Date
	if occ.Dated() {
		date = occ.Date.String()
	}
	return normalize(strings.Join([]string{
		occ.Name,
		date,
		occ.StartTime,
		occ.EndTime,
		occ.Location,
		occ.Description,
		strings.Join(occ.Tags, " "),
		occ.Website,
		occ.Tickets,
	}, " "))
}

var spaceRe = regexp.MustCompile(`\s+`)

func normalize(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(strings.ToLower(s), " "))
}
