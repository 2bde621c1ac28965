// Package web exposes the occurrence list, year range, and per-occurrence ICS
// downloads over HTTP. It only serializes data produced by the agenda and
// export packages; all presentation lives with the client.
package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"eventcal/internal/agenda"
	"eventcal/internal/export"
	"eventcal/internal/log"
	"eventcal/internal/model"
	"eventcal/internal/source"
)

// Server serves the event API on top of a source.Store snapshot.
type Server struct {
	store *source.Store
	loc   *time.Location

	// now is stubbed in tests.
	now func() time.Time
}

// NewServer constructs a Server. loc is the display timezone for past/future
// cutoffs and export conversion; nil means time.Local.
func NewServer(store *source.Store, loc *time.Location) *Server {
	if loc == nil {
		loc = time.Local
	}
	return &Server{
		store: store,
		loc:   loc,
		now:   time.Now,
	}
}

// Handler returns the routed http.Handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/api/events", s.handleEvents)
	r.Get("/api/events/{key}/ics", s.handleICS)
	r.Get("/api/years", s.handleYears)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// occurrenceDTO is the JSON view of one occurrence.
type occurrenceDTO struct {
	Key            string   `json:"key"`
	Name           string   `json:"name"`
	Date           string   `json:"date,omitempty"`
	StartTime      string   `json:"start_time,omitempty"`
	EndTime        string   `json:"end_time,omitempty"`
	Location       string   `json:"location,omitempty"`
	Description    string   `json:"description,omitempty"`
	Website        string   `json:"website,omitempty"`
	Tickets        string   `json:"tickets,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Derived        bool     `json:"derived"`
	GoogleCalendar string   `json:"google_calendar,omitempty"`
}

type eventsResponse struct {
	Occurrences []occurrenceDTO `json:"occurrences"`
	Count       int             `json:"count"`
	Year        int             `json:"year"`
}

// handleEvents builds and filters the occurrence list.
//
// GET /api/events?year=2025&month=3&q=market&include_past=1
//   - year:  "all" or a year; expansion targets the current year when "all"
//   - month: "all" or 1-12
//   - q:     free-text substring query
//   - include_past: include occurrences whose day has already ended
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, loaded := s.store.Snapshot()
	if !loaded {
		writeError(w, http.StatusServiceUnavailable, "could not load events")
		return
	}

	q := r.URL.Query()
	month, ok := agenda.ParseMonthFilter(q.Get("month"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}
	year, ok := agenda.ParseYearFilter(q.Get("year"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}

	now := s.now().In(s.loc)
	buildYear := int(year)
	if year == agenda.AllYears {
		buildYear = now.Year()
	}

	list := agenda.Build(events, buildYear, month)
	list = agenda.Filter(list, agenda.Query{
		Text:        q.Get("q"),
		Month:       month,
		Year:        year,
		IncludePast: parseBool(q.Get("include_past")),
		Now:         now,
	})

	dtos := make([]occurrenceDTO, 0, len(list))
	for i := range list {
		dtos = append(dtos, toDTO(&list[i], s.loc))
	}
	writeJSON(w, http.StatusOK, eventsResponse{
		Occurrences: dtos,
		Count:       len(dtos),
		Year:        buildYear,
	})
}

// handleICS serves one occurrence as a text/calendar download.
func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	events, loaded := s.store.Snapshot()
	if !loaded {
		writeError(w, http.StatusServiceUnavailable, "could not load events")
		return
	}

	key := chi.URLParam(r, "key")
	year := s.now().In(s.loc).Year()
	if i := strings.LastIndex(key, "@"); i >= 0 {
		if d, err := model.ParseDate(key[i+1:]); err == nil {
			year = d.Year()
		}
	}

	list := agenda.Build(events, year, agenda.AllMonths)
	for i := range list {
		if occurrenceKey(&list[i]) != key {
			continue
		}
		doc, ok := export.ICS(&list[i], s.loc, s.now())
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "occurrence has no start time")
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="event.ics"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(doc))
		return
	}
	writeError(w, http.StatusNotFound, "unknown occurrence")
}

type yearsResponse struct {
	Years []int `json:"years"`
}

func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request) {
	events, loaded := s.store.Snapshot()
	if !loaded {
		writeError(w, http.StatusServiceUnavailable, "could not load events")
		return
	}
	writeJSON(w, http.StatusOK, yearsResponse{
		Years: agenda.Years(events, s.now().In(s.loc)),
	})
}

func toDTO(occ *model.Occurrence, loc *time.Location) occurrenceDTO {
	dto := occurrenceDTO{
		Key:         occurrenceKey(occ),
		Name:        occ.Name,
		Date:        occ.BaseEvent.Date,
		StartTime:   occ.StartTime,
		EndTime:     occ.EndTime,
		Location:    occ.Location,
		Description: occ.Description,
		Website:     occ.Website,
		Tickets:     occ.Tickets,
		Tags:        occ.Tags,
		Derived:     occ.Derived,
	}
	if occ.Dated() {
		dto.Date = occ.Date.String()
	}
	dto.GoogleCalendar = export.GoogleCalendarLink(occ, loc)
	return dto
}

// occurrenceKey is the stable URL identifier for one occurrence: a name slug
// plus the resolved date. Undated entries get the bare slug; they are never
// exportable anyway.
func occurrenceKey(occ *model.Occurrence) string {
	slug := slugify(occ.Name)
	if !occ.Dated() {
		return slug
	}
	return slug + "@" + occ.Date.String()
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
