// Package source is the data I/O boundary: it loads the raw event payload
// from a local file or HTTP URL, folds in subscribed ICS feeds, and holds the
// resulting snapshot in memory for the rest of the service to read.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"eventcal/internal/feed"
	"eventcal/internal/log"
	"eventcal/internal/model"
)

// DecodeEvents decodes the raw JSON payload: an ordered array of event
// records. Date-ish fields stay as text; their validation happens downstream
// so one malformed record cannot break the list.
func DecodeEvents(body []byte) ([]model.BaseEvent, error) {
	var events []model.BaseEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("source: decode events: %w", err)
	}
	return events, nil
}

// Store holds the current raw event snapshot. Refresh replaces the snapshot
// wholesale; readers get a consistent slice that is never mutated afterwards.
type Store struct {
	path    string
	url     string
	feeds   []feed.Source
	fetcher *Fetcher

	mu     sync.RWMutex
	events []model.BaseEvent
	loaded bool
}

// NewStore builds a Store reading the primary payload from path (preferred)
// or url, plus the given ICS feeds.
func NewStore(path, url string, feeds []feed.Source, fetcher *Fetcher) *Store {
	return &Store{path: path, url: url, feeds: feeds, fetcher: fetcher}
}

// Refresh reloads the primary payload and all feeds and swaps the snapshot.
//
// A primary load or decode failure keeps the previous snapshot and returns
// the error; a feed failure only drops that feed's events for this cycle.
func (s *Store) Refresh(ctx context.Context) error {
	var (
		body []byte
		err  error
	)
	switch {
	case s.path != "":
		body, err = os.ReadFile(s.path)
	case s.url != "":
		body, _, err = s.fetcher.Fetch(ctx, s.url)
	default:
		err = errors.New("no event source configured")
	}
	if err != nil {
		return fmt.Errorf("source: load events: %w", err)
	}

	events, err := DecodeEvents(body)
	if err != nil {
		return err
	}

	for _, fs := range s.feeds {
		fbody, fromCache, ferr := s.fetcher.Fetch(ctx, fs.URL)
		if ferr != nil {
			log.Error("source: feed fetch failed", ferr, "feed", fs.ID)
			continue
		}
		imported, ferr := feed.Import(fs, fbody)
		if ferr != nil {
			log.Error("source: feed import failed", ferr, "feed", fs.ID, "from_cache", fromCache)
			continue
		}
		events = append(events, imported...)
	}

	s.mu.Lock()
	s.events = events
	s.loaded = true
	s.mu.Unlock()

	log.Info("event snapshot refreshed", "event_count", len(events), "feed_count", len(s.feeds))
	return nil
}

// Snapshot returns the current raw events. ok is false while no refresh has
// ever succeeded, the terminal "could not load" state surfaced by the API.
func (s *Store) Snapshot() (events []model.BaseEvent, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events, s.loaded
}

// Seed installs an already-decoded snapshot, bypassing I/O. Used by tests
// and the one-shot CLI path.
func (s *Store) Seed(events []model.BaseEvent) {
	s.mu.Lock()
	s.events = events
	s.loaded = true
	s.mu.Unlock()
}
