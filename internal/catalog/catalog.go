// Package catalog owns the cached song catalog: an in-memory snapshot built
// from the scraper, persisted in SQLite, and replaced wholesale when the
// refresh interval elapses. Readers always see a complete snapshot; a failed
// refresh keeps the previous one in place.
package catalog

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cantolab/cantomatch/internal/entities"
	"github.com/cantolab/cantomatch/internal/reference"
	"github.com/cantolab/cantomatch/internal/scraper"
)

// Fetcher supplies raw song records from the source site.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]scraper.RawSong, error)
}

// Store persists catalog snapshots between process runs.
type Store interface {
	ReplaceCatalog(songs []entities.Song, refreshedAt time.Time) error
	GetCatalog() ([]entities.Song, error)
	LastRefreshedAt() (*time.Time, error)
}

// Status describes the catalog for health and diagnostics endpoints.
type Status struct {
	SongCount   int        `json:"song_count"`
	RefreshedAt *time.Time `json:"refreshed_at,omitempty"`
	Refreshing  bool       `json:"refreshing"`
	LastError   string     `json:"last_error,omitempty"`
	TTL         string     `json:"ttl"`
}

// Service serves the catalog snapshot and coordinates refreshes. Only one
// refresh runs at a time; callers that hit an expired snapshot get the stale
// value while the refresh proceeds in the background.
type Service struct {
	fetcher Fetcher
	store   Store
	ttl     time.Duration

	mu          sync.RWMutex
	songs       []entities.Song
	refreshedAt time.Time
	refreshing  bool
	lastError   string
}

func NewService(fetcher Fetcher, store Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &Service{
		fetcher: fetcher,
		store:   store,
		ttl:     ttl,
	}
}

// LoadPersisted seeds the in-memory snapshot from the store, so a restart
// serves the last good catalog without waiting for a scrape.
func (s *Service) LoadPersisted() error {
	songs, err := s.store.GetCatalog()
	if err != nil {
		return fmt.Errorf("load persisted catalog: %w", err)
	}
	refreshedAt, err := s.store.LastRefreshedAt()
	if err != nil {
		return fmt.Errorf("load refresh time: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.songs = songs
	if refreshedAt != nil {
		s.refreshedAt = *refreshedAt
	}

	if len(songs) > 0 {
		log.Printf("Catalog: loaded %d songs from the last persisted snapshot", len(songs))
	}
	return nil
}

// Songs returns the current snapshot. When the snapshot has expired a refresh
// is kicked off in the background and the stale snapshot is returned
// immediately; serving slightly old data beats blocking every request on a
// full scrape.
func (s *Service) Songs(ctx context.Context) []entities.Song {
	s.mu.RLock()
	songs := s.songs
	expired := time.Since(s.refreshedAt) > s.ttl
	s.mu.RUnlock()

	if expired {
		go func() {
			if err := s.Refresh(context.WithoutCancel(ctx)); err != nil {
				log.Printf("Catalog: background refresh failed: %v", err)
			}
		}()
	}
	return songs
}

// Refresh scrapes the source site, parses every citation line and swaps both
// the stored and the in-memory catalog. When a refresh is already in flight
// the call returns immediately without starting a second one. On failure the
// previous snapshot stays in place and the error is recorded for Status.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		log.Printf("Catalog: refresh already in progress, skipping")
		return nil
	}
	s.refreshing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.refreshing = false
		s.mu.Unlock()
	}()

	start := time.Now()
	log.Printf("Catalog: refresh started")

	raw, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		s.recordError(err)
		return fmt.Errorf("scrape catalog: %w", err)
	}

	songs := BuildSongs(raw)
	refreshedAt := time.Now()

	if err := s.store.ReplaceCatalog(songs, refreshedAt); err != nil {
		s.recordError(err)
		return fmt.Errorf("persist catalog: %w", err)
	}

	// Re-read so the snapshot carries database IDs and canonical ordering.
	stored, err := s.store.GetCatalog()
	if err != nil {
		s.recordError(err)
		return fmt.Errorf("reload catalog: %w", err)
	}

	s.mu.Lock()
	s.songs = stored
	s.refreshedAt = refreshedAt
	s.lastError = ""
	s.mu.Unlock()

	log.Printf("Catalog: refreshed %d songs in %v", len(stored), time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

// Status reports the catalog state without touching the network.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		SongCount:  len(s.songs),
		Refreshing: s.refreshing,
		LastError:  s.lastError,
		TTL:        s.ttl.String(),
	}
	if !s.refreshedAt.IsZero() {
		t := s.refreshedAt
		st.RefreshedAt = &t
	}
	return st
}

// BuildSongs converts raw scraped records into catalog songs, parsing the
// citation line of every record whose text starts with the "Cfr" marker.
// Lines without the marker (e.g. "Canto di Natale") carry no references.
func BuildSongs(raw []scraper.RawSong) []entities.Song {
	songs := make([]entities.Song, 0, len(raw))
	for _, r := range raw {
		var refs []reference.Ref
		if cfr := strings.TrimSpace(r.CfrText); strings.HasPrefix(strings.ToLower(cfr), "cfr") {
			refs = reference.Parse(stripCfrMarker(cfr))
		}
		songs = append(songs, entities.NewSong(r.Title, r.URL, r.CfrText, refs))
	}
	return songs
}

// stripCfrMarker removes the "Cfr."/"cfr." citation marker before parsing.
func stripCfrMarker(text string) string {
	text = strings.ReplaceAll(text, "Cfr.", "")
	text = strings.ReplaceAll(text, "cfr.", "")
	return strings.TrimSpace(text)
}
