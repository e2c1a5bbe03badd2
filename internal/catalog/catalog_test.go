package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantolab/cantomatch/internal/entities"
	"github.com/cantolab/cantomatch/internal/scraper"
)

type fakeFetcher struct {
	mu    sync.Mutex
	songs []scraper.RawSong
	err   error
	calls int
}

func (f *fakeFetcher) FetchAll(ctx context.Context) ([]scraper.RawSong, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.songs, nil
}

type fakeStore struct {
	mu          sync.Mutex
	songs       []entities.Song
	refreshedAt *time.Time
	replaceErr  error
}

func (s *fakeStore) ReplaceCatalog(songs []entities.Song, refreshedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.songs = songs
	s.refreshedAt = &refreshedAt
	return nil
}

func (s *fakeStore) GetCatalog() ([]entities.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.songs, nil
}

func (s *fakeStore) LastRefreshedAt() (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshedAt, nil
}

func TestRefresh_BuildsAndPersistsCatalog(t *testing.T) {
	fetcher := &fakeFetcher{songs: []scraper.RawSong{
		{Title: "Abba Padre", URL: "https://example.org/abba", CfrText: "Cfr. Rm 8,15-17"},
		{Title: "Canto senza riferimenti", URL: "https://example.org/x", CfrText: "Canto di Natale"},
	}}
	store := &fakeStore{}
	svc := NewService(fetcher, store, time.Hour)

	require.NoError(t, svc.Refresh(context.Background()))

	songs := svc.Songs(context.Background())
	require.Len(t, songs, 2)

	require.Len(t, songs[0].Refs, 1)
	assert.Equal(t, "rm", songs[0].Refs[0].Book)

	// Non-"Cfr" citation lines carry no references but keep the raw text.
	assert.Empty(t, songs[1].Refs)
	assert.Equal(t, "Canto di Natale", songs[1].CfrRaw)

	status := svc.Status()
	assert.Equal(t, 2, status.SongCount)
	assert.NotNil(t, status.RefreshedAt)
	assert.Empty(t, status.LastError)
}

func TestRefresh_FailureKeepsPreviousSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{songs: []scraper.RawSong{
		{Title: "Abba Padre", URL: "https://example.org/abba", CfrText: "Cfr. Rm 8,15-17"},
	}}
	store := &fakeStore{}
	svc := NewService(fetcher, store, time.Hour)
	require.NoError(t, svc.Refresh(context.Background()))

	fetcher.mu.Lock()
	fetcher.err = errors.New("network down")
	fetcher.mu.Unlock()

	err := svc.Refresh(context.Background())
	require.Error(t, err)

	// The previous snapshot is still served and the error is surfaced.
	songs := svc.Songs(context.Background())
	assert.Len(t, songs, 1)
	assert.Contains(t, svc.Status().LastError, "network down")
}

func TestRefresh_StoreFailureKeepsPreviousSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{songs: []scraper.RawSong{
		{Title: "Abba Padre", URL: "https://example.org/abba", CfrText: "Cfr. Rm 8,15-17"},
	}}
	store := &fakeStore{}
	svc := NewService(fetcher, store, time.Hour)
	require.NoError(t, svc.Refresh(context.Background()))

	store.mu.Lock()
	store.replaceErr = errors.New("disk full")
	store.mu.Unlock()

	require.Error(t, svc.Refresh(context.Background()))
	assert.Len(t, svc.Songs(context.Background()), 1)
}

func TestLoadPersisted(t *testing.T) {
	refreshedAt := time.Now()
	store := &fakeStore{
		songs:       []entities.Song{{Title: "Abba Padre", URL: "https://example.org/abba"}},
		refreshedAt: &refreshedAt,
	}
	svc := NewService(&fakeFetcher{}, store, time.Hour)

	require.NoError(t, svc.LoadPersisted())

	assert.Len(t, svc.Songs(context.Background()), 1)
	status := svc.Status()
	require.NotNil(t, status.RefreshedAt)
	assert.WithinDuration(t, refreshedAt, *status.RefreshedAt, time.Second)
}

func TestSongs_FreshSnapshotDoesNotRefetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewService(fetcher, &fakeStore{}, time.Hour)
	require.NoError(t, svc.Refresh(context.Background()))

	fetcher.mu.Lock()
	callsAfterRefresh := fetcher.calls
	fetcher.mu.Unlock()

	svc.Songs(context.Background())
	svc.Songs(context.Background())

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	assert.Equal(t, callsAfterRefresh, fetcher.calls)
}

func TestBuildSongs_StripsCfrMarker(t *testing.T) {
	songs := BuildSongs([]scraper.RawSong{
		{Title: "Canto", URL: "https://example.org/c", CfrText: "Cfr. Is 12,4-6; Gv 8,31-36"},
	})
	require.Len(t, songs, 1)
	require.Len(t, songs[0].Refs, 2)
	assert.Equal(t, "is", songs[0].Refs[0].Book)
	assert.Equal(t, "gv", songs[0].Refs[1].Book)
	assert.Equal(t, "Cfr. Is 12,4-6; Gv 8,31-36", songs[0].CfrRaw)
}
