// Package scheduler drives the periodic catalog refresh on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher rebuilds the catalog; implemented by catalog.Service.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// CatalogRefreshScheduler manages the periodic rebuild of the song catalog.
type CatalogRefreshScheduler struct {
	refresher Refresher
	schedule  string

	cron         *cron.Cron
	entryID      cron.EntryID
	mu           sync.RWMutex
	isRunning    bool
	isRefreshing bool
	cancelFunc   context.CancelFunc
}

// NewCatalogRefreshScheduler creates a new scheduler instance. The schedule
// uses the standard five-field cron format, e.g. "0 */6 * * *" for every six
// hours.
func NewCatalogRefreshScheduler(refresher Refresher, schedule string) *CatalogRefreshScheduler {
	return &CatalogRefreshScheduler{
		refresher: refresher,
		schedule:  schedule,
		cron:      cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *CatalogRefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runRefresh()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Catalog refresh scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running refresh to
// complete.
func (s *CatalogRefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Catalog refresh scheduler: stopped")
}

// RunNow triggers an immediate refresh.
func (s *CatalogRefreshScheduler) RunNow() {
	go s.runRefresh()
}

// IsRunning returns whether the scheduler is active.
func (s *CatalogRefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsRefreshing returns whether a refresh is currently in progress.
func (s *CatalogRefreshScheduler) IsRefreshing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRefreshing
}

// GetNextRunTime returns when the next refresh will occur.
func (s *CatalogRefreshScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runRefresh performs the actual refresh, skipping overlapping runs.
func (s *CatalogRefreshScheduler) runRefresh() {
	s.mu.Lock()
	if s.isRefreshing {
		s.mu.Unlock()
		log.Printf("Catalog refresh: skipped (already refreshing)")
		return
	}
	s.isRefreshing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isRefreshing = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := s.refresher.Refresh(ctx); err != nil {
		log.Printf("Catalog refresh: failed: %v", err)
		return
	}
}
