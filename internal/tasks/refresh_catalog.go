package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// CatalogRefresher rebuilds the song catalog from the source site.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// RefreshCatalogTask triggers a full scrape-and-rebuild of the song catalog.
// It carries no payload; the refresh is always wholesale.
type RefreshCatalogTask struct {
	RequestedBy string `json:"requested_by,omitempty"`
}

// Config returns the queue configuration for catalog refresh tasks. A single
// worker and a generous timeout: a refresh walks the whole paginated list.
func (t RefreshCatalogTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_catalog",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RefreshCatalogProcessor creates a processor function for RefreshCatalogTask.
func RefreshCatalogProcessor(refresher CatalogRefresher) backlite.QueueProcessor[RefreshCatalogTask] {
	return func(ctx context.Context, task RefreshCatalogTask) error {
		if refresher == nil {
			return fmt.Errorf("catalog refresher not configured")
		}

		start := time.Now()
		if err := refresher.Refresh(ctx); err != nil {
			return fmt.Errorf("refresh catalog: %w", err)
		}

		log.Printf("[TASK] Catalog refresh completed in %v (requested by %s)",
			time.Since(start).Round(time.Millisecond), requestedBy(task))
		return nil
	}
}

// NewRefreshCatalogQueue creates a backlite queue for catalog refresh tasks.
func NewRefreshCatalogQueue(refresher CatalogRefresher) backlite.Queue {
	return backlite.NewQueue(RefreshCatalogProcessor(refresher))
}

func requestedBy(task RefreshCatalogTask) string {
	if task.RequestedBy == "" {
		return "scheduler"
	}
	return task.RequestedBy
}
