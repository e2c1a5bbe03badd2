package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cantolab/cantomatch/internal/catalog"
	"github.com/cantolab/cantomatch/internal/config"
	"github.com/cantolab/cantomatch/internal/database"
	http_controllers "github.com/cantolab/cantomatch/internal/http"
	"github.com/cantolab/cantomatch/internal/scheduler"
	"github.com/cantolab/cantomatch/internal/scraper"
	"github.com/cantolab/cantomatch/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop the scheduler and task queue before cutting off HTTP.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Cantomatch v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	fetcher := scraper.New(scraper.Config{
		BaseURL:     cfg.Scraper.BaseURL,
		StartPath:   cfg.Scraper.StartPath,
		MaxPages:    cfg.Scraper.MaxPages,
		PoliteDelay: cfg.Scraper.PoliteDelay,
		Timeout:     cfg.Scraper.Timeout,
	})

	catalogService := catalog.NewService(fetcher, db, cfg.Catalog.RefreshTTL)
	if err := catalogService.LoadPersisted(); err != nil {
		log.Printf("WARNING: Failed to load persisted catalog: %v", err)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewRefreshCatalogQueue(catalogService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Periodic refresh keeps the catalog warm even without traffic.
	var refreshScheduler *scheduler.CatalogRefreshScheduler
	var schedulerCancel context.CancelFunc
	if cfg.Catalog.RefreshEnabled {
		refreshScheduler = scheduler.NewCatalogRefreshScheduler(catalogService, cfg.Catalog.RefreshSchedule)

		var schedulerCtx context.Context
		schedulerCtx, schedulerCancel = context.WithCancel(context.Background())
		if err := refreshScheduler.Start(schedulerCtx); err != nil {
			log.Fatalf("Failed to start catalog refresh scheduler: %v", err)
		}

		// An empty catalog is useless; scrape right away on first boot.
		if catalogService.Status().SongCount == 0 {
			log.Printf("Catalog is empty, triggering initial refresh")
			refreshScheduler.RunNow()
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Catalog:         catalogService,
		TaskClient:      taskClient,
		TemplatesPath:   cfg.UI.TemplatesPath,
		StaticPath:      cfg.UI.StaticPath,
		Version:         version,
		DefaultMinScore: cfg.Matching.MinScore,
		DefaultLimit:    cfg.Matching.ResultLimit,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if refreshScheduler != nil {
			refreshScheduler.Stop()
			schedulerCancel()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
