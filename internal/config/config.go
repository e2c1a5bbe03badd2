package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Catalog
		Scraper
		UI
		Matching
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Catalog struct {
		RefreshTTL      time.Duration
		RefreshEnabled  bool
		RefreshSchedule string // Cron format: "0 */6 * * *" = every 6 hours
	}
	Scraper struct {
		BaseURL     string
		StartPath   string
		MaxPages    int
		PoliteDelay time.Duration
		Timeout     time.Duration
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Matching struct {
		MinScore    float64 // Default minimum-score threshold, 0.0-2.5
		ResultLimit int     // Songs shown per reading
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8177)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Catalog defaults: one full rebuild every six hours
	v.SetDefault("catalog_refresh_ttl", "6h")
	v.SetDefault("catalog_refresh_enabled", true)
	v.SetDefault("catalog_refresh_schedule", "0 */6 * * *")

	// Scraper defaults
	v.SetDefault("scraper_base_url", DefaultBaseURL)
	v.SetDefault("scraper_start_path", DefaultStartPath)
	v.SetDefault("scraper_max_pages", 80)
	v.SetDefault("scraper_polite_delay", "250ms")
	v.SetDefault("scraper_timeout", "30s")

	// UI defaults
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	// Matching defaults
	v.SetDefault("matching_min_score", 0.15)
	v.SetDefault("matching_result_limit", 3)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "10m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Catalog: Catalog{
			RefreshTTL:      v.GetDuration("CATALOG_REFRESH_TTL"),
			RefreshEnabled:  v.GetBool("CATALOG_REFRESH_ENABLED"),
			RefreshSchedule: v.GetString("CATALOG_REFRESH_SCHEDULE"),
		},
		Scraper: Scraper{
			BaseURL:     v.GetString("SCRAPER_BASE_URL"),
			StartPath:   v.GetString("SCRAPER_START_PATH"),
			MaxPages:    v.GetInt("SCRAPER_MAX_PAGES"),
			PoliteDelay: v.GetDuration("SCRAPER_POLITE_DELAY"),
			Timeout:     v.GetDuration("SCRAPER_TIMEOUT"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Matching: Matching{
			MinScore:    v.GetFloat64("MATCHING_MIN_SCORE"),
			ResultLimit: v.GetInt("MATCHING_RESULT_LIMIT"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}
