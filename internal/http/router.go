// Package http wires the gin router: a JSON API for parsing, matching and
// catalog management, plus a small HTML UI.
package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/cantolab/cantomatch/internal/catalog"
	"github.com/cantolab/cantomatch/internal/tasks"
)

// RouterConfig receives all controller dependencies, improving testability
// and reducing parameter count.
type RouterConfig struct {
	Catalog       *catalog.Service
	TaskClient    *tasks.Client
	TemplatesPath string
	StaticPath    string
	Version       string

	// DefaultMinScore and DefaultLimit seed the match form and apply when a
	// request leaves them out.
	DefaultMinScore float64
	DefaultLimit    int
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	funcMap := template.FuncMap{
		"printScore": formatScore,
	}
	tmpl := template.Must(template.New("").Funcs(funcMap).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	router.Static("/static", cfg.StaticPath)

	health := NewHealthController(cfg.Catalog, cfg.Version)
	match := NewMatchController(cfg.Catalog, cfg.DefaultMinScore, cfg.DefaultLimit)
	catalogController := NewCatalogController(cfg.Catalog, cfg.TaskClient)
	ui := NewUIController(cfg.Catalog, cfg.DefaultMinScore, cfg.DefaultLimit)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.POST("/match", match.Match)
		api.GET("/parse", match.Parse)
		api.GET("/songs", catalogController.ListSongs)
		api.GET("/catalog/status", catalogController.Status)
		api.POST("/catalog/refresh", catalogController.Refresh)
	}

	router.GET("/", ui.Index)
	router.POST("/match", ui.Match)

	return router
}
