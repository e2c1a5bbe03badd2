package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cantolab/cantomatch/internal/catalog"
	"github.com/cantolab/cantomatch/internal/tasks"
)

type CatalogController struct {
	catalog    *catalog.Service
	taskClient *tasks.Client
}

func NewCatalogController(catalogService *catalog.Service, taskClient *tasks.Client) *CatalogController {
	return &CatalogController{
		catalog:    catalogService,
		taskClient: taskClient,
	}
}

// ListSongs returns the current catalog snapshot with parsed references.
func (cc *CatalogController) ListSongs(c *gin.Context) {
	songs := cc.catalog.Songs(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"count": len(songs),
		"songs": songs,
	})
}

// Status reports the catalog cache state: size, last refresh, last error.
func (cc *CatalogController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, cc.catalog.Status())
}

// Refresh enqueues a background catalog rebuild. The scrape can take minutes,
// so the request returns 202 as soon as the task is queued. Without a task
// queue the refresh runs synchronously.
func (cc *CatalogController) Refresh(c *gin.Context) {
	if cc.taskClient == nil {
		if err := cc.catalog.Refresh(c.Request.Context()); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "refresh failed: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "refreshed"})
		return
	}

	task := tasks.RefreshCatalogTask{RequestedBy: "api"}
	if _, err := cc.taskClient.Add(task).Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue refresh: " + err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh queued"})
}
