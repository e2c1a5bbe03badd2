package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cantolab/cantomatch/internal/catalog"
)

type HealthResponse struct {
	Status      string            `json:"status"`
	Time        string            `json:"time"`
	Version     string            `json:"version,omitempty"`
	SongCount   int               `json:"song_count"`
	LastRefresh string            `json:"last_refresh,omitempty"`
	Checks      map[string]string `json:"checks"`
}

type HealthController struct {
	catalog *catalog.Service
	version string
}

func NewHealthController(catalogService *catalog.Service, version string) *HealthController {
	return &HealthController{
		catalog: catalogService,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	if h.catalog != nil {
		st := h.catalog.Status()
		health.SongCount = st.SongCount
		if st.RefreshedAt != nil {
			health.LastRefresh = st.RefreshedAt.Format(time.RFC3339)
		}
		if st.SongCount == 0 {
			checks["catalog"] = "empty (no refresh completed yet)"
		} else {
			checks["catalog"] = "ok"
		}
		if st.LastError != "" {
			checks["last_refresh"] = "error: " + st.LastError
		}
	} else {
		checks["catalog"] = "not configured"
	}

	c.IndentedJSON(http.StatusOK, health)
}
