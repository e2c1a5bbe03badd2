package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cantolab/cantomatch/internal/catalog"
	"github.com/cantolab/cantomatch/internal/scoring"
)

type UIController struct {
	catalog         *catalog.Service
	defaultMinScore float64
	defaultLimit    int
}

func NewUIController(catalogService *catalog.Service, defaultMinScore float64, defaultLimit int) *UIController {
	return &UIController{
		catalog:         catalogService,
		defaultMinScore: defaultMinScore,
		defaultLimit:    defaultLimit,
	}
}

// Index renders the match form with the current catalog size.
func (u *UIController) Index(c *gin.Context) {
	status := u.catalog.Status()
	c.HTML(http.StatusOK, "index.html", gin.H{
		"SongCount": status.SongCount,
		"MinScore":  u.defaultMinScore,
		"MaxScore":  scoring.MaxScore,
		"Results":   nil,
	})
}

// Match handles the submitted form: one reading per line, ranked results per
// reading.
func (u *UIController) Match(c *gin.Context) {
	readingsInput := c.PostForm("readings")
	minScore := u.defaultMinScore
	if raw := c.PostForm("min_score"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed >= 0 && parsed <= scoring.MaxScore {
			minScore = parsed
		}
	}

	lines := trimNonEmpty(strings.Split(readingsInput, "\n"))
	status := u.catalog.Status()

	if len(lines) == 0 {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"SongCount": status.SongCount,
			"MinScore":  minScore,
			"MaxScore":  scoring.MaxScore,
			"Error":     "Inserisci almeno una lettura.",
		})
		return
	}

	songs := u.catalog.Songs(c.Request.Context())

	var results []ReadingResult
	for _, line := range lines {
		results = append(results, matchReading(line, songs, minScore, u.defaultLimit))
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"SongCount": status.SongCount,
		"MinScore":  minScore,
		"MaxScore":  scoring.MaxScore,
		"Readings":  readingsInput,
		"Results":   results,
	})
}
