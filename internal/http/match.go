package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cantolab/cantomatch/internal/catalog"
	"github.com/cantolab/cantomatch/internal/entities"
	"github.com/cantolab/cantomatch/internal/matcher"
	"github.com/cantolab/cantomatch/internal/reference"
	"github.com/cantolab/cantomatch/internal/scoring"
)

// FormatHint is shown when a reading line cannot be interpreted.
const FormatHint = "Non riesco a interpretare il riferimento. Prova con una forma tipo: 'Is 30,15-16' o 'Isaia dal capitolo 30 vv 15-16'."

type MatchController struct {
	catalog         *catalog.Service
	defaultMinScore float64
	defaultLimit    int
}

func NewMatchController(catalogService *catalog.Service, defaultMinScore float64, defaultLimit int) *MatchController {
	if defaultLimit <= 0 {
		defaultLimit = matcher.DefaultLimit
	}
	return &MatchController{
		catalog:         catalogService,
		defaultMinScore: defaultMinScore,
		defaultLimit:    defaultLimit,
	}
}

type MatchRequest struct {
	Readings []string `json:"readings" binding:"required"`
	MinScore *float64 `json:"min_score"`
	Limit    *int     `json:"limit"`
}

type MatchedSong struct {
	Title  string  `json:"title"`
	URL    string  `json:"url"`
	Score  float64 `json:"score"`
	CfrRaw string  `json:"cfr_raw,omitempty"`
}

type ReadingResult struct {
	Reading     string          `json:"reading"`
	Refs        []reference.Ref `json:"refs"`
	Interpreted bool            `json:"interpreted"`
	Hint        string          `json:"hint,omitempty"`
	Songs       []MatchedSong   `json:"songs"`
}

type MatchResponse struct {
	MinScore float64         `json:"min_score"`
	Results  []ReadingResult `json:"results"`
}

// Match ranks the catalog against each submitted reading line.
func (m *MatchController) Match(c *gin.Context) {
	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	minScore := m.defaultMinScore
	if req.MinScore != nil {
		minScore = *req.MinScore
	}
	if minScore < 0 || minScore > scoring.MaxScore {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("min_score must be between 0.0 and %.1f", scoring.MaxScore),
		})
		return
	}

	limit := m.defaultLimit
	if req.Limit != nil && *req.Limit > 0 {
		limit = *req.Limit
	}

	readings := trimNonEmpty(req.Readings)
	if len(readings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one reading is required"})
		return
	}

	songs := m.catalog.Songs(c.Request.Context())

	response := MatchResponse{MinScore: minScore}
	for _, line := range readings {
		response.Results = append(response.Results, matchReading(line, songs, minScore, limit))
	}

	c.JSON(http.StatusOK, response)
}

// Parse exposes the citation parser for diagnostics: /api/parse?q=Is+30,15-16.
func (m *MatchController) Parse(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	refs := matcher.ParseReading(q)
	c.JSON(http.StatusOK, gin.H{
		"query":       q,
		"refs":        refs,
		"interpreted": len(refs) > 0,
	})
}

func matchReading(line string, songs []entities.Song, minScore float64, limit int) ReadingResult {
	refs := matcher.ParseReading(line)
	result := ReadingResult{
		Reading:     line,
		Refs:        refs,
		Interpreted: len(refs) > 0,
	}
	if len(refs) == 0 {
		result.Hint = FormatHint
		return result
	}

	for _, scored := range matcher.Rank(refs, songs, minScore, limit) {
		result.Songs = append(result.Songs, MatchedSong{
			Title:  scored.Song.Title,
			URL:    scored.Song.URL,
			Score:  scored.Score,
			CfrRaw: scored.Song.CfrRaw,
		})
	}
	return result
}

func trimNonEmpty(lines []string) []string {
	var out []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// formatScore renders a score with two decimals for templates and the UI.
func formatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}
