// Package matcher ranks catalog songs against a requested reading.
package matcher

import (
	"sort"

	"github.com/cantolab/cantomatch/internal/entities"
	"github.com/cantolab/cantomatch/internal/reference"
	"github.com/cantolab/cantomatch/internal/scoring"
)

// DefaultLimit is how many ranked songs are shown per reading.
const DefaultLimit = 3

// ScoredSong pairs a catalog song with its relevance to one reading.
type ScoredSong struct {
	Song  entities.Song `json:"song"`
	Score float64       `json:"score"`
}

// ParseReading interprets a user-entered reading line. An empty result means
// the line could not be interpreted; callers surface a format hint instead of
// an error.
func ParseReading(line string) []reference.Ref {
	return reference.Parse(line)
}

// Rank scores every song against the reading, keeps those at or above
// minScore, sorts them by descending score (stable, so equal scores keep
// catalog order) and truncates to limit. A non-positive limit falls back to
// DefaultLimit; an empty reading yields no results.
func Rank(reading []reference.Ref, songs []entities.Song, minScore float64, limit int) []ScoredSong {
	if len(reading) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var scored []ScoredSong
	for _, song := range songs {
		score := scoring.ScoreSong(reading, song.References())
		if score >= minScore {
			scored = append(scored, ScoredSong{Song: song, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
