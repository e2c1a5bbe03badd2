// Package scoring computes how well a song's scripture references match a
// requested reading. Scoring is pure: no state is shared between calls and no
// error is ever returned.
package scoring

import (
	"math"

	"github.com/cantolab/cantomatch/internal/reference"
)

const (
	// MaxScore caps the aggregate score of a reading against one song.
	MaxScore = 2.5

	// chapterMatchScore is the weak-match value for the same book and chapter
	// when either side has unknown verses.
	chapterMatchScore = 0.30

	// bookMatchScore is the weak signal for the same book when chapters are
	// unknown or differ.
	bookMatchScore = 0.10
)

// Overlap computes the similarity of two individual references in [0, 1].
// Different books or chapters, or an unknown chapter on either side, score 0.
// A matching book and chapter with unknown verses on either side scores 0.30.
// Otherwise the result is the Jaccard overlap of the inclusive verse ranges:
// 1 for identical ranges, 0 for disjoint ones, a fraction in between.
func Overlap(a, b reference.Ref) float64 {
	if a.Book != b.Book {
		return 0
	}
	if a.Chapter == nil || b.Chapter == nil {
		return 0
	}
	if *a.Chapter != *b.Chapter {
		return 0
	}
	if a.V1 == nil || b.V1 == nil {
		return chapterMatchScore
	}

	a1, a2 := verseRange(a)
	b1, b2 := verseRange(b)

	intersection := min(a2, b2) - max(a1, b1) + 1
	if intersection < 0 {
		intersection = 0
	}
	union := max(a2, b2) - min(a1, b1) + 1
	if union <= 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// verseRange returns the inclusive verse range of a reference whose V1 is
// known. V2 defaults to V1 for single-verse references.
func verseRange(r reference.Ref) (int, int) {
	v1 := *r.V1
	v2 := v1
	if r.V2 != nil {
		v2 = *r.V2
	}
	return v1, v2
}

// ScoreSong aggregates the relevance of a song's references to a multi-
// reference reading. Each reading reference contributes its best candidate
// value across the song's references: Overlap when book and chapter match,
// 0.10 when only the book matches (unknown or differing chapter). The
// contributions are summed and capped at MaxScore.
//
// An empty reading scores 0 immediately; callers distinguish "could not
// interpret the reading" from a genuine zero by the emptiness of the reading
// itself, not by the score.
func ScoreSong(reading, songRefs []reference.Ref) float64 {
	if len(reading) == 0 {
		return 0
	}

	total := 0.0
	for _, rr := range reading {
		best := 0.0
		for _, sr := range songRefs {
			if rr.Book != sr.Book {
				continue
			}
			switch {
			case rr.Chapter == nil || sr.Chapter == nil:
				best = math.Max(best, bookMatchScore)
			case *rr.Chapter == *sr.Chapter:
				best = math.Max(best, Overlap(rr, sr))
			default:
				best = math.Max(best, bookMatchScore)
			}
		}
		total += best
	}
	return math.Min(total, MaxScore)
}
