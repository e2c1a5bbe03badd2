package scoring

import (
	"math"
	"testing"

	"github.com/cantolab/cantomatch/internal/reference"
)

func ref(book string, chapter int, verses ...int) reference.Ref {
	r := reference.Ref{Book: book, Chapter: &chapter}
	if len(verses) > 0 {
		v1 := verses[0]
		v2 := v1
		if len(verses) > 1 {
			v2 = verses[1]
		}
		r.V1 = &v1
		r.V2 = &v2
	}
	return r
}

func chapterlessRef(book string) reference.Ref {
	return reference.Ref{Book: book}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestOverlap_DifferentBook(t *testing.T) {
	if got := Overlap(ref("is", 1, 15, 16), ref("gv", 1, 15, 16)); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestOverlap_UnknownChapter(t *testing.T) {
	if got := Overlap(chapterlessRef("is"), ref("is", 1, 15, 16)); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := Overlap(ref("is", 1, 15, 16), chapterlessRef("is")); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestOverlap_DifferentChapter(t *testing.T) {
	if got := Overlap(ref("is", 1, 15, 16), ref("is", 2, 15, 16)); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestOverlap_UnknownVerses(t *testing.T) {
	if got := Overlap(ref("is", 1), ref("is", 1, 15, 16)); !almostEqual(got, 0.30) {
		t.Errorf("expected 0.30, got %v", got)
	}
	if got := Overlap(ref("is", 1, 15, 16), ref("is", 1)); !almostEqual(got, 0.30) {
		t.Errorf("expected 0.30, got %v", got)
	}
}

func TestOverlap_IdenticalRanges(t *testing.T) {
	if got := Overlap(ref("is", 1, 15, 16), ref("is", 1, 15, 16)); !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %v", got)
	}
}

func TestOverlap_SelfIsOne(t *testing.T) {
	r := ref("gv", 8, 31, 36)
	if got := Overlap(r, r); !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %v", got)
	}
}

func TestOverlap_DisjointRanges(t *testing.T) {
	if got := Overlap(ref("is", 1, 1, 1), ref("is", 1, 15, 16)); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestOverlap_PartialRanges(t *testing.T) {
	// [15,16] vs [16,18]: intersection 1 verse, union 4 verses.
	if got := Overlap(ref("is", 1, 15, 16), ref("is", 1, 16, 18)); !almostEqual(got, 0.25) {
		t.Errorf("expected 0.25, got %v", got)
	}
}

func TestOverlap_Symmetry(t *testing.T) {
	pairs := [][2]reference.Ref{
		{ref("is", 1, 15, 16), ref("is", 1, 16, 18)},
		{ref("is", 1, 1, 5), ref("is", 1, 3, 3)},
		{ref("gv", 8), ref("gv", 8, 31, 36)},
	}
	for _, p := range pairs {
		if !almostEqual(Overlap(p[0], p[1]), Overlap(p[1], p[0])) {
			t.Errorf("Overlap not symmetric for %v and %v", p[0], p[1])
		}
	}
}

func TestScoreSong_EmptyReading(t *testing.T) {
	if got := ScoreSong(nil, []reference.Ref{ref("is", 1, 15, 16)}); got != 0 {
		t.Errorf("expected 0 for empty reading, got %v", got)
	}
}

func TestScoreSong_NoSongRefs(t *testing.T) {
	if got := ScoreSong([]reference.Ref{ref("is", 1, 15, 16)}, nil); got != 0 {
		t.Errorf("expected 0 for song without references, got %v", got)
	}
}

func TestScoreSong_ExactMatch(t *testing.T) {
	reading := []reference.Ref{ref("is", 1, 15, 16)}
	song := []reference.Ref{ref("is", 1, 15, 16)}
	if got := ScoreSong(reading, song); !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %v", got)
	}
}

func TestScoreSong_DisjointVerses(t *testing.T) {
	reading := []reference.Ref{ref("is", 1, 15, 16)}
	song := []reference.Ref{ref("is", 1, 1, 1)}
	if got := ScoreSong(reading, song); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}

func TestScoreSong_ChapterMatchVersesUnknown(t *testing.T) {
	reading := []reference.Ref{ref("is", 1, 15, 16)}
	song := []reference.Ref{ref("is", 1)}
	if got := ScoreSong(reading, song); !almostEqual(got, 0.30) {
		t.Errorf("expected 0.30, got %v", got)
	}
}

func TestScoreSong_SameBookDifferentChapter(t *testing.T) {
	reading := []reference.Ref{ref("is", 1, 15, 16)}
	song := []reference.Ref{ref("is", 40, 1, 5)}
	if got := ScoreSong(reading, song); !almostEqual(got, 0.10) {
		t.Errorf("expected 0.10, got %v", got)
	}
}

func TestScoreSong_UnknownChapterWeakSignal(t *testing.T) {
	reading := []reference.Ref{ref("is", 1, 15, 16)}
	song := []reference.Ref{chapterlessRef("is")}
	if got := ScoreSong(reading, song); !almostEqual(got, 0.10) {
		t.Errorf("expected 0.10, got %v", got)
	}
}

func TestScoreSong_BestCandidateWins(t *testing.T) {
	reading := []reference.Ref{ref("is", 1, 15, 16)}
	song := []reference.Ref{
		ref("is", 40, 1, 5),  // same book, other chapter: 0.10
		ref("is", 1),         // same chapter, unknown verses: 0.30
		ref("is", 1, 15, 16), // exact: 1.0
		ref("gv", 8, 31, 36), // other book: skipped
	}
	if got := ScoreSong(reading, song); !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %v", got)
	}
}

func TestScoreSong_SumsAcrossReadingRefs(t *testing.T) {
	reading := []reference.Ref{
		ref("is", 1, 15, 16),
		ref("gv", 8, 31, 36),
	}
	song := []reference.Ref{
		ref("is", 1, 15, 16),
		ref("gv", 8, 31, 36),
	}
	if got := ScoreSong(reading, song); !almostEqual(got, 2.0) {
		t.Errorf("expected 2.0, got %v", got)
	}
}

func TestScoreSong_MonotonicInMatchingRefs(t *testing.T) {
	song := []reference.Ref{
		ref("is", 1, 15, 16),
		ref("gv", 8, 31, 36),
	}
	short := []reference.Ref{ref("is", 1, 15, 16)}
	long := append([]reference.Ref{}, short...)
	long = append(long, ref("gv", 8, 31, 36))

	if ScoreSong(long, song) < ScoreSong(short, song) {
		t.Error("adding a matching reading reference lowered the score")
	}
}

func TestScoreSong_CappedAtMaxScore(t *testing.T) {
	var reading, song []reference.Ref
	for i := 0; i < 5; i++ {
		r := ref("is", i+1, 1, 5)
		reading = append(reading, r)
		song = append(song, r)
	}
	got := ScoreSong(reading, song)
	if !almostEqual(got, MaxScore) {
		t.Errorf("expected cap at %v, got %v", MaxScore, got)
	}
	if got > MaxScore {
		t.Errorf("score exceeds cap: %v", got)
	}
}
