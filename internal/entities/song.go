package entities

import (
	"strings"
	"time"

	"github.com/cantolab/cantomatch/internal/reference"
)

// Song is one catalog entry: a song title, its page on the source site, the
// raw "Cfr." citation line and the references parsed out of it. Songs are
// created once per scrape cycle and replaced wholesale on refresh; they are
// never mutated in place.
type Song struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:512;index:idx_song_identity,unique" json:"title"`
	URL       string    `gorm:"size:2048;index:idx_song_identity,unique" json:"url"`
	CfrRaw    string    `gorm:"size:1024" json:"cfr_raw,omitempty"`
	Refs      []SongRef `gorm:"foreignKey:SongID;constraint:OnDelete:CASCADE" json:"refs,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SongRef is one parsed scripture reference attached to a song. Chapter and
// verse columns are nullable: NULL means unknown, matching the parser's
// optional fields. Position preserves the order references appeared in the
// citation line.
type SongRef struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	SongID   uint   `gorm:"index" json:"-"`
	Position int    `json:"-"`
	Book     string `gorm:"size:10;index" json:"book"`
	Chapter  *int   `json:"chapter,omitempty"`
	V1       *int   `json:"v1,omitempty"`
	V2       *int   `json:"v2,omitempty"`
	Raw      string `gorm:"size:256" json:"raw,omitempty"`
}

// CatalogInfo is a single-row table recording when the stored catalog was
// last rebuilt.
type CatalogInfo struct {
	ID          uint      `gorm:"primaryKey"`
	RefreshedAt time.Time
	SongCount   int
}

// NewSong builds a Song from scraped data and its parsed references.
func NewSong(title, url, cfrRaw string, refs []reference.Ref) Song {
	song := Song{
		Title:  title,
		URL:    url,
		CfrRaw: cfrRaw,
	}
	for i, r := range refs {
		song.Refs = append(song.Refs, SongRef{
			Position: i,
			Book:     r.Book,
			Chapter:  r.Chapter,
			V1:       r.V1,
			V2:       r.V2,
			Raw:      r.Raw,
		})
	}
	return song
}

// References converts the stored rows back into parser references, in
// position order.
func (s *Song) References() []reference.Ref {
	if len(s.Refs) == 0 {
		return nil
	}
	refs := make([]reference.Ref, 0, len(s.Refs))
	for _, sr := range s.Refs {
		refs = append(refs, reference.Ref{
			Book:    sr.Book,
			Chapter: sr.Chapter,
			V1:      sr.V1,
			V2:      sr.V2,
			Raw:     sr.Raw,
		})
	}
	return refs
}

// IdentityKey is the de-duplication key for a song: lowercased title plus URL.
func (s *Song) IdentityKey() string {
	return strings.ToLower(s.Title) + "\x00" + s.URL
}
