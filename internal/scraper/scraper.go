// Package scraper fetches the song list pages of the source site and extracts
// raw song records: a title, the song's URL and the "Cfr." citation line, if
// one is present. Citation parsing happens downstream in the catalog builder;
// this package only deals with HTML.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "Mozilla/5.0 (compatible; CantomatchBot/1.0; +https://github.com/cantolab/cantomatch)"

// RawSong is one scraped catalog entry before citation parsing.
type RawSong struct {
	Title   string
	URL     string
	CfrText string
}

// Config controls pagination and politeness towards the source site.
type Config struct {
	// BaseURL is the site root, used to resolve relative links.
	BaseURL string

	// StartPath is the path of the first list page (e.g. "/lista-canti/").
	StartPath string

	// MaxPages bounds pagination as a safety net against link loops.
	MaxPages int

	// PoliteDelay is slept between page fetches.
	PoliteDelay time.Duration

	// Timeout applies to each page request.
	Timeout time.Duration
}

// Scraper walks the paginated song list of the source site.
type Scraper struct {
	httpClient  *http.Client
	baseURL     string
	startPath   string
	maxPages    int
	politeDelay time.Duration
}

func New(cfg Config) *Scraper {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 80
	}
	return &Scraper{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		startPath:   cfg.StartPath,
		maxPages:    maxPages,
		politeDelay: cfg.PoliteDelay,
	}
}

// FetchAll downloads the first list page and every "Successivo" page after it,
// extracting one RawSong per linked heading. Songs appearing on more than one
// page are de-duplicated by (lowercased title, URL), first occurrence wins.
// Any network or HTTP error aborts the whole fetch; the caller decides what to
// do with the previous catalog.
func (s *Scraper) FetchAll(ctx context.Context) ([]RawSong, error) {
	pageURL := s.absoluteURL(s.startPath)

	var songs []RawSong
	for page := 0; page < s.maxPages; page++ {
		doc, err := s.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetch page %s: %w", pageURL, err)
		}

		songs = append(songs, s.extractSongs(doc)...)

		next, ok := findNextLink(doc)
		if !ok {
			break
		}
		pageURL = s.absoluteURL(next)

		if s.politeDelay > 0 {
			select {
			case <-time.After(s.politeDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return dedupeSongs(songs), nil
}

func (s *Scraper) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}

// extractSongs walks the page's h1/h2 headings. A song is a heading with a
// link; its citation line is the first <li> of the first <ul> following the
// heading. A heading without a nearby list simply has no citation.
func (s *Scraper) extractSongs(doc *goquery.Document) []RawSong {
	var songs []RawSong
	doc.Find("h1, h2").Each(func(_ int, heading *goquery.Selection) {
		link := heading.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}

		title := cleanSpaces(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return
		}

		songs = append(songs, RawSong{
			Title:   title,
			URL:     s.absoluteURL(href),
			CfrText: citationNearHeading(heading),
		})
	})
	return songs
}

// citationNearHeading returns the text of the first <li> in the first <ul>
// sibling after the heading, falling back to a <ul> nested in a later sibling
// for pages with wrapper markup. Empty when no list is found.
func citationNearHeading(heading *goquery.Selection) string {
	list := heading.NextAllFiltered("ul").First()
	if list.Length() == 0 {
		list = heading.NextAll().Find("ul").First()
	}
	if list.Length() == 0 {
		return ""
	}

	item := list.Find("li").First()
	if item.Length() == 0 {
		return ""
	}
	return cleanSpaces(item.Text())
}

// findNextLink locates the "Successivo" pagination link. A missing link means
// the last page was reached.
func findNextLink(doc *goquery.Document) (string, bool) {
	var href string
	found := false
	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if !strings.Contains(link.Text(), "Successivo") {
			return true
		}
		href, _ = link.Attr("href")
		found = href != ""
		return false
	})
	return href, found
}

// absoluteURL resolves a possibly relative href against the configured base.
func (s *Scraper) absoluteURL(href string) string {
	if u, err := url.Parse(href); err == nil && u.IsAbs() {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return s.baseURL + href
}

func dedupeSongs(songs []RawSong) []RawSong {
	seen := make(map[string]struct{}, len(songs))
	uniq := make([]RawSong, 0, len(songs))
	for _, song := range songs {
		key := strings.ToLower(song.Title) + "\x00" + song.URL
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		uniq = append(uniq, song)
	}
	return uniq
}

var whitespacePattern = regexp.MustCompile(`\s+`)

func cleanSpaces(s string) string {
	return whitespacePattern.ReplaceAllString(strings.TrimSpace(s), " ")
}
