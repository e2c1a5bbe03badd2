package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageOne = `<html><body>
<h1><a href="/canti/a-te-levo">A Te levo i miei occhi</a></h1>
<ul><li>Cfr. Sal 123 (122)</li></ul>
<h2><a href="/canti/abba-padre">Abba Padre</a></h2>
<ul><li>Cfr. Rm 8,15-17</li></ul>
<h2>Canti di Avvento</h2>
<a href="/lista-canti/page/2/">Successivo &gt;&gt;</a>
</body></html>`

const pageTwo = `<html><body>
<h1><a href="/canti/abba-padre">Abba Padre</a></h1>
<ul><li>Cfr. Rm 8,15-17</li></ul>
<h2><a href="/canti/acclamate">Acclamate al Signore</a></h2>
<p>Canto di Natale</p>
</body></html>`

func newTestScraper(handler http.Handler) (*Scraper, *httptest.Server) {
	server := httptest.NewServer(handler)
	s := New(Config{
		BaseURL:   server.URL,
		StartPath: "/lista-canti/",
		MaxPages:  10,
	})
	return s, server
}

func TestFetchAll_PaginatesAndDeduplicates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/lista-canti/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pageOne)
	})
	mux.HandleFunc("/lista-canti/page/2/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pageTwo)
	})
	s, server := newTestScraper(mux)
	defer server.Close()

	songs, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	// "Abba Padre" appears on both pages and survives once; the heading
	// without a link is skipped.
	require.Len(t, songs, 3)

	assert.Equal(t, "A Te levo i miei occhi", songs[0].Title)
	assert.Equal(t, server.URL+"/canti/a-te-levo", songs[0].URL)
	assert.Equal(t, "Cfr. Sal 123 (122)", songs[0].CfrText)

	assert.Equal(t, "Abba Padre", songs[1].Title)
	assert.Equal(t, "Cfr. Rm 8,15-17", songs[1].CfrText)

	assert.Equal(t, "Acclamate al Signore", songs[2].Title)
}

func TestFetchAll_StopsWithoutNextLink(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, pageTwo)
	})
	s, server := newTestScraper(handler)
	defer server.Close()

	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestFetchAll_HeadingWithoutListHasNoCitation(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1><a href="/canti/x">Canto X</a></h1></body></html>`)
	})
	s, server := newTestScraper(handler)
	defer server.Close()

	songs, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Empty(t, songs[0].CfrText)
}

func TestFetchAll_NestedListFallback(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<h1><a href="/canti/x">Canto X</a></h1>
<div><ul><li>Cfr. Is 12,4-6</li></ul></div>
</body></html>`)
	})
	s, server := newTestScraper(handler)
	defer server.Close()

	songs, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Cfr. Is 12,4-6", songs[0].CfrText)
}

func TestFetchAll_HTTPErrorPropagates(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	s, server := newTestScraper(handler)
	defer server.Close()

	_, err := s.FetchAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestFetchAll_RespectsMaxPages(t *testing.T) {
	requests := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// Every page points to itself; only MaxPages requests may happen.
		fmt.Fprint(w, `<html><body><a href="/lista-canti/">Successivo</a></body></html>`)
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	s := New(Config{BaseURL: server.URL, StartPath: "/lista-canti/", MaxPages: 3})
	_, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, requests)
}

func TestAbsoluteURL(t *testing.T) {
	s := New(Config{BaseURL: "https://example.org"})

	assert.Equal(t, "https://example.org/lista-canti/", s.absoluteURL("/lista-canti/"))
	assert.Equal(t, "https://example.org/lista-canti/", s.absoluteURL("lista-canti/"))
	assert.Equal(t, "https://other.org/x", s.absoluteURL("https://other.org/x"))
}
