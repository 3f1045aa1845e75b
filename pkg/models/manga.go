package models

import (
	"bytes"
	"encoding/json"
)

// Relationship types used by the catalog.
const (
	RelCoverArt = "cover_art"
	RelManga    = "manga"
	RelAuthor   = "author"
)

// LinkMAL is the link kind MangaDex uses for MyAnimeList ids.
const LinkMAL = "mal"

// LocalizedString is a language-code keyed string map as returned by the
// catalog ({"en": "...", "ja-ro": "..."}). The API sends an empty JSON array
// instead of an empty object, so decoding accepts both.
type LocalizedString map[string]string

func (l *LocalizedString) UnmarshalJSON(b []byte) error {
	m, err := decodeLooseMap(b)
	if err != nil {
		return err
	}
	*l = m
	return nil
}

// Get returns the value for lang, or "" when absent.
func (l LocalizedString) Get(lang string) string {
	if l == nil {
		return ""
	}
	return l[lang]
}

// Links maps a link kind ("mal", "al", "raw", ...) to an external id or URL.
type Links map[string]string

func (l *Links) UnmarshalJSON(b []byte) error {
	m, err := decodeLooseMap(b)
	if err != nil {
		return err
	}
	*l = m
	return nil
}

func decodeLooseMap(b []byte) (map[string]string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) || b[0] == '[' {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Manga is one catalog entry as returned by the search endpoint.
type Manga struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Attributes    MangaAttributes `json:"attributes"`
	Relationships []Relationship  `json:"relationships"`
}

type MangaAttributes struct {
	Title            LocalizedString   `json:"title"`
	AltTitles        []LocalizedString `json:"altTitles"`
	Description      LocalizedString   `json:"description"`
	Links            Links             `json:"links"`
	OriginalLanguage string            `json:"originalLanguage"`
	Status           string            `json:"status"`
	Year             int               `json:"year"`
	ContentRating    string            `json:"contentRating"`
	Tags             []Tag             `json:"tags"`
}

// Relationship is an embedded or linked record. Attributes are only present
// when the search asked for the relationship inline (includes[]=cover_art).
type Relationship struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Attributes *RelationshipAttributes `json:"attributes,omitempty"`
}

type RelationshipAttributes struct {
	FileName string `json:"fileName,omitempty"` // cover_art
	Name     string `json:"name,omitempty"`     // author
}

// MALLink returns the MyAnimeList id of m, if it has one.
func (m Manga) MALLink() (string, bool) {
	v, ok := m.Attributes.Links[LinkMAL]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// SearchResponse is the collection envelope of GET /manga.
type SearchResponse struct {
	Result string  `json:"result"`
	Data   []Manga `json:"data"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Total  int     `json:"total"`
}
