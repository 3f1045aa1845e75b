package search

import (
	"maps"
	"slices"

	"mangascout/pkg/models"
)

// Card is one gallery tile.
type Card struct {
	ID        string
	Title     string
	CoverFile string
	MALID     string
}

// Page is what the gallery template renders.
type Page struct {
	Filtered  []models.Manga
	Covers    CoverMap
	DisplayEn bool

	Cards    []Card
	Page     int
	NextPage int
	PrevPage int
}

// Compose shapes filtered records and covers for presentation. No I/O.
func Compose(filtered []models.Manga, covers CoverMap, displayEn bool, page int) Page {
	if covers == nil {
		covers = CoverMap{}
	}
	if filtered == nil {
		filtered = []models.Manga{}
	}

	cards := make([]Card, 0, len(filtered))
	for _, m := range filtered {
		malID, _ := m.MALLink()
		cards = append(cards, Card{
			ID:        m.ID,
			Title:     DisplayTitle(m, displayEn),
			CoverFile: covers[m.ID],
			MALID:     malID,
		})
	}

	page = max(0, page)
	return Page{
		Filtered:  filtered,
		Covers:    covers,
		DisplayEn: displayEn,
		Cards:     cards,
		Page:      page,
		NextPage:  page + 1,
		PrevPage:  max(0, page-1),
	}
}

// DisplayTitle picks the English title when displayEn is set, otherwise the
// title in the work's original language (or its romanization), falling back
// to whatever title exists.
func DisplayTitle(m models.Manga, displayEn bool) string {
	attr := m.Attributes
	if displayEn {
		if t := attr.Title.Get("en"); t != "" {
			return t
		}
		for _, alt := range attr.AltTitles {
			if t := alt.Get("en"); t != "" {
				return t
			}
		}
	} else if lang := attr.OriginalLanguage; lang != "" {
		for _, code := range []string{lang, lang + "-ro"} {
			if t := attr.Title.Get(code); t != "" {
				return t
			}
			for _, alt := range attr.AltTitles {
				if t := alt.Get(code); t != "" {
					return t
				}
			}
		}
	}

	if t := attr.Title.Get("en"); t != "" {
		return t
	}
	for _, lang := range slices.Sorted(maps.Keys(attr.Title)) {
		if t := attr.Title[lang]; t != "" {
			return t
		}
	}
	return m.ID
}
