package search

import (
	"net/url"
	"strconv"

	"mangascout/pkg/models"
)

const (
	// PageSize is the fixed catalog page size; page p starts at p*PageSize.
	PageSize = 100
	// MaxOffset keeps offset+limit within the catalog's 10000 result window.
	MaxOffset = 9999
)

// Criteria is everything a gallery request can ask for.
type Criteria struct {
	IncludeTags      []string // tag display names
	ExcludeTags      []string
	Offset           int
	OriginalLanguage string // empty means any

	RequireMALLink bool
	MALUser        string   // empty means no list exclusion
	MinMALScore    *float64 // nil means no score threshold

	DisplayEn bool
}

// OffsetForPage converts a zero-based page index to a catalog offset.
func OffsetForPage(page int) int {
	if page <= 0 {
		return 0
	}
	return page * PageSize
}

// ClampOffset limits an offset to [0, MaxOffset].
func ClampOffset(offset int) int {
	return max(0, min(offset, MaxOffset))
}

// BuildParams turns criteria plus resolved tag ids into GET /manga query
// parameters. Covers are requested inline so no second round trip is needed.
func BuildParams(c Criteria, includeIDs, excludeIDs []string, clamp bool) url.Values {
	q := url.Values{}
	for _, id := range includeIDs {
		q.Add("includedTags[]", id)
	}
	for _, id := range excludeIDs {
		q.Add("excludedTags[]", id)
	}
	q.Set("order[followedCount]", "desc")
	q.Set("limit", strconv.Itoa(PageSize))

	offset := max(0, c.Offset)
	if clamp {
		offset = ClampOffset(offset)
	}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("includes[]", models.RelCoverArt)

	if c.OriginalLanguage != "" {
		q.Set("originalLanguage[]", c.OriginalLanguage)
	}
	return q
}
