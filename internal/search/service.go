package search

import (
	"context"
	"errors"
	"net/url"

	"github.com/rs/zerolog"

	"mangascout/internal/mangadex"
	"mangascout/internal/tags"
	"mangascout/pkg/models"
)

// Catalog runs a catalog search.
type Catalog interface {
	Search(ctx context.Context, params url.Values) (*models.SearchResponse, error)
}

// Service runs the gallery pipeline:
// build params -> catalog search -> MAL filter -> covers -> page.
type Service struct {
	Catalog     Catalog
	Tags        *tags.Directory
	Filter      *Filter
	ClampOffset bool
	log         zerolog.Logger
}

func NewService(catalog Catalog, dir *tags.Directory, filter *Filter, clamp bool, log zerolog.Logger) *Service {
	return &Service{
		Catalog:     catalog,
		Tags:        dir,
		Filter:      filter,
		ClampOffset: clamp,
		log:         log.With().Str("component", "search").Logger(),
	}
}

// Params resolves tag names and builds the catalog query for c.
func (s *Service) Params(c Criteria) url.Values {
	return BuildParams(c, s.Tags.Resolve(c.IncludeTags), s.Tags.Resolve(c.ExcludeTags), s.ClampOffset)
}

// Run executes one search. An unusable catalog response yields an empty
// page rather than an error; errors are only returned for cancellation.
func (s *Service) Run(ctx context.Context, c Criteria) (Page, error) {
	page := c.Offset / PageSize

	resp, err := s.Catalog.Search(ctx, s.Params(c))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Page{}, ctxErr
		}
		if !errors.Is(err, mangadex.ErrNoResults) {
			s.log.Warn().Err(err).Msg("catalog search failed")
		}
		return Compose(nil, nil, c.DisplayEn, page), nil
	}

	filtered := s.Filter.Apply(ctx, resp.Data, c.RequireMALLink, c.MALUser, c.MinMALScore)
	covers := InlineCovers(filtered)

	s.log.Debug().
		Int("offset", c.Offset).
		Int("fetched", len(resp.Data)).
		Int("kept", len(filtered)).
		Msg("search done")

	return Compose(filtered, covers, c.DisplayEn, page), nil
}
