package search

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"mangascout/internal/mal"
	"mangascout/pkg/models"
)

// ListSource reads a user's MAL manga list.
type ListSource interface {
	UserList(ctx context.Context, user string) (mal.Membership, error)
}

// Filter applies the MAL based checks the catalog cannot express.
type Filter struct {
	Scores      mal.Scorer
	Lists       ListSource
	Concurrency int
	log         zerolog.Logger
}

func NewFilter(scores mal.Scorer, lists ListSource, concurrency int, log zerolog.Logger) *Filter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Filter{
		Scores:      scores,
		Lists:       lists,
		Concurrency: concurrency,
		log:         log.With().Str("component", "filter").Logger(),
	}
}

// Apply keeps records that pass every applicable check, in input order:
//   - requireLink false: everything passes, nothing else is checked
//   - the record must carry a MAL link
//   - minScore set: the MAL mean must exist and be >= minScore
//   - user set: the MAL id must not be on the user's list
//
// Scores are fetched up front for all linked candidates (bounded by
// Concurrency) and the records are then filtered sequentially. If the user's
// list cannot be read the result is empty.
func (f *Filter) Apply(ctx context.Context, records []models.Manga, requireLink bool, user string, minScore *float64) []models.Manga {
	if !requireLink {
		return records
	}

	var members mal.Membership
	if user != "" {
		var err error
		members, err = f.Lists.UserList(ctx, user)
		if err != nil {
			f.log.Warn().Err(err).Str("user", user).Msg("user list unavailable, dropping all results")
			return []models.Manga{}
		}
	}

	type candidate struct {
		rec   models.Manga
		malID string
	}
	candidates := make([]candidate, 0, len(records))
	for _, rec := range records {
		if id, ok := rec.MALLink(); ok {
			candidates = append(candidates, candidate{rec: rec, malID: id})
		}
	}

	var scores []scoreResult
	if minScore != nil {
		ids := make([]string, len(candidates))
		for i, c := range candidates {
			ids[i] = c.malID
		}
		scores = f.fetchScores(ctx, ids)
	}

	out := make([]models.Manga, 0, len(candidates))
	for i, c := range candidates {
		if minScore != nil {
			s := scores[i]
			if !s.ok || s.mean < *minScore {
				continue
			}
		}
		if members != nil && members.Contains(c.malID) {
			continue
		}
		out = append(out, c.rec)
	}
	return out
}

type scoreResult struct {
	mean float64
	ok   bool
}

// fetchScores looks up every id, results indexed like ids. Lookup failures
// are recorded as missing scores.
func (f *Filter) fetchScores(ctx context.Context, ids []string) []scoreResult {
	results := make([]scoreResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			mean, err := f.Scores.Mean(gctx, id)
			if err != nil {
				if !errors.Is(err, mal.ErrNoScore) {
					f.log.Debug().Err(err).Str("mal_id", id).Msg("score lookup failed")
				}
				return nil
			}
			results[i] = scoreResult{mean: mean, ok: true}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
