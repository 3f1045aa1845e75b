package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"mangascout/internal/mal"
	"mangascout/internal/mangadex"
	"mangascout/internal/search"
	"mangascout/internal/tags"
	"mangascout/pkg/database"
	"mangascout/pkg/utils"
)

// App holds the components shared by the web server and the CLI.
type App struct {
	Catalog *mangadex.Client
	MAL     *mal.Client
	Scores  mal.Scorer
	Tags    *tags.Directory
	Search  *search.Service
	DB      *sql.DB // nil when the score cache is disabled
}

// New builds every component and loads the tag directory. A tag load
// failure is returned as an error; callers must not serve without tags.
func New(ctx context.Context, cfg utils.Config, log zerolog.Logger) (*App, error) {
	catalog := mangadex.NewClient(cfg.MangaDex.BaseURL, cfg.MangaDex.UploadsURL, cfg.HTTP.Timeout, log)
	malClient := mal.NewClient(cfg.MAL.BaseURL, cfg.MAL.ClientID, cfg.HTTP.Timeout, cfg.MAL.RPS, log)

	a := &App{Catalog: catalog, MAL: malClient, Scores: malClient}

	if cfg.ScoreCache.Path != "" {
		db, err := database.Open(database.Config{Path: cfg.ScoreCache.Path})
		if err != nil {
			return nil, fmt.Errorf("score cache: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("score cache: %w", err)
		}
		cache := mal.NewScoreCache(db, malClient, cfg.ScoreCache.TTL, log)
		if n, err := cache.Purge(ctx); err != nil {
			log.Warn().Err(err).Msg("score cache purge failed")
		} else if n > 0 {
			log.Info().Int64("purged", n).Msg("expired scores removed")
		}
		a.DB = db
		a.Scores = cache
	}

	dir, err := tags.Load(ctx, catalog)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Tags = dir
	log.Info().Int("tags", dir.Len()).Msg("tag directory loaded")

	filter := search.NewFilter(a.Scores, malClient, cfg.MAL.Concurrency, log)
	a.Search = search.NewService(catalog, dir, filter, cfg.MangaDex.ClampOffset, log)
	return a, nil
}

func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
