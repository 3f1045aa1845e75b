package mal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Scorer looks up a MAL mean score. *Client and *ScoreCache implement it.
type Scorer interface {
	Mean(ctx context.Context, malID string) (float64, error)
}

// ScoreCache keeps MAL means in SQLite so repeated searches do not pay one
// MAL request per candidate. Entries older than TTL are refetched. "No
// score" answers are cached too.
type ScoreCache struct {
	DB   *sql.DB
	Next Scorer
	TTL  time.Duration
	now  func() time.Time
	log  zerolog.Logger
}

func NewScoreCache(db *sql.DB, next Scorer, ttl time.Duration, log zerolog.Logger) *ScoreCache {
	return &ScoreCache{
		DB:   db,
		Next: next,
		TTL:  ttl,
		now:  time.Now,
		log:  log.With().Str("component", "score-cache").Logger(),
	}
}

func (s *ScoreCache) Mean(ctx context.Context, malID string) (float64, error) {
	id, err := strconv.Atoi(strings.TrimSpace(malID))
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", ErrNoScore, malID)
	}

	mean, hit, err := s.lookup(ctx, id)
	if err != nil {
		// a broken cache should not hide scores
		s.log.Warn().Err(err).Int("mal_id", id).Msg("cache lookup failed")
	}
	if hit {
		if !mean.Valid {
			return 0, ErrNoScore
		}
		return mean.Float64, nil
	}

	v, err := s.Next.Mean(ctx, malID)
	switch {
	case err == nil:
		s.store(ctx, id, sql.NullFloat64{Float64: v, Valid: true})
		return v, nil
	case errors.Is(err, ErrNoScore):
		s.store(ctx, id, sql.NullFloat64{})
		return 0, err
	default:
		return 0, err
	}
}

func (s *ScoreCache) lookup(ctx context.Context, id int) (sql.NullFloat64, bool, error) {
	var (
		mean      sql.NullFloat64
		fetchedAt int64
	)
	row := s.DB.QueryRowContext(ctx, `
		SELECT mean, fetched_at
		FROM mal_scores
		WHERE mal_id = ?
	`, id)
	if err := row.Scan(&mean, &fetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sql.NullFloat64{}, false, nil
		}
		return sql.NullFloat64{}, false, fmt.Errorf("scan score: %w", err)
	}
	if s.TTL > 0 && s.now().Sub(time.Unix(fetchedAt, 0)) > s.TTL {
		return sql.NullFloat64{}, false, nil
	}
	return mean, true, nil
}

func (s *ScoreCache) store(ctx context.Context, id int, mean sql.NullFloat64) {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO mal_scores (mal_id, mean, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(mal_id) DO UPDATE SET
		  mean = excluded.mean,
		  fetched_at = excluded.fetched_at
	`, id, mean, s.now().Unix())
	if err != nil {
		s.log.Warn().Err(err).Int("mal_id", id).Msg("cache store failed")
	}
}

// Purge deletes entries older than the TTL.
func (s *ScoreCache) Purge(ctx context.Context) (int64, error) {
	if s.TTL <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.TTL).Unix()
	res, err := s.DB.ExecContext(ctx, `DELETE FROM mal_scores WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge scores: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge scores rows: %w", err)
	}
	return n, nil
}
