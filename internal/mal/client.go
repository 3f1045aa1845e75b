package mal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"mangascout/pkg/models"
)

const DefaultBaseURL = "https://api.myanimelist.net"

var (
	// ErrNoScore means MAL returned no mean for the entry (or an unusable response).
	ErrNoScore = errors.New("mal: no score")
	// ErrUnavailable means the MAL request itself failed.
	ErrUnavailable = errors.New("mal: unavailable")
	// ErrListUnavailable means a user's manga list could not be read.
	ErrListUnavailable = errors.New("mal: user list unavailable")
)

const (
	listPageSize = 1000
	maxListPages = 20
)

// Membership is the set of MAL ids on a user's manga list.
type Membership map[int]struct{}

// Contains reports whether the MAL id (as found in a catalog link) is on the list.
func (m Membership) Contains(malID string) bool {
	id, err := strconv.Atoi(strings.TrimSpace(malID))
	if err != nil {
		return false
	}
	_, ok := m[id]
	return ok
}

// Client reads scores and user lists from the MAL v2 API. Every request
// waits on a shared rate limiter.
type Client struct {
	BaseURL  string
	ClientID string
	HTTP     *http.Client
	limiter  *rate.Limiter
	log      zerolog.Logger
}

func NewClient(baseURL, clientID string, timeout time.Duration, rps float64, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	lim := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		lim = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		ClientID: clientID,
		HTTP:     &http.Client{Timeout: timeout},
		limiter:  lim,
		log:      log.With().Str("component", "mal").Logger(),
	}
}

// Mean returns the MAL mean score for malID.
func (c *Client) Mean(ctx context.Context, malID string) (float64, error) {
	id, err := strconv.Atoi(strings.TrimSpace(malID))
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", ErrNoScore, malID)
	}

	q := url.Values{}
	q.Set("fields", "mean")
	body, err := c.get(ctx, fmt.Sprintf("%s/v2/manga/%d", c.BaseURL, id), q)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var m models.MALManga
	if err := json.Unmarshal(body, &m); err != nil {
		return 0, fmt.Errorf("%w: decode: %w", ErrNoScore, err)
	}
	if m.Mean == nil {
		return 0, ErrNoScore
	}
	return *m.Mean, nil
}

// UserList fetches every entry on user's manga list, following pagination.
func (c *Client) UserList(ctx context.Context, user string) (Membership, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(listPageSize))
	q.Set("nsfw", "true")
	next := fmt.Sprintf("%s/v2/users/%s/mangalist?%s", c.BaseURL, url.PathEscape(user), q.Encode())

	members := make(Membership)
	for page := 0; next != "" && page < maxListPages; page++ {
		body, err := c.get(ctx, next, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrListUnavailable, err)
		}

		var resp models.MALListResponse
		if err := json.Unmarshal(body, &resp); err != nil || resp.Data == nil {
			c.log.Warn().Str("user", user).Msg("mangalist response has no data")
			return nil, ErrListUnavailable
		}
		for _, item := range *resp.Data {
			members[item.Node.ID] = struct{}{}
		}
		next = resp.Paging.Next
	}

	c.log.Debug().Str("user", user).Int("entries", len(members)).Msg("loaded user list")
	return members, nil
}

func (c *Client) get(ctx context.Context, rawURL string, q url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-MAL-CLIENT-ID", c.ClientID)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
