package mangadex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"mangascout/pkg/models"
)

const (
	DefaultBaseURL    = "https://api.mangadex.org"
	DefaultUploadsURL = "https://uploads.mangadex.org"
)

// ErrNoResults means the catalog answered with something that is not a
// search collection (bad JSON, error envelope, missing "data"). Callers treat
// it as zero results. An empty "data" array is a successful empty result and
// does not produce this error.
var ErrNoResults = errors.New("mangadex: no results in response")

// Client talks to the MangaDex API and its cover CDN.
type Client struct {
	BaseURL    string
	UploadsURL string
	HTTP       *http.Client
	log        zerolog.Logger
}

func NewClient(baseURL, uploadsURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if uploadsURL == "" {
		uploadsURL = DefaultUploadsURL
	}
	return &Client{
		BaseURL:    baseURL,
		UploadsURL: uploadsURL,
		HTTP:       &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "mangadex").Logger(),
	}
}

// Search runs GET /manga with params as built by the query builder.
func (c *Client) Search(ctx context.Context, params url.Values) (*models.SearchResponse, error) {
	body, status, err := c.get(ctx, c.BaseURL+"/manga", params)
	if err != nil {
		c.log.Warn().Err(err).Msg("search request failed")
		return nil, fmt.Errorf("%w: %w", ErrNoResults, err)
	}

	var raw struct {
		Result string          `json:"result"`
		Data   *[]models.Manga `json:"data"`
		Limit  int             `json:"limit"`
		Offset int             `json:"offset"`
		Total  int             `json:"total"`
	}
	if err := json.Unmarshal(body, &raw); err != nil || raw.Data == nil {
		c.log.Warn().
			Int("status", status).
			AnErr("decode_error", err).
			Msg("search response has no results")
		return nil, ErrNoResults
	}

	return &models.SearchResponse{
		Result: raw.Result,
		Data:   *raw.Data,
		Limit:  raw.Limit,
		Offset: raw.Offset,
		Total:  raw.Total,
	}, nil
}

// Tags fetches the full tag list (GET /manga/tag).
func (c *Client) Tags(ctx context.Context) ([]models.Tag, error) {
	body, status, err := c.get(ctx, c.BaseURL+"/manga/tag", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("mangadex: tags: status %d: %s", status, string(body))
	}

	var resp models.TagListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("mangadex: tags: decode: %w", err)
	}
	return resp.Data, nil
}

// maxCoverIDs is the page size limit of GET /cover.
const maxCoverIDs = 100

// Covers looks up cover records by id (GET /cover?ids[]=...). Used by the
// two-call cover resolution mode.
func (c *Client) Covers(ctx context.Context, ids []string) ([]models.Cover, error) {
	var out []models.Cover
	for start := 0; start < len(ids); start += maxCoverIDs {
		end := min(start+maxCoverIDs, len(ids))

		q := url.Values{}
		for _, id := range ids[start:end] {
			q.Add("ids[]", id)
		}
		q.Set("limit", strconv.Itoa(end-start))

		body, status, err := c.get(ctx, c.BaseURL+"/cover", q)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("mangadex: covers: status %d: %s", status, string(body))
		}

		var resp models.CoverListResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("mangadex: covers: decode: %w", err)
		}
		out = append(out, resp.Data...)
	}
	return out, nil
}

// CoverImage fetches a cover image from the CDN. The caller owns the
// response body.
func (c *Client) CoverImage(ctx context.Context, mangaID, fileName string) (*http.Response, error) {
	u := fmt.Sprintf("%s/covers/%s/%s", c.UploadsURL, url.PathEscape(mangaID), url.PathEscape(fileName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("mangadex: build cover request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mangadex: cover request: %w", err)
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, rawURL string, q url.Values) ([]byte, int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, 0, fmt.Errorf("mangadex: parse url: %w", err)
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("mangadex: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("url", u.String()).Msg("request")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("mangadex: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("mangadex: read body: %w", err)
	}
	return body, resp.StatusCode, nil
}
