package mal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangascout/pkg/logging"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "cid", 5*time.Second, 0, logging.Nop())
}

func TestMean(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/manga/42", r.URL.Path)
		assert.Equal(t, "mean", r.URL.Query().Get("fields"))
		assert.Equal(t, "cid", r.Header.Get("X-MAL-CLIENT-ID"))
		_, _ = io.WriteString(w, `{"id":42,"title":"x","mean":8.12}`)
	})

	mean, err := c.Mean(context.Background(), "42")
	require.NoError(t, err)
	assert.InDelta(t, 8.12, mean, 1e-9)
}

func TestMeanMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":42,"title":"x"}`)
	})

	_, err := c.Mean(context.Background(), "42")
	assert.ErrorIs(t, err, ErrNoScore)
}

func TestMeanBadID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.Mean(context.Background(), "https://myanimelist.net/manga/1")
	assert.ErrorIs(t, err, ErrNoScore)
}

func TestMeanUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	})

	_, err := c.Mean(context.Background(), "1")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrNoScore)
}

func TestUserListFollowsPaging(t *testing.T) {
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/users/reader/mangalist", r.URL.Path)
		if r.URL.Query().Get("offset") == "" {
			assert.Equal(t, "1000", r.URL.Query().Get("limit"))
			fmt.Fprintf(w, `{"data":[{"node":{"id":1}},{"node":{"id":2}}],
				"paging":{"next":"%s/v2/users/reader/mangalist?offset=2"}}`, srvURL)
			return
		}
		_, _ = io.WriteString(w, `{"data":[{"node":{"id":3}}],"paging":{}}`)
	}))
	defer srv.Close()
	srvURL = srv.URL

	c := NewClient(srv.URL, "cid", 5*time.Second, 0, logging.Nop())
	members, err := c.UserList(context.Background(), "reader")
	require.NoError(t, err)
	assert.Len(t, members, 3)
	assert.True(t, members.Contains("3"))
	assert.True(t, members.Contains(" 1 "))
	assert.False(t, members.Contains("4"))
	assert.False(t, members.Contains("abc"))
}

func TestUserListUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":"not_found"}`)
	})

	_, err := c.UserList(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrListUnavailable)
}

func TestRateLimiterHonorsContext(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "cid", time.Second, 0.001, logging.Nop())
	// the first token is free; the second would take ~1000s
	require.NoError(t, c.limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.Mean(ctx, "1")
	assert.ErrorIs(t, err, ErrUnavailable)
}
