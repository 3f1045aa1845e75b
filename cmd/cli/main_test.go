package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/manga/tag", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"result":"ok","data":[
			{"id":"t1","attributes":{"name":{"en":"Action"}}},
			{"id":"t2","attributes":{"name":{"en":"Drama"}}}]}`)
	})
	mux.HandleFunc("/manga", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"result":"ok","data":[
			{"id":"m1","attributes":{"title":{"en":"First"}},
			 "relationships":[{"id":"c1","type":"cover_art","attributes":{"fileName":"one.jpg"}}]},
			{"id":"m2","attributes":{"title":{"en":"Second"}},"relationships":[{"id":"c2","type":"cover_art"}]}]}`)
	})
	mux.HandleFunc("/cover", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"result":"ok","data":[
			{"id":"c1","attributes":{"fileName":"one.jpg"},"relationships":[{"id":"m1","type":"manga"}]},
			{"id":"c2","attributes":{"fileName":"two.jpg"},"relationships":[{"id":"m2","type":"manga"}]}]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	srv := fakeCatalog(t)
	t.Setenv("MANGADEX_BASE_URL", srv.URL)
	t.Setenv("MAL_BASE_URL", srv.URL)
	t.Setenv("MANGASCOUT_SCORE_CACHE_PATH", "")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(append(args, "--log-level", "off"))
	require.NoError(t, root.Execute())
	return out.String()
}

func TestTagsCommand(t *testing.T) {
	assert.Equal(t, "Action\nDrama\n", run(t, "tags"))
}

func TestSearchCommandNoMAL(t *testing.T) {
	out := run(t, "search", "--include", "Action", "--no-mal")
	assert.Contains(t, out, "First")
	assert.Contains(t, out, "one.jpg")
	assert.Contains(t, out, "2 results on page 0")
}

func TestCoversCommand(t *testing.T) {
	assert.Equal(t, "m1\tone.jpg\nm2\t\n", run(t, "covers", "m1", "m2"))
	assert.Equal(t, "m1\tone.jpg\nm2\ttwo.jpg\n", run(t, "covers", "--legacy", "m1", "m2"))
}

func TestSearchCriteria(t *testing.T) {
	f := &searchFlags{}
	cmd := &cobra.Command{Use: "search"}
	bindSearchFlags(cmd, f)
	require.NoError(t, cmd.ParseFlags([]string{
		"--include", "Action", "--include", "Drama", "-p", "3", "--mal-min-score", "0",
	}))

	c := f.criteria(cmd)
	assert.Equal(t, []string{"Action", "Drama"}, c.IncludeTags)
	assert.Equal(t, 300, c.Offset)
	assert.True(t, c.RequireMALLink)
	require.NotNil(t, c.MinMALScore)
	assert.Equal(t, 0.0, *c.MinMALScore)
}

func TestSearchCriteriaNoScore(t *testing.T) {
	f := &searchFlags{}
	cmd := &cobra.Command{Use: "search"}
	bindSearchFlags(cmd, f)
	require.NoError(t, cmd.ParseFlags([]string{"--no-mal"}))

	c := f.criteria(cmd)
	assert.False(t, c.RequireMALLink)
	assert.Nil(t, c.MinMALScore)
}
