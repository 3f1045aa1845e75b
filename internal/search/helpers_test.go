package search

import (
	"context"
	"net/url"
	"sync"

	"mangascout/internal/mal"
	"mangascout/pkg/models"
)

func manga(id, malID string, rels ...models.Relationship) models.Manga {
	m := models.Manga{ID: id, Type: "manga", Relationships: rels}
	m.Attributes.Title = models.LocalizedString{"en": "Title " + id}
	if malID != "" {
		m.Attributes.Links = models.Links{models.LinkMAL: malID}
	}
	return m
}

func coverRel(id, file string) models.Relationship {
	r := models.Relationship{ID: id, Type: models.RelCoverArt}
	if file != "" {
		r.Attributes = &models.RelationshipAttributes{FileName: file}
	}
	return r
}

func ids(records []models.Manga) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

type fakeScorer struct {
	mu     sync.Mutex
	scores map[string]float64
	calls  []string
}

func (f *fakeScorer) Mean(_ context.Context, id string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	v, ok := f.scores[id]
	if !ok {
		return 0, mal.ErrNoScore
	}
	return v, nil
}

type fakeLists struct {
	members map[string]mal.Membership
	calls   int
}

func (f *fakeLists) UserList(_ context.Context, user string) (mal.Membership, error) {
	f.calls++
	m, ok := f.members[user]
	if !ok {
		return nil, mal.ErrListUnavailable
	}
	return m, nil
}

type fakeCatalog struct {
	resp   *models.SearchResponse
	err    error
	params []url.Values
}

func (f *fakeCatalog) Search(_ context.Context, params url.Values) (*models.SearchResponse, error) {
	f.params = append(f.params, params)
	return f.resp, f.err
}

func ptr(f float64) *float64 { return &f }
