package tags

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mangascout/pkg/models"
)

type fakeSource struct {
	tags []models.Tag
	err  error
}

func (f fakeSource) Tags(context.Context) ([]models.Tag, error) { return f.tags, f.err }

func tag(id, name string) models.Tag {
	var t models.Tag
	t.ID = id
	t.Type = "tag"
	t.Attributes.Name = models.LocalizedString{"en": name}
	return t
}

func sample() *Directory {
	return New([]models.Tag{
		tag("id-action", "Action"),
		tag("id-romance", "Romance"),
		tag("id-comedy", "Comedy"),
	})
}

func TestResolve(t *testing.T) {
	d := sample()

	assert.Equal(t, []string{"id-action", "id-comedy"}, d.Resolve([]string{"Comedy", "Action"}))
	assert.Equal(t, []string{"id-romance"}, d.Resolve([]string{"Romance", "Isekai"}))
}

func TestResolveUnknownAndCase(t *testing.T) {
	d := sample()

	assert.Empty(t, d.Resolve([]string{"action", "ACTION", "Nope"}))
	assert.Empty(t, d.Resolve(nil))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"Action", "Romance", "Comedy"}, sample().Names())
}

func TestLoad(t *testing.T) {
	d, err := Load(context.Background(), fakeSource{tags: []models.Tag{tag("x", "Drama")}})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, []string{"x"}, d.Resolve([]string{"Drama"}))
}

func TestLoadError(t *testing.T) {
	_, err := Load(context.Background(), fakeSource{err: errors.New("boom")})
	assert.ErrorContains(t, err, "boom")
}
