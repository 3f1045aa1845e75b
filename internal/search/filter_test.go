package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"mangascout/internal/mal"
	"mangascout/pkg/logging"
	"mangascout/pkg/models"
)

func newFilter(scores map[string]float64, lists map[string]mal.Membership) (*Filter, *fakeScorer, *fakeLists) {
	s := &fakeScorer{scores: scores}
	l := &fakeLists{members: lists}
	return NewFilter(s, l, 3, logging.Nop()), s, l
}

func TestApplyPassThrough(t *testing.T) {
	f, scorer, lists := newFilter(nil, nil)
	in := []models.Manga{manga("a", ""), manga("b", "1"), manga("c", "")}

	out := f.Apply(context.Background(), in, false, "someone", ptr(9))
	assert.Equal(t, in, out)
	assert.Empty(t, scorer.calls)
	assert.Zero(t, lists.calls)
}

func TestApplyRequiresLink(t *testing.T) {
	f, _, _ := newFilter(nil, nil)
	in := []models.Manga{manga("a", "1"), manga("b", ""), manga("c", "3")}

	out := f.Apply(context.Background(), in, true, "", nil)
	assert.Equal(t, []string{"a", "c"}, ids(out))
}

func TestApplyMinScore(t *testing.T) {
	f, scorer, _ := newFilter(map[string]float64{"1": 7.0, "2": 8.0, "3": 7.5}, nil)
	in := []models.Manga{
		manga("low", "1"),
		manga("high", "2"),
		manga("equal", "3"),
		manga("unscored", "4"),
		manga("nolink", ""),
	}

	out := f.Apply(context.Background(), in, true, "", ptr(7.5))
	assert.Equal(t, []string{"high", "equal"}, ids(out))
	assert.ElementsMatch(t, []string{"1", "2", "3", "4"}, scorer.calls)
}

func TestApplyUserList(t *testing.T) {
	f, scorer, lists := newFilter(nil, map[string]mal.Membership{
		"reader": {2: {}},
	})
	in := []models.Manga{manga("a", "1"), manga("b", "2"), manga("c", "3")}

	out := f.Apply(context.Background(), in, true, "reader", nil)
	assert.Equal(t, []string{"a", "c"}, ids(out))
	assert.Equal(t, 1, lists.calls)
	assert.Empty(t, scorer.calls)
}

func TestApplyScoreAndListCompose(t *testing.T) {
	f, _, _ := newFilter(
		map[string]float64{"1": 9, "2": 9, "3": 5},
		map[string]mal.Membership{"reader": {1: {}}},
	)
	in := []models.Manga{manga("a", "1"), manga("b", "2"), manga("c", "3")}

	out := f.Apply(context.Background(), in, true, "reader", ptr(6))
	assert.Equal(t, []string{"b"}, ids(out))
}

func TestApplyUserListUnavailable(t *testing.T) {
	f, _, _ := newFilter(nil, nil)
	in := []models.Manga{manga("a", "1")}

	out := f.Apply(context.Background(), in, true, "ghost", nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestApplyPreservesOrderUnderConcurrency(t *testing.T) {
	scores := map[string]float64{}
	var in []models.Manga
	var want []string
	for i := range 50 {
		id := string(rune('A'+i%26)) + string(rune('a'+i/26))
		malID := id
		scores[malID] = float64(i % 10)
		in = append(in, manga(id, malID))
		if i%10 >= 5 {
			want = append(want, id)
		}
	}
	f, _, _ := newFilter(scores, nil)

	out := f.Apply(context.Background(), in, true, "", ptr(5))
	assert.Equal(t, want, ids(out))
}
