package tags

import (
	"context"
	"fmt"

	"mangascout/pkg/models"
)

// Lang is the only language tag names are matched in.
const Lang = "en"

// Source fetches the full tag list from the catalog.
type Source interface {
	Tags(ctx context.Context) ([]models.Tag, error)
}

// Entry is one tag with its English display name.
type Entry struct {
	ID   string
	Name string
}

// Directory is an immutable snapshot of the catalog's tags, loaded once at
// startup and shared read-only by every request.
type Directory struct {
	entries []Entry
}

// Load fetches the tag list. Callers treat an error as fatal.
func Load(ctx context.Context, src Source) (*Directory, error) {
	list, err := src.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	return New(list), nil
}

// New builds a directory from catalog tags, keeping catalog order.
func New(list []models.Tag) *Directory {
	entries := make([]Entry, 0, len(list))
	for _, t := range list {
		entries = append(entries, Entry{ID: t.ID, Name: t.Attributes.Name.Get(Lang)})
	}
	return &Directory{entries: entries}
}

// Resolve maps display names to tag ids (case-sensitive). Unknown names are
// dropped. Ids come back in directory order.
func (d *Directory) Resolve(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}

	var ids []string
	for _, e := range d.entries {
		if _, ok := want[e.Name]; ok {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Names returns every English display name in directory order.
func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.entries))
	for _, e := range d.entries {
		names = append(names, e.Name)
	}
	return names
}

func (d *Directory) Len() int { return len(d.entries) }
