package search

import (
	"context"
	"fmt"

	"mangascout/pkg/models"
)

// CoverMap maps a manga id to its cover file name.
type CoverMap map[string]string

// InlineCovers reads cover file names from cover_art relationships embedded
// in search results (includes[]=cover_art). Records without such a
// relationship, or whose relationship carries no file name, are left out.
func InlineCovers(records []models.Manga) CoverMap {
	covers := make(CoverMap, len(records))
	for _, m := range records {
		for _, rel := range m.Relationships {
			if rel.Type != models.RelCoverArt || rel.Attributes == nil || rel.Attributes.FileName == "" {
				continue
			}
			covers[m.ID] = rel.Attributes.FileName
			break
		}
	}
	return covers
}

// CoverSource looks up cover records by id.
type CoverSource interface {
	Covers(ctx context.Context, ids []string) ([]models.Cover, error)
}

// LegacyCovers resolves covers with a second catalog call, for deployments
// whose search results only carry cover ids. Cover records are joined back
// to manga through their own "manga" relationship.
func LegacyCovers(ctx context.Context, src CoverSource, records []models.Manga) (CoverMap, error) {
	wanted := make(map[string]struct{}, len(records))
	var ids []string
	for _, m := range records {
		wanted[m.ID] = struct{}{}
		for _, rel := range m.Relationships {
			if rel.Type == models.RelCoverArt && rel.ID != "" {
				ids = append(ids, rel.ID)
			}
		}
	}

	covers := make(CoverMap, len(ids))
	if len(ids) == 0 {
		return covers, nil
	}

	list, err := src.Covers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("legacy covers: %w", err)
	}

	for _, c := range list {
		if c.Attributes.FileName == "" {
			continue
		}
		for _, rel := range c.Relationships {
			if rel.Type != models.RelManga {
				continue
			}
			if _, ok := wanted[rel.ID]; ok {
				covers[rel.ID] = c.Attributes.FileName
			}
		}
	}
	return covers, nil
}
