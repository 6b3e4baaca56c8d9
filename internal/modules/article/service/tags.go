package article

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/jornalufc/internal/entity"
	"anoa.com/jornalufc/pkg/sanitize"
	"anoa.com/jornalufc/pkg/slug"
	"gorm.io/gorm"
)

const fallbackTagSlug = "tag"

// splitTags turns "UFC, Edital, UFC" into [UFC Edital]: first-seen order,
// empties dropped, duplicates collapsed.
func splitTags(raw string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := sanitize.Text(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func (s *service) resolveTags(ctx context.Context, raw string) ([]entity.Tag, error) {
	names := splitTags(raw)
	tags := make([]entity.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.getOrCreateTag(ctx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// getOrCreateTag looks the tag up by exact name and inserts it when absent.
// A concurrent insert of the same name loses on the unique index and the
// winner's row is re-read.
func (s *service) getOrCreateTag(ctx context.Context, name string) (*entity.Tag, error) {
	for attempt := 1; ; attempt++ {
		existing, err := s.tags.FindByName(ctx, name)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		base := slug.Make(name)
		if base == "" {
			base = fallbackTagSlug
		}
		tagSlug, err := slug.Unique(ctx, base, s.tags.SlugExists)
		if err != nil {
			return nil, err
		}

		tag := &entity.Tag{Name: name, Slug: tagSlug}
		err = s.tags.Create(ctx, tag)
		if err == nil {
			return tag, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == maxSlugAttempts {
			return nil, fmt.Errorf("failed to create tag %q: %w", name, err)
		}
	}
}
