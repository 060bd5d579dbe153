package service

import (
	"context"
	"errors"
	"strings"

	"github.com/WarriorSushi/supaviewer/internal/apperr"
	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/repository"
	"github.com/WarriorSushi/supaviewer/pkg/slug"
)

var (
	errUnsluggableName = apperr.Validation("INVALID_NAME", "Name must contain at least one letter or digit")
	errSlugTaken       = apperr.Conflict("SLUG_TAKEN", "A creator with this slug already exists")
)

// CreatorResolver turns display names into unique creator slugs and creates
// creator rows from inline payloads.
type CreatorResolver struct {
	creators CreatorStore
	suffix   func() string
}

func NewCreatorResolver(creators CreatorStore) *CreatorResolver {
	return &CreatorResolver{creators: creators, suffix: slug.RandomSuffix}
}

// UniqueSlug derives a slug from name. When the base slug is taken it appends a
// single random suffix without re-checking; a second collision surfaces at insert.
func (r *CreatorResolver) UniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		return "", errUnsluggableName
	}
	taken, err := r.creators.SlugExists(ctx, base)
	if err != nil {
		return "", apperr.Dependency("check slug", err)
	}
	if taken {
		return slug.WithSuffix(base, r.suffix()), nil
	}
	return base, nil
}

// Create inserts a new creator from an approval payload.
func (r *CreatorResolver) Create(ctx context.Context, in model.NewCreatorInput) (*model.Creator, error) {
	s, err := r.UniqueSlug(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	c := &model.Creator{
		Name:          strings.TrimSpace(in.Name),
		Slug:          s,
		Email:         strings.TrimSpace(in.Email),
		Bio:           optional(in.Bio),
		Website:       optional(in.Website),
		TwitterHandle: optional(in.TwitterHandle),
	}
	if err := r.insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// FindOrCreate reuses the creator whose slug matches name, or inserts one.
// Used by public submissions where the same creator submits repeatedly.
func (r *CreatorResolver) FindOrCreate(ctx context.Context, name, email, website, twitter string, userID *string) (*model.Creator, error) {
	base := slug.Make(name)
	if base == "" {
		return nil, errUnsluggableName
	}
	existing, err := r.creators.FindBySlug(ctx, base)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Dependency("find creator", err)
	}

	c := &model.Creator{
		Name:          strings.TrimSpace(name),
		Slug:          base,
		Email:         strings.TrimSpace(email),
		Website:       optional(website),
		TwitterHandle: optional(twitter),
		UserID:        userID,
	}
	if err := r.insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CreatorResolver) insert(ctx context.Context, c *model.Creator) error {
	err := r.creators.Insert(ctx, c)
	if errors.Is(err, repository.ErrDuplicate) {
		return errSlugTaken
	}
	if err != nil {
		return apperr.Dependency("insert creator", err)
	}
	return nil
}
