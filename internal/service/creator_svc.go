package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/WarriorSushi/supaviewer/internal/apperr"
	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/repository"
	"github.com/WarriorSushi/supaviewer/pkg/slug"
)

const creatorSearchLimit = 10

var (
	errCreatorHasVideos = apperr.Conflict("CREATOR_HAS_VIDEOS", "Cannot delete creator with existing videos. Please reassign or delete their videos first.")
	errInvalidSlug      = apperr.Validation("INVALID_SLUG", "Slug must contain only lowercase letters, numbers, and hyphens")
)

// CreatorService serves creator profiles and admin creator management.
type CreatorService struct {
	tx       TxRunner
	creators CreatorStore
	videos   VideoStore
	log      zerolog.Logger
}

func NewCreatorService(tx TxRunner, creators CreatorStore, videos VideoStore, log zerolog.Logger) *CreatorService {
	return &CreatorService{tx: tx, creators: creators, videos: videos, log: log}
}

// ListPublic returns every creator ordered by name, without contact details.
func (s *CreatorService) ListPublic(ctx context.Context) ([]model.PublicCreator, error) {
	creators, err := s.creators.ListAll(ctx)
	if err != nil {
		return nil, apperr.Dependency("list creators", err)
	}
	out := make([]model.PublicCreator, 0, len(creators))
	for i := range creators {
		out = append(out, creators[i].Public())
	}
	return out, nil
}

// Profile returns a creator by slug with its approved videos and their mean rating.
func (s *CreatorService) Profile(ctx context.Context, slugValue string) (*model.CreatorProfileResponse, error) {
	c, err := s.creators.FindBySlug(ctx, slugValue)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errCreatorNotFound
	}
	if err != nil {
		return nil, apperr.Dependency("load creator", err)
	}
	videos, err := s.videos.ListApprovedByCreator(ctx, c.ID)
	if err != nil {
		return nil, apperr.Dependency("load creator videos", err)
	}
	count, avg, err := s.creators.ApprovedStats(ctx, c.ID)
	if err != nil {
		return nil, apperr.Dependency("load creator stats", err)
	}
	return &model.CreatorProfileResponse{Creator: c.Public(), Videos: videos, VideoCount: count, AvgRating: avg}, nil
}

// AdminList returns a page of creators with approved-video statistics.
func (s *CreatorService) AdminList(ctx context.Context, search string, page, limit int) (*model.CreatorListResponse, error) {
	page, limit = normalizePage(page, limit, defaultAdminLimit)
	f := model.CreatorFilter{Search: strings.TrimSpace(search), Page: page, Limit: limit}
	creators, total, err := s.creators.ListWithStats(ctx, f)
	if err != nil {
		return nil, apperr.Dependency("list creators", err)
	}
	return &model.CreatorListResponse{Creators: creators, Pagination: model.NewPagination(page, limit, total)}, nil
}

// Search returns up to ten creators whose name or email contains term.
func (s *CreatorService) Search(ctx context.Context, term string) ([]model.Creator, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []model.Creator{}, nil
	}
	creators, err := s.creators.Search(ctx, term, creatorSearchLimit)
	if err != nil {
		return nil, apperr.Dependency("search creators", err)
	}
	return creators, nil
}

func checkSlug(s string) error {
	if err := checkLen("slug", s, 2, 100); err != nil {
		return err
	}
	if !slug.Valid(s) {
		return errInvalidSlug
	}
	return nil
}

func validateCreatorRequest(req model.CreatorRequest) error {
	return firstErr(
		checkLen("name", strings.TrimSpace(req.Name), 2, 100),
		checkSlug(strings.TrimSpace(req.Slug)),
		checkEmail("email", strings.TrimSpace(req.Email)),
		checkURL("website", strings.TrimSpace(req.Website)),
		checkOptionalLen("twitter_handle", strings.TrimSpace(req.TwitterHandle), 1, 50),
		checkURL("avatar_url", strings.TrimSpace(req.AvatarURL)),
	)
}

// Create inserts a creator with an explicit slug.
func (s *CreatorService) Create(ctx context.Context, req model.CreatorRequest) (*model.Creator, error) {
	if err := validateCreatorRequest(req); err != nil {
		return nil, err
	}
	c := &model.Creator{
		Name:          strings.TrimSpace(req.Name),
		Slug:          strings.TrimSpace(req.Slug),
		Email:         strings.TrimSpace(req.Email),
		Bio:           optional(req.Bio),
		Website:       optional(req.Website),
		TwitterHandle: optional(req.TwitterHandle),
		AvatarURL:     optional(req.AvatarURL),
	}

	taken, err := s.creators.SlugExists(ctx, c.Slug)
	if err != nil {
		return nil, apperr.Dependency("check slug", err)
	}
	if taken {
		return nil, errSlugTaken
	}
	if err := s.creators.Insert(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errSlugTaken
		}
		return nil, apperr.Dependency("insert creator", err)
	}
	s.log.Info().Str("creator_id", c.ID.String()).Str("slug", c.Slug).Msg("creator created")
	return c, nil
}

// Get returns a creator and how many videos of any status it owns.
func (s *CreatorService) Get(ctx context.Context, id uuid.UUID) (*model.Creator, int, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	n, err := s.videos.CountByCreator(ctx, id)
	if err != nil {
		return nil, 0, apperr.Dependency("count creator videos", err)
	}
	return c, n, nil
}

func validateCreatorPatch(p model.CreatorPatch) error {
	var errs []error
	if p.Name != nil {
		errs = append(errs, checkLen("name", strings.TrimSpace(*p.Name), 2, 100))
	}
	if p.Slug != nil {
		errs = append(errs, checkSlug(strings.TrimSpace(*p.Slug)))
	}
	if p.Email != nil {
		errs = append(errs, checkEmail("email", strings.TrimSpace(*p.Email)))
	}
	if p.Website != nil {
		errs = append(errs, checkURL("website", strings.TrimSpace(*p.Website)))
	}
	if p.TwitterHandle != nil {
		errs = append(errs, checkOptionalLen("twitter_handle", strings.TrimSpace(*p.TwitterHandle), 1, 50))
	}
	if p.AvatarURL != nil {
		errs = append(errs, checkURL("avatar_url", strings.TrimSpace(*p.AvatarURL)))
	}
	return firstErr(errs...)
}

// Update applies a partial edit. A changed slug must not belong to another creator.
func (s *CreatorService) Update(ctx context.Context, id uuid.UUID, p model.CreatorPatch) (*model.Creator, error) {
	if err := validateCreatorPatch(p); err != nil {
		return nil, err
	}
	for _, f := range []**string{&p.Name, &p.Slug, &p.Email, &p.Bio, &p.Website, &p.TwitterHandle, &p.AvatarURL} {
		if *f != nil {
			t := strings.TrimSpace(**f)
			*f = &t
		}
	}

	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Slug != nil && *p.Slug != current.Slug {
		taken, err := s.creators.SlugExists(ctx, *p.Slug)
		if err != nil {
			return nil, apperr.Dependency("check slug", err)
		}
		if taken {
			return nil, errSlugTaken
		}
	}

	c, err := s.creators.Update(ctx, id, p)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, errCreatorNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return nil, errSlugTaken
	case err != nil:
		return nil, apperr.Dependency("update creator", err)
	}
	return c, nil
}

// Delete removes a creator that owns no videos. The video check runs in the
// application and the foreign key backs it up.
func (s *CreatorService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.find(ctx, id); err != nil {
			return err
		}
		n, err := s.videos.CountByCreator(ctx, id)
		if err != nil {
			return apperr.Dependency("count creator videos", err)
		}
		if n > 0 {
			return errCreatorHasVideos
		}
		err = s.creators.Delete(ctx, id)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return errCreatorNotFound
		case errors.Is(err, repository.ErrReferenced):
			return errCreatorHasVideos
		case err != nil:
			return apperr.Dependency("delete creator", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("creator_id", id.String()).Msg("creator deleted")
	return nil
}

func (s *CreatorService) find(ctx context.Context, id uuid.UUID) (*model.Creator, error) {
	c, err := s.creators.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errCreatorNotFound
	}
	if err != nil {
		return nil, apperr.Dependency("load creator", err)
	}
	return c, nil
}
