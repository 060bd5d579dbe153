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
)

const (
	defaultBrowseLimit = 24
	defaultAdminLimit  = 50
	relatedLimit       = 6
)

// publicSorts maps browse sort keys to a column and direction.
var publicSorts = map[string]struct {
	column    string
	ascending bool
}{
	model.SortNewest:       {"created_at", false},
	model.SortHighestRated: {"avg_rating", false},
	model.SortMostViewed:   {"view_count", false},
	model.SortMostRated:    {"total_ratings", false},
}

// adminSortColumns are the sort_by values the admin video list accepts.
var adminSortColumns = map[string]bool{
	"created_at":    true,
	"title":         true,
	"avg_rating":    true,
	"total_ratings": true,
}

// BrowseQuery is the public catalogue query.
type BrowseQuery struct {
	AITool string
	Genre  string
	Search string
	Sort   string
	Page   int
	Limit  int
}

type VideoService struct {
	tx      TxRunner
	videos  VideoStore
	ratings RatingStore
	log     zerolog.Logger
}

func NewVideoService(tx TxRunner, videos VideoStore, ratings RatingStore, log zerolog.Logger) *VideoService {
	return &VideoService{tx: tx, videos: videos, ratings: ratings, log: log}
}

// Browse lists approved videos. Unknown sort keys fall back to newest.
func (s *VideoService) Browse(ctx context.Context, q BrowseQuery) (*model.VideoListResponse, error) {
	page, limit := normalizePage(q.Page, q.Limit, defaultBrowseLimit)
	sort, ok := publicSorts[q.Sort]
	if !ok {
		sort = publicSorts[model.SortNewest]
	}
	f := model.VideoFilter{
		Status:    model.StatusApproved,
		AITool:    strings.TrimSpace(q.AITool),
		Genre:     strings.TrimSpace(q.Genre),
		Search:    strings.TrimSpace(q.Search),
		SortBy:    sort.column,
		Ascending: sort.ascending,
		Page:      page,
		Limit:     limit,
	}
	return s.list(ctx, f)
}

// Detail returns an approved video with related videos and counts the view.
func (s *VideoService) Detail(ctx context.Context, id uuid.UUID) (*model.VideoDetailResponse, error) {
	v, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Status != model.StatusApproved {
		return nil, errVideoNotFound
	}

	if err := s.videos.IncrementViews(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("video_id", id.String()).Msg("view count increment failed")
	} else {
		v.ViewCount++
	}

	related, err := s.videos.Related(ctx, v, relatedLimit)
	if err != nil {
		return nil, apperr.Dependency("load related videos", err)
	}
	return &model.VideoDetailResponse{Video: v, Related: related}, nil
}

// AdminList lists videos of any status. An unknown sort_by falls back to
// created_at descending.
func (s *VideoService) AdminList(ctx context.Context, f model.VideoFilter) (*model.VideoListResponse, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, errInvalidStatus
	}
	if !adminSortColumns[f.SortBy] {
		f.SortBy = "created_at"
		f.Ascending = false
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Page, f.Limit = normalizePage(f.Page, f.Limit, defaultAdminLimit)
	return s.list(ctx, f)
}

func (s *VideoService) AdminGet(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	return s.find(ctx, id)
}

func validateVideoPatch(p model.VideoPatch) error {
	var errs []error
	if p.Title != nil {
		errs = append(errs, checkLen("title", strings.TrimSpace(*p.Title), 3, 200))
	}
	if p.Description != nil {
		errs = append(errs, checkLen("description", strings.TrimSpace(*p.Description), 10, 0))
	}
	if p.AITool != nil {
		errs = append(errs, checkLen("ai_tool", strings.TrimSpace(*p.AITool), 1, 100))
	}
	if p.Genre != nil {
		errs = append(errs, checkOptionalLen("genre", strings.TrimSpace(*p.Genre), 1, 50))
	}
	if p.Status != nil && !p.Status.Valid() {
		errs = append(errs, errInvalidStatus)
	}
	if p.DurationSeconds != nil && *p.DurationSeconds < 0 {
		errs = append(errs, apperr.Invalid("duration_seconds must be non-negative"))
	}
	return firstErr(errs...)
}

// AdminUpdate applies a partial edit.
func (s *VideoService) AdminUpdate(ctx context.Context, id uuid.UUID, p model.VideoPatch) (*model.Video, error) {
	if err := validateVideoPatch(p); err != nil {
		return nil, err
	}
	trim := func(sp *string) *string {
		if sp == nil {
			return nil
		}
		t := strings.TrimSpace(*sp)
		return &t
	}
	p.Title, p.Description, p.AITool, p.Genre = trim(p.Title), trim(p.Description), trim(p.AITool), trim(p.Genre)

	v, err := s.videos.Update(ctx, id, p)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errVideoNotFound
	}
	if err != nil {
		return nil, apperr.Dependency("update video", err)
	}
	return v, nil
}

// AdminDelete removes the video's ratings and then the video, in one transaction.
func (s *VideoService) AdminDelete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ratings.DeleteByVideo(ctx, id); err != nil {
			return apperr.Dependency("delete ratings", err)
		}
		if err := s.videos.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errVideoNotFound
			}
			return apperr.Dependency("delete video", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("video_id", id.String()).Msg("video deleted")
	return nil
}

// Stats returns the admin dashboard counts.
func (s *VideoService) Stats(ctx context.Context) (*model.StatsResponse, error) {
	st, err := s.videos.Stats(ctx)
	if err != nil {
		return nil, apperr.Dependency("load stats", err)
	}
	return st, nil
}

func (s *VideoService) list(ctx context.Context, f model.VideoFilter) (*model.VideoListResponse, error) {
	videos, total, err := s.videos.List(ctx, f)
	if err != nil {
		return nil, apperr.Dependency("list videos", err)
	}
	return &model.VideoListResponse{Videos: videos, Pagination: model.NewPagination(f.Page, f.Limit, total)}, nil
}

func (s *VideoService) find(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	v, err := s.videos.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errVideoNotFound
	}
	if err != nil {
		return nil, apperr.Dependency("load video", err)
	}
	return v, nil
}
