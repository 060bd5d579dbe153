package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/WarriorSushi/supaviewer/internal/apperr"
	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/repository"
)

const (
	MinRating  = 0.5
	MaxRating  = 5.0
	RatingStep = 0.5
)

var (
	errInvalidRating   = apperr.Validation("INVALID_RATING", "Rating must be between 0.5 and 5.0 in 0.5 increments")
	errDuplicateRating = apperr.Conflict("DUPLICATE_RATING", "You have already rated this video. Use update instead.")
	errNotRatingOwner  = apperr.Forbidden("You can only modify your own ratings")
)

// ValidRating reports whether v is one of 0.5, 1.0, ..., 5.0.
func ValidRating(v float64) bool {
	if v < MinRating || v > MaxRating {
		return false
	}
	steps := v / RatingStep
	return steps == math.Trunc(steps)
}

// RatingService creates, changes and removes ratings. Every mutation and the
// aggregate recalculation that follows it commit together.
type RatingService struct {
	tx      TxRunner
	videos  VideoStore
	ratings RatingStore
	agg     *AggregateService
	log     zerolog.Logger
}

func NewRatingService(tx TxRunner, videos VideoStore, ratings RatingStore, agg *AggregateService, log zerolog.Logger) *RatingService {
	return &RatingService{tx: tx, videos: videos, ratings: ratings, agg: agg, log: log}
}

// Get returns the caller's rating of a video.
func (s *RatingService) Get(ctx context.Context, userID string, videoID uuid.UUID) (*model.Rating, error) {
	if userID == "" {
		return nil, errNoIdentity
	}
	r, err := s.ratings.FindByVideoAndUser(ctx, videoID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errRatingNotFound
	}
	if err != nil {
		return nil, apperr.Dependency("load rating", err)
	}
	return r, nil
}

// Create records a first rating by userID for the video.
func (s *RatingService) Create(ctx context.Context, userID string, videoID uuid.UUID, value float64) (*model.RatingResponse, error) {
	if userID == "" {
		return nil, errNoIdentity
	}
	if !ValidRating(value) {
		return nil, errInvalidRating
	}

	resp := &model.RatingResponse{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.videos.Exists(ctx, videoID)
		if err != nil {
			return apperr.Dependency("check video", err)
		}
		if !exists {
			return errVideoNotFound
		}

		_, err = s.ratings.FindByVideoAndUser(ctx, videoID, userID)
		switch {
		case err == nil:
			return errDuplicateRating
		case !errors.Is(err, repository.ErrNotFound):
			return apperr.Dependency("check existing rating", err)
		}

		r := &model.Rating{VideoID: videoID, UserID: userID, Rating: value}
		if err := s.ratings.Insert(ctx, r); err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicate):
				return errDuplicateRating
			case errors.Is(err, repository.ErrReferenced):
				return errVideoNotFound
			}
			return apperr.Dependency("insert rating", err)
		}

		agg, err := s.agg.Recalculate(ctx, videoID)
		if err != nil {
			return err
		}
		resp.Rating = r
		resp.Aggregate = &agg
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("video_id", videoID.String()).Float64("rating", value).Msg("rating created")
	return resp, nil
}

// Update changes the value of a rating owned by userID.
func (s *RatingService) Update(ctx context.Context, userID string, ratingID uuid.UUID, value float64) (*model.RatingResponse, error) {
	if userID == "" {
		return nil, errNoIdentity
	}
	if !ValidRating(value) {
		return nil, errInvalidRating
	}

	resp := &model.RatingResponse{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.ownedRating(ctx, userID, ratingID)
		if err != nil {
			return err
		}

		updated, err := s.ratings.UpdateValue(ctx, ratingID, value)
		if errors.Is(err, repository.ErrNotFound) {
			return errRatingNotFound
		}
		if err != nil {
			return apperr.Dependency("update rating", err)
		}

		agg, err := s.agg.Recalculate(ctx, existing.VideoID)
		if err != nil {
			return err
		}
		resp.Rating = updated
		resp.Aggregate = &agg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete removes a rating owned by userID.
func (s *RatingService) Delete(ctx context.Context, userID string, ratingID uuid.UUID) (*model.Aggregate, error) {
	if userID == "" {
		return nil, errNoIdentity
	}

	var agg model.Aggregate
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.ownedRating(ctx, userID, ratingID)
		if err != nil {
			return err
		}

		if err := s.ratings.Delete(ctx, ratingID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errRatingNotFound
			}
			return apperr.Dependency("delete rating", err)
		}

		agg, err = s.agg.Recalculate(ctx, existing.VideoID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (s *RatingService) ownedRating(ctx context.Context, userID string, ratingID uuid.UUID) (*model.Rating, error) {
	r, err := s.ratings.FindByID(ctx, ratingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errRatingNotFound
	}
	if err != nil {
		return nil, apperr.Dependency("load rating", err)
	}
	if r.UserID != userID {
		return nil, errNotRatingOwner
	}
	return r, nil
}
