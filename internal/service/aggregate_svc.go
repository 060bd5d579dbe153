package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/WarriorSushi/supaviewer/internal/apperr"
	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/repository"
)

// AggregateService keeps a video's avg_rating and total_ratings in line with
// its rating rows.
type AggregateService struct {
	videos  VideoStore
	ratings RatingStore
	log     zerolog.Logger
}

func NewAggregateService(videos VideoStore, ratings RatingStore, log zerolog.Logger) *AggregateService {
	return &AggregateService{videos: videos, ratings: ratings, log: log}
}

// ComputeAggregate returns the count and unrounded arithmetic mean of values.
// The mean is nil when values is empty.
func ComputeAggregate(values []float64) model.Aggregate {
	if len(values) == 0 {
		return model.Aggregate{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return model.Aggregate{AvgRating: &avg, TotalRatings: len(values)}
}

// Recalculate reloads every rating of the video and writes the derived
// aggregate back in a single update. Store failures surface as dependency errors;
// the stored aggregate is never touched when the read fails.
func (s *AggregateService) Recalculate(ctx context.Context, videoID uuid.UUID) (model.Aggregate, error) {
	values, err := s.ratings.ValuesForVideo(ctx, videoID)
	if err != nil {
		return model.Aggregate{}, apperr.Dependency("load ratings", err)
	}

	agg := ComputeAggregate(values)
	if err := s.videos.UpdateAggregate(ctx, videoID, agg); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Aggregate{}, errVideoNotFound
		}
		return model.Aggregate{}, apperr.Dependency("store aggregate", err)
	}

	s.log.Debug().
		Str("video_id", videoID.String()).
		Int("total_ratings", agg.TotalRatings).
		Msg("aggregate recalculated")
	return agg, nil
}
