package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/WarriorSushi/supaviewer/internal/model"
)

// TxRunner runs fn inside one datastore transaction carried by ctx.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type VideoStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, f model.VideoFilter) ([]model.Video, int, error)
	Related(ctx context.Context, v *model.Video, limit int) ([]model.Video, error)
	ListApprovedByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Video, error)
	CountByCreator(ctx context.Context, creatorID uuid.UUID) (int, error)
	Insert(ctx context.Context, v *model.Video) error
	ApplyApproval(ctx context.Context, id uuid.UUID, u model.ApprovalUpdate) (*model.Video, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.VideoStatus) (*model.Video, error)
	Update(ctx context.Context, id uuid.UUID, p model.VideoPatch) (*model.Video, error)
	UpdateAggregate(ctx context.Context, id uuid.UUID, agg model.Aggregate) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*model.StatsResponse, error)
}

type CreatorStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Creator, error)
	FindBySlug(ctx context.Context, slug string) (*model.Creator, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Insert(ctx context.Context, c *model.Creator) error
	Update(ctx context.Context, id uuid.UUID, p model.CreatorPatch) (*model.Creator, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]model.Creator, error)
	ListWithStats(ctx context.Context, f model.CreatorFilter) ([]model.CreatorWithStats, int, error)
	ApprovedStats(ctx context.Context, id uuid.UUID) (int, *float64, error)
	Search(ctx context.Context, term string, limit int) ([]model.Creator, error)
}

type RatingStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rating, error)
	FindByVideoAndUser(ctx context.Context, videoID uuid.UUID, userID string) (*model.Rating, error)
	Insert(ctx context.Context, r *model.Rating) error
	UpdateValue(ctx context.Context, id uuid.UUID, value float64) (*model.Rating, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByVideo(ctx context.Context, videoID uuid.UUID) error
	ValuesForVideo(ctx context.Context, videoID uuid.UUID) ([]float64, error)
}

type NoteStore interface {
	Insert(ctx context.Context, n *model.ModerationNote) error
	ListByVideo(ctx context.Context, videoID uuid.UUID) ([]model.ModerationNote, error)
}

// MetadataFetcher looks up public metadata for a video id on the hosting platform.
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoID string) (*model.VideoMetadata, error)
}
