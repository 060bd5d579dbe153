package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WarriorSushi/supaviewer/internal/db"
	"github.com/WarriorSushi/supaviewer/internal/model"
)

type RatingRepo struct {
	pool *pgxpool.Pool
}

func NewRatingRepo(pool *pgxpool.Pool) *RatingRepo {
	return &RatingRepo{pool: pool}
}

const ratingSelect = `SELECT id, video_id, user_id, rating, created_at, updated_at FROM ratings`

func scanRating(row pgx.Row) (*model.Rating, error) {
	var rt model.Rating
	err := row.Scan(&rt.ID, &rt.VideoID, &rt.UserID, &rt.Rating, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rt, nil
}

func (r *RatingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Rating, error) {
	return scanRating(db.Conn(ctx, r.pool).QueryRow(ctx, ratingSelect+` WHERE id = $1`, id))
}

// FindByVideoAndUser returns the user's rating of the video, or ErrNotFound.
func (r *RatingRepo) FindByVideoAndUser(ctx context.Context, videoID uuid.UUID, userID string) (*model.Rating, error) {
	return scanRating(db.Conn(ctx, r.pool).QueryRow(ctx,
		ratingSelect+` WHERE video_id = $1 AND user_id = $2`, videoID, userID))
}

// Insert stores rt. A second rating for the same (video, user) yields ErrDuplicate.
func (r *RatingRepo) Insert(ctx context.Context, rt *model.Rating) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO ratings (video_id, user_id, rating)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		rt.VideoID, rt.UserID, rt.Rating,
	).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
	return mapErr(err)
}

// UpdateValue changes the rating value and returns the updated row.
func (r *RatingRepo) UpdateValue(ctx context.Context, id uuid.UUID, value float64) (*model.Rating, error) {
	return scanRating(db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE ratings SET rating = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, video_id, user_id, rating, created_at, updated_at`, id, value))
}

func (r *RatingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByVideo removes every rating of a video.
func (r *RatingRepo) DeleteByVideo(ctx context.Context, videoID uuid.UUID) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM ratings WHERE video_id = $1`, videoID)
	return err
}

// ValuesForVideo returns every rating value currently recorded for the video.
func (r *RatingRepo) ValuesForVideo(ctx context.Context, videoID uuid.UUID) ([]float64, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT rating FROM ratings WHERE video_id = $1`, videoID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[float64])
}
