package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WarriorSushi/supaviewer/internal/db"
	"github.com/WarriorSushi/supaviewer/internal/model"
)

type VideoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{pool: pool}
}

const videoSelect = `
	SELECT v.id, v.title, v.description, v.youtube_id, v.youtube_url, v.thumbnail_url,
	       v.creator_id, v.ai_tool, v.genre, v.duration_seconds, v.status, v.featured,
	       v.avg_rating, v.total_ratings, v.view_count, v.submitted_by_user_id,
	       v.created_at, v.updated_at,
	       c.id, c.name, c.slug, c.email, c.avatar_url
	FROM videos v
	JOIN creators c ON c.id = v.creator_id`

// sortColumns whitelists the ORDER BY expressions a filter may request.
var sortColumns = map[string]string{
	"created_at":    "v.created_at",
	"title":         "v.title",
	"avg_rating":    "v.avg_rating",
	"total_ratings": "v.total_ratings",
	"view_count":    "v.view_count",
}

func scanVideo(row pgx.Row) (*model.Video, error) {
	var v model.Video
	var cs model.CreatorSummary
	err := row.Scan(
		&v.ID, &v.Title, &v.Description, &v.YouTubeID, &v.YouTubeURL, &v.ThumbnailURL,
		&v.CreatorID, &v.AITool, &v.Genre, &v.DurationSeconds, &v.Status, &v.Featured,
		&v.AvgRating, &v.TotalRatings, &v.ViewCount, &v.SubmittedBy,
		&v.CreatedAt, &v.UpdatedAt,
		&cs.ID, &cs.Name, &cs.Slug, &cs.Email, &cs.AvatarURL,
	)
	if err != nil {
		return nil, err
	}
	v.Creator = &cs
	return &v, nil
}

func collectVideos(rows pgx.Rows) ([]model.Video, error) {
	defer rows.Close()
	videos := []model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, *v)
	}
	return videos, rows.Err()
}

// FindByID returns a video of any status, with its creator summary.
func (r *VideoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	v, err := scanVideo(db.Conn(ctx, r.pool).QueryRow(ctx, videoSelect+` WHERE v.id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return v, nil
}

// Exists reports whether a video row with id exists.
func (r *VideoRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM videos WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// List returns one page of videos matching f and the total match count.
func (r *VideoRepo) List(ctx context.Context, f model.VideoFilter) ([]model.Video, int, error) {
	var q query
	if f.Status != "" {
		q.where("v.status = " + q.arg(string(f.Status)))
	}
	if f.AITool != "" {
		q.where("v.ai_tool = " + q.arg(f.AITool))
	}
	if f.Genre != "" {
		q.where("v.genre = " + q.arg(f.Genre))
	}
	if f.CreatorID != nil {
		q.where("v.creator_id = " + q.arg(*f.CreatorID))
	}
	if f.Featured != nil {
		q.where("v.featured = " + q.arg(*f.Featured))
	}
	if f.Search != "" {
		p := q.arg(likePattern(f.Search))
		q.where(fmt.Sprintf("(v.title ILIKE %s OR c.name ILIKE %s)", p, p))
	}
	if f.DateFrom != nil {
		q.where("v.created_at >= " + q.arg(*f.DateFrom))
	}
	if f.DateTo != nil {
		q.where("v.created_at <= " + q.arg(*f.DateTo))
	}

	conn := db.Conn(ctx, r.pool)

	var total int
	countSQL := `SELECT COUNT(*) FROM videos v JOIN creators c ON c.id = v.creator_id` + q.whereSQL()
	if err := conn.QueryRow(ctx, countSQL, q.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns["created_at"]
	}
	dir := "DESC"
	if f.Ascending {
		dir = "ASC"
	}
	order := fmt.Sprintf(" ORDER BY %s %s NULLS LAST, v.created_at DESC", col, dir)
	page := fmt.Sprintf(" LIMIT %s OFFSET %s", q.arg(f.Limit), q.arg(f.Offset()))

	rows, err := conn.Query(ctx, videoSelect+q.whereSQL()+order+page, q.args...)
	if err != nil {
		return nil, 0, err
	}
	videos, err := collectVideos(rows)
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// Related returns approved videos sharing v's creator or AI tool, best rated first.
func (r *VideoRepo) Related(ctx context.Context, v *model.Video, limit int) ([]model.Video, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, videoSelect+`
		WHERE v.status = 'approved' AND v.id <> $1
		  AND (v.creator_id = $2 OR v.ai_tool = $3)
		ORDER BY v.avg_rating DESC NULLS LAST, v.created_at DESC
		LIMIT $4`,
		v.ID, v.CreatorID, v.AITool, limit)
	if err != nil {
		return nil, err
	}
	return collectVideos(rows)
}

// ListApprovedByCreator returns a creator's approved videos, newest first.
func (r *VideoRepo) ListApprovedByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Video, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, videoSelect+`
		WHERE v.creator_id = $1 AND v.status = 'approved'
		ORDER BY v.created_at DESC`, creatorID)
	if err != nil {
		return nil, err
	}
	return collectVideos(rows)
}

// CountByCreator returns how many videos of any status reference the creator.
func (r *VideoRepo) CountByCreator(ctx context.Context, creatorID uuid.UUID) (int, error) {
	var n int
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE creator_id = $1`, creatorID).Scan(&n)
	return n, err
}

// Insert stores a new video and fills in its generated id and timestamps.
func (r *VideoRepo) Insert(ctx context.Context, v *model.Video) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO videos (title, description, youtube_id, youtube_url, thumbnail_url,
		                    creator_id, ai_tool, genre, duration_seconds, status, featured,
		                    submitted_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		v.Title, v.Description, v.YouTubeID, v.YouTubeURL, v.ThumbnailURL,
		v.CreatorID, v.AITool, v.Genre, v.DurationSeconds, string(v.Status), v.Featured,
		v.SubmittedBy,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	return mapErr(err)
}

// ApplyApproval writes the moderator's fields, links the creator and marks the video approved.
func (r *VideoRepo) ApplyApproval(ctx context.Context, id uuid.UUID, u model.ApprovalUpdate) (*model.Video, error) {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE videos
		SET title = $2, description = $3, ai_tool = $4, genre = $5, featured = $6,
		    creator_id = $7, status = 'approved', updated_at = NOW()
		WHERE id = $1`,
		id, u.Title, nullIfEmpty(u.Description), u.AITool, nullIfEmpty(u.Genre), u.Featured, u.CreatorID)
	if err != nil {
		return nil, mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// SetStatus changes only the moderation status.
func (r *VideoRepo) SetStatus(ctx context.Context, id uuid.UUID, status model.VideoStatus) (*model.Video, error) {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE videos SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return nil, mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Update applies the non-nil fields of p.
func (r *VideoRepo) Update(ctx context.Context, id uuid.UUID, p model.VideoPatch) (*model.Video, error) {
	var q query
	if p.Title != nil {
		q.set("title", *p.Title)
	}
	if p.Description != nil {
		q.set("description", nullIfEmpty(*p.Description))
	}
	if p.AITool != nil {
		q.set("ai_tool", *p.AITool)
	}
	if p.Genre != nil {
		q.set("genre", nullIfEmpty(*p.Genre))
	}
	if p.Status != nil {
		q.set("status", string(*p.Status))
	}
	if p.Featured != nil {
		q.set("featured", *p.Featured)
	}
	if p.DurationSeconds != nil {
		q.set("duration_seconds", *p.DurationSeconds)
	}
	if len(q.sets) == 0 {
		return r.FindByID(ctx, id)
	}
	q.sets = append(q.sets, "updated_at = NOW()")
	q.where("id = " + q.arg(id))

	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE videos SET `+q.setSQL()+q.whereSQL(), q.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// UpdateAggregate overwrites the stored rating summary in a single statement.
func (r *VideoRepo) UpdateAggregate(ctx context.Context, id uuid.UUID, agg model.Aggregate) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE videos SET avg_rating = $2, total_ratings = $3, updated_at = NOW()
		WHERE id = $1`,
		id, agg.AvgRating, agg.TotalRatings)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter by one.
func (r *VideoRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE videos SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

// Delete removes a video. Ratings and moderation notes cascade.
func (r *VideoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats returns catalogue-wide counts for the admin dashboard.
func (r *VideoRepo) Stats(ctx context.Context) (*model.StatsResponse, error) {
	var s model.StatsResponse
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM videos),
			(SELECT COUNT(*) FROM videos WHERE status = 'pending'),
			(SELECT COUNT(*) FROM videos WHERE status = 'approved'),
			(SELECT COUNT(*) FROM videos WHERE status = 'rejected'),
			(SELECT COUNT(*) FROM videos WHERE featured),
			(SELECT COUNT(*) FROM creators),
			(SELECT COUNT(*) FROM ratings)`,
	).Scan(&s.TotalVideos, &s.PendingVideos, &s.ApprovedVideos, &s.RejectedVideos,
		&s.FeaturedVideos, &s.TotalCreators, &s.TotalRatings)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
