package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WarriorSushi/supaviewer/internal/db"
	"github.com/WarriorSushi/supaviewer/internal/model"
)

type ModerationNoteRepo struct {
	pool *pgxpool.Pool
}

func NewModerationNoteRepo(pool *pgxpool.Pool) *ModerationNoteRepo {
	return &ModerationNoteRepo{pool: pool}
}

func (r *ModerationNoteRepo) Insert(ctx context.Context, n *model.ModerationNote) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO moderation_notes (video_id, action, notes, moderator)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		n.VideoID, string(n.Action), n.Notes, n.Moderator,
	).Scan(&n.ID, &n.CreatedAt)
	return mapErr(err)
}

// ListByVideo returns a video's moderation history, oldest first.
func (r *ModerationNoteRepo) ListByVideo(ctx context.Context, videoID uuid.UUID) ([]model.ModerationNote, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT id, video_id, action, notes, moderator, created_at
		FROM moderation_notes
		WHERE video_id = $1
		ORDER BY created_at`, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []model.ModerationNote{}
	for rows.Next() {
		var n model.ModerationNote
		if err := rows.Scan(&n.ID, &n.VideoID, &n.Action, &n.Notes, &n.Moderator, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
