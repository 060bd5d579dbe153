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

type CreatorRepo struct {
	pool *pgxpool.Pool
}

func NewCreatorRepo(pool *pgxpool.Pool) *CreatorRepo {
	return &CreatorRepo{pool: pool}
}

const creatorColumns = `
	c.id, c.name, c.slug, c.email, c.bio, c.website, c.twitter_handle, c.avatar_url,
	c.user_id, c.created_at, c.updated_at`

func scanCreator(row pgx.Row, extra ...any) (*model.Creator, error) {
	var c model.Creator
	dest := []any{
		&c.ID, &c.Name, &c.Slug, &c.Email, &c.Bio, &c.Website, &c.TwitterHandle, &c.AvatarURL,
		&c.UserID, &c.CreatedAt, &c.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByID returns a single creator by id.
func (r *CreatorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Creator, error) {
	c, err := scanCreator(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+creatorColumns+` FROM creators c WHERE c.id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

// FindBySlug returns a single creator by its unique slug.
func (r *CreatorRepo) FindBySlug(ctx context.Context, slug string) (*model.Creator, error) {
	c, err := scanCreator(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+creatorColumns+` FROM creators c WHERE c.slug = $1`, slug))
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

// SlugExists reports whether any creator already uses slug.
func (r *CreatorRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM creators WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// Insert stores c and fills in its generated id and timestamps.
func (r *CreatorRepo) Insert(ctx context.Context, c *model.Creator) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO creators (name, slug, email, bio, website, twitter_handle, avatar_url, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		c.Name, c.Slug, c.Email, c.Bio, c.Website, c.TwitterHandle, c.AvatarURL, c.UserID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return mapErr(err)
}

// Update applies the non-nil fields of p. Empty strings clear nullable columns.
func (r *CreatorRepo) Update(ctx context.Context, id uuid.UUID, p model.CreatorPatch) (*model.Creator, error) {
	var q query
	if p.Name != nil {
		q.set("name", *p.Name)
	}
	if p.Slug != nil {
		q.set("slug", *p.Slug)
	}
	if p.Email != nil {
		q.set("email", *p.Email)
	}
	if p.Bio != nil {
		q.set("bio", nullIfEmpty(*p.Bio))
	}
	if p.Website != nil {
		q.set("website", nullIfEmpty(*p.Website))
	}
	if p.TwitterHandle != nil {
		q.set("twitter_handle", nullIfEmpty(*p.TwitterHandle))
	}
	if p.AvatarURL != nil {
		q.set("avatar_url", nullIfEmpty(*p.AvatarURL))
	}
	if len(q.sets) == 0 {
		return r.FindByID(ctx, id)
	}
	q.sets = append(q.sets, "updated_at = NOW()")
	q.where("id = " + q.arg(id))

	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE creators SET `+q.setSQL()+q.whereSQL(), q.args...)
	if err != nil {
		return nil, mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes a creator. Returns ErrReferenced while any video still points at it.
func (r *CreatorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM creators WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every creator ordered by name.
func (r *CreatorRepo) ListAll(ctx context.Context) ([]model.Creator, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+creatorColumns+` FROM creators c ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	creators := []model.Creator{}
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, err
		}
		creators = append(creators, *c)
	}
	return creators, rows.Err()
}

// approvedStats aggregates approved videos per creator: count and mean of the
// per-video averages.
const approvedStats = `
	LEFT JOIN LATERAL (
		SELECT COUNT(*)::int AS video_count, AVG(v.avg_rating) AS avg_rating
		FROM videos v
		WHERE v.creator_id = c.id AND v.status = 'approved'
	) s ON TRUE`

// ListWithStats returns one page of creators ordered by name, with approved-video stats.
func (r *CreatorRepo) ListWithStats(ctx context.Context, f model.CreatorFilter) ([]model.CreatorWithStats, int, error) {
	var q query
	if f.Search != "" {
		p := q.arg(likePattern(f.Search))
		q.where(fmt.Sprintf("(c.name ILIKE %s OR c.email ILIKE %s)", p, p))
	}

	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM creators c`+q.whereSQL(), q.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := fmt.Sprintf(" ORDER BY c.name LIMIT %s OFFSET %s", q.arg(f.Limit), q.arg(f.Offset()))
	rows, err := conn.Query(ctx,
		`SELECT `+creatorColumns+`, s.video_count, s.avg_rating FROM creators c`+approvedStats+q.whereSQL()+page,
		q.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.CreatorWithStats{}
	for rows.Next() {
		var cs model.CreatorWithStats
		c, err := scanCreator(rows, &cs.VideoCount, &cs.AvgRating)
		if err != nil {
			return nil, 0, err
		}
		cs.Creator = *c
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ApprovedStats returns the approved video count and mean of video averages for one creator.
func (r *CreatorRepo) ApprovedStats(ctx context.Context, id uuid.UUID) (int, *float64, error) {
	var count int
	var avg *float64
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		SELECT COUNT(*)::int, AVG(avg_rating)
		FROM videos
		WHERE creator_id = $1 AND status = 'approved'`, id).Scan(&count, &avg)
	return count, avg, err
}

// Search matches creators by name or email, for the admin creator picker.
func (r *CreatorRepo) Search(ctx context.Context, term string, limit int) ([]model.Creator, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT `+creatorColumns+`
		FROM creators c
		WHERE c.name ILIKE $1 OR c.email ILIKE $1
		ORDER BY c.name
		LIMIT $2`, likePattern(term), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	creators := []model.Creator{}
	for rows.Next() {
		c, err := scanCreator(rows)
		if err != nil {
			return nil, err
		}
		creators = append(creators, *c)
	}
	return creators, rows.Err()
}
