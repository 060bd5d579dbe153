package model

import (
	"time"

	"github.com/google/uuid"
)

// Creator is a content-owner profile.
type Creator struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Email         string    `json:"email"`
	Bio           *string   `json:"bio"`
	Website       *string   `json:"website"`
	TwitterHandle *string   `json:"twitter_handle"`
	AvatarURL     *string   `json:"avatar_url"`
	UserID        *string   `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreatorSummary is the embedded creator shown alongside a video. Email is
// loaded for rejection notices and never serialized.
type CreatorSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Email     string    `json:"-"`
	AvatarURL *string   `json:"avatar_url"`
}

// PublicCreator is the creator shape served on public routes. Contact email and
// the linked account id stay admin-only.
type PublicCreator struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Bio           *string   `json:"bio"`
	Website       *string   `json:"website"`
	TwitterHandle *string   `json:"twitter_handle"`
	AvatarURL     *string   `json:"avatar_url"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c *Creator) Public() PublicCreator {
	return PublicCreator{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          c.Slug,
		Bio:           c.Bio,
		Website:       c.Website,
		TwitterHandle: c.TwitterHandle,
		AvatarURL:     c.AvatarURL,
		CreatedAt:     c.CreatedAt,
	}
}

// CreatorWithStats adds approved-video statistics to a creator.
type CreatorWithStats struct {
	Creator
	VideoCount int      `json:"video_count"`
	AvgRating  *float64 `json:"avg_rating"`
}

// CreatorFilter is a paginated search over creators.
type CreatorFilter struct {
	Search string
	Page   int
	Limit  int
}

// Offset returns the row offset for the filter's page.
func (f CreatorFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// NewCreatorInput is the inline creator payload used when approving a submission.
type NewCreatorInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Bio           string `json:"bio"`
	Website       string `json:"website"`
	TwitterHandle string `json:"twitter_handle"`
}

// CreatorRequest is the admin "create creator" body.
type CreatorRequest struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Email         string `json:"email"`
	Bio           string `json:"bio"`
	Website       string `json:"website"`
	TwitterHandle string `json:"twitter_handle"`
	AvatarURL     string `json:"avatar_url"`
}

// CreatorPatch holds optional admin edits. For the nullable profile fields an
// empty string clears the column.
type CreatorPatch struct {
	Name          *string `json:"name,omitempty"`
	Slug          *string `json:"slug,omitempty"`
	Email         *string `json:"email,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	Website       *string `json:"website,omitempty"`
	TwitterHandle *string `json:"twitter_handle,omitempty"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
}

// CreatorListResponse is a paginated list of creators with stats.
type CreatorListResponse struct {
	Creators   []CreatorWithStats `json:"creators"`
	Pagination Pagination         `json:"pagination"`
}

// CreatorProfileResponse is the public creator page payload.
type CreatorProfileResponse struct {
	Creator    PublicCreator `json:"creator"`
	Videos     []Video       `json:"videos"`
	VideoCount int           `json:"video_count"`
	AvgRating  *float64      `json:"avg_rating"`
}
