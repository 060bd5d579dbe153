package model

import (
	"time"

	"github.com/google/uuid"
)

// VideoStatus is the moderation state of a submitted video.
type VideoStatus string

const (
	StatusPending  VideoStatus = "pending"
	StatusApproved VideoStatus = "approved"
	StatusRejected VideoStatus = "rejected"
)

// Valid reports whether s is one of the three moderation states.
func (s VideoStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Video is a submitted AI-generated video.
type Video struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Description     *string         `json:"description"`
	YouTubeID       string          `json:"youtube_id"`
	YouTubeURL      string          `json:"youtube_url"`
	ThumbnailURL    string          `json:"thumbnail_url"`
	CreatorID       uuid.UUID       `json:"creator_id"`
	AITool          string          `json:"ai_tool"`
	Genre           *string         `json:"genre"`
	DurationSeconds int             `json:"duration_seconds"`
	Status          VideoStatus     `json:"status"`
	Featured        bool            `json:"featured"`
	AvgRating       *float64        `json:"avg_rating"`
	TotalRatings    int             `json:"total_ratings"`
	ViewCount       int64           `json:"view_count"`
	SubmittedBy     *string         `json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Creator         *CreatorSummary `json:"creator,omitempty"`
}

// Aggregate is the derived rating summary stored on a video.
// AvgRating is nil iff TotalRatings is zero.
type Aggregate struct {
	AvgRating    *float64 `json:"avg_rating"`
	TotalRatings int      `json:"total_ratings"`
}

// ApprovalUpdate is the set of columns written when a submission is approved.
type ApprovalUpdate struct {
	Title       string
	Description string
	AITool      string
	Genre       string
	Featured    bool
	CreatorID   uuid.UUID
}

// VideoPatch holds optional admin edits; nil fields are left unchanged.
type VideoPatch struct {
	Title           *string      `json:"title,omitempty"`
	Description     *string      `json:"description,omitempty"`
	AITool          *string      `json:"ai_tool,omitempty"`
	Genre           *string      `json:"genre,omitempty"`
	Status          *VideoStatus `json:"status,omitempty"`
	Featured        *bool        `json:"featured,omitempty"`
	DurationSeconds *int         `json:"duration_seconds,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p VideoPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.AITool == nil && p.Genre == nil &&
		p.Status == nil && p.Featured == nil && p.DurationSeconds == nil
}

// Sort keys accepted by the public browse endpoint.
const (
	SortNewest       = "newest"
	SortHighestRated = "highest_rated"
	SortMostViewed   = "most_viewed"
	SortMostRated    = "most_rated"
)

// VideoFilter describes a list query over videos. Zero values mean "no filter".
type VideoFilter struct {
	Status    VideoStatus
	AITool    string
	Genre     string
	CreatorID *uuid.UUID
	Featured  *bool
	Search    string
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    string // created_at, title, avg_rating, total_ratings, view_count
	Ascending bool
	Page      int
	Limit     int
}

// Offset returns the row offset for the filter's page.
func (f VideoFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// VideoMetadata is what the external video provider reports about a video.
type VideoMetadata struct {
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
	AuthorName   string `json:"author_name"`
}

// SubmissionRequest is the public "submit a video" body.
type SubmissionRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	YouTubeURL     string `json:"youtube_url"`
	AITool         string `json:"ai_tool"`
	Genre          string `json:"genre"`
	CreatorName    string `json:"creator_name"`
	CreatorEmail   string `json:"creator_email"`
	CreatorWebsite string `json:"creator_website"`
	CreatorTwitter string `json:"creator_twitter"`
}

// SubmissionResponse is returned after a successful public submission.
type SubmissionResponse struct {
	Success bool      `json:"success"`
	VideoID uuid.UUID `json:"video_id"`
	Message string    `json:"message"`
}

// ApproveRequest carries the moderator's authoritative edits and the owning creator.
// Exactly one of CreatorID or NewCreator is expected; CreatorID wins when both are set.
type ApproveRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	AITool      string           `json:"ai_tool"`
	Genre       string           `json:"genre"`
	Featured    bool             `json:"featured"`
	CreatorID   *uuid.UUID       `json:"creator_id,omitempty"`
	NewCreator  *NewCreatorInput `json:"new_creator,omitempty"`
}

// RejectRequest is the body of a rejection.
type RejectRequest struct {
	Notes           *string `json:"notes,omitempty"`
	NotifySubmitter bool    `json:"notify_submitter"`
}

// StatusRequest sets a submission's status directly.
type StatusRequest struct {
	Status VideoStatus `json:"status"`
}

// ModerationResponse wraps the video returned from a moderation action.
type ModerationResponse struct {
	Success bool   `json:"success"`
	Video   *Video `json:"video"`
	Message string `json:"message"`
}

// VideoListResponse is a paginated list of videos.
type VideoListResponse struct {
	Videos     []Video    `json:"videos"`
	Pagination Pagination `json:"pagination"`
}

// VideoDetailResponse is the public video page payload.
type VideoDetailResponse struct {
	Video   *Video  `json:"video"`
	Related []Video `json:"related"`
}

// ModerationNote records the moderator's notes on a moderation action.
type ModerationNote struct {
	ID        uuid.UUID   `json:"id"`
	VideoID   uuid.UUID   `json:"video_id"`
	Action    VideoStatus `json:"action"`
	Notes     string      `json:"notes"`
	Moderator string      `json:"moderator"`
	CreatedAt time.Time   `json:"created_at"`
}
