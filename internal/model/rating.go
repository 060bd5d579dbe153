package model

import (
	"time"

	"github.com/google/uuid"
)

// Rating is one user's evaluation of one video.
type Rating struct {
	ID        uuid.UUID `json:"id"`
	VideoID   uuid.UUID `json:"video_id"`
	UserID    string    `json:"user_id"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingRequest is the API request body for rating a video.
type RatingRequest struct {
	VideoID uuid.UUID `json:"video_id"`
	Rating  float64   `json:"rating"`
}

// RatingUpdateRequest is the API request body for changing a rating.
type RatingUpdateRequest struct {
	Rating float64 `json:"rating"`
}

// RatingResponse is the API response after a rating mutation.
type RatingResponse struct {
	Rating    *Rating    `json:"rating,omitempty"`
	Aggregate *Aggregate `json:"aggregate,omitempty"`
}
