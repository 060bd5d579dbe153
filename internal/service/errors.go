package service

import "github.com/WarriorSushi/supaviewer/internal/apperr"

var (
	errVideoNotFound   = apperr.NotFound("VIDEO_NOT_FOUND", "Video not found")
	errRatingNotFound  = apperr.NotFound("RATING_NOT_FOUND", "Rating not found")
	errCreatorNotFound = apperr.NotFound("CREATOR_NOT_FOUND", "Creator not found")
	errNoIdentity      = apperr.Unauthorized("Authentication required")
)
