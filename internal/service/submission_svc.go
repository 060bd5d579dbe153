package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/WarriorSushi/supaviewer/internal/apperr"
	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/youtube"
)

var (
	errInvalidYouTubeURL = apperr.Validation("INVALID_YOUTUBE_URL", "Invalid YouTube URL")
	errYouTubeLookup     = apperr.Validation("YOUTUBE_LOOKUP_FAILED", "Could not fetch YouTube video metadata. Please check the URL.")
)

// SubmissionService accepts public video submissions into the moderation queue.
type SubmissionService struct {
	tx       TxRunner
	videos   VideoStore
	resolver *CreatorResolver
	meta     MetadataFetcher
	log      zerolog.Logger
}

func NewSubmissionService(tx TxRunner, videos VideoStore, resolver *CreatorResolver, meta MetadataFetcher, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{tx: tx, videos: videos, resolver: resolver, meta: meta, log: log}
}

func validateSubmission(req *model.SubmissionRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.YouTubeURL = strings.TrimSpace(req.YouTubeURL)
	req.AITool = strings.TrimSpace(req.AITool)
	req.Genre = strings.TrimSpace(req.Genre)
	req.CreatorName = strings.TrimSpace(req.CreatorName)
	req.CreatorEmail = strings.TrimSpace(req.CreatorEmail)
	req.CreatorWebsite = strings.TrimSpace(req.CreatorWebsite)
	req.CreatorTwitter = strings.TrimSpace(req.CreatorTwitter)

	return firstErr(
		checkLen("title", req.Title, 3, 200),
		checkOptionalLen("description", req.Description, 10, 2000),
		checkLen("youtube_url", req.YouTubeURL, 1, 0),
		checkLen("ai_tool", req.AITool, 2, 100),
		checkOptionalLen("genre", req.Genre, 1, 50),
		checkLen("creator_name", req.CreatorName, 2, 100),
		checkEmail("creator_email", req.CreatorEmail),
		checkURL("creator_website", req.CreatorWebsite),
		checkOptionalLen("creator_twitter", req.CreatorTwitter, 1, 50),
	)
}

// Submit validates the request, resolves the video on YouTube, reuses or
// creates the creator and stores the video as pending. userID may be empty for
// anonymous submitters.
func (s *SubmissionService) Submit(ctx context.Context, userID string, req model.SubmissionRequest) (*model.SubmissionResponse, error) {
	if err := validateSubmission(&req); err != nil {
		return nil, err
	}
	ytID := youtube.ExtractID(req.YouTubeURL)
	if ytID == "" {
		return nil, errInvalidYouTubeURL
	}

	meta, err := s.meta.Fetch(ctx, ytID)
	if err != nil {
		s.log.Warn().Err(err).Str("youtube_id", ytID).Msg("youtube metadata lookup failed")
		return nil, errYouTubeLookup
	}

	var submitter *string
	if userID != "" {
		submitter = &userID
	}

	v := &model.Video{
		Title:        req.Title,
		Description:  optional(req.Description),
		YouTubeID:    ytID,
		YouTubeURL:   req.YouTubeURL,
		ThumbnailURL: meta.ThumbnailURL,
		AITool:       req.AITool,
		Genre:        optional(req.Genre),
		Status:       model.StatusPending,
		SubmittedBy:  submitter,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.resolver.FindOrCreate(ctx, req.CreatorName, req.CreatorEmail, req.CreatorWebsite, req.CreatorTwitter, submitter)
		if err != nil {
			return err
		}
		v.CreatorID = c.ID
		if err := s.videos.Insert(ctx, v); err != nil {
			return apperr.Dependency("insert video", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("video_id", v.ID.String()).Str("youtube_id", ytID).Msg("video submitted")
	return &model.SubmissionResponse{
		Success: true,
		VideoID: v.ID,
		Message: "Video submitted successfully! It will be reviewed before being published.",
	}, nil
}
