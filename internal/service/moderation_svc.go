package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/WarriorSushi/supaviewer/internal/apperr"
	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/repository"
)

var (
	errMissingCreator = apperr.Validation("MISSING_CREATOR", "Either creator_id or new_creator must be provided")
	errInvalidStatus  = apperr.Validation("INVALID_STATUS", "Status must be one of pending, approved, rejected")
)

const (
	defaultSubmissionLimit = 50
	maxListLimit           = 100
)

// ModerationService moves submissions between pending, approved and rejected.
type ModerationService struct {
	tx       TxRunner
	videos   VideoStore
	creators CreatorStore
	resolver *CreatorResolver
	notes    NoteStore
	notifier Notifier
	log      zerolog.Logger
}

func NewModerationService(tx TxRunner, videos VideoStore, creators CreatorStore, resolver *CreatorResolver,
	notes NoteStore, notifier Notifier, log zerolog.Logger) *ModerationService {
	return &ModerationService{
		tx:       tx,
		videos:   videos,
		creators: creators,
		resolver: resolver,
		notes:    notes,
		notifier: notifier,
		log:      log,
	}
}

// List returns submissions filtered by status and search. Pending submissions
// are served oldest first so the queue is worked in arrival order.
func (s *ModerationService) List(ctx context.Context, status model.VideoStatus, search string, page, limit int) (*model.VideoListResponse, error) {
	if status != "" && !status.Valid() {
		return nil, errInvalidStatus
	}
	page, limit = normalizePage(page, limit, defaultSubmissionLimit)
	f := model.VideoFilter{
		Status:    status,
		Search:    strings.TrimSpace(search),
		SortBy:    "created_at",
		Ascending: status == model.StatusPending,
		Page:      page,
		Limit:     limit,
	}
	videos, total, err := s.videos.List(ctx, f)
	if err != nil {
		return nil, apperr.Dependency("list submissions", err)
	}
	return &model.VideoListResponse{Videos: videos, Pagination: model.NewPagination(page, limit, total)}, nil
}

// Get returns a submission and its moderation notes.
func (s *ModerationService) Get(ctx context.Context, id uuid.UUID) (*model.Video, []model.ModerationNote, error) {
	v, err := s.loadVideo(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	notes, err := s.notes.ListByVideo(ctx, id)
	if err != nil {
		return nil, nil, apperr.Dependency("load moderation notes", err)
	}
	return v, notes, nil
}

// SetStatus overwrites the status directly, without touching content fields.
func (s *ModerationService) SetStatus(ctx context.Context, moderator string, id uuid.UUID, status model.VideoStatus) (*model.Video, error) {
	if !status.Valid() {
		return nil, errInvalidStatus
	}
	v, err := s.videos.SetStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errVideoNotFound
	}
	if err != nil {
		return nil, apperr.Dependency("update status", err)
	}
	s.log.Info().Str("video_id", id.String()).Str("status", string(status)).Str("moderator", moderator).Msg("submission status set")
	return v, nil
}

func validateApprove(req model.ApproveRequest) error {
	if err := firstErr(
		checkLen("title", strings.TrimSpace(req.Title), 3, 200),
		checkLen("description", strings.TrimSpace(req.Description), 10, 0),
		checkLen("ai_tool", strings.TrimSpace(req.AITool), 1, 100),
		checkLen("genre", strings.TrimSpace(req.Genre), 1, 50),
	); err != nil {
		return err
	}
	if req.CreatorID != nil {
		return nil
	}
	if req.NewCreator == nil {
		return errMissingCreator
	}
	nc := req.NewCreator
	return firstErr(
		checkLen("new_creator.name", strings.TrimSpace(nc.Name), 2, 100),
		checkEmail("new_creator.email", strings.TrimSpace(nc.Email)),
		checkURL("new_creator.website", strings.TrimSpace(nc.Website)),
		checkOptionalLen("new_creator.twitter_handle", strings.TrimSpace(nc.TwitterHandle), 1, 50),
	)
}

// Approve replaces the submission's content with the moderator's edits, links
// the owning creator (creating it when a new_creator payload is given) and marks
// it approved. Input is validated in full before anything is written; the
// creator insert and video update commit together.
func (s *ModerationService) Approve(ctx context.Context, moderator string, id uuid.UUID, req model.ApproveRequest) (*model.Video, error) {
	if err := validateApprove(req); err != nil {
		return nil, err
	}

	var approved *model.Video
	var createdCreator bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.loadVideo(ctx, id); err != nil {
			return err
		}

		var creatorID uuid.UUID
		if req.CreatorID != nil {
			c, err := s.creators.FindByID(ctx, *req.CreatorID)
			if errors.Is(err, repository.ErrNotFound) {
				return errCreatorNotFound
			}
			if err != nil {
				return apperr.Dependency("load creator", err)
			}
			creatorID = c.ID
		} else {
			c, err := s.resolver.Create(ctx, *req.NewCreator)
			if err != nil {
				return err
			}
			creatorID = c.ID
			createdCreator = true
		}

		v, err := s.videos.ApplyApproval(ctx, id, model.ApprovalUpdate{
			Title:       strings.TrimSpace(req.Title),
			Description: strings.TrimSpace(req.Description),
			AITool:      strings.TrimSpace(req.AITool),
			Genre:       strings.TrimSpace(req.Genre),
			Featured:    req.Featured,
			CreatorID:   creatorID,
		})
		if errors.Is(err, repository.ErrNotFound) {
			return errVideoNotFound
		}
		if errors.Is(err, repository.ErrReferenced) {
			return errCreatorNotFound
		}
		if err != nil {
			return apperr.Dependency("approve video", err)
		}
		approved = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("video_id", id.String()).
		Str("creator_id", approved.CreatorID.String()).
		Bool("new_creator", createdCreator).
		Str("moderator", moderator).
		Msg("submission approved")
	return approved, nil
}

// Reject marks the submission rejected and stores the moderator's notes. The
// submitter is notified after commit; a failed notification is logged and
// never undoes the rejection.
func (s *ModerationService) Reject(ctx context.Context, moderator string, id uuid.UUID, req model.RejectRequest) (*model.Video, error) {
	notes := ""
	if req.Notes != nil {
		notes = strings.TrimSpace(*req.Notes)
	}

	var rejected *model.Video
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		v, err := s.videos.SetStatus(ctx, id, model.StatusRejected)
		if errors.Is(err, repository.ErrNotFound) {
			return errVideoNotFound
		}
		if err != nil {
			return apperr.Dependency("reject video", err)
		}
		if notes != "" {
			n := &model.ModerationNote{VideoID: id, Action: model.StatusRejected, Notes: notes, Moderator: moderator}
			if err := s.notes.Insert(ctx, n); err != nil {
				return apperr.Dependency("store moderation note", err)
			}
		}
		rejected = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("video_id", id.String()).
		Bool("has_notes", notes != "").
		Str("moderator", moderator).
		Msg("submission rejected")

	if req.NotifySubmitter {
		s.notifyRejection(ctx, rejected, notes)
	}
	return rejected, nil
}

func (s *ModerationService) notifyRejection(ctx context.Context, v *model.Video, notes string) {
	if v.Creator == nil || v.Creator.Email == "" {
		s.log.Warn().Str("video_id", v.ID.String()).Msg("rejection notification skipped: no creator email")
		return
	}
	body := fmt.Sprintf("Your submission %q was not approved.", v.Title)
	if notes != "" {
		body += "\n\nModerator notes:\n" + notes
	}
	if err := s.notifier.Notify(ctx, v.Creator.Email, "Your submission was not approved", body); err != nil {
		s.log.Error().Err(err).Str("video_id", v.ID.String()).Msg("rejection notification failed")
	}
}

func (s *ModerationService) loadVideo(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	v, err := s.videos.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errVideoNotFound
	}
	if err != nil {
		return nil, apperr.Dependency("load video", err)
	}
	return v, nil
}

// normalizePage clamps page to >= 1 and limit to [1, maxListLimit], using def when limit is unset.
func normalizePage(page, limit, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return page, limit
}
