package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/WarriorSushi/supaviewer/internal/apperr"
	"github.com/WarriorSushi/supaviewer/internal/model"
)

func approveBody() model.ApproveRequest {
	return model.ApproveRequest{
		Title:       "Neon City (Director's Cut)",
		Description: "A moderator-edited description of the film.",
		AITool:      "Runway Gen-3",
		Genre:       "Sci-Fi",
		Featured:    true,
	}
}

func seedPending(t *testing.T, f *fixture) (model.Creator, model.Video) {
	t.Helper()
	c := f.db.AddCreator("Submitter", "submitter")
	return c, f.db.AddVideo(c.ID, "Neon City", model.StatusPending)
}

func TestApprove_NewCreator(t *testing.T) {
	f := newFixture(t)
	_, v := seedPending(t, f)
	f.db.AddCreator("Jane OBrien", "jane-obrien")
	before := f.db.CreatorCount()

	req := approveBody()
	req.NewCreator = &model.NewCreatorInput{Name: "Jane O'Brien", Email: "jane@example.com"}

	got, err := f.moderation.Approve(context.Background(), "mod@example.com", v.ID, req)
	require.NoError(t, err)
	require.Equal(t, before+1, f.db.CreatorCount())

	require.Equal(t, model.StatusApproved, got.Status)
	require.Equal(t, "Neon City (Director's Cut)", got.Title)
	require.Equal(t, "Runway Gen-3", got.AITool)
	require.Equal(t, "Sci-Fi", *got.Genre)
	require.True(t, got.Featured)

	c, ok := f.db.Creator(got.CreatorID)
	require.True(t, ok)
	require.Equal(t, "jane-obrien-x7k2p9", c.Slug)
	require.Equal(t, "jane@example.com", c.Email)
}

func TestApprove_ExistingCreator(t *testing.T) {
	f := newFixture(t)
	_, v := seedPending(t, f)
	owner := f.db.AddCreator("Studio Nine", "studio-nine")
	before := f.db.CreatorCount()

	req := approveBody()
	req.CreatorID = &owner.ID
	req.NewCreator = &model.NewCreatorInput{Name: "Ignored", Email: "ignored@example.com"}

	got, err := f.moderation.Approve(context.Background(), "mod", v.ID, req)
	require.NoError(t, err)
	require.Equal(t, owner.ID, got.CreatorID)
	require.Equal(t, before, f.db.CreatorCount())
}

func TestApprove_MissingCreatorWritesNothing(t *testing.T) {
	f := newFixture(t)
	_, v := seedPending(t, f)
	before := f.db.CreatorCount()

	_, err := f.moderation.Approve(context.Background(), "mod", v.ID, approveBody())
	require.True(t, apperr.Is(err, apperr.KindValidation))

	stored, _ := f.db.Video(v.ID)
	require.Equal(t, model.StatusPending, stored.Status)
	require.Equal(t, "Neon City", stored.Title)
	require.Equal(t, before, f.db.CreatorCount())
}

func TestApprove_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.ApproveRequest)
	}{
		{"short title", func(r *model.ApproveRequest) { r.Title = "ab" }},
		{"short description", func(r *model.ApproveRequest) { r.Description = "too short" }},
		{"missing ai tool", func(r *model.ApproveRequest) { r.AITool = "  " }},
		{"missing genre", func(r *model.ApproveRequest) { r.Genre = "" }},
		{"bad email", func(r *model.ApproveRequest) { r.NewCreator.Email = "not-an-email" }},
		{"bad website", func(r *model.ApproveRequest) { r.NewCreator.Website = "ftp://x" }},
		{"short creator name", func(r *model.ApproveRequest) { r.NewCreator.Name = "J" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, v := seedPending(t, f)
			before := f.db.CreatorCount()

			req := approveBody()
			req.NewCreator = &model.NewCreatorInput{Name: "Jane Doe", Email: "jane@example.com"}
			tt.mutate(&req)

			_, err := f.moderation.Approve(context.Background(), "mod", v.ID, req)
			require.True(t, apperr.Is(err, apperr.KindValidation))
			require.Equal(t, before, f.db.CreatorCount())
			stored, _ := f.db.Video(v.ID)
			require.Equal(t, model.StatusPending, stored.Status)
		})
	}
}

func TestApprove_UnknownCreatorID(t *testing.T) {
	f := newFixture(t)
	_, v := seedPending(t, f)
	missing := uuid.New()

	req := approveBody()
	req.CreatorID = &missing
	_, err := f.moderation.Approve(context.Background(), "mod", v.ID, req)
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	stored, _ := f.db.Video(v.ID)
	require.Equal(t, model.StatusPending, stored.Status)
}

func TestApprove_UnknownVideo(t *testing.T) {
	f := newFixture(t)
	before := f.db.CreatorCount()
	req := approveBody()
	req.NewCreator = &model.NewCreatorInput{Name: "Jane Doe", Email: "jane@example.com"}

	_, err := f.moderation.Approve(context.Background(), "mod", uuid.New(), req)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
	require.Equal(t, before, f.db.CreatorCount())
}

func TestApprove_VideoUpdateFailureRollsBackCreator(t *testing.T) {
	f := newFixture(t)
	_, v := seedPending(t, f)
	before := f.db.CreatorCount()
	f.db.FailOn("videos.ApplyApproval", errors.New("deadlock detected"))

	req := approveBody()
	req.NewCreator = &model.NewCreatorInput{Name: "Jane Doe", Email: "jane@example.com"}
	_, err := f.moderation.Approve(context.Background(), "mod", v.ID, req)
	require.True(t, apperr.Is(err, apperr.KindDependency))
	require.Equal(t, before, f.db.CreatorCount())

	stored, _ := f.db.Video(v.ID)
	require.Equal(t, model.StatusPending, stored.Status)
}

func TestReject_StoresNotesAndNotifies(t *testing.T) {
	f := newFixture(t)
	c, v := seedPending(t, f)
	notes := "  Not AI-generated.  "

	got, err := f.moderation.Reject(context.Background(), "mod@example.com", v.ID, model.RejectRequest{Notes: &notes, NotifySubmitter: true})
	require.NoError(t, err)
	require.Equal(t, model.StatusRejected, got.Status)

	stored := f.db.Notes()
	require.Len(t, stored, 1)
	require.Equal(t, "Not AI-generated.", stored[0].Notes)
	require.Equal(t, model.StatusRejected, stored[0].Action)
	require.Equal(t, "mod@example.com", stored[0].Moderator)

	require.Equal(t, 1, f.notifier.Count())
	require.Equal(t, c.Email, f.notifier.Sent[0].Recipient)
	require.Contains(t, f.notifier.Sent[0].Body, "Not AI-generated.")
}

func TestReject_NotificationFailureKeepsRejection(t *testing.T) {
	f := newFixture(t)
	_, v := seedPending(t, f)
	f.notifier.Err = errors.New("smtp down")

	got, err := f.moderation.Reject(context.Background(), "mod", v.ID, model.RejectRequest{NotifySubmitter: true})
	require.NoError(t, err)
	require.Equal(t, model.StatusRejected, got.Status)
	require.Equal(t, 1, f.notifier.Count())

	stored, _ := f.db.Video(v.ID)
	require.Equal(t, model.StatusRejected, stored.Status)
}

func TestReject_WithoutNotesOrNotification(t *testing.T) {
	f := newFixture(t)
	_, v := seedPending(t, f)

	_, err := f.moderation.Reject(context.Background(), "mod", v.ID, model.RejectRequest{})
	require.NoError(t, err)
	require.Empty(t, f.db.Notes())
	require.Zero(t, f.notifier.Count())
}

func TestReject_NoteFailureRollsBackStatus(t *testing.T) {
	f := newFixture(t)
	_, v := seedPending(t, f)
	f.db.FailOn("notes.Insert", errors.New("disk full"))
	notes := "Duplicate submission"

	_, err := f.moderation.Reject(context.Background(), "mod", v.ID, model.RejectRequest{Notes: &notes})
	require.True(t, apperr.Is(err, apperr.KindDependency))

	stored, _ := f.db.Video(v.ID)
	require.Equal(t, model.StatusPending, stored.Status)
}

func TestReject_UnknownVideo(t *testing.T) {
	f := newFixture(t)
	_, err := f.moderation.Reject(context.Background(), "mod", uuid.New(), model.RejectRequest{NotifySubmitter: true})
	require.True(t, apperr.Is(err, apperr.KindNotFound))
	require.Zero(t, f.notifier.Count())
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	_, v := seedPending(t, f)

	_, err := f.moderation.SetStatus(context.Background(), "mod", v.ID, "archived")
	require.True(t, apperr.Is(err, apperr.KindValidation))

	got, err := f.moderation.SetStatus(context.Background(), "mod", v.ID, model.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, got.Status)
	require.Equal(t, "Neon City", got.Title)
}

func TestModerationList(t *testing.T) {
	f := newFixture(t)
	c, _ := seedPending(t, f)
	f.db.AddVideo(c.ID, "Second Pending", model.StatusPending)
	f.db.AddVideo(c.ID, "Already Live", model.StatusApproved)

	resp, err := f.moderation.List(context.Background(), model.StatusPending, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, resp.Videos, 2)
	require.Equal(t, 2, resp.Pagination.Total)
	require.Equal(t, defaultSubmissionLimit, resp.Pagination.Limit)

	resp, err = f.moderation.List(context.Background(), "", "live", 1, 10)
	require.NoError(t, err)
	require.Len(t, resp.Videos, 1)

	_, err = f.moderation.List(context.Background(), "bogus", "", 1, 10)
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestModerationGet_IncludesNotes(t *testing.T) {
	f := newFixture(t)
	_, v := seedPending(t, f)
	notes := "Wrong genre"
	_, err := f.moderation.Reject(context.Background(), "mod", v.ID, model.RejectRequest{Notes: &notes})
	require.NoError(t, err)

	got, history, err := f.moderation.Get(context.Background(), v.ID)
	require.NoError(t, err)
	require.Equal(t, v.ID, got.ID)
	require.Len(t, history, 1)
	require.Equal(t, "Wrong genre", history[0].Notes)
}
