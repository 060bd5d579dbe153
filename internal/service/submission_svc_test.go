package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WarriorSushi/supaviewer/internal/apperr"
	"github.com/WarriorSushi/supaviewer/internal/model"
)

func submissionBody() model.SubmissionRequest {
	return model.SubmissionRequest{
		Title:        "  Neon City  ",
		Description:  "A short film made entirely with generative tools.",
		YouTubeURL:   "https://youtu.be/dQw4w9WgXcQ",
		AITool:       "Sora",
		Genre:        "Sci-Fi",
		CreatorName:  "Jane Doe",
		CreatorEmail: "jane@example.com",
	}
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	resp, err := f.submission.Submit(context.Background(), "user-1", submissionBody())
	require.NoError(t, err)
	require.True(t, resp.Success)

	v, ok := f.db.Video(resp.VideoID)
	require.True(t, ok)
	require.Equal(t, model.StatusPending, v.Status)
	require.Equal(t, "Neon City", v.Title)
	require.Equal(t, "dQw4w9WgXcQ", v.YouTubeID)
	require.Equal(t, storetestMeta.ThumbnailURL, v.ThumbnailURL)
	require.Zero(t, v.DurationSeconds)
	require.Equal(t, "user-1", *v.SubmittedBy)

	c, ok := f.db.Creator(v.CreatorID)
	require.True(t, ok)
	require.Equal(t, "jane-doe", c.Slug)
}

func TestSubmit_ReusesCreator(t *testing.T) {
	f := newFixture(t)
	existing := f.db.AddCreator("Jane Doe", "jane-doe")

	resp, err := f.submission.Submit(context.Background(), "", submissionBody())
	require.NoError(t, err)

	v, _ := f.db.Video(resp.VideoID)
	require.Equal(t, existing.ID, v.CreatorID)
	require.Nil(t, v.SubmittedBy)
	require.Equal(t, 1, f.db.CreatorCount())
}

func TestSubmit_InvalidURL(t *testing.T) {
	f := newFixture(t)
	req := submissionBody()
	req.YouTubeURL = "https://vimeo.com/12345"

	_, err := f.submission.Submit(context.Background(), "", req)
	require.True(t, apperr.Is(err, apperr.KindValidation))
	require.Zero(t, f.db.CreatorCount())
}

func TestSubmit_LookupFailure(t *testing.T) {
	f := newFixture(t)
	f.meta.Err = errors.New("oembed returned 404")

	_, err := f.submission.Submit(context.Background(), "", submissionBody())
	require.True(t, apperr.Is(err, apperr.KindValidation))
	require.Zero(t, f.db.CreatorCount())
}

func TestSubmit_InsertFailureRollsBackCreator(t *testing.T) {
	f := newFixture(t)
	f.db.FailOn("videos.Insert", errors.New("connection lost"))

	_, err := f.submission.Submit(context.Background(), "", submissionBody())
	require.True(t, apperr.Is(err, apperr.KindDependency))
	require.Zero(t, f.db.CreatorCount())
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.SubmissionRequest)
	}{
		{"short title", func(r *model.SubmissionRequest) { r.Title = "ab" }},
		{"missing url", func(r *model.SubmissionRequest) { r.YouTubeURL = "" }},
		{"short description", func(r *model.SubmissionRequest) { r.Description = "short" }},
		{"bad email", func(r *model.SubmissionRequest) { r.CreatorEmail = "jane" }},
		{"bad website", func(r *model.SubmissionRequest) { r.CreatorWebsite = "example.com" }},
		{"short ai tool", func(r *model.SubmissionRequest) { r.AITool = "x" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := submissionBody()
			tt.mutate(&req)
			_, err := f.submission.Submit(context.Background(), "", req)
			require.True(t, apperr.Is(err, apperr.KindValidation))
		})
	}
}
