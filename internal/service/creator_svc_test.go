package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WarriorSushi/supaviewer/internal/apperr"
	"github.com/WarriorSushi/supaviewer/internal/model"
)

func TestCreatorDelete_WithVideosIsRefused(t *testing.T) {
	f := newFixture(t)
	c := f.db.AddCreator("Jane Doe", "jane-doe")
	f.db.AddVideo(c.ID, "Neon City", model.StatusRejected)

	err := f.creators.Delete(context.Background(), c.ID)
	require.True(t, apperr.Is(err, apperr.KindConflict))
	_, ok := f.db.Creator(c.ID)
	require.True(t, ok)
}

func TestCreatorDelete(t *testing.T) {
	f := newFixture(t)
	c := f.db.AddCreator("Jane Doe", "jane-doe")

	require.NoError(t, f.creators.Delete(context.Background(), c.ID))
	_, ok := f.db.Creator(c.ID)
	require.False(t, ok)

	err := f.creators.Delete(context.Background(), c.ID)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreatorCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := model.CreatorRequest{Name: "Jane Doe", Slug: "jane-doe", Email: "jane@example.com", Bio: "  "}

	c, err := f.creators.Create(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "jane-doe", c.Slug)
	require.Nil(t, c.Bio)

	_, err = f.creators.Create(ctx, req)
	require.True(t, apperr.Is(err, apperr.KindConflict))

	req.Slug = "Jane Doe"
	_, err = f.creators.Create(ctx, req)
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreatorUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jane := f.db.AddCreator("Jane Doe", "jane-doe")
	f.db.AddCreator("Max Power", "max-power")

	taken := "max-power"
	_, err := f.creators.Update(ctx, jane.ID, model.CreatorPatch{Slug: &taken})
	require.True(t, apperr.Is(err, apperr.KindConflict))

	same := "jane-doe"
	name := " Jane D. "
	website := ""
	got, err := f.creators.Update(ctx, jane.ID, model.CreatorPatch{Slug: &same, Name: &name, Website: &website})
	require.NoError(t, err)
	require.Equal(t, "Jane D.", got.Name)
	require.Nil(t, got.Website)

	bad := "nope"
	_, err = f.creators.Update(ctx, jane.ID, model.CreatorPatch{Email: &bad})
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreatorProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.db.AddCreator("Jane Doe", "jane-doe")
	live := f.db.AddVideo(c.ID, "Neon City", model.StatusApproved)
	f.db.AddVideo(c.ID, "Pending Cut", model.StatusPending)

	_, err := f.ratings.Create(ctx, "u1", live.ID, 4.0)
	require.NoError(t, err)

	p, err := f.creators.Profile(ctx, "jane-doe")
	require.NoError(t, err)
	require.Len(t, p.Videos, 1)
	require.Equal(t, 1, p.VideoCount)
	require.Equal(t, 4.0, *p.AvgRating)

	_, err = f.creators.Profile(ctx, "nobody")
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreatorAdminListAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.db.AddCreator("Zed Studio", "zed-studio")
	f.db.AddCreator("Alpha Films", "alpha-films")

	resp, err := f.creators.AdminList(ctx, "", 1, 0)
	require.NoError(t, err)
	require.Len(t, resp.Creators, 2)
	require.Equal(t, "Alpha Films", resp.Creators[0].Name)

	found, err := f.creators.Search(ctx, "zed")
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = f.creators.Search(ctx, "  ")
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestCreatorGet_CountsAllStatuses(t *testing.T) {
	f := newFixture(t)
	c := f.db.AddCreator("Jane Doe", "jane-doe")
	f.db.AddVideo(c.ID, "One", model.StatusApproved)
	f.db.AddVideo(c.ID, "Two", model.StatusRejected)

	got, n, err := f.creators.Get(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, c.ID, got.ID)
	require.Equal(t, 2, n)
}
