package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/WarriorSushi/supaviewer/internal/db"
	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/repository"
)

func startPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_DB":       "supaviewer",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
			return fmt.Sprintf("postgres://postgres:postgres@%s:%s/supaviewer?sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("skip repository integration test: cannot start postgres container: %v", err)
	}
	t.Cleanup(func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(termCtx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/supaviewer?sslmode=disable", host, port.Port())
}

func setup(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skip repository integration test in short mode")
	}
	ctx := context.Background()
	dsn := startPostgres(ctx, t)

	pool, err := db.NewPool(ctx, dsn, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))
	// Migrations are idempotent.
	require.NoError(t, db.Migrate(ctx, pool))
	return ctx, pool
}

func TestRepositoriesIntegration(t *testing.T) {
	ctx, pool := setup(t)

	creators := repository.NewCreatorRepo(pool)
	videos := repository.NewVideoRepo(pool)
	ratings := repository.NewRatingRepo(pool)
	notes := repository.NewModerationNoteRepo(pool)
	tx := db.NewTxManager(pool)

	creator := &model.Creator{Name: "Jane Doe", Slug: "jane-doe", Email: "jane@example.com"}
	require.NoError(t, creators.Insert(ctx, creator))

	dup := &model.Creator{Name: "Jane Again", Slug: "jane-doe", Email: "j2@example.com"}
	require.ErrorIs(t, creators.Insert(ctx, dup), repository.ErrDuplicate)

	exists, err := creators.SlugExists(ctx, "jane-doe")
	require.NoError(t, err)
	require.True(t, exists)

	video := &model.Video{
		Title:      "Neon City",
		YouTubeID:  "dQw4w9WgXcQ",
		YouTubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		CreatorID:  creator.ID,
		AITool:     "Sora",
		Status:     model.StatusPending,
	}
	require.NoError(t, videos.Insert(ctx, video))

	t.Run("creator with videos cannot be deleted", func(t *testing.T) {
		require.ErrorIs(t, creators.Delete(ctx, creator.ID), repository.ErrReferenced)
		n, err := videos.CountByCreator(ctx, creator.ID)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("one rating per user and video", func(t *testing.T) {
		first := &model.Rating{VideoID: video.ID, UserID: "user-1", Rating: 4.5}
		require.NoError(t, ratings.Insert(ctx, first))

		second := &model.Rating{VideoID: video.ID, UserID: "user-1", Rating: 2.0}
		require.ErrorIs(t, ratings.Insert(ctx, second), repository.ErrDuplicate)

		other := &model.Rating{VideoID: video.ID, UserID: "user-2", Rating: 3.5}
		require.NoError(t, ratings.Insert(ctx, other))

		values, err := ratings.ValuesForVideo(ctx, video.ID)
		require.NoError(t, err)
		require.ElementsMatch(t, []float64{4.5, 3.5}, values)

		updated, err := ratings.UpdateValue(ctx, first.ID, 5.0)
		require.NoError(t, err)
		require.Equal(t, 5.0, updated.Rating)

		found, err := ratings.FindByVideoAndUser(ctx, video.ID, "user-2")
		require.NoError(t, err)
		require.Equal(t, other.ID, found.ID)
	})

	t.Run("aggregate is stored and cleared", func(t *testing.T) {
		avg := 4.25
		require.NoError(t, videos.UpdateAggregate(ctx, video.ID, model.Aggregate{AvgRating: &avg, TotalRatings: 2}))

		got, err := videos.FindByID(ctx, video.ID)
		require.NoError(t, err)
		require.Equal(t, 2, got.TotalRatings)
		require.NotNil(t, got.AvgRating)
		require.InDelta(t, 4.25, *got.AvgRating, 1e-9)

		require.NoError(t, videos.UpdateAggregate(ctx, video.ID, model.Aggregate{}))
		got, err = videos.FindByID(ctx, video.ID)
		require.NoError(t, err)
		require.Zero(t, got.TotalRatings)
		require.Nil(t, got.AvgRating)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := videos.SetStatus(ctx, video.ID, model.StatusRejected); err != nil {
				return err
			}
			note := &model.ModerationNote{VideoID: video.ID, Action: model.StatusRejected, Notes: "off topic", Moderator: "admin@example.com"}
			if err := notes.Insert(ctx, note); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := videos.FindByID(ctx, video.ID)
		require.NoError(t, err)
		require.Equal(t, model.StatusPending, got.Status)

		stored, err := notes.ListByVideo(ctx, video.ID)
		require.NoError(t, err)
		require.Empty(t, stored)
	})

	t.Run("deleting a video cascades to ratings", func(t *testing.T) {
		require.NoError(t, videos.Delete(ctx, video.ID))
		values, err := ratings.ValuesForVideo(ctx, video.ID)
		require.NoError(t, err)
		require.Empty(t, values)

		_, err = videos.FindByID(ctx, video.ID)
		require.ErrorIs(t, err, repository.ErrNotFound)

		require.NoError(t, creators.Delete(ctx, creator.ID))
		require.ErrorIs(t, creators.Delete(ctx, creator.ID), repository.ErrNotFound)
	})
}
