package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/WarriorSushi/supaviewer/internal/auth"
	"github.com/WarriorSushi/supaviewer/internal/config"
	"github.com/WarriorSushi/supaviewer/internal/db"
	"github.com/WarriorSushi/supaviewer/internal/handler"
	"github.com/WarriorSushi/supaviewer/internal/middleware"
	"github.com/WarriorSushi/supaviewer/internal/repository"
	"github.com/WarriorSushi/supaviewer/internal/router"
	"github.com/WarriorSushi/supaviewer/internal/service"
	"github.com/WarriorSushi/supaviewer/internal/youtube"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "supaviewer-api")
	log := middleware.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, middleware.Component("db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to apply schema")
		}
	}

	rdb := db.NewRedis(ctx, cfg.RedisURL, middleware.Component("redis"))
	if rdb != nil {
		defer rdb.Close()
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET not set; every bearer token will be rejected")
	}
	if len(cfg.AdminEmails) == 0 {
		log.Warn().Msg("ADMIN_EMAILS not set; admin routes are unreachable")
	}

	// Repositories
	videos := repository.NewVideoRepo(pool)
	creators := repository.NewCreatorRepo(pool)
	ratings := repository.NewRatingRepo(pool)
	notes := repository.NewModerationNoteRepo(pool)
	tx := db.NewTxManager(pool)

	// Services
	aggSvc := service.NewAggregateService(videos, ratings, middleware.Component("aggregate"))
	ratingSvc := service.NewRatingService(tx, videos, ratings, aggSvc, middleware.Component("ratings"))
	resolver := service.NewCreatorResolver(creators)
	notifier := service.NewLogNotifier(middleware.Component("notifier"))
	moderationSvc := service.NewModerationService(tx, videos, creators, resolver, notes, notifier, middleware.Component("moderation"))
	yt := youtube.NewClient(cfg.YouTubeOEmbedURL, cfg.YouTubeTimeout)
	submissionSvc := service.NewSubmissionService(tx, videos, resolver, yt, middleware.Component("submissions"))
	videoSvc := service.NewVideoService(tx, videos, ratings, middleware.Component("videos"))
	creatorSvc := service.NewCreatorService(tx, creators, videos, middleware.Component("creators"))

	handler.InitMetrics(pool)

	limits := middleware.NewCounterStore(rdb)
	fallback := middleware.NewMemoryStore()
	if mem, ok := limits.(*middleware.MemoryStore); ok {
		fallback = mem
	}
	go fallback.Cleanup(ctx, 5*time.Minute)

	app := fiber.New(fiber.Config{
		AppName:      "Supaviewer API",
		ServerHeader: "Supaviewer",
		BodyLimit:    1 << 20,
	})

	router.Setup(app, &router.Handlers{
		Health:       handler.NewHealthHandler(pool, rdb),
		Video:        handler.NewVideoHandler(videoSvc),
		Creator:      handler.NewCreatorHandler(creatorSvc),
		Rating:       handler.NewRatingHandler(ratingSvc),
		Submission:   handler.NewSubmissionHandler(submissionSvc),
		Moderation:   handler.NewModerationHandler(moderationSvc),
		AdminVideo:   handler.NewAdminVideoHandler(videoSvc),
		AdminCreator: handler.NewAdminCreatorHandler(creatorSvc),
	}, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		Auth:        auth.NewAuthenticator(cfg.JWTSecret, cfg.AdminEmails),
		Limits:      limits,
		Fallback:    fallback,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("supaviewer API starting")
		return app.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: true})
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
