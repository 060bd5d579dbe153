package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/WarriorSushi/supaviewer/internal/auth"
	"github.com/WarriorSushi/supaviewer/internal/handler"
	"github.com/WarriorSushi/supaviewer/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Health       *handler.HealthHandler
	Video        *handler.VideoHandler
	Creator      *handler.CreatorHandler
	Rating       *handler.RatingHandler
	Submission   *handler.SubmissionHandler
	Moderation   *handler.ModerationHandler
	AdminVideo   *handler.AdminVideoHandler
	AdminCreator *handler.AdminCreatorHandler
}

// Options carries the cross-cutting dependencies of the middleware stack.
type Options struct {
	CORSOrigins string
	Auth        *auth.Authenticator
	// Limits backs every rate limiter; nil means in-memory counters.
	Limits middleware.CounterStore
	// Fallback counts requests while Limits is failing. The caller owns its Cleanup loop.
	Fallback *middleware.MemoryStore
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, opts Options) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(opts.CORSOrigins))

	// Health and metrics (before API group, no auth needed)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	reads := limiter(middleware.NewReadRateLimiter(opts.Limits), opts.Fallback)
	ratings := limiter(middleware.NewRatingRateLimiter(opts.Limits), opts.Fallback)
	submissions := limiter(middleware.NewSubmissionRateLimiter(opts.Limits), opts.Fallback)
	adminLimit := limiter(middleware.NewAdminRateLimiter(opts.Limits), opts.Fallback)

	// API routes; identity is optional unless a route requires it
	api := app.Group("/api", middleware.Authenticate(opts.Auth))

	// Public catalogue
	api.Get("/videos", reads, h.Video.Browse)
	api.Get("/videos/:id", reads, h.Video.Detail)
	api.Get("/creators", reads, h.Creator.List)
	api.Get("/creators/:slug", reads, h.Creator.Profile)

	// Submissions
	api.Post("/submissions", submissions, h.Submission.Submit)

	// Ratings
	requireAuth := middleware.RequireAuth()
	api.Get("/ratings", requireAuth, reads, h.Rating.Get)
	api.Post("/ratings", requireAuth, ratings, h.Rating.Create)
	api.Patch("/ratings/:id", requireAuth, ratings, h.Rating.Update)
	api.Delete("/ratings/:id", requireAuth, ratings, h.Rating.Delete)

	// Admin
	admin := api.Group("/admin", middleware.RequireAdmin(opts.Auth), adminLimit)

	admin.Get("/stats", h.AdminVideo.Stats)

	admin.Get("/submissions", h.Moderation.List)
	admin.Get("/submissions/:id", h.Moderation.Get)
	admin.Patch("/submissions/:id", h.Moderation.SetStatus)
	admin.Post("/submissions/:id/approve", h.Moderation.Approve)
	admin.Post("/submissions/:id/reject", h.Moderation.Reject)

	admin.Get("/videos", h.AdminVideo.List)
	admin.Get("/videos/:id", h.AdminVideo.Get)
	admin.Patch("/videos/:id", h.AdminVideo.Update)
	admin.Delete("/videos/:id", h.AdminVideo.Delete)

	// /creators/search must precede /creators/:id
	admin.Get("/creators/search", h.AdminCreator.Search)
	admin.Get("/creators", h.AdminCreator.List)
	admin.Post("/creators", h.AdminCreator.Create)
	admin.Get("/creators/:id", h.AdminCreator.Get)
	admin.Patch("/creators/:id", h.AdminCreator.Update)
	admin.Delete("/creators/:id", h.AdminCreator.Delete)
}

func limiter(rl *middleware.RateLimiter, fallback *middleware.MemoryStore) fiber.Handler {
	rl.WithFallback(fallback)
	rl.OnLimited = handler.RecordRateLimited
	return rl.Handler()
}
