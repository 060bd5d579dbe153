package service

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/storetest"
)

type fixture struct {
	db         *storetest.DB
	notifier   *storetest.Notifier
	meta       *storetest.Metadata
	agg        *AggregateService
	ratings    *RatingService
	resolver   *CreatorResolver
	moderation *ModerationService
	submission *SubmissionService
	videos     *VideoService
	creators   *CreatorService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zerolog.Nop()
	db := storetest.New()
	f := &fixture{
		db:       db,
		notifier: &storetest.Notifier{},
		meta:     &storetest.Metadata{Meta: storetestMeta},
	}
	f.agg = NewAggregateService(db.Videos(), db.Ratings(), log)
	f.ratings = NewRatingService(db, db.Videos(), db.Ratings(), f.agg, log)
	f.resolver = NewCreatorResolver(db.Creators())
	f.resolver.suffix = func() string { return "x7k2p9" }
	f.moderation = NewModerationService(db, db.Videos(), db.Creators(), f.resolver, db.NoteStore(), f.notifier, log)
	f.submission = NewSubmissionService(db, db.Videos(), f.resolver, f.meta, log)
	f.videos = NewVideoService(db, db.Videos(), db.Ratings(), log)
	f.creators = NewCreatorService(db, db.Creators(), db.Videos(), log)
	return f
}

var storetestMeta = model.VideoMetadata{
	Title:        "Neon City",
	ThumbnailURL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
	AuthorName:   "Jane",
}
