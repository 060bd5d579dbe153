// Package storetest provides in-memory implementations of the service store
// interfaces for unit and handler tests. Lookups that miss return the
// repository sentinels so callers see the same errors as with Postgres.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/repository"
)

// DB is a shared in-memory dataset. Its Videos, Creators, Ratings and Notes
// views implement the matching service store interfaces, and DB itself
// implements the transaction runner with snapshot rollback.
type DB struct {
	mu       sync.Mutex
	videos   map[uuid.UUID]model.Video
	creators map[uuid.UUID]model.Creator
	ratings  map[uuid.UUID]model.Rating
	notes    []model.ModerationNote
	failures map[string]error
	now      func() time.Time
}

func New() *DB {
	return &DB{
		videos:   map[uuid.UUID]model.Video{},
		creators: map[uuid.UUID]model.Creator{},
		ratings:  map[uuid.UUID]model.Rating{},
		failures: map[string]error{},
		now:      time.Now,
	}
}

// FailOn makes the named operation (for example "ratings.Insert") return err
// until cleared with a nil err.
func (d *DB) FailOn(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.failures, op)
		return
	}
	d.failures[op] = err
}

// fail must be called with d.mu held.
func (d *DB) fail(op string) error {
	return d.failures[op]
}

type txKey struct{}

// WithinTx runs fn and restores the dataset to its prior state if fn fails.
func (d *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	d.mu.Lock()
	snap := d.snapshot()
	d.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		d.mu.Lock()
		d.restore(snap)
		d.mu.Unlock()
		return err
	}
	return nil
}

type snapshot struct {
	videos   map[uuid.UUID]model.Video
	creators map[uuid.UUID]model.Creator
	ratings  map[uuid.UUID]model.Rating
	notes    []model.ModerationNote
}

func (d *DB) snapshot() snapshot {
	s := snapshot{
		videos:   make(map[uuid.UUID]model.Video, len(d.videos)),
		creators: make(map[uuid.UUID]model.Creator, len(d.creators)),
		ratings:  make(map[uuid.UUID]model.Rating, len(d.ratings)),
		notes:    append([]model.ModerationNote(nil), d.notes...),
	}
	for k, v := range d.videos {
		s.videos[k] = v
	}
	for k, v := range d.creators {
		s.creators[k] = v
	}
	for k, v := range d.ratings {
		s.ratings[k] = v
	}
	return s
}

func (d *DB) restore(s snapshot) {
	d.videos, d.creators, d.ratings, d.notes = s.videos, s.creators, s.ratings, s.notes
}

// --- seeding and inspection helpers ---

// AddCreator inserts a creator with the given name and slug.
func (d *DB) AddCreator(name, slug string) model.Creator {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	c := model.Creator{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		Email:     slug + "@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.creators[c.ID] = c
	return c
}

// AddVideo inserts a video owned by creatorID in the given status.
func (d *DB) AddVideo(creatorID uuid.UUID, title string, status model.VideoStatus) model.Video {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	desc := "Original submission description"
	v := model.Video{
		ID:           uuid.New(),
		Title:        title,
		Description:  &desc,
		YouTubeID:    "dQw4w9WgXcQ",
		YouTubeURL:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		ThumbnailURL: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		CreatorID:    creatorID,
		AITool:       "Sora",
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	d.videos[v.ID] = v
	return v
}

// Video returns the stored video, and false if it does not exist.
func (d *DB) Video(id uuid.UUID) (model.Video, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.videos[id]
	return v, ok
}

// Creator returns the stored creator, and false if it does not exist.
func (d *DB) Creator(id uuid.UUID) (model.Creator, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.creators[id]
	return c, ok
}

func (d *DB) CreatorCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.creators)
}

// RatingValues returns the stored rating values of a video.
func (d *DB) RatingValues(videoID uuid.UUID) []float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ratingValues(videoID)
}

func (d *DB) ratingValues(videoID uuid.UUID) []float64 {
	out := []float64{}
	for _, r := range d.ratings {
		if r.VideoID == videoID {
			out = append(out, r.Rating)
		}
	}
	return out
}

// Notes returns every stored moderation note.
func (d *DB) Notes() []model.ModerationNote {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.ModerationNote(nil), d.notes...)
}

// withCreator attaches the creator summary; d.mu must be held.
func (d *DB) withCreator(v model.Video) model.Video {
	if c, ok := d.creators[v.CreatorID]; ok {
		v.Creator = &model.CreatorSummary{ID: c.ID, Name: c.Name, Slug: c.Slug, Email: c.Email, AvatarURL: c.AvatarURL}
	}
	return v
}

// --- videos ---

type Videos struct{ d *DB }

func (d *DB) Videos() *Videos { return &Videos{d: d} }

func (s *Videos) FindByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("videos.FindByID"); err != nil {
		return nil, err
	}
	v, ok := d.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v = d.withCreator(v)
	return &v, nil
}

func (s *Videos) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("videos.Exists"); err != nil {
		return false, err
	}
	_, ok := d.videos[id]
	return ok, nil
}

func (s *Videos) List(ctx context.Context, f model.VideoFilter) ([]model.Video, int, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("videos.List"); err != nil {
		return nil, 0, err
	}

	search := strings.ToLower(f.Search)
	matched := []model.Video{}
	for _, v := range d.videos {
		v = d.withCreator(v)
		switch {
		case f.Status != "" && v.Status != f.Status:
			continue
		case f.AITool != "" && v.AITool != f.AITool:
			continue
		case f.Genre != "" && (v.Genre == nil || *v.Genre != f.Genre):
			continue
		case f.CreatorID != nil && v.CreatorID != *f.CreatorID:
			continue
		case f.Featured != nil && v.Featured != *f.Featured:
			continue
		case f.DateFrom != nil && v.CreatedAt.Before(*f.DateFrom):
			continue
		case f.DateTo != nil && v.CreatedAt.After(*f.DateTo):
			continue
		}
		if search != "" {
			name := ""
			if v.Creator != nil {
				name = strings.ToLower(v.Creator.Name)
			}
			if !strings.Contains(strings.ToLower(v.Title), search) && !strings.Contains(name, search) {
				continue
			}
		}
		matched = append(matched, v)
	}

	sortVideos(matched, f.SortBy, f.Ascending)

	total := len(matched)
	start := min(f.Offset(), total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	return matched[start:end], total, nil
}

func sortVideos(vs []model.Video, by string, asc bool) {
	less := func(a, b model.Video) bool {
		switch by {
		case "title":
			return a.Title < b.Title
		case "avg_rating":
			return ratingOf(a) < ratingOf(b)
		case "total_ratings":
			return a.TotalRatings < b.TotalRatings
		case "view_count":
			return a.ViewCount < b.ViewCount
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(vs, func(i, j int) bool {
		if asc {
			return less(vs[i], vs[j])
		}
		return less(vs[j], vs[i])
	})
}

func ratingOf(v model.Video) float64 {
	if v.AvgRating == nil {
		return -1
	}
	return *v.AvgRating
}

func (s *Videos) Related(ctx context.Context, v *model.Video, limit int) ([]model.Video, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []model.Video{}
	for _, o := range d.videos {
		if o.ID == v.ID || o.Status != model.StatusApproved {
			continue
		}
		if o.CreatorID == v.CreatorID || o.AITool == v.AITool {
			out = append(out, d.withCreator(o))
		}
	}
	sortVideos(out, "avg_rating", false)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Videos) ListApprovedByCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Video, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []model.Video{}
	for _, v := range d.videos {
		if v.CreatorID == creatorID && v.Status == model.StatusApproved {
			out = append(out, d.withCreator(v))
		}
	}
	sortVideos(out, "created_at", false)
	return out, nil
}

func (s *Videos) CountByCreator(ctx context.Context, creatorID uuid.UUID) (int, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("videos.CountByCreator"); err != nil {
		return 0, err
	}
	n := 0
	for _, v := range d.videos {
		if v.CreatorID == creatorID {
			n++
		}
	}
	return n, nil
}

func (s *Videos) Insert(ctx context.Context, v *model.Video) error {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("videos.Insert"); err != nil {
		return err
	}
	if _, ok := d.creators[v.CreatorID]; !ok {
		return repository.ErrReferenced
	}
	now := d.now()
	v.ID, v.CreatedAt, v.UpdatedAt = uuid.New(), now, now
	d.videos[v.ID] = *v
	return nil
}

func (s *Videos) ApplyApproval(ctx context.Context, id uuid.UUID, u model.ApprovalUpdate) (*model.Video, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("videos.ApplyApproval"); err != nil {
		return nil, err
	}
	v, ok := d.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if _, ok := d.creators[u.CreatorID]; !ok {
		return nil, repository.ErrReferenced
	}
	v.Title, v.Description, v.AITool, v.Genre = u.Title, nilIfEmpty(u.Description), u.AITool, nilIfEmpty(u.Genre)
	v.Featured, v.CreatorID, v.Status = u.Featured, u.CreatorID, model.StatusApproved
	v.UpdatedAt = d.now()
	d.videos[id] = v
	v = d.withCreator(v)
	return &v, nil
}

func (s *Videos) SetStatus(ctx context.Context, id uuid.UUID, status model.VideoStatus) (*model.Video, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("videos.SetStatus"); err != nil {
		return nil, err
	}
	v, ok := d.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v.Status, v.UpdatedAt = status, d.now()
	d.videos[id] = v
	v = d.withCreator(v)
	return &v, nil
}

func (s *Videos) Update(ctx context.Context, id uuid.UUID, p model.VideoPatch) (*model.Video, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Description != nil {
		v.Description = nilIfEmpty(*p.Description)
	}
	if p.AITool != nil {
		v.AITool = *p.AITool
	}
	if p.Genre != nil {
		v.Genre = nilIfEmpty(*p.Genre)
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
	if p.Featured != nil {
		v.Featured = *p.Featured
	}
	if p.DurationSeconds != nil {
		v.DurationSeconds = *p.DurationSeconds
	}
	v.UpdatedAt = d.now()
	d.videos[id] = v
	v = d.withCreator(v)
	return &v, nil
}

func (s *Videos) UpdateAggregate(ctx context.Context, id uuid.UUID, agg model.Aggregate) error {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("videos.UpdateAggregate"); err != nil {
		return err
	}
	v, ok := d.videos[id]
	if !ok {
		return repository.ErrNotFound
	}
	v.AvgRating, v.TotalRatings = agg.AvgRating, agg.TotalRatings
	d.videos[id] = v
	return nil
}

func (s *Videos) IncrementViews(ctx context.Context, id uuid.UUID) error {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("videos.IncrementViews"); err != nil {
		return err
	}
	if v, ok := d.videos[id]; ok {
		v.ViewCount++
		d.videos[id] = v
	}
	return nil
}

func (s *Videos) Delete(ctx context.Context, id uuid.UUID) error {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("videos.Delete"); err != nil {
		return err
	}
	if _, ok := d.videos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(d.videos, id)
	for rid, r := range d.ratings {
		if r.VideoID == id {
			delete(d.ratings, rid)
		}
	}
	return nil
}

func (s *Videos) Stats(ctx context.Context) (*model.StatsResponse, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	st := &model.StatsResponse{TotalVideos: len(d.videos), TotalCreators: len(d.creators), TotalRatings: len(d.ratings)}
	for _, v := range d.videos {
		switch v.Status {
		case model.StatusPending:
			st.PendingVideos++
		case model.StatusApproved:
			st.ApprovedVideos++
		case model.StatusRejected:
			st.RejectedVideos++
		}
		if v.Featured {
			st.FeaturedVideos++
		}
	}
	return st, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
