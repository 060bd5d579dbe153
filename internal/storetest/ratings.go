package storetest

import (
	"context"

	"github.com/google/uuid"

	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/repository"
)

type Ratings struct{ d *DB }

func (d *DB) Ratings() *Ratings { return &Ratings{d: d} }

func (s *Ratings) FindByID(ctx context.Context, id uuid.UUID) (*model.Rating, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("ratings.FindByID"); err != nil {
		return nil, err
	}
	r, ok := d.ratings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (s *Ratings) FindByVideoAndUser(ctx context.Context, videoID uuid.UUID, userID string) (*model.Rating, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("ratings.FindByVideoAndUser"); err != nil {
		return nil, err
	}
	for _, r := range d.ratings {
		if r.VideoID == videoID && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Insert enforces one rating per (video, user) the way the unique constraint does.
func (s *Ratings) Insert(ctx context.Context, r *model.Rating) error {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("ratings.Insert"); err != nil {
		return err
	}
	if _, ok := d.videos[r.VideoID]; !ok {
		return repository.ErrReferenced
	}
	for _, o := range d.ratings {
		if o.VideoID == r.VideoID && o.UserID == r.UserID {
			return repository.ErrDuplicate
		}
	}
	now := d.now()
	r.ID, r.CreatedAt, r.UpdatedAt = uuid.New(), now, now
	d.ratings[r.ID] = *r
	return nil
}

func (s *Ratings) UpdateValue(ctx context.Context, id uuid.UUID, value float64) (*model.Rating, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("ratings.UpdateValue"); err != nil {
		return nil, err
	}
	r, ok := d.ratings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	r.Rating, r.UpdatedAt = value, d.now()
	d.ratings[id] = r
	return &r, nil
}

func (s *Ratings) Delete(ctx context.Context, id uuid.UUID) error {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("ratings.Delete"); err != nil {
		return err
	}
	if _, ok := d.ratings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(d.ratings, id)
	return nil
}

func (s *Ratings) DeleteByVideo(ctx context.Context, videoID uuid.UUID) error {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("ratings.DeleteByVideo"); err != nil {
		return err
	}
	for id, r := range d.ratings {
		if r.VideoID == videoID {
			delete(d.ratings, id)
		}
	}
	return nil
}

func (s *Ratings) ValuesForVideo(ctx context.Context, videoID uuid.UUID) ([]float64, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("ratings.ValuesForVideo"); err != nil {
		return nil, err
	}
	return d.ratingValues(videoID), nil
}

// --- moderation notes ---

type Notes struct{ d *DB }

func (d *DB) NoteStore() *Notes { return &Notes{d: d} }

func (s *Notes) Insert(ctx context.Context, n *model.ModerationNote) error {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("notes.Insert"); err != nil {
		return err
	}
	n.ID, n.CreatedAt = uuid.New(), d.now()
	d.notes = append(d.notes, *n)
	return nil
}

func (s *Notes) ListByVideo(ctx context.Context, videoID uuid.UUID) ([]model.ModerationNote, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []model.ModerationNote{}
	for _, n := range d.notes {
		if n.VideoID == videoID {
			out = append(out, n)
		}
	}
	return out, nil
}
