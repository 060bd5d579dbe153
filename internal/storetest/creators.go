package storetest

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/WarriorSushi/supaviewer/internal/model"
	"github.com/WarriorSushi/supaviewer/internal/repository"
)

type Creators struct{ d *DB }

func (d *DB) Creators() *Creators { return &Creators{d: d} }

func (s *Creators) FindByID(ctx context.Context, id uuid.UUID) (*model.Creator, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("creators.FindByID"); err != nil {
		return nil, err
	}
	c, ok := d.creators[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *Creators) FindBySlug(ctx context.Context, slug string) (*model.Creator, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.creators {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Creators) SlugExists(ctx context.Context, slug string) (bool, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("creators.SlugExists"); err != nil {
		return false, err
	}
	return d.slugTaken(slug, uuid.Nil), nil
}

func (d *DB) slugTaken(slug string, except uuid.UUID) bool {
	for id, c := range d.creators {
		if c.Slug == slug && id != except {
			return true
		}
	}
	return false
}

// Insert enforces slug uniqueness the way the unique index does.
func (s *Creators) Insert(ctx context.Context, c *model.Creator) error {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("creators.Insert"); err != nil {
		return err
	}
	if d.slugTaken(c.Slug, uuid.Nil) {
		return repository.ErrDuplicate
	}
	now := d.now()
	c.ID, c.CreatedAt, c.UpdatedAt = uuid.New(), now, now
	d.creators[c.ID] = *c
	return nil
}

func (s *Creators) Update(ctx context.Context, id uuid.UUID, p model.CreatorPatch) (*model.Creator, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.creators[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Slug != nil && d.slugTaken(*p.Slug, id) {
		return nil, repository.ErrDuplicate
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Bio != nil {
		c.Bio = nilIfEmpty(*p.Bio)
	}
	if p.Website != nil {
		c.Website = nilIfEmpty(*p.Website)
	}
	if p.TwitterHandle != nil {
		c.TwitterHandle = nilIfEmpty(*p.TwitterHandle)
	}
	if p.AvatarURL != nil {
		c.AvatarURL = nilIfEmpty(*p.AvatarURL)
	}
	c.UpdatedAt = d.now()
	d.creators[id] = c
	return &c, nil
}

// Delete refuses while videos reference the creator, like the foreign key.
func (s *Creators) Delete(ctx context.Context, id uuid.UUID) error {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail("creators.Delete"); err != nil {
		return err
	}
	if _, ok := d.creators[id]; !ok {
		return repository.ErrNotFound
	}
	for _, v := range d.videos {
		if v.CreatorID == id {
			return repository.ErrReferenced
		}
	}
	delete(d.creators, id)
	return nil
}

func (s *Creators) ListAll(ctx context.Context) ([]model.Creator, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Creator, 0, len(d.creators))
	for _, c := range d.creators {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Creators) ListWithStats(ctx context.Context, f model.CreatorFilter) ([]model.CreatorWithStats, int, error) {
	all, _ := s.ListAll(ctx)
	term := strings.ToLower(f.Search)

	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	matched := []model.CreatorWithStats{}
	for _, c := range all {
		if term != "" && !strings.Contains(strings.ToLower(c.Name), term) && !strings.Contains(strings.ToLower(c.Email), term) {
			continue
		}
		n, avg := d.approvedStats(c.ID)
		matched = append(matched, model.CreatorWithStats{Creator: c, VideoCount: n, AvgRating: avg})
	}
	total := len(matched)
	start := min(f.Offset(), total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	return matched[start:end], total, nil
}

func (s *Creators) ApprovedStats(ctx context.Context, id uuid.UUID) (int, *float64, error) {
	d := s.d
	d.mu.Lock()
	defer d.mu.Unlock()
	n, avg := d.approvedStats(id)
	return n, avg, nil
}

// approvedStats mirrors SQL AVG: videos without an average are ignored.
func (d *DB) approvedStats(id uuid.UUID) (int, *float64) {
	n, rated := 0, 0
	var sum float64
	for _, v := range d.videos {
		if v.CreatorID != id || v.Status != model.StatusApproved {
			continue
		}
		n++
		if v.AvgRating != nil {
			sum += *v.AvgRating
			rated++
		}
	}
	if rated == 0 {
		return n, nil
	}
	avg := sum / float64(rated)
	return n, &avg
}

func (s *Creators) Search(ctx context.Context, term string, limit int) ([]model.Creator, error) {
	all, _ := s.ListAll(ctx)
	term = strings.ToLower(term)
	out := []model.Creator{}
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(strings.ToLower(c.Email), term) {
			out = append(out, c)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
