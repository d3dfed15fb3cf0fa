package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/uAvicii/0718/internal/domain"
	"github.com/uAvicii/0718/internal/service/memory/views"
)

// snapshot returns a deep copy of the collection so derived views never alias store state.
func (s *Store) snapshot() ([]domain.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready {
		return nil, domain.ErrNotInitialized
	}
	out := make([]domain.Memory, len(s.items))
	for i := range s.items {
		out[i] = s.items[i].Clone()
	}
	return out, nil
}

// Profile returns the owner profile, or ErrNotFound when none is stored.
func (s *Store) Profile() (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready {
		return nil, domain.ErrNotInitialized
	}
	if s.profile == nil {
		return nil, domain.ErrNotFound
	}
	p := *s.profile
	return &p, nil
}

// Get returns the memory with id.
func (s *Store) Get(id uuid.UUID) (*domain.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready {
		return nil, domain.ErrNotInitialized
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	m := s.items[idx].Clone()
	return &m, nil
}

// List returns the whole collection in storage order, newest insertion first.
func (s *Store) List() ([]domain.Memory, error) {
	return s.snapshot()
}

// ---------------------------------------------------------------------------
// Derived views. Each call is computed from the current collection.
// ---------------------------------------------------------------------------

// Search matches query against title and content, ignoring case.
func (s *Store) Search(query string) ([]domain.Memory, error) {
	items, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return views.Search(items, query), nil
}

// FilterByTag returns memories carrying tag.
func (s *Store) FilterByTag(tag string) ([]domain.Memory, error) {
	items, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return views.FilterByTag(items, tag), nil
}

// FilterByCategory returns memories in category c.
func (s *Store) FilterByCategory(c domain.Category) ([]domain.Memory, error) {
	items, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return views.FilterByCategory(items, c), nil
}

// FilterByYear returns memories dated in year.
func (s *Store) FilterByYear(year int) ([]domain.Memory, error) {
	items, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return views.FilterByYear(items, year), nil
}

// Filter applies every predicate set in c.
func (s *Store) Filter(c views.Criteria) ([]domain.Memory, error) {
	items, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return views.Filter(items, c), nil
}

// Statistics aggregates the current collection.
func (s *Store) Statistics() (domain.Statistics, error) {
	items, err := s.snapshot()
	if err != nil {
		return domain.Statistics{}, err
	}
	return views.ComputeStatistics(items), nil
}

// MoodHistogram counts moods, optionally bucketing moodless memories as unspecified.
func (s *Store) MoodHistogram(includeUnspecified bool) (map[domain.Mood]int, error) {
	items, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return views.MoodHistogram(items, includeUnspecified), nil
}

// PopularTags ranks tags by usage.
func (s *Store) PopularTags(limit int) ([]domain.TagCount, error) {
	items, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return views.PopularTags(items, limit), nil
}

// Timeline groups memories by year, newest first.
func (s *Store) Timeline() ([]domain.YearGroup, error) {
	items, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return views.GroupByYearDescending(items), nil
}

// Gallery lists every image with its memory.
func (s *Store) Gallery() ([]domain.GalleryImage, error) {
	items, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return views.Gallery(items), nil
}

// MonthlyActivity returns the year-month histogram and the most active month.
func (s *Store) MonthlyActivity() ([]domain.MonthCount, *domain.MonthCount, error) {
	items, err := s.snapshot()
	if err != nil {
		return nil, nil, err
	}
	months := views.MonthlyActivity(items)
	best, ok := views.MostActiveMonth(items)
	if !ok {
		return months, nil, nil
	}
	return months, &best, nil
}

// StorageStats asks the repository for its own aggregate.
func (s *Store) StorageStats(ctx context.Context) (*domain.StorageStats, error) {
	if !s.Ready() {
		return nil, domain.ErrNotInitialized
	}
	stats, err := s.memories.Stats(ctx)
	if err != nil {
		return nil, s.storageErr(ctx, "storage stats", err)
	}
	return stats, nil
}
