package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/uAvicii/0718/internal/domain"
	"github.com/uAvicii/0718/internal/service/memory"
)

// memRepo is an in-memory repository used to drive a real memory.Store.
type memRepo struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]domain.Memory
	failWith error
}

func newMemRepo(seed ...domain.Memory) *memRepo {
	r := &memRepo{rows: make(map[uuid.UUID]domain.Memory)}
	for _, m := range seed {
		r.rows[m.ID] = m
	}
	return r
}

func (r *memRepo) GetAll(context.Context) ([]domain.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Memory, 0, len(r.rows))
	for _, m := range r.rows {
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *memRepo) Create(_ context.Context, m *domain.Memory) (*domain.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	r.rows[m.ID] = m.Clone()
	c := m.Clone()
	return &c, nil
}

func (r *memRepo) Update(_ context.Context, id uuid.UUID, patch domain.MemoryPatch, updatedAt time.Time) (*domain.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	m, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	m = patch.Apply(m)
	m.UpdatedAt = updatedAt
	r.rows[id] = m
	c := m.Clone()
	return &c, nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memRepo) Stats(context.Context) (*domain.StorageStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &domain.StorageStats{Total: len(r.rows), Moods: map[domain.Mood]int{}}
	for _, m := range r.rows {
		mood := m.Mood
		if mood == "" {
			mood = domain.MoodUnspecified
		}
		stats.Moods[mood]++
	}
	return stats, nil
}

type profileRepo struct{ user *domain.User }

func (p profileRepo) Get(context.Context) (*domain.User, error) {
	if p.user == nil {
		return nil, domain.ErrNotFound
	}
	return p.user, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestAPI builds an initialized store over repo and a mux with every API route.
func newTestAPI(t *testing.T, repo *memRepo, owner *domain.User) (*memory.Store, http.Handler) {
	t.Helper()

	store := memory.NewStore(discardLogger(), repo, profileRepo{user: owner})
	require.NoError(t, store.Initialize(context.Background()))

	mux := http.NewServeMux()
	NewMemoryHandler(store, discardLogger()).Register(mux)
	NewInsightHandler(store, discardLogger()).Register(mux)
	return store, mux
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedMemory(title string, date time.Time, mood domain.Mood, category domain.Category, tags []string, images []string) domain.Memory {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return domain.Memory{
		ID:        uuid.New(),
		Title:     title,
		Content:   title + " content",
		Date:      date,
		Category:  category,
		Mood:      mood,
		Tags:      tags,
		People:    []string{},
		Images:    images,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
