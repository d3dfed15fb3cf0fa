package resilient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/uAvicii/0718/internal/domain"
)

type memoryRepo interface {
	GetAll(ctx context.Context) ([]domain.Memory, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Memory, error)
	Create(ctx context.Context, m *domain.Memory) (*domain.Memory, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.MemoryPatch, updatedAt time.Time) (*domain.Memory, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*domain.StorageStats, error)
}

type profileRepo interface {
	Get(ctx context.Context) (*domain.User, error)
}

// MemoryRepo decorates a memory repository with the Guard's policy.
type MemoryRepo struct {
	inner memoryRepo
	g     *Guard
}

// Memories wraps inner.
func (g *Guard) Memories(inner memoryRepo) *MemoryRepo {
	return &MemoryRepo{inner: inner, g: g}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

func (r *MemoryRepo) GetAll(ctx context.Context) ([]domain.Memory, error) {
	return run(ctx, r.g, "memories.get_all", true, r.inner.GetAll)
}

func (r *MemoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Memory, error) {
	return run(ctx, r.g, "memories.get_by_id", true, func(ctx context.Context) (*domain.Memory, error) {
		return r.inner.GetByID(ctx, id)
	})
}

func (r *MemoryRepo) Stats(ctx context.Context) (*domain.StorageStats, error) {
	return run(ctx, r.g, "memories.stats", true, r.inner.Stats)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Writes are never retried: a timed-out insert may still have committed.

func (r *MemoryRepo) Create(ctx context.Context, m *domain.Memory) (*domain.Memory, error) {
	return run(ctx, r.g, "memories.create", false, func(ctx context.Context) (*domain.Memory, error) {
		return r.inner.Create(ctx, m)
	})
}

func (r *MemoryRepo) Update(ctx context.Context, id uuid.UUID, patch domain.MemoryPatch, updatedAt time.Time) (*domain.Memory, error) {
	return run(ctx, r.g, "memories.update", false, func(ctx context.Context) (*domain.Memory, error) {
		return r.inner.Update(ctx, id, patch, updatedAt)
	})
}

func (r *MemoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := run(ctx, r.g, "memories.delete", false, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.inner.Delete(ctx, id)
	})
	return err
}

// ProfileRepo decorates a profile repository with the Guard's policy.
type ProfileRepo struct {
	inner profileRepo
	g     *Guard
}

// Profiles wraps inner.
func (g *Guard) Profiles(inner profileRepo) *ProfileRepo {
	return &ProfileRepo{inner: inner, g: g}
}

func (r *ProfileRepo) Get(ctx context.Context) (*domain.User, error) {
	return run(ctx, r.g, "profile.get", true, r.inner.Get)
}
