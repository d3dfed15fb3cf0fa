// Package seeder loads memory fixtures into storage.
package seeder

import (
	"context"

	"github.com/uAvicii/0718/internal/domain"
)

// MemoryWriter is the storage contract for seeded memories.
// Implemented by postgres memory.Repo.
type MemoryWriter interface {
	Create(ctx context.Context, m *domain.Memory) (*domain.Memory, error)
	DeleteAll(ctx context.Context) (int, error)
}

// ProfileStore is the storage contract for the seeded profile. Get returns
// domain.ErrNotFound when no profile exists.
// Implemented by postgres profile.Repo.
type ProfileStore interface {
	Get(ctx context.Context) (*domain.User, error)
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
}

// TxRunner runs fn inside one transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
