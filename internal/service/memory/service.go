// Package memory holds the session store: the single owner of the memory
// collection and the profile. Every mutation goes through the repository first
// and touches the in-memory collection only after the repository confirms it.
package memory

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uAvicii/0718/internal/domain"
)

type memoryRepo interface {
	GetAll(ctx context.Context) ([]domain.Memory, error)
	Create(ctx context.Context, m *domain.Memory) (*domain.Memory, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.MemoryPatch, updatedAt time.Time) (*domain.Memory, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*domain.StorageStats, error)
}

type profileRepo interface {
	Get(ctx context.Context) (*domain.User, error)
}

// Observer receives store events. Implemented by the metrics collector.
type Observer interface {
	ObserveMutation(op string, err error)
	SetMemoryCount(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveMutation(string, error) {}
func (nopObserver) SetMemoryCount(int)            {}

// maxIDAttempts bounds id re-draws when the repository reports a duplicate key.
const maxIDAttempts = 3

// Store owns the canonical memory collection for the process.
type Store struct {
	memories memoryRepo
	profiles profileRepo
	log      *slog.Logger
	observer Observer
	now      func() time.Time
	newID    func() uuid.UUID

	mu      sync.RWMutex
	ready   bool
	profile *domain.User
	items   []domain.Memory
}

// Option customises a Store.
type Option func(*Store)

// WithObserver attaches an event observer.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Store) { s.newID = gen }
}

// NewStore creates an uninitialized Store. Call Initialize before anything else.
func NewStore(
	log *slog.Logger,
	memories memoryRepo,
	profiles profileRepo,
	opts ...Option,
) *Store {
	s := &Store{
		memories: memories,
		profiles: profiles,
		log:      log.With("service", "memory"),
		observer: nopObserver{},
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready reports whether Initialize has completed successfully.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// timestamp returns the current time at the precision the database keeps.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// uniqueID draws ids until one is not used by the collection. Caller holds mu.
func (s *Store) uniqueID() uuid.UUID {
	for {
		id := s.newID()
		if id != uuid.Nil && s.indexOf(id) < 0 {
			return id
		}
	}
}

// indexOf returns the position of id in the collection or -1. Caller holds mu.
func (s *Store) indexOf(id uuid.UUID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// storageErr passes domain errors through and wraps everything else.
func (s *Store) storageErr(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrConflict):
		return err
	}
	s.log.ErrorContext(ctx, "storage operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return domain.NewPersistenceError(op, err)
}
