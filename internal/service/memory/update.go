package memory

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/uAvicii/0718/internal/domain"
)

// Update merges the provided fields into the memory with id. UpdatedAt always
// moves forward, even when no value changes.
func (s *Store) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, domain.ErrNotInitialized
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}

	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	prev := s.items[idx]
	updatedAt := s.timestamp()
	if !updatedAt.After(prev.UpdatedAt) {
		updatedAt = prev.UpdatedAt.Add(time.Microsecond)
	}

	updated, err := s.memories.Update(ctx, id, input.Patch(), updatedAt)
	if err != nil {
		s.observer.ObserveMutation("update", err)
		return nil, s.storageErr(ctx, "update memory", err)
	}

	s.items[idx] = *updated
	s.observer.ObserveMutation("update", nil)

	s.log.InfoContext(ctx, "memory updated", slog.String("memory_id", id.String()))

	out := updated.Clone()
	return &out, nil
}
