package memory

import (
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/uAvicii/0718/internal/domain"
)

// Remove deletes the memory with id. Removing an id that is gone fails with ErrNotFound.
func (s *Store) Remove(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return domain.ErrNotInitialized
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.ErrNotFound
	}

	if err := s.memories.Delete(ctx, id); err != nil {
		s.observer.ObserveMutation("delete", err)
		return s.storageErr(ctx, "delete memory", err)
	}

	s.items = slices.Delete(s.items, idx, idx+1)
	s.observer.ObserveMutation("delete", nil)
	s.observer.SetMemoryCount(len(s.items))

	s.log.InfoContext(ctx, "memory deleted", slog.String("memory_id", id.String()))

	return nil
}
