package memory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/uAvicii/0718/internal/domain"
)

// Add validates input, persists a new memory and puts it at the front of the collection.
func (s *Store) Add(ctx context.Context, input CreateInput) (*domain.Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, domain.ErrNotInitialized
	}

	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.timestamp()
	m := domain.Memory{
		Title:     input.Title,
		Content:   input.Content,
		Date:      input.Date,
		Category:  input.Category,
		Mood:      input.Mood,
		Location:  input.Location,
		Weather:   input.Weather,
		Music:     input.Music,
		Quote:     input.Quote,
		Tags:      input.Tags,
		People:    input.People,
		Images:    input.Images,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var (
		created *domain.Memory
		err     error
	)
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		m.ID = s.uniqueID()
		created, err = s.memories.Create(ctx, &m)
		if !errors.Is(err, domain.ErrAlreadyExists) {
			break
		}
		s.log.WarnContext(ctx, "memory id collision, retrying", slog.String("memory_id", m.ID.String()))
	}
	if err != nil {
		s.observer.ObserveMutation("create", err)
		return nil, s.storageErr(ctx, "create memory", err)
	}

	s.items = append([]domain.Memory{*created}, s.items...)
	s.observer.ObserveMutation("create", nil)
	s.observer.SetMemoryCount(len(s.items))

	s.log.InfoContext(ctx, "memory created",
		slog.String("memory_id", created.ID.String()),
		slog.String("category", created.Category.String()),
	)

	out := created.Clone()
	return &out, nil
}
