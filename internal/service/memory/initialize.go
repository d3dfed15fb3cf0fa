package memory

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/uAvicii/0718/internal/domain"
)

// Initialize loads the profile and the full collection from the repositories
// and replaces whatever the store held. On failure the previous state is kept.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		profile *domain.User
		items   []domain.Memory
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.Get(gctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return s.storageErr(gctx, "load profile", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		all, err := s.memories.GetAll(gctx)
		if err != nil {
			return s.storageErr(gctx, "load memories", err)
		}
		items = all
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if items == nil {
		items = []domain.Memory{}
	}
	s.profile = profile
	s.items = items
	s.ready = true
	s.observer.SetMemoryCount(len(items))

	s.log.InfoContext(ctx, "store initialized",
		slog.Int("memories", len(items)),
		slog.Bool("profile", profile != nil),
	)

	return nil
}
