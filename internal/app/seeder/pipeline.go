package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/uAvicii/0718/internal/domain"
)

const (
	PhaseProfile  = "profile"
	PhaseMemories = "memories"
)

// allPhases defines the canonical execution order.
var allPhases = []string{PhaseProfile, PhaseMemories}

// PhaseResult holds the outcome of a single phase.
type PhaseResult struct {
	Inserted int
	Updated  int
	Deleted  int
	Skipped  int
	Duration time.Duration
	Err      error
}

// Options controls a seeding run.
type Options struct {
	// Replace deletes every stored memory before inserting.
	Replace bool
	// DryRun validates the fixture and reports what would be written.
	DryRun bool
}

// Seeder writes a Fixture to storage inside one transaction.
type Seeder struct {
	log      *slog.Logger
	tx       TxRunner
	memories MemoryWriter
	profiles ProfileStore
	now      func() time.Time
	newID    func() uuid.UUID
	results  map[string]PhaseResult
}

// New creates a Seeder.
func New(log *slog.Logger, tx TxRunner, memories MemoryWriter, profiles ProfileStore) *Seeder {
	return &Seeder{
		log:      log,
		tx:       tx,
		memories: memories,
		profiles: profiles,
		now:      time.Now,
		newID:    uuid.New,
		results:  make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (s *Seeder) Results() map[string]PhaseResult {
	return s.results
}

// HasErrors returns true if any phase failed.
func (s *Seeder) HasErrors() bool {
	for _, r := range s.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Run validates f and writes it. Nothing is written when validation fails,
// and a failing phase rolls back every earlier one.
func (s *Seeder) Run(ctx context.Context, f *Fixture, opts Options) error {
	now := s.now().UTC()

	profile, err := f.ProfileUser()
	if err != nil {
		return fmt.Errorf("fixture profile: %w", err)
	}
	records, err := f.Records(now)
	if err != nil {
		return fmt.Errorf("fixture memories: %w", err)
	}

	if opts.DryRun {
		if profile != nil {
			s.results[PhaseProfile] = PhaseResult{Skipped: 1}
		}
		s.results[PhaseMemories] = PhaseResult{Skipped: len(records)}
		s.log.Info("dry run, nothing written",
			slog.Bool("profile", profile != nil),
			slog.Int("memories", len(records)),
		)
		return nil
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, phase := range allPhases {
			start := time.Now()
			s.log.Info("starting phase", slog.String("phase", phase))

			var result PhaseResult
			switch phase {
			case PhaseProfile:
				result = s.seedProfile(ctx, profile, now)
			case PhaseMemories:
				result = s.seedMemories(ctx, records, opts.Replace)
			}
			result.Duration = time.Since(start)
			s.results[phase] = result

			if result.Err != nil {
				s.log.Warn("phase failed",
					slog.String("phase", phase),
					slog.String("error", result.Err.Error()),
					slog.Duration("duration", result.Duration),
				)
				return fmt.Errorf("phase %s: %w", phase, result.Err)
			}
			s.log.Info("phase completed",
				slog.String("phase", phase),
				slog.Int("inserted", result.Inserted),
				slog.Int("updated", result.Updated),
				slog.Int("deleted", result.Deleted),
				slog.Int("skipped", result.Skipped),
				slog.Duration("duration", result.Duration),
			)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("seeding completed", slog.Int("phases_run", len(allPhases)))
	return nil
}

// seedProfile overwrites the existing profile in place or creates one.
func (s *Seeder) seedProfile(ctx context.Context, u *domain.User, now time.Time) PhaseResult {
	if u == nil {
		return PhaseResult{Skipped: 1}
	}

	existing, err := s.profiles.Get(ctx)
	switch {
	case err == nil:
		u.ID = existing.ID
		u.CreatedAt = existing.CreatedAt
	case errors.Is(err, domain.ErrNotFound):
		u.ID = s.newID()
		u.CreatedAt = now
	default:
		return PhaseResult{Err: fmt.Errorf("get profile: %w", err)}
	}
	u.UpdatedAt = now

	if _, err := s.profiles.Upsert(ctx, u); err != nil {
		return PhaseResult{Err: fmt.Errorf("upsert profile: %w", err)}
	}
	if existing != nil {
		return PhaseResult{Updated: 1}
	}
	return PhaseResult{Inserted: 1}
}

func (s *Seeder) seedMemories(ctx context.Context, records []domain.Memory, replace bool) PhaseResult {
	var result PhaseResult

	if replace {
		n, err := s.memories.DeleteAll(ctx)
		if err != nil {
			return PhaseResult{Err: fmt.Errorf("delete memories: %w", err)}
		}
		result.Deleted = n
	}

	for i := range records {
		records[i].ID = s.newID()
		if _, err := s.memories.Create(ctx, &records[i]); err != nil {
			result.Err = fmt.Errorf("create memory %q: %w", records[i].Title, err)
			return result
		}
		result.Inserted++
	}
	return result
}
