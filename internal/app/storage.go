package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uAvicii/0718/internal/adapter/postgres"
	memoryrepo "github.com/uAvicii/0718/internal/adapter/postgres/memory"
	profilerepo "github.com/uAvicii/0718/internal/adapter/postgres/profile"
	"github.com/uAvicii/0718/internal/app/seeder"
)

// Compile-time interface assertions.
var (
	_ seeder.MemoryWriter = (*memoryrepo.Repo)(nil)
	_ seeder.ProfileStore = (*profilerepo.Repo)(nil)
	_ seeder.TxRunner     = (*postgres.TxManager)(nil)
)

// Migrate applies pending migrations to the database at dsn.
func Migrate(ctx context.Context, logger *slog.Logger, dsn string) error {
	m, err := postgres.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	applied, err := m.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	logger.Info("migrations applied", slog.Int("count", len(applied)))
	return nil
}

// LoadFixture reads path, or the bundled sample collection when path is empty.
func LoadFixture(path string) (*seeder.Fixture, error) {
	if path == "" {
		return seeder.Default()
	}
	return seeder.LoadFile(path)
}

// Seed writes f to the database behind pool.
func Seed(ctx context.Context, logger *slog.Logger, pool *pgxpool.Pool, f *seeder.Fixture, opts seeder.Options) (*seeder.Seeder, error) {
	s := seeder.New(logger, postgres.NewTxManager(pool), memoryrepo.New(pool), profilerepo.New(pool))
	return s, s.Run(ctx, f, opts)
}

// seedIfEmpty seeds from path only when no memory is stored yet.
func seedIfEmpty(ctx context.Context, logger *slog.Logger, pool *pgxpool.Pool, path string) error {
	stats, err := memoryrepo.New(pool).Stats(ctx)
	if err != nil {
		return fmt.Errorf("count memories: %w", err)
	}
	if stats.Total > 0 {
		logger.Info("seed skipped, collection not empty", slog.Int("memories", stats.Total))
		return nil
	}

	f, err := LoadFixture(path)
	if err != nil {
		return err
	}
	if _, err := Seed(ctx, logger, pool, f, seeder.Options{}); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
