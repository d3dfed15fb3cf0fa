package resilient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uAvicii/0718/internal/config"
	"github.com/uAvicii/0718/internal/domain"
)

type stubRepo struct {
	calls   atomic.Int32
	getAll  func(ctx context.Context, call int32) ([]domain.Memory, error)
	create  func(ctx context.Context) (*domain.Memory, error)
	getByID func(ctx context.Context) (*domain.Memory, error)
}

func (s *stubRepo) GetAll(ctx context.Context) ([]domain.Memory, error) {
	return s.getAll(ctx, s.calls.Add(1))
}

func (s *stubRepo) GetByID(ctx context.Context, _ uuid.UUID) (*domain.Memory, error) {
	s.calls.Add(1)
	return s.getByID(ctx)
}

func (s *stubRepo) Create(ctx context.Context, _ *domain.Memory) (*domain.Memory, error) {
	s.calls.Add(1)
	return s.create(ctx)
}

func (s *stubRepo) Update(context.Context, uuid.UUID, domain.MemoryPatch, time.Time) (*domain.Memory, error) {
	return nil, nil
}

func (s *stubRepo) Delete(context.Context, uuid.UUID) error { return nil }

func (s *stubRepo) Stats(context.Context) (*domain.StorageStats, error) { return nil, nil }

func testConfig() config.ResilienceConfig {
	return config.ResilienceConfig{
		OpTimeout:          50 * time.Millisecond,
		MaxRetries:         2,
		InitialBackoff:     time.Millisecond,
		MaxBackoff:         2 * time.Millisecond,
		BreakerFailures:    3,
		BreakerOpenTimeout: time.Hour,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errTransient = errors.New("connection refused")

func TestGetAll_RetriesTransientErrors(t *testing.T) {
	t.Parallel()

	stub := &stubRepo{getAll: func(_ context.Context, call int32) ([]domain.Memory, error) {
		if call < 3 {
			return nil, errTransient
		}
		return []domain.Memory{{Title: "ok"}}, nil
	}}
	cfg := testConfig()
	cfg.BreakerFailures = 10
	repo := NewGuard("test", cfg, testLogger(), nil).Memories(stub)

	got, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int32(3), stub.calls.Load())
}

func TestGetAll_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	stub := &stubRepo{getAll: func(context.Context, int32) ([]domain.Memory, error) {
		return nil, errTransient
	}}
	cfg := testConfig()
	cfg.BreakerFailures = 10
	repo := NewGuard("test", cfg, testLogger(), nil).Memories(stub)

	_, err := repo.GetAll(context.Background())
	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, int32(3), stub.calls.Load())
}

func TestGetByID_DomainErrorsAreNotRetried(t *testing.T) {
	t.Parallel()

	stub := &stubRepo{getByID: func(context.Context) (*domain.Memory, error) {
		return nil, domain.ErrNotFound
	}}
	repo := NewGuard("test", testConfig(), testLogger(), nil).Memories(stub)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestGetByID_NilResultPassesThrough(t *testing.T) {
	t.Parallel()

	stub := &stubRepo{getByID: func(context.Context) (*domain.Memory, error) {
		return nil, nil
	}}
	repo := NewGuard("test", testConfig(), testLogger(), nil).Memories(stub)

	got, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreate_IsNotRetried(t *testing.T) {
	t.Parallel()

	stub := &stubRepo{create: func(context.Context) (*domain.Memory, error) {
		return nil, errTransient
	}}
	repo := NewGuard("test", testConfig(), testLogger(), nil).Memories(stub)

	_, err := repo.Create(context.Background(), &domain.Memory{})
	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestOpTimeout_AppliesPerCall(t *testing.T) {
	t.Parallel()

	stub := &stubRepo{create: func(ctx context.Context) (*domain.Memory, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	repo := NewGuard("test", testConfig(), testLogger(), nil).Memories(stub)

	_, err := repo.Create(context.Background(), &domain.Memory{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	stub := &stubRepo{create: func(context.Context) (*domain.Memory, error) {
		return nil, errTransient
	}}

	var transitions []gobreaker.State
	g := NewGuard("test", testConfig(), testLogger(), func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	})
	repo := g.Memories(stub)

	for range 3 {
		_, err := repo.Create(context.Background(), &domain.Memory{})
		require.ErrorIs(t, err, errTransient)
	}
	assert.Equal(t, gobreaker.StateOpen, g.State())
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)

	_, err := repo.Create(context.Background(), &domain.Memory{})
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), stub.calls.Load())
}

func TestBreaker_IgnoresDomainErrors(t *testing.T) {
	t.Parallel()

	stub := &stubRepo{create: func(context.Context) (*domain.Memory, error) {
		return nil, domain.ErrAlreadyExists
	}}
	g := NewGuard("test", testConfig(), testLogger(), nil)
	repo := g.Memories(stub)

	for range 5 {
		_, err := repo.Create(context.Background(), &domain.Memory{})
		require.ErrorIs(t, err, domain.ErrAlreadyExists)
	}
	assert.Equal(t, gobreaker.StateClosed, g.State())
}

type stubProfiles struct{ err error }

func (s stubProfiles) Get(context.Context) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{Name: "owner"}, nil
}

func TestProfiles_Get(t *testing.T) {
	t.Parallel()

	g := NewGuard("test", testConfig(), testLogger(), nil)

	u, err := g.Profiles(stubProfiles{}).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "owner", u.Name)

	_, err = g.Profiles(stubProfiles{err: domain.ErrNotFound}).Get(context.Background())
	require.ErrorIs(t, err, domain.ErrNotFound)
}
