package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uAvicii/0718/internal/domain"
)

var _ memoryRepo = &memoryRepoMock{}

type memoryRepoMock struct {
	GetAllFunc func(ctx context.Context) ([]domain.Memory, error)
	CreateFunc func(ctx context.Context, m *domain.Memory) (*domain.Memory, error)
	UpdateFunc func(ctx context.Context, id uuid.UUID, patch domain.MemoryPatch, updatedAt time.Time) (*domain.Memory, error)
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
	StatsFunc  func(ctx context.Context) (*domain.StorageStats, error)

	calls struct {
		GetAll []struct{}
		Create []struct {
			M *domain.Memory
		}
		Update []struct {
			ID        uuid.UUID
			Patch     domain.MemoryPatch
			UpdatedAt time.Time
		}
		Delete []struct {
			ID uuid.UUID
		}
		Stats []struct{}
	}
	lockGetAll sync.RWMutex
	lockCreate sync.RWMutex
	lockUpdate sync.RWMutex
	lockDelete sync.RWMutex
	lockStats  sync.RWMutex
}

func (mock *memoryRepoMock) GetAll(ctx context.Context) ([]domain.Memory, error) {
	if mock.GetAllFunc == nil {
		panic("memoryRepoMock.GetAllFunc: method is nil but memoryRepo.GetAll was just called")
	}
	mock.lockGetAll.Lock()
	mock.calls.GetAll = append(mock.calls.GetAll, struct{}{})
	mock.lockGetAll.Unlock()
	return mock.GetAllFunc(ctx)
}

func (mock *memoryRepoMock) GetAllCalls() []struct{} {
	mock.lockGetAll.RLock()
	calls := mock.calls.GetAll
	mock.lockGetAll.RUnlock()
	return calls
}

func (mock *memoryRepoMock) Create(ctx context.Context, m *domain.Memory) (*domain.Memory, error) {
	if mock.CreateFunc == nil {
		panic("memoryRepoMock.CreateFunc: method is nil but memoryRepo.Create was just called")
	}
	callInfo := struct{ M *domain.Memory }{M: m}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, m)
}

func (mock *memoryRepoMock) CreateCalls() []struct{ M *domain.Memory } {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *memoryRepoMock) Update(ctx context.Context, id uuid.UUID, patch domain.MemoryPatch, updatedAt time.Time) (*domain.Memory, error) {
	if mock.UpdateFunc == nil {
		panic("memoryRepoMock.UpdateFunc: method is nil but memoryRepo.Update was just called")
	}
	callInfo := struct {
		ID        uuid.UUID
		Patch     domain.MemoryPatch
		UpdatedAt time.Time
	}{ID: id, Patch: patch, UpdatedAt: updatedAt}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, id, patch, updatedAt)
}

func (mock *memoryRepoMock) UpdateCalls() []struct {
	ID        uuid.UUID
	Patch     domain.MemoryPatch
	UpdatedAt time.Time
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *memoryRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("memoryRepoMock.DeleteFunc: method is nil but memoryRepo.Delete was just called")
	}
	callInfo := struct{ ID uuid.UUID }{ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *memoryRepoMock) DeleteCalls() []struct{ ID uuid.UUID } {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *memoryRepoMock) Stats(ctx context.Context) (*domain.StorageStats, error) {
	if mock.StatsFunc == nil {
		panic("memoryRepoMock.StatsFunc: method is nil but memoryRepo.Stats was just called")
	}
	mock.lockStats.Lock()
	mock.calls.Stats = append(mock.calls.Stats, struct{}{})
	mock.lockStats.Unlock()
	return mock.StatsFunc(ctx)
}

func (mock *memoryRepoMock) StatsCalls() []struct{} {
	mock.lockStats.RLock()
	calls := mock.calls.Stats
	mock.lockStats.RUnlock()
	return calls
}

var _ profileRepo = &profileRepoMock{}

type profileRepoMock struct {
	GetFunc func(ctx context.Context) (*domain.User, error)

	calls struct {
		Get []struct{}
	}
	lockGet sync.RWMutex
}

func (mock *profileRepoMock) Get(ctx context.Context) (*domain.User, error) {
	if mock.GetFunc == nil {
		panic("profileRepoMock.GetFunc: method is nil but profileRepo.Get was just called")
	}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, struct{}{})
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx)
}

func (mock *profileRepoMock) GetCalls() []struct{} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}
