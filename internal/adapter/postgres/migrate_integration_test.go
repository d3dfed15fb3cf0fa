//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uAvicii/0718/internal/adapter/postgres"
	"github.com/uAvicii/0718/internal/adapter/postgres/testhelper"
)

func TestMigrator_StatusAndUp(t *testing.T) {
	dsn := testhelper.SetupTestDSN(t)

	m, err := postgres.NewMigrator(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	ctx := context.Background()

	statuses, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.True(t, s.Applied, "migration %d should be applied", s.Version)
	}
	assert.Equal(t, int64(1), statuses[0].Version)
	assert.Equal(t, int64(2), statuses[1].Version)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}
