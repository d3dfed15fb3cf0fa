//go:build integration || e2e

package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uAvicii/0718/internal/domain"
)

// ResetMemories empties the memories table. Integration tests in one package
// share the container, so they call this and run sequentially.
func ResetMemories(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), `TRUNCATE memories, profiles`); err != nil {
		t.Fatalf("testhelper: truncate: %v", err)
	}
}

// SeedMemory inserts a memory with the given title, date and tags.
func SeedMemory(t *testing.T, pool *pgxpool.Pool, title string, date time.Time, tags ...string) domain.Memory {
	t.Helper()

	if tags == nil {
		tags = []string{}
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	m := domain.Memory{
		ID:        uuid.New(),
		Title:     title,
		Content:   "content of " + title,
		Date:      date,
		Category:  domain.CategoryLife,
		Tags:      tags,
		People:    []string{},
		Images:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO memories (id, title, content, date, category, tags, people, images, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.Title, m.Content, m.Date, string(m.Category), m.Tags, m.People, m.Images, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMemory: %v", err)
	}
	return m
}
