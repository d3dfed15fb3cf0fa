// Package profile implements the single-owner profile repository using PostgreSQL.
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/uAvicii/0718/internal/adapter/postgres"
	"github.com/uAvicii/0718/internal/domain"
)

const (
	table  = "profiles"
	entity = "profile"
)

var columns = []string{
	"id", "name", "avatar_url", "bio", "birth_date", "favorite_quote", "created_at", "updated_at",
}

type profileRow struct {
	ID            uuid.UUID  `db:"id"`
	Name          string     `db:"name"`
	AvatarURL     *string    `db:"avatar_url"`
	Bio           *string    `db:"bio"`
	BirthDate     *time.Time `db:"birth_date"`
	FavoriteQuote *string    `db:"favorite_quote"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (r profileRow) toDomain() domain.User {
	return domain.User{
		ID:            r.ID,
		Name:          r.Name,
		AvatarURL:     r.AvatarURL,
		Bio:           r.Bio,
		BirthDate:     r.BirthDate,
		FavoriteQuote: r.FavoriteQuote,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

// Repo provides profile persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new profile repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Get returns the owner profile: the oldest row in the table.
// Returns domain.ErrNotFound when no profile has been stored yet.
func (r *Repo) Get(ctx context.Context) (*domain.User, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select profile: %w", err)
	}

	var row profileRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, entity, "owner")
	}

	u := row.toDomain()
	return &u, nil
}

// Upsert inserts u or overwrites the row with the same id, keeping created_at.
func (r *Repo) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(u.ID, u.Name, u.AvatarURL, u.Bio, u.BirthDate, u.FavoriteQuote, u.CreatedAt, u.UpdatedAt).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			avatar_url = EXCLUDED.avatar_url,
			bio = EXCLUDED.bio,
			birth_date = EXCLUDED.birth_date,
			favorite_quote = EXCLUDED.favorite_quote,
			updated_at = EXCLUDED.updated_at
		RETURNING id, name, avatar_url, bio, birth_date, favorite_quote, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert profile: %w", err)
	}

	var row profileRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, entity, u.ID)
	}

	out := row.toDomain()
	return &out, nil
}
