// Package memory implements the memory repository using PostgreSQL.
// Queries are built with squirrel and scanned with scany.
package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/uAvicii/0718/internal/adapter/postgres"
	"github.com/uAvicii/0718/internal/domain"
)

const (
	table  = "memories"
	entity = "memory"
)

var columns = []string{
	"id", "title", "content", "date", "category", "mood",
	"location", "weather", "music", "quote",
	"tags", "people", "images", "created_at", "updated_at",
}

var returning = "RETURNING " + joinColumns()

// Repo provides memory persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new memory repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetAll returns every memory ordered by date DESC, newest insert first within a day.
// Returns an empty slice for an empty table.
func (r *Repo) GetAll(ctx context.Context) ([]domain.Memory, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select memories: %w", err)
	}

	var rows []memoryRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select memories: %w", err)
	}

	out := make([]domain.Memory, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// GetByID returns the memory with id, or (nil, nil) when it does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Memory, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select memory: %w", err)
	}

	var row memoryRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		if postgres.IsNoRows(err) {
			return nil, nil
		}
		return nil, postgres.MapError(err, entity, id)
	}

	m := row.toDomain()
	return &m, nil
}

// Stats aggregates the table: total count, mood histogram with NULL moods
// counted as domain.MoodUnspecified, and a year-month histogram in ascending order.
func (r *Repo) Stats(ctx context.Context) (*domain.StorageStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	totalSQL, _, err := postgres.Builder().Select("count(*)").From(table).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count memories: %w", err)
	}
	var total int64
	if err := q.QueryRow(ctx, totalSQL).Scan(&total); err != nil {
		return nil, fmt.Errorf("count memories: %w", err)
	}

	moodSQL, moodArgs, err := postgres.Builder().
		Select().
		Column(squirrel.Expr("COALESCE(mood, ?) AS bucket", domain.MoodUnspecified.String())).
		Column("count(*) AS count").
		From(table).
		GroupBy("1").
		OrderBy("1").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build mood histogram: %w", err)
	}

	var moods []bucketRow
	if err := pgxscan.Select(ctx, q, &moods, moodSQL, moodArgs...); err != nil {
		return nil, fmt.Errorf("select mood histogram: %w", err)
	}

	monthSQL, _, err := postgres.Builder().
		Select("to_char(date, 'YYYY-MM') AS bucket", "count(*) AS count").
		From(table).
		GroupBy("1").
		OrderBy("1").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build month histogram: %w", err)
	}

	var months []bucketRow
	if err := pgxscan.Select(ctx, q, &months, monthSQL); err != nil {
		return nil, fmt.Errorf("select month histogram: %w", err)
	}

	stats := &domain.StorageStats{
		Total:  int(total),
		Moods:  make(map[domain.Mood]int, len(moods)),
		Months: make([]domain.MonthCount, 0, len(months)),
	}
	for _, b := range moods {
		stats.Moods[domain.Mood(b.Bucket)] = int(b.Count)
	}
	for _, b := range months {
		stats.Months = append(stats.Months, domain.MonthCount{Month: b.Bucket, Count: int(b.Count)})
	}
	return stats, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts m with its id and timestamps and returns the stored row.
// A duplicate id yields domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, m *domain.Memory) (*domain.Memory, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			m.ID, m.Title, m.Content, dateOnly(m.Date), m.Category.String(), moodValue(m.Mood),
			m.Location, m.Weather, m.Music, m.Quote,
			nonNil(m.Tags), nonNil(m.People), nonNil(m.Images), m.CreatedAt, m.UpdatedAt,
		).
		Suffix(returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert memory: %w", err)
	}

	var row memoryRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, entity, m.ID)
	}

	out := row.toDomain()
	return &out, nil
}

// Update writes only the columns present in patch plus updated_at.
// Returns domain.ErrNotFound if id does not exist.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, patch domain.MemoryPatch, updatedAt time.Time) (*domain.Memory, error) {
	b := postgres.Builder().
		Update(table).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}).
		Suffix(returning)

	if patch.Title != nil {
		b = b.Set("title", *patch.Title)
	}
	if patch.Content != nil {
		b = b.Set("content", *patch.Content)
	}
	if patch.Date != nil {
		b = b.Set("date", dateOnly(*patch.Date))
	}
	if patch.Category != nil {
		b = b.Set("category", patch.Category.String())
	}
	if patch.Mood != nil {
		b = b.Set("mood", moodValue(*patch.Mood))
	}
	if patch.Location != nil {
		b = b.Set("location", domain.OptionalString(*patch.Location))
	}
	if patch.Weather != nil {
		b = b.Set("weather", domain.OptionalString(*patch.Weather))
	}
	if patch.Music != nil {
		b = b.Set("music", domain.OptionalString(*patch.Music))
	}
	if patch.Quote != nil {
		b = b.Set("quote", domain.OptionalString(*patch.Quote))
	}
	if patch.Tags != nil {
		b = b.Set("tags", nonNil(*patch.Tags))
	}
	if patch.People != nil {
		b = b.Set("people", nonNil(*patch.People))
	}
	if patch.Images != nil {
		b = b.Set("images", nonNil(*patch.Images))
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update memory: %w", err)
	}

	var row memoryRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, sql, args...); err != nil {
		return nil, postgres.MapError(err, entity, id)
	}

	out := row.toDomain()
	return &out, nil
}

// Delete removes the memory with id. Returns domain.ErrNotFound if it does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete memory: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, entity, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}

// DeleteAll removes every memory and returns how many rows were deleted.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	sql, args, err := postgres.Builder().Delete(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete memories: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete memories: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
