package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uAvicii/0718/internal/domain"
)

type memoryRow struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Date      time.Time `db:"date"`
	Category  string    `db:"category"`
	Mood      *string   `db:"mood"`
	Location  *string   `db:"location"`
	Weather   *string   `db:"weather"`
	Music     *string   `db:"music"`
	Quote     *string   `db:"quote"`
	Tags      []string  `db:"tags"`
	People    []string  `db:"people"`
	Images    []string  `db:"images"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r memoryRow) toDomain() domain.Memory {
	m := domain.Memory{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Date:      r.Date,
		Category:  domain.Category(r.Category),
		Location:  r.Location,
		Weather:   r.Weather,
		Music:     r.Music,
		Quote:     r.Quote,
		Tags:      nonNil(r.Tags),
		People:    nonNil(r.People),
		Images:    nonNil(r.Images),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.Mood != nil {
		m.Mood = domain.Mood(*r.Mood)
	}
	return m
}

type bucketRow struct {
	Bucket string `db:"bucket"`
	Count  int64  `db:"count"`
}

// dateOnly drops the clock part so the DATE column gets the calendar day the
// caller sees in the value's own location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func moodValue(m domain.Mood) *string {
	if m == "" {
		return nil
	}
	s := m.String()
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func joinColumns() string {
	return strings.Join(columns, ", ")
}
