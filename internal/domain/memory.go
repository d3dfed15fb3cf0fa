package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used for Memory.Date on the wire and in storage.
const DateLayout = "2006-01-02"

// Memory is one journaled entry. Date is the day of the remembered event and is
// independent of CreatedAt. An empty Mood means no mood was recorded.
type Memory struct {
	ID        uuid.UUID
	Title     string
	Content   string
	Date      time.Time
	Category  Category
	Mood      Mood
	Location  *string
	Weather   *string
	Music     *string
	Quote     *string
	Tags      []string
	People    []string
	Images    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMood reports whether a mood was recorded.
func (m *Memory) HasMood() bool { return m.Mood != "" }

// Year returns the calendar year of Date in Date's own location.
func (m *Memory) Year() int { return m.Date.Year() }

// HasTag reports whether tag is one of the memory's tags (case-sensitive).
func (m *Memory) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CoverImage returns the first image, which is the display cover.
func (m *Memory) CoverImage() (string, bool) {
	if len(m.Images) == 0 {
		return "", false
	}
	return m.Images[0], true
}

// Clone returns a deep copy so callers cannot alias the store's slices.
func (m Memory) Clone() Memory {
	m.Location = cloneString(m.Location)
	m.Weather = cloneString(m.Weather)
	m.Music = cloneString(m.Music)
	m.Quote = cloneString(m.Quote)
	m.Tags = cloneSlice(m.Tags)
	m.People = cloneSlice(m.People)
	m.Images = cloneSlice(m.Images)
	return m
}

// MemoryPatch carries a partial update. Nil fields are left unchanged.
// An empty string on an optional text field (or Mood) clears it.
type MemoryPatch struct {
	Title    *string
	Content  *string
	Date     *time.Time
	Category *Category
	Mood     *Mood
	Location *string
	Weather  *string
	Music    *string
	Quote    *string
	Tags     *[]string
	People   *[]string
	Images   *[]string
}

// Apply merges the patch into m and returns the result. ID and timestamps are untouched.
func (p MemoryPatch) Apply(m Memory) Memory {
	out := m.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.Date != nil {
		out.Date = *p.Date
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Mood != nil {
		out.Mood = *p.Mood
	}
	if p.Location != nil {
		out.Location = OptionalString(*p.Location)
	}
	if p.Weather != nil {
		out.Weather = OptionalString(*p.Weather)
	}
	if p.Music != nil {
		out.Music = OptionalString(*p.Music)
	}
	if p.Quote != nil {
		out.Quote = OptionalString(*p.Quote)
	}
	if p.Tags != nil {
		out.Tags = cloneSlice(*p.Tags)
	}
	if p.People != nil {
		out.People = cloneSlice(*p.People)
	}
	if p.Images != nil {
		out.Images = cloneSlice(*p.Images)
	}
	return out
}

// OptionalString returns nil for an empty string and a pointer to s otherwise.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
