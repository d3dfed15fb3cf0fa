package views

import (
	"strings"

	"github.com/uAvicii/0718/internal/domain"
)

// Criteria combines optional predicates. Zero-valued fields are ignored and
// the remaining ones must all hold.
type Criteria struct {
	Query    string
	Tag      string
	Category domain.Category
	Mood     domain.Mood
	Year     int
}

// IsEmpty reports whether no predicate is set.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Query) == "" && c.Tag == "" && c.Category == "" && c.Mood == "" && c.Year == 0
}

// Filter applies every set predicate. A whitespace-only query is treated as unset.
func Filter(memories []domain.Memory, c Criteria) []domain.Memory {
	out := filter(memories, func(*domain.Memory) bool { return true })
	if c.IsEmpty() {
		return out
	}
	if c.Tag != "" {
		out = FilterByTag(out, c.Tag)
	}
	if c.Category != "" {
		out = FilterByCategory(out, c.Category)
	}
	if c.Mood != "" {
		out = FilterByMood(out, c.Mood)
	}
	if c.Year != 0 {
		out = FilterByYear(out, c.Year)
	}
	if q := strings.TrimSpace(c.Query); q != "" {
		out = Search(out, q)
	}
	return out
}
