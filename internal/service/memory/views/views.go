// Package views computes read-only projections (statistics, filters, rankings,
// timelines) over a memory collection. Functions never mutate their input and
// treat a nil slice as an empty collection.
package views

import (
	"strings"

	"github.com/uAvicii/0718/internal/domain"
)

// ComputeStatistics aggregates the collection in a single pass.
// Memories without a mood are left out of the mood histogram.
func ComputeStatistics(memories []domain.Memory) domain.Statistics {
	stats := domain.Statistics{
		TotalMemories: len(memories),
		Categories:    make(map[domain.Category]int),
		Moods:         make(map[domain.Mood]int),
		Years:         make(map[int]int),
	}

	tags := make(map[string]struct{})
	for i := range memories {
		m := &memories[i]
		stats.TotalImages += len(m.Images)
		for _, t := range m.Tags {
			tags[t] = struct{}{}
		}
		stats.Categories[m.Category]++
		if m.HasMood() {
			stats.Moods[m.Mood]++
		}
		stats.Years[m.Year()]++
	}
	stats.TotalTags = len(tags)

	return stats
}

// MoodHistogram counts memories per mood. With includeUnspecified set, memories
// without a mood are counted under domain.MoodUnspecified instead of being skipped.
func MoodHistogram(memories []domain.Memory, includeUnspecified bool) map[domain.Mood]int {
	out := make(map[domain.Mood]int)
	for i := range memories {
		switch {
		case memories[i].HasMood():
			out[memories[i].Mood]++
		case includeUnspecified:
			out[domain.MoodUnspecified]++
		}
	}
	return out
}

// Search returns memories whose title or content contains query, ignoring case.
// An empty query matches everything. Order is preserved.
func Search(memories []domain.Memory, query string) []domain.Memory {
	q := strings.ToLower(query)
	return filter(memories, func(m *domain.Memory) bool {
		return strings.Contains(strings.ToLower(m.Title), q) ||
			strings.Contains(strings.ToLower(m.Content), q)
	})
}

// FilterByTag returns memories carrying tag (exact, case-sensitive).
func FilterByTag(memories []domain.Memory, tag string) []domain.Memory {
	return filter(memories, func(m *domain.Memory) bool { return m.HasTag(tag) })
}

// FilterByCategory returns memories in category c.
func FilterByCategory(memories []domain.Memory, c domain.Category) []domain.Memory {
	return filter(memories, func(m *domain.Memory) bool { return m.Category == c })
}

// FilterByMood returns memories with mood md.
func FilterByMood(memories []domain.Memory, md domain.Mood) []domain.Memory {
	return filter(memories, func(m *domain.Memory) bool { return m.Mood == md })
}

// FilterByYear returns memories whose date falls in year.
func FilterByYear(memories []domain.Memory, year int) []domain.Memory {
	return filter(memories, func(m *domain.Memory) bool { return m.Year() == year })
}

func filter(memories []domain.Memory, keep func(*domain.Memory) bool) []domain.Memory {
	out := make([]domain.Memory, 0, len(memories))
	for i := range memories {
		if keep(&memories[i]) {
			out = append(out, memories[i])
		}
	}
	return out
}
