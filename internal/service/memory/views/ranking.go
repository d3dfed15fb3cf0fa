package views

import (
	"cmp"
	"slices"

	"github.com/uAvicii/0718/internal/domain"
)

// PopularTags ranks tags by the number of memories carrying them, most used first.
// Equal counts keep the order in which tags were first seen while scanning the
// collection. A limit <= 0 returns every tag.
func PopularTags(memories []domain.Memory, limit int) []domain.TagCount {
	index := make(map[string]int)
	ranked := make([]domain.TagCount, 0)
	for i := range memories {
		for _, t := range memories[i].Tags {
			pos, ok := index[t]
			if !ok {
				pos = len(ranked)
				index[t] = pos
				ranked = append(ranked, domain.TagCount{Tag: t})
			}
			ranked[pos].Count++
		}
	}

	slices.SortStableFunc(ranked, func(a, b domain.TagCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// GroupByYearDescending partitions memories by year of Date. Years come newest
// first and each group is sorted by date, newest first. Same-day memories keep
// their relative input order.
func GroupByYearDescending(memories []domain.Memory) []domain.YearGroup {
	byYear := make(map[int][]domain.Memory)
	years := make([]int, 0)
	for i := range memories {
		y := memories[i].Year()
		if _, ok := byYear[y]; !ok {
			years = append(years, y)
		}
		byYear[y] = append(byYear[y], memories[i])
	}

	slices.SortFunc(years, func(a, b int) int { return cmp.Compare(b, a) })

	groups := make([]domain.YearGroup, 0, len(years))
	for _, y := range years {
		list := byYear[y]
		slices.SortStableFunc(list, func(a, b domain.Memory) int {
			return b.Date.Compare(a.Date)
		})
		groups = append(groups, domain.YearGroup{Year: y, Memories: list})
	}
	return groups
}

// MonthlyActivity counts memories per year-month of Date, oldest month first.
func MonthlyActivity(memories []domain.Memory) []domain.MonthCount {
	counts := make(map[string]int)
	for i := range memories {
		counts[memories[i].Date.Format(domain.MonthLayout)]++
	}

	out := make([]domain.MonthCount, 0, len(counts))
	for month, n := range counts {
		out = append(out, domain.MonthCount{Month: month, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.MonthCount) int { return cmp.Compare(a.Month, b.Month) })
	return out
}

// MostActiveMonth returns the month with the most memories. The earliest month
// wins a tie. ok is false for an empty collection.
func MostActiveMonth(memories []domain.Memory) (best domain.MonthCount, ok bool) {
	for _, mc := range MonthlyActivity(memories) {
		if mc.Count > best.Count {
			best, ok = mc, true
		}
	}
	return best, ok
}

// Gallery flattens every image of every memory, in collection order then image order.
func Gallery(memories []domain.Memory) []domain.GalleryImage {
	out := make([]domain.GalleryImage, 0)
	for i := range memories {
		m := &memories[i]
		for j, url := range m.Images {
			out = append(out, domain.GalleryImage{
				MemoryID:    m.ID,
				MemoryTitle: m.Title,
				Date:        m.Date,
				URL:         url,
				Index:       j,
			})
		}
	}
	return out
}
