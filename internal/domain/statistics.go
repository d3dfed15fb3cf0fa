package domain

import (
	"time"

	"github.com/google/uuid"
)

// MonthLayout formats the year-month histogram keys.
const MonthLayout = "2006-01"

// Statistics is a snapshot derived from a memory collection. It is never persisted.
type Statistics struct {
	TotalMemories int
	TotalImages   int
	TotalTags     int
	Categories    map[Category]int
	Moods         map[Mood]int
	Years         map[int]int
}

// TagCount is one row of the popular-tags ranking.
type TagCount struct {
	Tag   string
	Count int
}

// YearGroup holds the memories of one calendar year, newest first.
type YearGroup struct {
	Year     int
	Memories []Memory
}

// MonthCount is one bucket of the year-month histogram.
type MonthCount struct {
	Month string
	Count int
}

// GalleryImage is one picture with the memory it belongs to.
type GalleryImage struct {
	MemoryID    uuid.UUID
	MemoryTitle string
	Date        time.Time
	URL         string
	Index       int
}

// StorageStats is the aggregate computed by the persistence layer.
// Moods includes MoodUnspecified for memories stored without a mood.
type StorageStats struct {
	Total  int
	Moods  map[Mood]int
	Months []MonthCount
}
