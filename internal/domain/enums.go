package domain

// Category is the single classification every memory carries.
type Category string

const (
	CategoryLife        Category = "life"
	CategoryTravel      Category = "travel"
	CategoryFamily      Category = "family"
	CategoryFriends     Category = "friends"
	CategoryWork        Category = "work"
	CategoryAchievement Category = "achievement"
	CategoryLove        Category = "love"
	CategoryOther       Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryLife, CategoryTravel, CategoryFamily, CategoryFriends,
	CategoryWork, CategoryAchievement, CategoryLove, CategoryOther,
}

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryLife, CategoryTravel, CategoryFamily, CategoryFriends,
		CategoryWork, CategoryAchievement, CategoryLove, CategoryOther:
		return true
	}
	return false
}

// Mood is the optional feeling attached to a memory.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodExcited   Mood = "excited"
	MoodPeaceful  Mood = "peaceful"
	MoodNostalgic Mood = "nostalgic"
	MoodGrateful  Mood = "grateful"
)

// MoodUnspecified is the histogram bucket for memories without a mood.
// It is never a valid value for Memory.Mood.
const MoodUnspecified Mood = "unspecified"

// Moods lists every assignable mood.
var Moods = []Mood{MoodHappy, MoodSad, MoodExcited, MoodPeaceful, MoodNostalgic, MoodGrateful}

func (m Mood) String() string { return string(m) }

func (m Mood) IsValid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodExcited, MoodPeaceful, MoodNostalgic, MoodGrateful:
		return true
	}
	return false
}
