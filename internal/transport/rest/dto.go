package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/uAvicii/0718/internal/domain"
	"github.com/uAvicii/0718/internal/service/memory"
)

// Date is a calendar day on the wire: "2006-01-02". RFC 3339 timestamps are
// accepted on input and reduced to their date part.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(domain.DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string")
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC), nil
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

type memoryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      Date      `json:"date"`
	Category  string    `json:"category"`
	Mood      *string   `json:"mood,omitempty"`
	Location  *string   `json:"location,omitempty"`
	Weather   *string   `json:"weather,omitempty"`
	Music     *string   `json:"music,omitempty"`
	Quote     *string   `json:"quote,omitempty"`
	Tags      []string  `json:"tags"`
	People    []string  `json:"people"`
	Images    []string  `json:"images"`
	Cover     *string   `json:"cover,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toMemoryResponse(m domain.Memory) memoryResponse {
	resp := memoryResponse{
		ID:        m.ID.String(),
		Title:     m.Title,
		Content:   m.Content,
		Date:      Date{m.Date},
		Category:  m.Category.String(),
		Location:  m.Location,
		Weather:   m.Weather,
		Music:     m.Music,
		Quote:     m.Quote,
		Tags:      nonNil(m.Tags),
		People:    nonNil(m.People),
		Images:    nonNil(m.Images),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.HasMood() {
		mood := m.Mood.String()
		resp.Mood = &mood
	}
	if cover, ok := m.CoverImage(); ok {
		resp.Cover = &cover
	}
	return resp
}

func toMemoryList(ms []domain.Memory) []memoryResponse {
	out := make([]memoryResponse, len(ms))
	for i := range ms {
		out[i] = toMemoryResponse(ms[i])
	}
	return out
}

type profileResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	AvatarURL     *string   `json:"avatarUrl,omitempty"`
	Bio           *string   `json:"bio,omitempty"`
	BirthDate     *Date     `json:"birthDate,omitempty"`
	FavoriteQuote *string   `json:"favoriteQuote,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toProfileResponse(u domain.User) profileResponse {
	resp := profileResponse{
		ID:            u.ID.String(),
		Name:          u.Name,
		AvatarURL:     u.AvatarURL,
		Bio:           u.Bio,
		FavoriteQuote: u.FavoriteQuote,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if u.BirthDate != nil {
		resp.BirthDate = &Date{*u.BirthDate}
	}
	return resp
}

type statisticsResponse struct {
	TotalMemories   int                 `json:"totalMemories"`
	TotalImages     int                 `json:"totalImages"`
	TotalTags       int                 `json:"totalTags"`
	Categories      map[string]int      `json:"categories"`
	Moods           map[string]int      `json:"moods"`
	Years           map[string]int      `json:"years"`
	MostActiveMonth *monthCountResponse `json:"mostActiveMonth,omitempty"`
}

type monthCountResponse struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type tagCountResponse struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type yearGroupResponse struct {
	Year     int              `json:"year"`
	Memories []memoryResponse `json:"memories"`
}

type galleryImageResponse struct {
	MemoryID    string `json:"memoryId"`
	MemoryTitle string `json:"memoryTitle"`
	Date        Date   `json:"date"`
	URL         string `json:"url"`
	Index       int    `json:"index"`
}

type monthlyActivityResponse struct {
	Months          []monthCountResponse `json:"months"`
	MostActiveMonth *monthCountResponse  `json:"mostActiveMonth,omitempty"`
}

type storageStatsResponse struct {
	Total  int                  `json:"total"`
	Moods  map[string]int       `json:"moods"`
	Months []monthCountResponse `json:"months"`
}

func toMonthCounts(ms []domain.MonthCount) []monthCountResponse {
	out := make([]monthCountResponse, len(ms))
	for i, m := range ms {
		out[i] = monthCountResponse{Month: m.Month, Count: m.Count}
	}
	return out
}

func stringKeys[K ~string](m map[K]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

type createMemoryRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Date     *Date    `json:"date"`
	Category string   `json:"category"`
	Mood     string   `json:"mood"`
	Location *string  `json:"location"`
	Weather  *string  `json:"weather"`
	Music    *string  `json:"music"`
	Quote    *string  `json:"quote"`
	Tags     []string `json:"tags"`
	People   []string `json:"people"`
	Images   []string `json:"images"`
}

func (req createMemoryRequest) toInput() memory.CreateInput {
	in := memory.CreateInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: domain.Category(req.Category),
		Mood:     domain.Mood(req.Mood),
		Location: req.Location,
		Weather:  req.Weather,
		Music:    req.Music,
		Quote:    req.Quote,
		Tags:     req.Tags,
		People:   req.People,
		Images:   req.Images,
	}
	if req.Date != nil {
		in.Date = req.Date.Time
	}
	return in
}

// updateMemoryRequest uses pointers so an absent key leaves the field alone.
// An empty string clears optional text fields and the mood.
type updateMemoryRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Date     *Date     `json:"date"`
	Category *string   `json:"category"`
	Mood     *string   `json:"mood"`
	Location *string   `json:"location"`
	Weather  *string   `json:"weather"`
	Music    *string   `json:"music"`
	Quote    *string   `json:"quote"`
	Tags     *[]string `json:"tags"`
	People   *[]string `json:"people"`
	Images   *[]string `json:"images"`
}

func (req updateMemoryRequest) toInput() memory.UpdateInput {
	in := memory.UpdateInput{
		Title:    req.Title,
		Content:  req.Content,
		Location: req.Location,
		Weather:  req.Weather,
		Music:    req.Music,
		Quote:    req.Quote,
		Tags:     req.Tags,
		People:   req.People,
		Images:   req.Images,
	}
	if req.Date != nil {
		d := req.Date.Time
		in.Date = &d
	}
	if req.Category != nil {
		c := domain.Category(*req.Category)
		in.Category = &c
	}
	if req.Mood != nil {
		m := domain.Mood(*req.Mood)
		in.Mood = &m
	}
	return in
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
