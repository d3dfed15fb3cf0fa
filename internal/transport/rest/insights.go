package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/uAvicii/0718/internal/domain"
)

// insightStore is the read-only surface behind the derived views.
type insightStore interface {
	Profile() (*domain.User, error)
	Statistics() (domain.Statistics, error)
	MoodHistogram(includeUnspecified bool) (map[domain.Mood]int, error)
	PopularTags(limit int) ([]domain.TagCount, error)
	Timeline() ([]domain.YearGroup, error)
	Gallery() ([]domain.GalleryImage, error)
	MonthlyActivity() ([]domain.MonthCount, *domain.MonthCount, error)
	StorageStats(ctx context.Context) (*domain.StorageStats, error)
}

const defaultPopularTags = 10

// InsightHandler serves the profile and every derived view of the collection.
type InsightHandler struct {
	store insightStore
	log   *slog.Logger
}

// NewInsightHandler creates an InsightHandler.
func NewInsightHandler(store insightStore, logger *slog.Logger) *InsightHandler {
	return &InsightHandler{store: store, log: logger.With("handler", "insight")}
}

// Register mounts the handler's routes on mux.
func (h *InsightHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/profile", h.Profile)
	mux.HandleFunc("GET /api/statistics", h.Statistics)
	mux.HandleFunc("GET /api/statistics/storage", h.StorageStats)
	mux.HandleFunc("GET /api/tags/popular", h.PopularTags)
	mux.HandleFunc("GET /api/timeline", h.Timeline)
	mux.HandleFunc("GET /api/gallery", h.Gallery)
	mux.HandleFunc("GET /api/activity/monthly", h.MonthlyActivity)
}

// Profile returns the owner profile.
// GET /api/profile
func (h *InsightHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.Profile()
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(*u))
}

// Statistics returns totals and histograms computed from the current collection.
// GET /api/statistics[?include_unspecified_mood=true]
func (h *InsightHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Statistics()
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := statisticsResponse{
		TotalMemories: stats.TotalMemories,
		TotalImages:   stats.TotalImages,
		TotalTags:     stats.TotalTags,
		Categories:    stringKeys(stats.Categories),
		Moods:         stringKeys(stats.Moods),
		Years:         make(map[string]int, len(stats.Years)),
	}
	for y, n := range stats.Years {
		resp.Years[strconv.Itoa(y)] = n
	}

	if include, _ := strconv.ParseBool(r.URL.Query().Get("include_unspecified_mood")); include {
		moods, err := h.store.MoodHistogram(true)
		if err != nil {
			handleError(w, r, h.log, err)
			return
		}
		resp.Moods = stringKeys(moods)
	}

	_, best, err := h.store.MonthlyActivity()
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if best != nil {
		resp.MostActiveMonth = &monthCountResponse{Month: best.Month, Count: best.Count}
	}

	writeJSON(w, http.StatusOK, resp)
}

// StorageStats returns the aggregate computed by the database.
// GET /api/statistics/storage
func (h *InsightHandler) StorageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.StorageStats(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, storageStatsResponse{
		Total:  stats.Total,
		Moods:  stringKeys(stats.Moods),
		Months: toMonthCounts(stats.Months),
	})
}

// PopularTags returns the most used tags. limit defaults to 10; 0 returns all.
// GET /api/tags/popular?limit=N
func (h *InsightHandler) PopularTags(w http.ResponseWriter, r *http.Request) {
	limit := defaultPopularTags
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			handleError(w, r, h.log, domain.NewValidationError("limit", "must be a non-negative integer"))
			return
		}
		limit = n
	}

	tags, err := h.store.PopularTags(limit)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]tagCountResponse, len(tags))
	for i, t := range tags {
		out[i] = tagCountResponse{Tag: t.Tag, Count: t.Count}
	}
	writeJSON(w, http.StatusOK, out)
}

// Timeline returns memories grouped by year, newest year first.
// GET /api/timeline
func (h *InsightHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.Timeline()
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]yearGroupResponse, len(groups))
	for i, g := range groups {
		out[i] = yearGroupResponse{Year: g.Year, Memories: toMemoryList(g.Memories)}
	}
	writeJSON(w, http.StatusOK, out)
}

// Gallery returns every image with the memory it belongs to.
// GET /api/gallery
func (h *InsightHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	images, err := h.store.Gallery()
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]galleryImageResponse, len(images))
	for i, img := range images {
		out[i] = galleryImageResponse{
			MemoryID:    img.MemoryID.String(),
			MemoryTitle: img.MemoryTitle,
			Date:        Date{img.Date},
			URL:         img.URL,
			Index:       img.Index,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// MonthlyActivity returns the year-month histogram in ascending order.
// GET /api/activity/monthly
func (h *InsightHandler) MonthlyActivity(w http.ResponseWriter, r *http.Request) {
	months, best, err := h.store.MonthlyActivity()
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := monthlyActivityResponse{Months: toMonthCounts(months)}
	if best != nil {
		resp.MostActiveMonth = &monthCountResponse{Month: best.Month, Count: best.Count}
	}
	writeJSON(w, http.StatusOK, resp)
}
