package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/uAvicii/0718/internal/domain"
	"github.com/uAvicii/0718/internal/service/memory"
	"github.com/uAvicii/0718/internal/service/memory/views"
	"github.com/uAvicii/0718/pkg/ctxutil"
)

// memoryStore is the part of memory.Store the CRUD endpoints need.
type memoryStore interface {
	Filter(c views.Criteria) ([]domain.Memory, error)
	Get(id uuid.UUID) (*domain.Memory, error)
	Add(ctx context.Context, input memory.CreateInput) (*domain.Memory, error)
	Update(ctx context.Context, id uuid.UUID, input memory.UpdateInput) (*domain.Memory, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// MemoryHandler serves /api/memories.
type MemoryHandler struct {
	store memoryStore
	log   *slog.Logger
}

// NewMemoryHandler creates a MemoryHandler.
func NewMemoryHandler(store memoryStore, logger *slog.Logger) *MemoryHandler {
	return &MemoryHandler{store: store, log: logger.With("handler", "memory")}
}

// Register mounts the handler's routes on mux.
func (h *MemoryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/memories", h.List)
	mux.HandleFunc("POST /api/memories", h.Create)
	mux.HandleFunc("GET /api/memories/{id}", h.Get)
	mux.HandleFunc("PATCH /api/memories/{id}", h.Update)
	mux.HandleFunc("DELETE /api/memories/{id}", h.Delete)
}

// List returns the collection in storage order, narrowed by the optional
// q, tag, category, mood and year query parameters.
// GET /api/memories?q=&tag=&category=&mood=&year=
func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items, err := h.store.Filter(criteria)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemoryList(items))
}

// Get returns one memory.
// GET /api/memories/{id}
func (h *MemoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	m, err := h.store.Get(id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemoryResponse(*m))
}

// Create adds a memory and returns it with its id and timestamps.
// POST /api/memories
func (h *MemoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, err := h.store.Add(r.Context(), req.toInput())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	ctxutil.LoggerFromCtx(r.Context(), h.log).DebugContext(r.Context(), "memory created via api", slog.String("id", m.ID.String()))
	w.Header().Set("Location", "/api/memories/"+m.ID.String())
	writeJSON(w, http.StatusCreated, toMemoryResponse(*m))
}

// Update merges the provided fields into the memory.
// PATCH /api/memories/{id}
func (h *MemoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateMemoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, err := h.store.Update(r.Context(), id, req.toInput())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemoryResponse(*m))
}

// Delete removes a memory. A second delete of the same id is 404.
// DELETE /api/memories/{id}
func (h *MemoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Remove(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses {id}. A malformed id cannot name a stored memory, so it is 404.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}

func parseCriteria(r *http.Request) (views.Criteria, error) {
	q := r.URL.Query()
	c := views.Criteria{
		Query: q.Get("q"),
		Tag:   strings.TrimSpace(q.Get("tag")),
	}

	var errs []domain.FieldError
	if v := strings.TrimSpace(q.Get("category")); v != "" {
		c.Category = domain.Category(v)
		if !c.Category.IsValid() {
			errs = append(errs, domain.FieldError{Field: "category", Message: "unknown category"})
		}
	}
	if v := strings.TrimSpace(q.Get("mood")); v != "" {
		c.Mood = domain.Mood(v)
		if !c.Mood.IsValid() {
			errs = append(errs, domain.FieldError{Field: "mood", Message: "unknown mood"})
		}
	}
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year <= 0 {
			errs = append(errs, domain.FieldError{Field: "year", Message: "must be a positive integer"})
		}
		c.Year = year
	}

	if len(errs) > 0 {
		return views.Criteria{}, domain.NewValidationErrors(errs)
	}
	return c, nil
}
