package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/uAvicii/0718/internal/domain"
	"github.com/uAvicii/0718/pkg/ctxutil"
)

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Error  string          `json:"error"`
	Fields []fieldResponse `json:"fields,omitempty"`
}

type fieldResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleError maps domain errors to HTTP statuses. Validation and not-found
// messages are shown to the user as they are; storage failures are logged and
// replaced by a generic message.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		resp := errorResponse{Error: ve.Error(), Fields: make([]fieldResponse, len(ve.Errors))}
		for i, fe := range ve.Errors {
			resp.Fields[i] = fieldResponse{Field: fe.Field, Message: fe.Message}
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, domain.ErrNotInitialized):
		writeError(w, http.StatusServiceUnavailable, "not ready")
	case errors.Is(err, domain.ErrPersistence):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		ctxutil.LoggerFromCtx(r.Context(), log).ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a bounded JSON body and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

const maxBodyBytes = 1 << 20
