package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/remote"
	"github.com/MrJamesThe3rd/dindin/internal/statement"
	"github.com/MrJamesThe3rd/dindin/internal/validation"
)

type errorResponse struct {
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Message writes a {"message": ...} body, the error shape the remote API uses too.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Message: msg})
}

// Error maps err to a status and writes it.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verrs  validation.Errors
		apiErr *remote.APIError
	)

	switch {
	case errors.As(err, &verrs):
		JSON(w, http.StatusUnprocessableEntity, errorResponse{Message: "validation failed", Fields: verrs})
	case dashboard.IsUnauthorized(err):
		Message(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, ledger.ErrNotFound):
		Message(w, http.StatusNotFound, err.Error())
	case errors.Is(err, statement.ErrUnknownFormat), errors.Is(err, statement.ErrUnknownProfile):
		Message(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &apiErr) && apiErr.Status >= 400:
		Message(w, apiErr.Status, apiErr.Message)
	case errors.As(err, &apiErr):
		slog.Error("remote api unavailable", "path", r.URL.Path, "error", err)
		Message(w, http.StatusBadGateway, apiErr.Message)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Message(w, http.StatusInternalServerError, "internal error")
	}
}
