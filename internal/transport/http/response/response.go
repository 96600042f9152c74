package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mlylp/Catlogodeprodutospeixaria/internal/service/errs"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Error sending response", "error", err)
	}
}

// BadRequest writes a 400 with the given message.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	JSON(w, r, http.StatusBadRequest, map[string]string{"error": message})
}

// Error maps err onto the status code of its kind. Unclassified errors are
// reported as 500 with the underlying message under details.
func Error(w http.ResponseWriter, r *http.Request, message string, err error) {
	var (
		validationErr *errs.ValidationError
		notFoundErr   *errs.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		BadRequest(w, r, validationErr.Message)
	case errors.As(err, &notFoundErr):
		JSON(w, r, http.StatusNotFound, map[string]string{"error": notFoundErr.Error()})
	default:
		slog.ErrorContext(r.Context(), message, "error", err)
		JSON(w, r, http.StatusInternalServerError, map[string]string{
			"error":   message,
			"details": err.Error(),
		})
	}
}
