package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yourorg/cobranza/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON serializes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError maps a service error to an HTTP status: validation
// failures are 400, unknown records 404, re-payment attempts 409, and
// anything else (storage failures included) a generic 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case domain.IsValidation(err):
		writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, logger, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrAlreadyPaid):
		writeJSON(w, logger, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, logger, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
