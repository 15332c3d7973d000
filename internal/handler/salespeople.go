package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/cobranza/internal/domain"
	"github.com/yourorg/cobranza/internal/storage"
)

// CreateSalespersonRequest represents the request to register a salesperson
type CreateSalespersonRequest struct {
	Name string `json:"nombre"`
}

// SalespeopleHandler handles salesperson registration and listing
type SalespeopleHandler struct {
	store  storage.Store
	logger *slog.Logger
}

// NewSalespeopleHandler creates a new salespeople handler
func NewSalespeopleHandler(store storage.Store, logger *slog.Logger) *SalespeopleHandler {
	return &SalespeopleHandler{store: store, logger: logger}
}

// Create handles POST /vendedores requests
func (h *SalespeopleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSalespersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", slog.String("error", err.Error()))
		writeError(w, h.logger, domain.NewValidationError("body", "malformed JSON"))
		return
	}

	if req.Name == "" {
		writeError(w, h.logger, domain.NewValidationError("nombre", "is required"))
		return
	}

	sp := &domain.Salesperson{Name: req.Name}
	if err := h.store.CreateSalesperson(r.Context(), sp); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("salesperson created", slog.String("salesperson_id", sp.ID))
	writeJSON(w, h.logger, http.StatusCreated, sp)
}

// List handles GET /vendedores requests
func (h *SalespeopleHandler) List(w http.ResponseWriter, r *http.Request) {
	salespeople, err := h.store.ListSalespeople(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, salespeople)
}
