package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourorg/cobranza/internal/domain"
	"github.com/yourorg/cobranza/internal/storage"
)

// CreateClientRequest represents the request to register a client
type CreateClientRequest struct {
	Name    string `json:"nombre"`
	Phone   string `json:"telefono"`
	Company string `json:"compania,omitempty"`
}

// ClientsHandler handles client registration and listing
type ClientsHandler struct {
	store  storage.Store
	logger *slog.Logger
}

// NewClientsHandler creates a new clients handler
func NewClientsHandler(store storage.Store, logger *slog.Logger) *ClientsHandler {
	return &ClientsHandler{store: store, logger: logger}
}

// Create handles POST /clientes requests
func (h *ClientsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", slog.String("error", err.Error()))
		writeError(w, h.logger, domain.NewValidationError("body", "malformed JSON"))
		return
	}

	if req.Name == "" {
		writeError(w, h.logger, domain.NewValidationError("nombre", "is required"))
		return
	}
	if req.Phone == "" {
		writeError(w, h.logger, domain.NewValidationError("telefono", "is required"))
		return
	}

	client := &domain.Client{
		Name:    req.Name,
		Phone:   req.Phone,
		Company: req.Company,
	}
	if err := h.store.CreateClient(r.Context(), client); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("client created", slog.String("client_id", client.ID))
	writeJSON(w, h.logger, http.StatusCreated, client)
}

// List handles GET /clientes requests
func (h *ClientsHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.store.ListClients(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, clients)
}
