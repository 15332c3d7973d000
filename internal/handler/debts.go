package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/yourorg/cobranza/internal/domain"
	"github.com/yourorg/cobranza/internal/service"
)

// CreateDebtRequest represents the request to register a debt
type CreateDebtRequest struct {
	ClientID string          `json:"cliente"`
	Amount   decimal.Decimal `json:"monto"`
}

// PayDebtRequest represents the request to mark a debt paid
type PayDebtRequest struct {
	SalespersonID string `json:"vendedorPago"`
	PaymentDate   string `json:"fechaPago,omitempty"`
}

// DebtsHandler handles debt registration, payment and queries
type DebtsHandler struct {
	debts   *service.DebtService
	queries *service.QueryService
	logger  *slog.Logger
}

// NewDebtsHandler creates a new debts handler
func NewDebtsHandler(debts *service.DebtService, queries *service.QueryService, logger *slog.Logger) *DebtsHandler {
	return &DebtsHandler{debts: debts, queries: queries, logger: logger}
}

// Create handles POST /deudas requests. The debt always starts pending
// regardless of anything else in the body.
func (h *DebtsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", slog.String("error", err.Error()))
		writeError(w, h.logger, domain.NewValidationError("body", "malformed JSON"))
		return
	}

	debt, err := h.debts.CreateDebt(r.Context(), req.ClientID, req.Amount)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, debt)
}

// List handles GET /deudas requests
func (h *DebtsHandler) List(w http.ResponseWriter, r *http.Request) {
	debts, err := h.queries.ListAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, debts)
}

// ListPending handles GET /deudas/pendientes requests
func (h *DebtsHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	debts, err := h.queries.ListByState(r.Context(), domain.StatePending)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, debts)
}

// ListPaid handles GET /deudas/pagadas requests
func (h *DebtsHandler) ListPaid(w http.ResponseWriter, r *http.Request) {
	debts, err := h.queries.ListByState(r.Context(), domain.StatePaid)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, debts)
}

// Pay handles PUT /deudas/pagar/{id} requests
func (h *DebtsHandler) Pay(w http.ResponseWriter, r *http.Request) {
	debtID := r.PathValue("id")

	var req PayDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", slog.String("error", err.Error()))
		writeError(w, h.logger, domain.NewValidationError("body", "malformed JSON"))
		return
	}

	debt, err := h.debts.MarkPaid(r.Context(), debtID, req.SalespersonID, req.PaymentDate)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, debt)
}

// ListPaidOnDay handles GET /deudas/pagadas/dia/{fecha} requests
func (h *DebtsHandler) ListPaidOnDay(w http.ResponseWriter, r *http.Request) {
	day := r.PathValue("fecha")

	debts, err := h.queries.ListPaidOnDay(r.Context(), day)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, debts)
}
