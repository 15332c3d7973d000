package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourorg/cobranza/internal/domain"
	"github.com/yourorg/cobranza/internal/featureflags"
	"github.com/yourorg/cobranza/internal/observability/metrics"
	"github.com/yourorg/cobranza/internal/storage"
)

// AllowRepayFlag restores the legacy behavior where paying an
// already-paid debt overwrites the payer and payment timestamp.
// Off by default; re-payment fails with domain.ErrAlreadyPaid.
const AllowRepayFlag = "allow_repay"

// datePrefix matches values that start with a YYYY-MM-DD calendar day,
// with or without a trailing time component.
var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// DebtService owns the debt lifecycle: creation in pending state and
// the single transition to paid.
type DebtService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewDebtService creates a new debt lifecycle service.
func NewDebtService(store storage.Store, logger *slog.Logger) *DebtService {
	return &DebtService{store: store, logger: logger}
}

// CreateDebt registers a new pending debt for the given client. The
// client must exist and the amount must be positive; either failure is
// a validation error, surfaced before anything is written.
func (s *DebtService) CreateDebt(ctx context.Context, clientID string, amount decimal.Decimal) (*domain.Debt, error) {
	if clientID == "" {
		return nil, domain.NewValidationError("cliente", "is required")
	}
	if !amount.IsPositive() {
		return nil, domain.NewValidationError("monto", "must be a positive number")
	}

	client, err := s.store.GetClient(ctx, clientID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError("cliente", "does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("resolving client: %w", err)
	}

	debt := &domain.Debt{
		Client: client,
		Amount: amount,
		State:  domain.StatePending,
	}
	if err := s.store.CreateDebt(ctx, debt); err != nil {
		return nil, fmt.Errorf("creating debt: %w", err)
	}

	metrics.ObserveDebtCreated()
	s.logger.Info("debt created",
		slog.String("debt_id", debt.ID),
		slog.String("client_id", client.ID),
		slog.String("amount", amount.String()),
	)
	return debt, nil
}

// MarkPaid transitions a debt to paid, recording the collecting
// salesperson and the payment timestamp. Unless the allow_repay flag
// is set, a second payment attempt fails with domain.ErrAlreadyPaid.
//
// fechaPago accepts a bare YYYY-MM-DD day (taken at UTC midnight) or a
// full RFC 3339 timestamp; anything else, including an empty value,
// falls back to the current time. The time of day is stored as given
// and never normalized, so downstream day filtering compares UTC
// calendar fields (see QueryService.ListPaidOnDay).
func (s *DebtService) MarkPaid(ctx context.Context, debtID, salespersonID, fechaPago string) (*domain.Debt, error) {
	if debtID == "" {
		return nil, domain.NewValidationError("id", "is required")
	}
	if salespersonID == "" {
		return nil, domain.NewValidationError("vendedorPago", "is required")
	}

	debt, err := s.store.GetDebt(ctx, debtID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.ObserveDebtPaid("not_found")
			return nil, domain.ErrNotFound
		}
		metrics.ObserveDebtPaid("error")
		return nil, fmt.Errorf("resolving debt: %w", err)
	}

	if debt.IsPaid() && !featureflags.Enabled(AllowRepayFlag) {
		metrics.ObserveDebtPaid("conflict")
		return nil, domain.ErrAlreadyPaid
	}

	if _, err := s.store.GetSalesperson(ctx, salespersonID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.ObserveDebtPaid("not_found")
			return nil, domain.NewValidationError("vendedorPago", "does not exist")
		}
		metrics.ObserveDebtPaid("error")
		return nil, fmt.Errorf("resolving salesperson: %w", err)
	}

	paidAt := parsePaymentDate(fechaPago)
	if err := s.store.MarkDebtPaid(ctx, debtID, salespersonID, paidAt); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.ObserveDebtPaid("not_found")
			return nil, domain.ErrNotFound
		}
		metrics.ObserveDebtPaid("error")
		return nil, fmt.Errorf("marking debt paid: %w", err)
	}

	metrics.ObserveDebtPaid("ok")
	s.logger.Info("debt paid",
		slog.String("debt_id", debtID),
		slog.String("salesperson_id", salespersonID),
		slog.Time("paid_at", paidAt),
	)
	return s.store.GetDebt(ctx, debtID)
}

// parsePaymentDate interprets a payment date supplied by the caller.
// A bare calendar day becomes UTC midnight of that day; a full RFC 3339
// timestamp keeps its time of day and offset. Everything else falls
// back to now.
func parsePaymentDate(value string) time.Time {
	if !datePrefix.MatchString(value) {
		return time.Now()
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t
	}
	return time.Now()
}
