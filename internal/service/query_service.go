package service

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/yourorg/cobranza/internal/domain"
	"github.com/yourorg/cobranza/internal/storage"
)

// dayPattern matches exactly one YYYY-MM-DD calendar day.
var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// QueryService retrieves debts filtered by state and by payment
// calendar day.
type QueryService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewQueryService creates a new query service.
func NewQueryService(store storage.Store, logger *slog.Logger) *QueryService {
	return &QueryService{store: store, logger: logger}
}

// ListAll returns every debt with client and payer resolved.
func (s *QueryService) ListAll(ctx context.Context) ([]domain.Debt, error) {
	return s.store.ListDebts(ctx, "")
}

// ListByState returns debts in the given state, resolved.
func (s *QueryService) ListByState(ctx context.Context, state domain.DebtState) ([]domain.Debt, error) {
	return s.store.ListDebts(ctx, state)
}

// ListPaidOnDay returns the paid debts whose payment timestamp falls on
// the given YYYY-MM-DD day when read with UTC calendar fields. This is
// a scan-then-filter over all paid debts by derived day string, not an
// indexed range query: payment timestamps keep whatever time of day
// (and offset) the caller supplied, so the day is re-derived in UTC at
// read time. Debts without a payment timestamp are skipped silently.
func (s *QueryService) ListPaidOnDay(ctx context.Context, day string) ([]domain.Debt, error) {
	if !dayPattern.MatchString(day) {
		return nil, domain.NewValidationError("fecha", "must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return nil, domain.NewValidationError("fecha", "is not a real calendar date")
	}

	paid, err := s.store.ListDebts(ctx, domain.StatePaid)
	if err != nil {
		return nil, err
	}

	matched := []domain.Debt{}
	for _, debt := range paid {
		if debt.PaidAt == nil {
			s.logger.Debug("paid debt has no payment timestamp", slog.String("debt_id", debt.ID))
			continue
		}
		if debt.PaidAt.UTC().Format("2006-01-02") == day {
			matched = append(matched, debt)
		}
	}

	s.logger.Debug("paid-by-day filter",
		slog.String("day", day),
		slog.Int("paid_total", len(paid)),
		slog.Int("matched", len(matched)),
	)
	return matched, nil
}
