package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/yourorg/cobranza/internal/domain"
)

func TestListByState(t *testing.T) {
	debts, queries, store := newTestServices(t)
	ctx := context.Background()
	client := mustCreateClient(t, store, "Julia Vera")
	sp := mustCreateSalesperson(t, store, "Raúl Peña")

	pending, err := debts.CreateDebt(ctx, client.ID, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("CreateDebt failed: %v", err)
	}
	paid, err := debts.CreateDebt(ctx, client.ID, decimal.NewFromInt(20))
	if err != nil {
		t.Fatalf("CreateDebt failed: %v", err)
	}
	if _, err := debts.MarkPaid(ctx, paid.ID, sp.ID, ""); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}

	all, err := queries.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 debts, got %d", len(all))
	}

	gotPending, err := queries.ListByState(ctx, domain.StatePending)
	if err != nil {
		t.Fatalf("ListByState pending failed: %v", err)
	}
	if len(gotPending) != 1 || gotPending[0].ID != pending.ID {
		t.Errorf("expected only debt %s pending, got %+v", pending.ID, gotPending)
	}

	gotPaid, err := queries.ListByState(ctx, domain.StatePaid)
	if err != nil {
		t.Fatalf("ListByState paid failed: %v", err)
	}
	if len(gotPaid) != 1 || gotPaid[0].ID != paid.ID {
		t.Errorf("expected only debt %s paid, got %+v", paid.ID, gotPaid)
	}
}

func TestListPaidOnDay(t *testing.T) {
	debts, queries, store := newTestServices(t)
	ctx := context.Background()
	client := mustCreateClient(t, store, "Sergio León")
	sp := mustCreateSalesperson(t, store, "Diana Cruz")

	pay := func(t *testing.T, fechaPago string) *domain.Debt {
		t.Helper()
		debt, err := debts.CreateDebt(ctx, client.ID, decimal.NewFromInt(100))
		if err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}
		paid, err := debts.MarkPaid(ctx, debt.ID, sp.ID, fechaPago)
		if err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}
		return paid
	}

	contains := func(list []domain.Debt, id string) bool {
		for _, d := range list {
			if d.ID == id {
				return true
			}
		}
		return false
	}

	t.Run("matches the exact UTC day", func(t *testing.T) {
		onDay := pay(t, "2026-02-02")
		offDay := pay(t, "2026-02-03")

		got, err := queries.ListPaidOnDay(ctx, "2026-02-02")
		if err != nil {
			t.Fatalf("ListPaidOnDay failed: %v", err)
		}
		if !contains(got, onDay.ID) {
			t.Errorf("expected debt paid on 2026-02-02 in result")
		}
		if contains(got, offDay.ID) {
			t.Errorf("debt paid on 2026-02-03 must not match 2026-02-02")
		}
	})

	t.Run("noon-local west of UTC stays on its day", func(t *testing.T) {
		// Noon at UTC-03 is 15:00 UTC: same calendar day in UTC.
		paid := pay(t, "2026-04-10T12:00:00-03:00")

		got, err := queries.ListPaidOnDay(ctx, "2026-04-10")
		if err != nil {
			t.Fatalf("ListPaidOnDay failed: %v", err)
		}
		if !contains(got, paid.ID) {
			t.Errorf("expected noon-local payment to round-trip to its own day")
		}
	})

	t.Run("extreme offsets shift the UTC day", func(t *testing.T) {
		// Noon at UTC+13 is the previous day 23:00 UTC; noon at UTC-13
		// is the next day 01:00 UTC. Day filtering reads UTC calendar
		// fields, so these payments land on the neighboring day.
		east := pay(t, "2026-05-20T12:00:00+13:00")
		west := pay(t, "2026-05-20T12:00:00-13:00")

		sameDay, err := queries.ListPaidOnDay(ctx, "2026-05-20")
		if err != nil {
			t.Fatalf("ListPaidOnDay failed: %v", err)
		}
		if contains(sameDay, east.ID) || contains(sameDay, west.ID) {
			t.Errorf("±13h noon payments must not match their local day in UTC")
		}

		prevDay, err := queries.ListPaidOnDay(ctx, "2026-05-19")
		if err != nil {
			t.Fatalf("ListPaidOnDay failed: %v", err)
		}
		if !contains(prevDay, east.ID) {
			t.Errorf("UTC+13 noon payment should land on the previous UTC day")
		}

		nextDay, err := queries.ListPaidOnDay(ctx, "2026-05-21")
		if err != nil {
			t.Fatalf("ListPaidOnDay failed: %v", err)
		}
		if !contains(nextDay, west.ID) {
			t.Errorf("UTC-13 noon payment should land on the next UTC day")
		}
	})

	t.Run("malformed input is a validation error", func(t *testing.T) {
		for _, day := range []string{"not-a-date", "2026-2-2", "2026-13-40", "2026-02-02T12:00:00Z"} {
			if _, err := queries.ListPaidOnDay(ctx, day); !domain.IsValidation(err) {
				t.Errorf("day %q: expected validation error, got %v", day, err)
			}
		}
	})

	t.Run("round trip preserves amount and references", func(t *testing.T) {
		roundTripClient := mustCreateClient(t, store, "Teresa Núñez")
		debt, err := debts.CreateDebt(ctx, roundTripClient.ID, decimal.NewFromInt(100))
		if err != nil {
			t.Fatalf("CreateDebt failed: %v", err)
		}
		if _, err := debts.MarkPaid(ctx, debt.ID, sp.ID, "2026-08-15"); err != nil {
			t.Fatalf("MarkPaid failed: %v", err)
		}

		got, err := queries.ListPaidOnDay(ctx, "2026-08-15")
		if err != nil {
			t.Fatalf("ListPaidOnDay failed: %v", err)
		}

		var found *domain.Debt
		for i := range got {
			if got[i].ID == debt.ID {
				found = &got[i]
			}
		}
		if found == nil {
			t.Fatalf("expected debt %s on 2026-08-15", debt.ID)
		}
		if !found.Amount.Equal(decimal.NewFromInt(100)) {
			t.Errorf("amount mismatch: got %s", found.Amount)
		}
		if found.Client.ID != roundTripClient.ID {
			t.Errorf("client mismatch: got %s", found.Client.ID)
		}
		if found.PaidBy == nil || found.PaidBy.ID != sp.ID {
			t.Errorf("salesperson mismatch: got %+v", found.PaidBy)
		}
	})
}
