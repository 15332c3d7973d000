package test

import (
	"io"
	"net/http"
	"testing"

	"github.com/yourorg/cobranza/internal/domain"
)

// TestHealthEndpoint verifies health check endpoint
func TestHealthEndpoint(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL() + "/healthz")
	if err != nil {
		t.Fatalf("Health check failed: %v", err)
	}
	defer resp.Body.Close()

	AssertStatusCode(t, resp, http.StatusOK)

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("Expected 'ok', got '%s'", string(body))
	}
}

// TestReadinessEndpoint verifies readiness check endpoint
func TestReadinessEndpoint(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL() + "/readyz")
	if err != nil {
		t.Fatalf("Readiness check failed: %v", err)
	}
	defer resp.Body.Close()

	AssertStatusCode(t, resp, http.StatusOK)

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ready" {
		t.Errorf("Expected 'ready', got '%s'", string(body))
	}
}

// TestMetricsEndpoint verifies Prometheus metrics endpoint
func TestMetricsEndpoint(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL() + "/metrics")
	if err != nil {
		t.Fatalf("Metrics endpoint failed: %v", err)
	}
	defer resp.Body.Close()

	AssertStatusCode(t, resp, http.StatusOK)

	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 {
		t.Errorf("Expected metrics data, got empty response")
	}
}

// TestDebtLifecycle walks the full collection flow: register a client and a
// salesperson, issue a debt, collect it, then find it by payment day.
func TestDebtLifecycle(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	var client domain.Client
	resp := server.PostJSON(t, "/clientes", map[string]any{
		"nombre":   "Ferretería El Tornillo",
		"telefono": "555-0100",
		"compania": "El Tornillo SA",
	}, &client)
	AssertStatusCode(t, resp, http.StatusCreated)
	if client.ID == "" {
		t.Fatal("expected client ID to be assigned")
	}

	var salesperson domain.Salesperson
	resp = server.PostJSON(t, "/vendedores", map[string]any{
		"nombre": "Lucía Paredes",
	}, &salesperson)
	AssertStatusCode(t, resp, http.StatusCreated)

	var debt domain.Debt
	resp = server.PostJSON(t, "/deudas", map[string]any{
		"cliente": client.ID,
		"monto":   1250.50,
	}, &debt)
	AssertStatusCode(t, resp, http.StatusCreated)
	if debt.State != domain.StatePending {
		t.Errorf("new debt state: got %s, want %s", debt.State, domain.StatePending)
	}
	if debt.Client == nil || debt.Client.ID != client.ID {
		t.Error("expected debt to carry the resolved client")
	}

	var pending []domain.Debt
	resp = server.GetJSON(t, "/deudas/pendientes", &pending)
	AssertStatusCode(t, resp, http.StatusOK)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending debt, got %d", len(pending))
	}

	var paid domain.Debt
	resp = server.PutJSON(t, "/deudas/pagar/"+debt.ID, map[string]any{
		"vendedorPago": salesperson.ID,
		"fechaPago":    "2026-06-10",
	}, &paid)
	AssertStatusCode(t, resp, http.StatusOK)
	if paid.State != domain.StatePaid {
		t.Errorf("paid debt state: got %s, want %s", paid.State, domain.StatePaid)
	}
	if paid.PaidBy == nil || paid.PaidBy.ID != salesperson.ID {
		t.Error("expected paid debt to carry the resolved salesperson")
	}
	if paid.PaidAt == nil {
		t.Fatal("expected paid debt to carry a payment timestamp")
	}

	resp = server.GetJSON(t, "/deudas/pendientes", &pending)
	AssertStatusCode(t, resp, http.StatusOK)
	if len(pending) != 0 {
		t.Errorf("expected no pending debts after payment, got %d", len(pending))
	}

	var onDay []domain.Debt
	resp = server.GetJSON(t, "/deudas/pagadas/dia/2026-06-10", &onDay)
	AssertStatusCode(t, resp, http.StatusOK)
	if len(onDay) != 1 || onDay[0].ID != debt.ID {
		t.Errorf("expected the paid debt on its payment day, got %d results", len(onDay))
	}

	resp = server.GetJSON(t, "/deudas/pagadas/dia/2026-06-11", &onDay)
	AssertStatusCode(t, resp, http.StatusOK)
	if len(onDay) != 0 {
		t.Errorf("expected no debts on the following day, got %d", len(onDay))
	}
}

// TestErrorStatusMapping covers the status codes for the failure paths.
func TestErrorStatusMapping(t *testing.T) {
	server := NewTestServer(t)
	defer server.Close()

	var client domain.Client
	resp := server.PostJSON(t, "/clientes", map[string]any{
		"nombre":   "Panadería Sol",
		"telefono": "555-0200",
	}, &client)
	AssertStatusCode(t, resp, http.StatusCreated)

	var salesperson domain.Salesperson
	resp = server.PostJSON(t, "/vendedores", map[string]any{"nombre": "Raúl Ortega"}, &salesperson)
	AssertStatusCode(t, resp, http.StatusCreated)

	t.Run("missing client name", func(t *testing.T) {
		var errBody map[string]string
		resp := server.PostJSON(t, "/clientes", map[string]any{"telefono": "555-0201"}, &errBody)
		AssertStatusCode(t, resp, http.StatusBadRequest)
		if errBody["error"] == "" {
			t.Error("expected an error message in the response body")
		}
	})

	t.Run("debt for unknown client", func(t *testing.T) {
		resp := server.PostJSON(t, "/deudas", map[string]any{
			"cliente": "no-such-client",
			"monto":   10,
		}, nil)
		AssertStatusCode(t, resp, http.StatusBadRequest)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		resp := server.PostJSON(t, "/deudas", map[string]any{
			"cliente": client.ID,
			"monto":   0,
		}, nil)
		AssertStatusCode(t, resp, http.StatusBadRequest)
	})

	t.Run("pay unknown debt", func(t *testing.T) {
		resp := server.PutJSON(t, "/deudas/pagar/no-such-debt", map[string]any{
			"vendedorPago": salesperson.ID,
		}, nil)
		AssertStatusCode(t, resp, http.StatusNotFound)
	})

	t.Run("pay twice", func(t *testing.T) {
		var debt domain.Debt
		resp := server.PostJSON(t, "/deudas", map[string]any{
			"cliente": client.ID,
			"monto":   75,
		}, &debt)
		AssertStatusCode(t, resp, http.StatusCreated)

		resp = server.PutJSON(t, "/deudas/pagar/"+debt.ID, map[string]any{
			"vendedorPago": salesperson.ID,
		}, nil)
		AssertStatusCode(t, resp, http.StatusOK)

		resp = server.PutJSON(t, "/deudas/pagar/"+debt.ID, map[string]any{
			"vendedorPago": salesperson.ID,
		}, nil)
		AssertStatusCode(t, resp, http.StatusConflict)
	})

	t.Run("malformed day filter", func(t *testing.T) {
		resp := server.GetJSON(t, "/deudas/pagadas/dia/10-06-2026", nil)
		AssertStatusCode(t, resp, http.StatusBadRequest)
	})
}
