package test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yourorg/cobranza/internal/handler"
	"github.com/yourorg/cobranza/internal/service"
	"github.com/yourorg/cobranza/internal/storage/sqlite"
)

// TestServerHelper runs the full route table over a throwaway SQLite store.
type TestServerHelper struct {
	Server *httptest.Server
	Logger *slog.Logger
	Store  *sqlite.SQLiteStore
}

func NewTestServer(t *testing.T) *TestServerHelper {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "cobranza-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	debtService := service.NewDebtService(store, log)
	queryService := service.NewQueryService(store, log)

	clientsHandler := handler.NewClientsHandler(store, log)
	salespeopleHandler := handler.NewSalespeopleHandler(store, log)
	debtsHandler := handler.NewDebtsHandler(debtService, queryService, log)
	healthHandler := handler.NewHealthHandler(store)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /clientes", clientsHandler.Create)
	mux.HandleFunc("GET /clientes", clientsHandler.List)
	mux.HandleFunc("POST /vendedores", salespeopleHandler.Create)
	mux.HandleFunc("GET /vendedores", salespeopleHandler.List)
	mux.HandleFunc("POST /deudas", debtsHandler.Create)
	mux.HandleFunc("GET /deudas", debtsHandler.List)
	mux.HandleFunc("GET /deudas/pendientes", debtsHandler.ListPending)
	mux.HandleFunc("GET /deudas/pagadas", debtsHandler.ListPaid)
	mux.HandleFunc("PUT /deudas/pagar/{id}", debtsHandler.Pay)
	mux.HandleFunc("GET /deudas/pagadas/dia/{fecha}", debtsHandler.ListPaidOnDay)
	mux.HandleFunc("GET /healthz", healthHandler.Live)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := httptest.NewServer(mux)

	return &TestServerHelper{
		Server: server,
		Logger: log,
		Store:  store,
	}
}

func (h *TestServerHelper) Close() {
	h.Server.Close()
}

func (h *TestServerHelper) URL() string {
	return h.Server.URL
}

// PostJSON sends a JSON POST and decodes the response body into out (when non-nil).
func (h *TestServerHelper) PostJSON(t *testing.T, path string, payload any, out any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	resp, err := http.Post(h.Server.URL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	decodeBody(t, resp, out)
	return resp
}

// PutJSON sends a JSON PUT and decodes the response body into out (when non-nil).
func (h *TestServerHelper) PutJSON(t *testing.T, path string, payload any, out any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPut, h.Server.URL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT %s failed: %v", path, err)
	}
	decodeBody(t, resp, out)
	return resp
}

// GetJSON fetches path and decodes the response body into out (when non-nil).
func (h *TestServerHelper) GetJSON(t *testing.T, path string, out any) *http.Response {
	t.Helper()

	resp, err := http.Get(h.Server.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	decodeBody(t, resp, out)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("failed to decode response %q: %v", data, err)
		}
	}
}

// AssertStatusCode helper function
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}
