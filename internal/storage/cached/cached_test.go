package cached

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yourorg/cobranza/internal/domain"
	"github.com/yourorg/cobranza/internal/storage/sqlite"
)

func newCachedStore(t *testing.T) (*Store, *sqlite.SQLiteStore) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "cobranza-cache-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	inner, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { inner.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(inner, NewMemoryBackend(), time.Minute, log), inner
}

func TestGetClientReadThrough(t *testing.T) {
	store, inner := newCachedStore(t)
	ctx := context.Background()

	client := &domain.Client{Name: "Hugo Prieto", Phone: "555-0300"}
	if err := inner.CreateClient(ctx, client); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	// First read populates the cache, second read is served from it.
	first, err := store.GetClient(ctx, client.ID)
	if err != nil {
		t.Fatalf("GetClient failed: %v", err)
	}
	second, err := store.GetClient(ctx, client.ID)
	if err != nil {
		t.Fatalf("cached GetClient failed: %v", err)
	}
	if first.ID != second.ID || first.Name != second.Name {
		t.Errorf("cached read differs: %+v vs %+v", first, second)
	}
}

func TestCreateClientInvalidatesList(t *testing.T) {
	store, _ := newCachedStore(t)
	ctx := context.Background()

	first := &domain.Client{Name: "Alba Sanz", Phone: "555-0301"}
	if err := store.CreateClient(ctx, first); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	// Prime the list cache, then create another client behind it.
	clients, err := store.ListClients(ctx)
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(clients) != 1 {
		t.Fatalf("expected 1 client, got %d", len(clients))
	}

	second := &domain.Client{Name: "Bruno Marín", Phone: "555-0302"}
	if err := store.CreateClient(ctx, second); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}

	clients, err = store.ListClients(ctx)
	if err != nil {
		t.Fatalf("ListClients failed: %v", err)
	}
	if len(clients) != 2 {
		t.Errorf("stale list after create: expected 2 clients, got %d", len(clients))
	}
}

func TestGetSalespersonMissesToStore(t *testing.T) {
	store, inner := newCachedStore(t)
	ctx := context.Background()

	sp := &domain.Salesperson{Name: "Inés Robles"}
	if err := inner.CreateSalesperson(ctx, sp); err != nil {
		t.Fatalf("CreateSalesperson failed: %v", err)
	}

	got, err := store.GetSalesperson(ctx, sp.ID)
	if err != nil {
		t.Fatalf("GetSalesperson failed: %v", err)
	}
	if got.Name != sp.Name {
		t.Errorf("name mismatch: got %s, want %s", got.Name, sp.Name)
	}

	if _, err := store.GetSalesperson(ctx, "no-such-id"); err == nil {
		t.Error("expected error for unknown salesperson")
	}
}
