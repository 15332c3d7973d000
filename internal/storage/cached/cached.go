// Package cached decorates a storage.Store with a read-through cache
// for client and salesperson records. Both record kinds are immutable
// after creation, so cached entries can never go stale; list keys are
// invalidated on create. Debt reads are never cached.
package cached

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/yourorg/cobranza/internal/domain"
	"github.com/yourorg/cobranza/internal/observability/metrics"
	"github.com/yourorg/cobranza/internal/storage"
)

const (
	clientKeyPrefix      = "client:"
	salespersonKeyPrefix = "salesperson:"
	clientListKey        = "clients:all"
	salespersonListKey   = "salespeople:all"
)

// Backend is the minimal cache surface the decorator needs. Lookups
// are best-effort: a backend failure is treated as a miss.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store wraps an inner storage.Store; debt operations pass through
// via embedding.
type Store struct {
	storage.Store
	backend Backend
	ttl     time.Duration
	logger  *slog.Logger
}

// New creates a cached store around inner.
func New(inner storage.Store, backend Backend, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{Store: inner, backend: backend, ttl: ttl, logger: logger}
}

// CreateClient writes through and invalidates the client list.
func (s *Store) CreateClient(ctx context.Context, client *domain.Client) error {
	if err := s.Store.CreateClient(ctx, client); err != nil {
		return err
	}
	s.put(ctx, clientKeyPrefix+client.ID, client)
	s.backend.Delete(ctx, clientListKey)
	return nil
}

// GetClient serves from cache when possible.
func (s *Store) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	key := clientKeyPrefix + id
	var cachedClient domain.Client
	if s.get(ctx, key, &cachedClient) {
		return &cachedClient, nil
	}

	client, err := s.Store.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	s.put(ctx, key, client)
	return client, nil
}

// ListClients serves the full list from cache when possible.
func (s *Store) ListClients(ctx context.Context) ([]domain.Client, error) {
	var cachedClients []domain.Client
	if s.get(ctx, clientListKey, &cachedClients) {
		return cachedClients, nil
	}

	clients, err := s.Store.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	s.put(ctx, clientListKey, clients)
	return clients, nil
}

// CreateSalesperson writes through and invalidates the salesperson list.
func (s *Store) CreateSalesperson(ctx context.Context, sp *domain.Salesperson) error {
	if err := s.Store.CreateSalesperson(ctx, sp); err != nil {
		return err
	}
	s.put(ctx, salespersonKeyPrefix+sp.ID, sp)
	s.backend.Delete(ctx, salespersonListKey)
	return nil
}

// GetSalesperson serves from cache when possible.
func (s *Store) GetSalesperson(ctx context.Context, id string) (*domain.Salesperson, error) {
	key := salespersonKeyPrefix + id
	var cachedSP domain.Salesperson
	if s.get(ctx, key, &cachedSP) {
		return &cachedSP, nil
	}

	sp, err := s.Store.GetSalesperson(ctx, id)
	if err != nil {
		return nil, err
	}
	s.put(ctx, key, sp)
	return sp, nil
}

// ListSalespeople serves the full list from cache when possible.
func (s *Store) ListSalespeople(ctx context.Context) ([]domain.Salesperson, error) {
	var cachedSPs []domain.Salesperson
	if s.get(ctx, salespersonListKey, &cachedSPs) {
		return cachedSPs, nil
	}

	salespeople, err := s.Store.ListSalespeople(ctx)
	if err != nil {
		return nil, err
	}
	s.put(ctx, salespersonListKey, salespeople)
	return salespeople, nil
}

func (s *Store) get(ctx context.Context, key string, out any) bool {
	raw, ok := s.backend.Get(ctx, key)
	if !ok {
		metrics.ObserveCacheLookup("miss")
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Warn("dropping undecodable cache entry",
			slog.String("key", key), slog.String("error", err.Error()))
		s.backend.Delete(ctx, key)
		metrics.ObserveCacheLookup("miss")
		return false
	}
	metrics.ObserveCacheLookup("hit")
	return true
}

func (s *Store) put(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to marshal cache entry",
			slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	s.backend.Set(ctx, key, string(data), s.ttl)
}
