// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/yourorg/cobranza/internal/domain"
)

// Store defines the persistence operations for clients, salespeople and
// debts. This abstraction allows swapping backends (SQLite for local
// dev and tests, PostgreSQL in production) without changing the
// service layer.
//
// Debt reads always resolve the Client and, when paid, the Salesperson
// to full records.
type Store interface {
	// CreateClient persists a new client. The ID and CreatedAt fields
	// are populated by the store if unset.
	CreateClient(ctx context.Context, client *domain.Client) error

	// GetClient retrieves a client by ID. Returns domain.ErrNotFound
	// if no such client exists.
	GetClient(ctx context.Context, id string) (*domain.Client, error)

	// ListClients returns all clients, oldest first.
	ListClients(ctx context.Context) ([]domain.Client, error)

	// CreateSalesperson persists a new salesperson.
	CreateSalesperson(ctx context.Context, sp *domain.Salesperson) error

	// GetSalesperson retrieves a salesperson by ID. Returns
	// domain.ErrNotFound if no such salesperson exists.
	GetSalesperson(ctx context.Context, id string) (*domain.Salesperson, error)

	// ListSalespeople returns all salespeople, oldest first.
	ListSalespeople(ctx context.Context) ([]domain.Salesperson, error)

	// CreateDebt persists a new debt in its current state. The ID and
	// IssuedAt fields are populated if unset. The referenced client
	// must exist (enforced by a foreign key).
	CreateDebt(ctx context.Context, debt *domain.Debt) error

	// GetDebt retrieves a debt by ID with its references resolved.
	// Returns domain.ErrNotFound if no such debt exists.
	GetDebt(ctx context.Context, id string) (*domain.Debt, error)

	// ListDebts returns debts filtered by state, oldest first.
	// An empty state returns every debt.
	ListDebts(ctx context.Context, state domain.DebtState) ([]domain.Debt, error)

	// MarkDebtPaid transitions a debt to paid, recording the collecting
	// salesperson and the payment timestamp. Returns domain.ErrNotFound
	// if the debt does not exist. The transition overwrites any
	// previous payer/timestamp; guarding against re-payment is the
	// service layer's decision.
	MarkDebtPaid(ctx context.Context, debtID, salespersonID string, paidAt time.Time) error

	// Ping checks that the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
