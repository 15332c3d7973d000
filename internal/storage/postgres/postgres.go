// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface on top of the pkg/database connection pool.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yourorg/cobranza/internal/domain"
	"github.com/yourorg/cobranza/internal/storage"
	"github.com/yourorg/cobranza/pkg/database"
)

// Ensure PostgresStore implements storage.Store
var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	pool   *database.ConnectionPool
	db     *sql.DB
	logger *slog.Logger
}

// New connects to Postgres with the given connection URL and runs
// migrations.
func New(ctx context.Context, url string, logger *slog.Logger) (*PostgresStore, error) {
	pool, err := database.NewConnectionPool(ctx, url, logger)
	if err != nil {
		return nil, err
	}

	db := pool.GetDB()
	if err := runMigrations(db); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{pool: pool, db: db, logger: logger}, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.pool.Close()
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Health(ctx)
}

// CreateClient persists a new client.
func (s *PostgresStore) CreateClient(ctx context.Context, client *domain.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO clients (id, nombre, telefono, compania, created_at) VALUES ($1, $2, $3, $4, $5)",
		client.ID, client.Name, client.Phone, client.Company, client.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

// GetClient retrieves a client by ID.
func (s *PostgresStore) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var client domain.Client
	err := s.db.QueryRowContext(ctx,
		"SELECT id, nombre, telefono, compania, created_at FROM clients WHERE id = $1",
		id,
	).Scan(&client.ID, &client.Name, &client.Phone, &client.Company, &client.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

// ListClients returns all clients, oldest first.
func (s *PostgresStore) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nombre, telefono, compania, created_at FROM clients ORDER BY created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Phone, &client.Company, &client.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}
	return clients, nil
}

// CreateSalesperson persists a new salesperson.
func (s *PostgresStore) CreateSalesperson(ctx context.Context, sp *domain.Salesperson) error {
	if sp.ID == "" {
		sp.ID = uuid.New().String()
	}
	if sp.CreatedAt.IsZero() {
		sp.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO salespeople (id, nombre, created_at) VALUES ($1, $2, $3)",
		sp.ID, sp.Name, sp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert salesperson: %w", err)
	}
	return nil
}

// GetSalesperson retrieves a salesperson by ID.
func (s *PostgresStore) GetSalesperson(ctx context.Context, id string) (*domain.Salesperson, error) {
	var sp domain.Salesperson
	err := s.db.QueryRowContext(ctx,
		"SELECT id, nombre, created_at FROM salespeople WHERE id = $1",
		id,
	).Scan(&sp.ID, &sp.Name, &sp.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get salesperson: %w", err)
	}
	return &sp, nil
}

// ListSalespeople returns all salespeople, oldest first.
func (s *PostgresStore) ListSalespeople(ctx context.Context) ([]domain.Salesperson, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nombre, created_at FROM salespeople ORDER BY created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list salespeople: %w", err)
	}
	defer rows.Close()

	salespeople := []domain.Salesperson{}
	for rows.Next() {
		var sp domain.Salesperson
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan salesperson: %w", err)
		}
		salespeople = append(salespeople, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salespeople: %w", err)
	}
	return salespeople, nil
}

// CreateDebt persists a new debt.
func (s *PostgresStore) CreateDebt(ctx context.Context, debt *domain.Debt) error {
	if debt.ID == "" {
		debt.ID = uuid.New().String()
	}
	if debt.IssuedAt.IsZero() {
		debt.IssuedAt = time.Now().UTC()
	}
	if debt.State == "" {
		debt.State = domain.StatePending
	}
	if debt.Client == nil || debt.Client.ID == "" {
		return fmt.Errorf("debt has no client reference")
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO debts (id, client_id, monto, fecha_envio, estado) VALUES ($1, $2, $3, $4, $5)",
		debt.ID, debt.Client.ID, debt.Amount, debt.IssuedAt, string(debt.State),
	)
	if err != nil {
		return fmt.Errorf("failed to insert debt: %w", err)
	}
	return nil
}

const debtSelect = `
SELECT d.id, d.monto, d.fecha_envio, d.estado, d.fecha_pago,
       c.id, c.nombre, c.telefono, c.compania, c.created_at,
       s.id, s.nombre, s.created_at
FROM debts d
JOIN clients c ON c.id = d.client_id
LEFT JOIN salespeople s ON s.id = d.salesperson_id`

// GetDebt retrieves a debt by ID with its client and payer resolved.
func (s *PostgresStore) GetDebt(ctx context.Context, id string) (*domain.Debt, error) {
	row := s.db.QueryRowContext(ctx, debtSelect+" WHERE d.id = $1", id)
	debt, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	return debt, nil
}

// ListDebts returns debts filtered by state, oldest first. An empty
// state returns every debt.
func (s *PostgresStore) ListDebts(ctx context.Context, state domain.DebtState) ([]domain.Debt, error) {
	query := debtSelect
	args := []any{}
	if state != "" {
		query += " WHERE d.estado = $1"
		args = append(args, string(state))
	}
	query += " ORDER BY d.fecha_envio"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	debts := []domain.Debt{}
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, *debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}
	return debts, nil
}

// MarkDebtPaid transitions a debt to paid.
func (s *PostgresStore) MarkDebtPaid(ctx context.Context, debtID, salespersonID string, paidAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE debts SET estado = $1, salesperson_id = $2, fecha_pago = $3 WHERE id = $4",
		string(domain.StatePaid), salespersonID, paidAt, debtID,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDebt(sc scanner) (*domain.Debt, error) {
	var (
		debt        domain.Debt
		client      domain.Client
		fechaPago   sql.NullTime
		spID        sql.NullString
		spName      sql.NullString
		spCreatedAt sql.NullTime
	)

	err := sc.Scan(
		&debt.ID, &debt.Amount, &debt.IssuedAt, &debt.State, &fechaPago,
		&client.ID, &client.Name, &client.Phone, &client.Company, &client.CreatedAt,
		&spID, &spName, &spCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	debt.Client = &client
	if fechaPago.Valid {
		paidAt := fechaPago.Time
		debt.PaidAt = &paidAt
	}
	if spID.Valid {
		debt.PaidBy = &domain.Salesperson{
			ID:        spID.String,
			Name:      spName.String,
			CreatedAt: spCreatedAt.Time,
		}
	}

	return &debt, nil
}
