// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/yourorg/cobranza/internal/domain"
	"github.com/yourorg/cobranza/internal/storage"
)

// Timestamps are stored as RFC3339Nano strings in UTC.
const timeFormat = time.RFC3339Nano

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys go in the DSN so every pooled connection enforces them.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateClient persists a new client.
func (s *SQLiteStore) CreateClient(ctx context.Context, client *domain.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO clients (id, nombre, telefono, compania, created_at) VALUES (?, ?, ?, ?, ?)",
		client.ID, client.Name, client.Phone, client.Company, client.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

// GetClient retrieves a client by ID.
func (s *SQLiteStore) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var (
		client    domain.Client
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, nombre, telefono, compania, created_at FROM clients WHERE id = ?",
		id,
	).Scan(&client.ID, &client.Name, &client.Phone, &client.Company, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if client.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &client, nil
}

// ListClients returns all clients, oldest first.
func (s *SQLiteStore) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nombre, telefono, compania, created_at FROM clients ORDER BY created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		var (
			client    domain.Client
			createdAt string
		)
		if err := rows.Scan(&client.ID, &client.Name, &client.Phone, &client.Company, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		if client.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}
	return clients, nil
}

// CreateSalesperson persists a new salesperson.
func (s *SQLiteStore) CreateSalesperson(ctx context.Context, sp *domain.Salesperson) error {
	if sp.ID == "" {
		sp.ID = uuid.New().String()
	}
	if sp.CreatedAt.IsZero() {
		sp.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO salespeople (id, nombre, created_at) VALUES (?, ?, ?)",
		sp.ID, sp.Name, sp.CreatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert salesperson: %w", err)
	}
	return nil
}

// GetSalesperson retrieves a salesperson by ID.
func (s *SQLiteStore) GetSalesperson(ctx context.Context, id string) (*domain.Salesperson, error) {
	var (
		sp        domain.Salesperson
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, nombre, created_at FROM salespeople WHERE id = ?",
		id,
	).Scan(&sp.ID, &sp.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get salesperson: %w", err)
	}
	if sp.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &sp, nil
}

// ListSalespeople returns all salespeople, oldest first.
func (s *SQLiteStore) ListSalespeople(ctx context.Context) ([]domain.Salesperson, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nombre, created_at FROM salespeople ORDER BY created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list salespeople: %w", err)
	}
	defer rows.Close()

	salespeople := []domain.Salesperson{}
	for rows.Next() {
		var (
			sp        domain.Salesperson
			createdAt string
		)
		if err := rows.Scan(&sp.ID, &sp.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan salesperson: %w", err)
		}
		if sp.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		salespeople = append(salespeople, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salespeople: %w", err)
	}
	return salespeople, nil
}

// CreateDebt persists a new debt.
func (s *SQLiteStore) CreateDebt(ctx context.Context, debt *domain.Debt) error {
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
		"INSERT INTO debts (id, client_id, monto, fecha_envio, estado) VALUES (?, ?, ?, ?, ?)",
		debt.ID, debt.Client.ID, debt.Amount.String(), debt.IssuedAt.UTC().Format(timeFormat), string(debt.State),
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
func (s *SQLiteStore) GetDebt(ctx context.Context, id string) (*domain.Debt, error) {
	row := s.db.QueryRowContext(ctx, debtSelect+" WHERE d.id = ?", id)
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
func (s *SQLiteStore) ListDebts(ctx context.Context, state domain.DebtState) ([]domain.Debt, error) {
	query := debtSelect
	args := []any{}
	if state != "" {
		query += " WHERE d.estado = ?"
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
func (s *SQLiteStore) MarkDebtPaid(ctx context.Context, debtID, salespersonID string, paidAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE debts SET estado = ?, salesperson_id = ?, fecha_pago = ? WHERE id = ?",
		string(domain.StatePaid), salespersonID, paidAt.UTC().Format(timeFormat), debtID,
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
		debt            domain.Debt
		client          domain.Client
		monto           string
		fechaEnvio      string
		fechaPago       sql.NullString
		clientCreatedAt string
		spID            sql.NullString
		spName          sql.NullString
		spCreatedAt     sql.NullString
	)

	err := sc.Scan(
		&debt.ID, &monto, &fechaEnvio, &debt.State, &fechaPago,
		&client.ID, &client.Name, &client.Phone, &client.Company, &clientCreatedAt,
		&spID, &spName, &spCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if debt.Amount, err = decimal.NewFromString(monto); err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", monto, err)
	}
	if debt.IssuedAt, err = parseTime(fechaEnvio); err != nil {
		return nil, err
	}
	if client.CreatedAt, err = parseTime(clientCreatedAt); err != nil {
		return nil, err
	}
	debt.Client = &client

	if fechaPago.Valid {
		paidAt, err := parseTime(fechaPago.String)
		if err != nil {
			return nil, err
		}
		debt.PaidAt = &paidAt
	}
	if spID.Valid {
		sp := domain.Salesperson{ID: spID.String, Name: spName.String}
		if spCreatedAt.Valid {
			if sp.CreatedAt, err = parseTime(spCreatedAt.String); err != nil {
				return nil, err
			}
		}
		debt.PaidBy = &sp
	}

	return &debt, nil
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", value, err)
	}
	return t, nil
}
