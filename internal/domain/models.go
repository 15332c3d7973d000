package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DebtState represents the lifecycle state of a debt
type DebtState string

const (
	StatePending DebtState = "pendiente" // created, not yet collected
	StatePaid    DebtState = "pagado"    // terminal
)

// Client represents a debtor. Immutable after creation.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Phone     string    `json:"telefono"`
	Company   string    `json:"compania,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Salesperson represents the party who collects a payment. Immutable after creation.
type Salesperson struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	CreatedAt time.Time `json:"createdAt"`
}

// Debt represents a monetary obligation owed by a client.
// A debt is paid iff PaidBy and PaidAt are both set.
type Debt struct {
	ID       string          `json:"id"`
	Client   *Client         `json:"cliente"`
	Amount   decimal.Decimal `json:"monto"`
	IssuedAt time.Time       `json:"fechaEnvio"`
	State    DebtState       `json:"estado"`
	PaidBy   *Salesperson    `json:"vendedorPago,omitempty"`
	PaidAt   *time.Time      `json:"fechaPago,omitempty"`
}

// IsPaid reports whether the debt has completed its lifecycle.
func (d *Debt) IsPaid() bool {
	return d.State == StatePaid
}
