package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Party types share the same shape: a stored running balance that is always
// the signed sum of the party's ledger entries. Balances are mutated only
// inside the same transaction that appends the ledger row.

// Customer balance = what the customer owes the store (credit sales raise it,
// payments and returns lower it).
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"index;not null"`
	Phone     *string
	Address   *string
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Supplier balance = what the store owes the supplier, always in base
// currency even for USD invoices.
type Supplier struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"index;not null"`
	Phone     *string
	Address   *string
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Employee balance = outstanding advances against salary. A salary payment
// lowers it; a negative balance means the store owes the employee.
type Employee struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"index;not null"`
	Phone         *string
	Role          *string
	MonthlySalary decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Balance       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Active        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
