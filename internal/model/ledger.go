package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Party type discriminators for LedgerEntry.PartyType.
const (
	PartyCustomer = "customer"
	PartySupplier = "supplier"
	PartyEmployee = "employee"
)

// Ledger entry kinds. The sign of Amount is fixed per kind: credit_sale and
// credit_purchase raise the balance, the rest lower it (advance raises an
// employee balance).
const (
	LedgerCreditSale     = "credit_sale"
	LedgerCreditPurchase = "credit_purchase"
	LedgerPayment        = "payment"
	LedgerReturn         = "return"
	LedgerAdvance        = "advance"
	LedgerSalary         = "salary"
)

// LedgerEntry is an append-only record of one balance-affecting event.
// Entries are never updated or deleted, with one deliberate exception: editing
// a sale invoice numerically adjusts its linked credit_sale entry by the delta
// between old and new totals rather than replaying the ledger.
type LedgerEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PartyType string    `gorm:"type:varchar(10);not null;index:idx_ledger_party"`
	PartyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_ledger_party"`
	Kind      string    `gorm:"type:varchar(20);not null"`
	// Amount is signed, always in base currency; the party balance is the
	// running sum of these.
	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Currency and FaceAmount keep the original-currency figure for display
	// on supplier entries. For AFN entries FaceAmount equals Amount's magnitude.
	Currency    string          `gorm:"type:varchar(3);not null;default:'AFN'"`
	FaceAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date        time.Time       `gorm:"not null;index"`
	Description string          `gorm:"not null;default:''"`
	InvoiceID   *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt   time.Time
}

func (LedgerEntry) TableName() string { return "ledger_entries" }
