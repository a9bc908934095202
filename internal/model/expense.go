package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseEntry is an operating expense (rent, electricity, transport…)
// recorded outside the supplier/customer ledgers.
type ExpenseEntry struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Category    string          `gorm:"not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date        time.Time       `gorm:"not null;index"`
	Description string          `gorm:"not null;default:''"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}

func (ExpenseEntry) TableName() string { return "expense_entries" }
