package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreSettings is a singleton row (ID is always 1).
type StoreSettings struct {
	ID           int    `gorm:"primaryKey"`
	StoreName    string `gorm:"not null;default:'Ketabestan'"`
	Address      string `gorm:"not null;default:''"`
	Phone        string `gorm:"not null;default:''"`
	BaseCurrency string `gorm:"type:varchar(3);not null;default:'AFN'"`
	// DefaultUSDRate pre-fills the exchange rate on USD purchase entry.
	DefaultUSDRate decimal.Decimal `gorm:"type:decimal(12,4);not null;default:1"`
	UpdatedAt      time.Time
}

func (StoreSettings) TableName() string { return "store_settings" }
