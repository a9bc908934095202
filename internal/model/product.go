package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item. Stock is never stored on the product itself -
// it always lives on batches, and total stock is the sum of batch stocks.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Barcode      *string   `gorm:"uniqueIndex"`
	Name         string    `gorm:"index;not null"`
	Category     string    `gorm:"not null;default:'general'"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PackSize     *int
	Manufacturer *string
	MinStock     int  `gorm:"not null;default:5"`
	Active       bool `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Batches []Batch `gorm:"foreignKey:ProductID"`
}

// TotalStock sums the remaining stock across all loaded batches.
func (p *Product) TotalStock() int {
	total := 0
	for _, b := range p.Batches {
		total += b.Stock
	}
	return total
}

// Batch is a discrete lot of stock for one product, carrying its own
// purchase cost (always in base currency) and optional expiry date.
type Batch struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	LotNumber   string    `gorm:"not null;default:''"`
	Stock       int       `gorm:"not null;default:0"` // invariant: >= 0
	UnitCost    decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	PurchasedAt time.Time       `gorm:"not null"`
	ExpiresAt   *time.Time      `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Batch) TableName() string { return "batches" }
