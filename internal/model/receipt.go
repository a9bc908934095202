package model

import (
	"time"

	"github.com/google/uuid"
)

// Receipt statuses.
const (
	ReceiptPending   = "pending"
	ReceiptGenerated = "generated"
	ReceiptSent      = "sent"
	ReceiptError     = "error"
)

// Receipt tracks the async PDF receipt generated for a sale.
// Status: "pending" | "generated" | "sent" | "error"
type Receipt struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Number  int       `gorm:"not null"`
	Status  string    `gorm:"type:varchar(20);not null;default:'pending'"`
	PDFPath *string   `gorm:"column:pdf_path"`
	EmailTo *string
	// Retry fields - used by the retry cron to re-attempt failed jobs.
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
