package repository

import (
	"context"

	"github.com/wali1264/ketabestan2/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LedgerRepository interface {
	// CreateTx appends a ledger row inside the same transaction that moves
	// the party balance.
	CreateTx(tx *gorm.DB, e *model.LedgerEntry) error
	ListByParty(ctx context.Context, partyType string, partyID uuid.UUID) ([]model.LedgerEntry, error)
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID, kind string) (*model.LedgerEntry, error)
	// UpdateAmountTx is the single sanctioned mutation of a ledger row: the
	// sale edit path adjusts the linked credit_sale entry numerically.
	UpdateAmountTx(tx *gorm.DB, id uuid.UUID, amount, faceAmount decimal.Decimal) error
	DeleteByInvoiceTx(tx *gorm.DB, invoiceID uuid.UUID) error
	HasEntries(ctx context.Context, partyType string, partyID uuid.UUID) (bool, error)
	DB() *gorm.DB
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) DB() *gorm.DB { return r.db }

func (r *ledgerRepo) CreateTx(tx *gorm.DB, e *model.LedgerEntry) error {
	return tx.Create(e).Error
}

func (r *ledgerRepo) ListByParty(ctx context.Context, partyType string, partyID uuid.UUID) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("party_type = ? AND party_id = ?", partyType, partyID).
		Order("date ASC, created_at ASC").Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) FindByInvoice(ctx context.Context, invoiceID uuid.UUID, kind string) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("invoice_id = ? AND kind = ?", invoiceID, kind).First(&e).Error
	return &e, err
}

func (r *ledgerRepo) UpdateAmountTx(tx *gorm.DB, id uuid.UUID, amount, faceAmount decimal.Decimal) error {
	return tx.Model(&model.LedgerEntry{}).Where("id = ?", id).Updates(map[string]interface{}{
		"amount":      amount,
		"face_amount": faceAmount,
	}).Error
}

func (r *ledgerRepo) DeleteByInvoiceTx(tx *gorm.DB, invoiceID uuid.UUID) error {
	return tx.Where("invoice_id = ?", invoiceID).Delete(&model.LedgerEntry{}).Error
}

func (r *ledgerRepo) HasEntries(ctx context.Context, partyType string, partyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LedgerEntry{}).
		Where("party_type = ? AND party_id = ?", partyType, partyID).Count(&count).Error
	return count > 0, err
}
