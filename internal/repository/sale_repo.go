package repository

import (
	"context"
	"time"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, inv *model.SaleInvoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SaleInvoice, error)
	NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int, error)
	// ReplaceLinesTx deletes the invoice's lines and re-creates them; used by
	// the edit path together with a header update.
	ReplaceLinesTx(tx *gorm.DB, invoiceID uuid.UUID, lines []model.SaleLine) error
	UpdateHeaderTx(tx *gorm.DB, inv *model.SaleInvoice) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	HasReturns(ctx context.Context, id uuid.UUID) (bool, error)
	// ListReturns loads return invoices referencing an original sale, used to
	// cap cumulative returned quantities.
	ListReturns(ctx context.Context, originalID uuid.UUID) ([]model.SaleInvoice, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.SaleInvoice, int64, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.SaleInvoice, error)
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, inv *model.SaleInvoice) error {
	return tx.WithContext(ctx).Create(inv).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SaleInvoice, error) {
	var inv model.SaleInvoice
	err := r.db.WithContext(ctx).Preload("Lines.Product").Preload("Customer").First(&inv, id).Error
	return &inv, err
}

func (r *saleRepo) NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	// Postgres sequence keeps numbering gap-free enough and atomic
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('sale_invoice_number_seq')").Scan(&num).Error
	return num, err
}

func (r *saleRepo) ReplaceLinesTx(tx *gorm.DB, invoiceID uuid.UUID, lines []model.SaleLine) error {
	if err := tx.Where("invoice_id = ?", invoiceID).Delete(&model.SaleLine{}).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].InvoiceID = invoiceID
	}
	return tx.Create(&lines).Error
}

func (r *saleRepo) UpdateHeaderTx(tx *gorm.DB, inv *model.SaleInvoice) error {
	return tx.Model(&model.SaleInvoice{}).Where("id = ?", inv.ID).Updates(map[string]interface{}{
		"subtotal": inv.Subtotal,
		"discount": inv.Discount,
		"total":    inv.Total,
		"note":     inv.Note,
	}).Error
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("invoice_id = ?", id).Delete(&model.SaleLine{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.SaleInvoice{}, id).Error
}

func (r *saleRepo) HasReturns(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SaleInvoice{}).
		Where("original_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *saleRepo) ListReturns(ctx context.Context, originalID uuid.UUID) ([]model.SaleInvoice, error) {
	var invoices []model.SaleInvoice
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("original_id = ?", originalID).Find(&invoices).Error
	return invoices, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.SaleInvoice, int64, error) {
	var invoices []model.SaleInvoice
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.SaleInvoice{})

	if filter.Kind != "" && filter.Kind != "all" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.CashierID != "" {
		q = q.Where("cashier_id = ?", filter.CashierID)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Lines.Product").Preload("Customer").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&invoices).Error

	return invoices, total, err
}

func (r *saleRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.SaleInvoice, error) {
	var invoices []model.SaleInvoice
	err := r.db.WithContext(ctx).Preload("Lines").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").Find(&invoices).Error
	return invoices, err
}
