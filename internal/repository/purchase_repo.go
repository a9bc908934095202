package repository

import (
	"context"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, inv *model.PurchaseInvoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseInvoice, error)
	NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int, error)
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	HasReturns(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter dto.PurchaseFilter) ([]model.PurchaseInvoice, int64, error)
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) DB() *gorm.DB { return r.db }

func (r *purchaseRepo) Create(ctx context.Context, tx *gorm.DB, inv *model.PurchaseInvoice) error {
	return tx.WithContext(ctx).Create(inv).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchaseInvoice, error) {
	var inv model.PurchaseInvoice
	err := r.db.WithContext(ctx).Preload("Lines.Product").Preload("Supplier").First(&inv, id).Error
	return &inv, err
}

func (r *purchaseRepo) NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('purchase_invoice_number_seq')").Scan(&num).Error
	return num, err
}

func (r *purchaseRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("invoice_id = ?", id).Delete(&model.PurchaseLine{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.PurchaseInvoice{}, id).Error
}

func (r *purchaseRepo) HasReturns(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PurchaseInvoice{}).
		Where("original_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *purchaseRepo) List(ctx context.Context, filter dto.PurchaseFilter) ([]model.PurchaseInvoice, int64, error) {
	var invoices []model.PurchaseInvoice
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.PurchaseInvoice{})

	if filter.Kind != "" && filter.Kind != "all" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Lines.Product").Preload("Supplier").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&invoices).Error

	return invoices, total, err
}
