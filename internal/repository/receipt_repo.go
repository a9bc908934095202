package repository

import (
	"context"
	"time"

	"github.com/wali1264/ketabestan2/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptRepository interface {
	Create(ctx context.Context, rec *model.Receipt) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
	FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Receipt, error)
	Update(ctx context.Context, rec *model.Receipt) error
	// ListPendingRetries feeds the retry cron: pending/error receipts whose
	// next_retry_at has passed.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Receipt, error)
}

type receiptRepo struct{ db *gorm.DB }

func NewReceiptRepository(db *gorm.DB) ReceiptRepository { return &receiptRepo{db: db} }

func (r *receiptRepo) Create(ctx context.Context, rec *model.Receipt) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *receiptRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	var rec model.Receipt
	err := r.db.WithContext(ctx).First(&rec, id).Error
	return &rec, err
}

func (r *receiptRepo) FindBySaleID(ctx context.Context, saleID uuid.UUID) (*model.Receipt, error) {
	var rec model.Receipt
	err := r.db.WithContext(ctx).Where("sale_id = ?", saleID).First(&rec).Error
	return &rec, err
}

func (r *receiptRepo) Update(ctx context.Context, rec *model.Receipt) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *receiptRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Receipt, error) {
	var receipts []model.Receipt
	err := r.db.WithContext(ctx).
		Where("status IN ('pending', 'error') AND next_retry_at IS NOT NULL AND next_retry_at <= ?", now).
		Order("next_retry_at ASC").Limit(limit).Find(&receipts).Error
	return receipts, err
}
