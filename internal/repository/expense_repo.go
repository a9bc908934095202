package repository

import (
	"context"
	"time"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.ExpenseEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ExpenseEntry, error)
	List(ctx context.Context, filter dto.ExpenseFilter) ([]model.ExpenseEntry, int64, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.ExpenseEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.ExpenseEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ExpenseEntry, error) {
	var e model.ExpenseEntry
	err := r.db.WithContext(ctx).First(&e, id).Error
	return &e, err
}

func (r *expenseRepo) List(ctx context.Context, filter dto.ExpenseFilter) ([]model.ExpenseEntry, int64, error) {
	var entries []model.ExpenseEntry
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.ExpenseEntry{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.From != "" {
		q = q.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("date <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("date DESC").Offset(offset).Limit(filter.Limit).Find(&entries).Error
	return entries, total, err
}

func (r *expenseRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.ExpenseEntry, error) {
	var entries []model.ExpenseEntry
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC").Find(&entries).Error
	return entries, err
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ExpenseEntry{}, id).Error
}
