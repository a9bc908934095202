package repository

import (
	"context"

	"github.com/wali1264/ketabestan2/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*model.StoreSettings, error)
	Update(ctx context.Context, s *model.StoreSettings) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) Get(ctx context.Context) (*model.StoreSettings, error) {
	var s model.StoreSettings
	err := r.db.WithContext(ctx).First(&s, 1).Error
	return &s, err
}

func (r *settingsRepo) Update(ctx context.Context, s *model.StoreSettings) error {
	s.ID = 1 // singleton row
	return r.db.WithContext(ctx).Save(s).Error
}
