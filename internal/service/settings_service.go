package service

import (
	"context"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/repository"
)

type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SettingsResponse{
		StoreName:      settings.StoreName,
		Address:        settings.Address,
		Phone:          settings.Phone,
		BaseCurrency:   settings.BaseCurrency,
		DefaultUSDRate: settings.DefaultUSDRate,
	}, nil
}

func (s *settingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if req.StoreName != nil {
		settings.StoreName = *req.StoreName
	}
	if req.Address != nil {
		settings.Address = *req.Address
	}
	if req.Phone != nil {
		settings.Phone = *req.Phone
	}
	if req.DefaultUSDRate != nil {
		settings.DefaultUSDRate = *req.DefaultUSDRate
	}
	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return s.Get(ctx)
}
