package dto

import "github.com/shopspring/decimal"

type UpdateSettingsRequest struct {
	StoreName      *string          `json:"store_name"`
	Address        *string          `json:"address"`
	Phone          *string          `json:"phone"`
	DefaultUSDRate *decimal.Decimal `json:"default_usd_rate" validate:"omitempty,min=0"`
}

type SettingsResponse struct {
	StoreName      string          `json:"store_name"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone"`
	BaseCurrency   string          `json:"base_currency"`
	DefaultUSDRate decimal.Decimal `json:"default_usd_rate"`
}
