package dto

import "github.com/shopspring/decimal"

// RecordPaymentRequest covers customer payments, supplier payments,
// employee advances and salary payments. Amount is the positive magnitude;
// the service fixes the sign per entry kind.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description"`
	Date        *string         `json:"date"` // YYYY-MM-DD; default today
	// Supplier payments may be made in USD; the rate converts to base currency.
	Currency     *string          `json:"currency"      validate:"omitempty,oneof=AFN USD"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate" validate:"omitempty"`
}

type LedgerEntryResponse struct {
	ID          string          `json:"id"`
	PartyType   string          `json:"party_type"`
	PartyID     string          `json:"party_id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	FaceAmount  decimal.Decimal `json:"face_amount"`
	Date        string          `json:"date"`
	Description string          `json:"description,omitempty"`
	InvoiceID   *string         `json:"invoice_id,omitempty"`
}

type LedgerListResponse struct {
	Data    []LedgerEntryResponse `json:"data"`
	Balance decimal.Decimal       `json:"balance"`
}
