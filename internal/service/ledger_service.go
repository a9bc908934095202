package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerService handles direct ledger postings: payments, advances and
// salaries. Invoice-driven entries (credit sales, credit purchases, returns)
// are posted by the sale and purchase services inside their own transactions.
type LedgerService interface {
	// RecordPayment settles part of a party's balance. Customer payments are
	// money in; supplier payments are money out; both lower the balance.
	RecordPayment(ctx context.Context, partyType string, partyID uuid.UUID, req dto.RecordPaymentRequest) (*dto.LedgerEntryResponse, error)
	// RecordAdvance lends money to an employee against future salary.
	RecordAdvance(ctx context.Context, employeeID uuid.UUID, req dto.RecordPaymentRequest) (*dto.LedgerEntryResponse, error)
	// RecordSalary pays a salary, first consuming any outstanding advances.
	RecordSalary(ctx context.Context, employeeID uuid.UUID, req dto.RecordPaymentRequest) (*dto.LedgerEntryResponse, error)
	GetLedger(ctx context.Context, partyType string, partyID uuid.UUID) (*dto.LedgerListResponse, error)
}

type ledgerService struct {
	ledgers repository.LedgerRepository
	parties repository.PartyRepository
}

func NewLedgerService(ledgers repository.LedgerRepository, parties repository.PartyRepository) LedgerService {
	return &ledgerService{ledgers: ledgers, parties: parties}
}

func (s *ledgerService) RecordPayment(ctx context.Context, partyType string, partyID uuid.UUID, req dto.RecordPaymentRequest) (*dto.LedgerEntryResponse, error) {
	if partyType != model.PartyCustomer && partyType != model.PartySupplier {
		return nil, repository.ErrUnknownPartyType
	}
	return s.post(ctx, partyType, partyID, model.LedgerPayment, req, true)
}

func (s *ledgerService) RecordAdvance(ctx context.Context, employeeID uuid.UUID, req dto.RecordPaymentRequest) (*dto.LedgerEntryResponse, error) {
	// An advance raises the employee balance: they owe it back.
	return s.post(ctx, model.PartyEmployee, employeeID, model.LedgerAdvance, req, false)
}

func (s *ledgerService) RecordSalary(ctx context.Context, employeeID uuid.UUID, req dto.RecordPaymentRequest) (*dto.LedgerEntryResponse, error) {
	return s.post(ctx, model.PartyEmployee, employeeID, model.LedgerSalary, req, true)
}

// post validates the party, fixes the sign per entry kind, converts foreign
// currency at the given rate, and writes entry + balance in one transaction.
func (s *ledgerService) post(ctx context.Context, partyType string, partyID uuid.UUID, kind string, req dto.RecordPaymentRequest, negative bool) (*dto.LedgerEntryResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	if _, err := s.parties.FindByID(ctx, partyType, partyID); err != nil {
		return nil, fmt.Errorf("%s not found", partyType)
	}

	currency := "AFN"
	face := req.Amount
	amount := req.Amount
	if req.Currency != nil && *req.Currency == "USD" {
		if partyType != model.PartySupplier {
			return nil, errors.New("foreign-currency entries are supported for suppliers only")
		}
		if req.ExchangeRate == nil || !req.ExchangeRate.IsPositive() {
			return nil, errors.New("exchange_rate is required for USD entries")
		}
		currency = "USD"
		amount = req.Amount.Mul(*req.ExchangeRate).Round(2)
	}
	if negative {
		amount = amount.Neg()
	}

	date := nowFunc()
	if req.Date != nil && *req.Date != "" {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		date = d
	}

	entry := &model.LedgerEntry{
		PartyType:   partyType,
		PartyID:     partyID,
		Kind:        kind,
		Amount:      amount,
		Currency:    currency,
		FaceAmount:  face,
		Date:        date,
		Description: req.Description,
	}

	txErr := runTx(ctx, s.ledgers.DB(), func(tx *gorm.DB) error {
		if err := s.ledgers.CreateTx(tx, entry); err != nil {
			return err
		}
		return s.parties.UpdateBalanceTx(tx, partyType, partyID, amount)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := ledgerEntryToResponse(entry)
	return &resp, nil
}

func (s *ledgerService) GetLedger(ctx context.Context, partyType string, partyID uuid.UUID) (*dto.LedgerListResponse, error) {
	party, err := s.parties.FindByID(ctx, partyType, partyID)
	if err != nil {
		return nil, fmt.Errorf("%s not found", partyType)
	}
	entries, err := s.ledgers.ListByParty(ctx, partyType, partyID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, ledgerEntryToResponse(&entries[i]))
	}
	return &dto.LedgerListResponse{Data: items, Balance: party.Balance}, nil
}

func ledgerEntryToResponse(e *model.LedgerEntry) dto.LedgerEntryResponse {
	resp := dto.LedgerEntryResponse{
		ID:          e.ID.String(),
		PartyType:   e.PartyType,
		PartyID:     e.PartyID.String(),
		Kind:        e.Kind,
		Amount:      e.Amount,
		Currency:    e.Currency,
		FaceAmount:  e.FaceAmount,
		Date:        e.Date.Format("2006-01-02"),
		Description: e.Description,
	}
	if e.InvoiceID != nil {
		id := e.InvoiceID.String()
		resp.InvoiceID = &id
	}
	return resp
}
