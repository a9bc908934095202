package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartyService manages customers, suppliers and employees through one
// surface; the party type discriminator picks the table underneath.
type PartyService interface {
	CreateParty(ctx context.Context, partyType string, req dto.CreatePartyRequest) (*dto.PartyResponse, error)
	GetParty(ctx context.Context, partyType string, id uuid.UUID) (*dto.PartyResponse, error)
	ListParties(ctx context.Context, partyType string, includeInactive bool) ([]dto.PartyResponse, error)
	UpdateParty(ctx context.Context, partyType string, id uuid.UUID, req dto.UpdatePartyRequest) (*dto.PartyResponse, error)
	// DeleteParty removes a party outright, but only while it has no ledger
	// history and a zero balance; otherwise the history must survive.
	DeleteParty(ctx context.Context, partyType string, id uuid.UUID) error
}

type partyService struct {
	parties repository.PartyRepository
	ledgers repository.LedgerRepository
}

func NewPartyService(parties repository.PartyRepository, ledgers repository.LedgerRepository) PartyService {
	return &partyService{parties: parties, ledgers: ledgers}
}

func (s *partyService) CreateParty(ctx context.Context, partyType string, req dto.CreatePartyRequest) (*dto.PartyResponse, error) {
	if partyType == model.PartyEmployee && req.MonthlySalary != nil && req.MonthlySalary.IsNegative() {
		return nil, errors.New("monthly_salary cannot be negative")
	}
	p := &repository.Party{
		Name:          req.Name,
		Phone:         req.Phone,
		Address:       req.Address,
		Role:          req.Role,
		MonthlySalary: req.MonthlySalary,
		Balance:       decimal.Zero,
		Active:        true,
	}
	if err := s.parties.Create(ctx, partyType, p); err != nil {
		return nil, err
	}
	return partyToResponse(p), nil
}

func (s *partyService) GetParty(ctx context.Context, partyType string, id uuid.UUID) (*dto.PartyResponse, error) {
	p, err := s.parties.FindByID(ctx, partyType, id)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownPartyType) {
			return nil, err
		}
		return nil, fmt.Errorf("%s not found", partyType)
	}
	return partyToResponse(p), nil
}

func (s *partyService) ListParties(ctx context.Context, partyType string, includeInactive bool) ([]dto.PartyResponse, error) {
	parties, err := s.parties.List(ctx, partyType, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PartyResponse, 0, len(parties))
	for i := range parties {
		resp = append(resp, *partyToResponse(&parties[i]))
	}
	return resp, nil
}

func (s *partyService) UpdateParty(ctx context.Context, partyType string, id uuid.UUID, req dto.UpdatePartyRequest) (*dto.PartyResponse, error) {
	p, err := s.parties.FindByID(ctx, partyType, id)
	if err != nil {
		return nil, fmt.Errorf("%s not found", partyType)
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.Role != nil {
		p.Role = req.Role
	}
	if req.MonthlySalary != nil {
		if req.MonthlySalary.IsNegative() {
			return nil, errors.New("monthly_salary cannot be negative")
		}
		p.MonthlySalary = req.MonthlySalary
	}
	if err := s.parties.Update(ctx, partyType, p); err != nil {
		return nil, err
	}
	return partyToResponse(p), nil
}

func (s *partyService) DeleteParty(ctx context.Context, partyType string, id uuid.UUID) error {
	p, err := s.parties.FindByID(ctx, partyType, id)
	if err != nil {
		return fmt.Errorf("%s not found", partyType)
	}
	if !p.Balance.IsZero() {
		return fmt.Errorf("%s has a non-zero balance and cannot be deleted", partyType)
	}
	if has, err := s.ledgers.HasEntries(ctx, partyType, id); err != nil {
		return err
	} else if has {
		return fmt.Errorf("%s has ledger history and cannot be deleted", partyType)
	}
	return s.parties.Delete(ctx, partyType, id)
}

func partyToResponse(p *repository.Party) *dto.PartyResponse {
	return &dto.PartyResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Phone:         p.Phone,
		Address:       p.Address,
		Role:          p.Role,
		MonthlySalary: p.MonthlySalary,
		Balance:       p.Balance,
		Active:        p.Active,
	}
}
