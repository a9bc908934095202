package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wali1264/ketabestan2/internal/calendar"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseService interface {
	CreateExpense(ctx context.Context, userID uuid.UUID, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error)
	ListExpenses(ctx context.Context, filter dto.ExpenseFilter) ([]dto.ExpenseResponse, int64, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error
	// Summarize totals expenses per category between two dates (inclusive).
	Summarize(ctx context.Context, filter dto.ReportFilter) (*dto.ExpenseSummaryResponse, error)
}

type expenseService struct {
	repo repository.ExpenseRepository
}

func NewExpenseService(repo repository.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo}
}

func (s *expenseService) CreateExpense(ctx context.Context, userID uuid.UUID, req dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}
	date := nowFunc()
	if req.Date != nil && *req.Date != "" {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		date = d
	}
	e := &model.ExpenseEntry{
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		CreatedBy:   userID,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	resp := expenseToResponse(e)
	return &resp, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, filter dto.ExpenseFilter) ([]dto.ExpenseResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Calendar == "jalali" {
		for _, f := range []*string{&filter.From, &filter.To} {
			if *f == "" {
				continue
			}
			day, err := calendar.ParseDate(*f, true)
			if err != nil {
				return nil, 0, err
			}
			*f = day.Format("2006-01-02")
		}
	}
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.ExpenseResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, expenseToResponse(&entries[i]))
	}
	return resp, total, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("expense not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *expenseService) Summarize(ctx context.Context, filter dto.ReportFilter) (*dto.ExpenseSummaryResponse, error) {
	from, to, err := parseReportRange(filter)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	for _, e := range entries {
		total = total.Add(e.Amount)
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
	}
	return &dto.ExpenseSummaryResponse{
		From:       filter.From,
		To:         filter.To,
		Total:      total,
		ByCategory: byCategory,
	}, nil
}

// parseReportRange turns an inclusive from/to filter into a half-open
// [from, to+1d) window, converting from the Jalali calendar when asked.
func parseReportRange(filter dto.ReportFilter) (time.Time, time.Time, error) {
	jalali := filter.Calendar == "jalali"
	from, err := calendar.ParseDate(filter.From, jalali)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := calendar.ParseDate(filter.To, jalali)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to must not be before from")
	}
	return from, to.AddDate(0, 0, 1), nil
}

func expenseToResponse(e *model.ExpenseEntry) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          e.ID.String(),
		Category:    e.Category,
		Amount:      e.Amount,
		Date:        e.Date.Format("2006-01-02"),
		Description: e.Description,
	}
}
