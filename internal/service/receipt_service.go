package service

import (
	"context"
	"errors"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"

	"github.com/google/uuid"
)

// ReceiptService reads the state of async receipt generation. The records
// themselves are written by the receipt worker.
type ReceiptService interface {
	GetBySale(ctx context.Context, saleID uuid.UUID) (*dto.ReceiptResponse, error)
	// PDFPath returns the path of a generated receipt PDF, or an error while
	// generation is still pending or failed.
	PDFPath(ctx context.Context, saleID uuid.UUID) (string, error)
}

type receiptService struct {
	repo repository.ReceiptRepository
}

func NewReceiptService(repo repository.ReceiptRepository) ReceiptService {
	return &receiptService{repo: repo}
}

func (s *receiptService) GetBySale(ctx context.Context, saleID uuid.UUID) (*dto.ReceiptResponse, error) {
	rec, err := s.repo.FindBySaleID(ctx, saleID)
	if err != nil {
		return nil, errors.New("receipt not found")
	}
	return receiptToResponse(rec), nil
}

func (s *receiptService) PDFPath(ctx context.Context, saleID uuid.UUID) (string, error) {
	rec, err := s.repo.FindBySaleID(ctx, saleID)
	if err != nil {
		return "", errors.New("receipt not found")
	}
	if rec.PDFPath == nil || (rec.Status != model.ReceiptGenerated && rec.Status != model.ReceiptSent) {
		return "", errors.New("receipt PDF is not ready yet")
	}
	return *rec.PDFPath, nil
}

func receiptToResponse(r *model.Receipt) *dto.ReceiptResponse {
	return &dto.ReceiptResponse{
		ID:         r.ID.String(),
		SaleID:     r.SaleID.String(),
		Number:     r.Number,
		Status:     r.Status,
		PDFPath:    r.PDFPath,
		EmailTo:    r.EmailTo,
		RetryCount: r.RetryCount,
		LastError:  r.LastError,
		CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
