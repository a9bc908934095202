package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BatchDeduction records how many units one batch contributed to a deduction.
type BatchDeduction struct {
	BatchID  uuid.UUID
	Quantity int
	UnitCost decimal.Decimal
}

// DeductionResult is the outcome of a FIFO stock deduction: which batches
// were consumed and the blended cost of the consumed units.
type DeductionResult struct {
	Deductions  []BatchDeduction
	TotalCost   decimal.Decimal // base currency
	UnitCost    decimal.Decimal // weighted average per unit
	StockBefore int
}

// InventoryService owns batch-level stock: FIFO deduction for sales,
// restoration for returns and edits, lot-matched deduction for purchase
// returns, and manual adjustments. Every mutation records a stock movement
// in the same transaction.
type InventoryService interface {
	// DeductFIFOTx consumes qty units of product across its batches in FIFO
	// order: batches with an expiry date first (soonest expiry first), then
	// batches without one (oldest purchase first). Fails without touching
	// anything when total stock is short.
	DeductFIFOTx(tx *gorm.DB, product *model.Product, qty int, kind string, refID *uuid.UUID, reason string) (*DeductionResult, error)
	// RestoreStockTx puts qty units back onto the product's first batch in
	// FIFO order, creating a zero-cost batch when the product has none.
	RestoreStockTx(tx *gorm.DB, productID uuid.UUID, qty int, kind string, refID *uuid.UUID, reason string) error
	// DeductFromLotTx removes qty units from the first batch whose lot number
	// matches; used by purchase returns, where goods leave a known lot.
	DeductFromLotTx(tx *gorm.DB, productID uuid.UUID, lotNumber string, qty int, refID *uuid.UUID, reason string) (*model.Batch, error)

	AdjustBatch(ctx context.Context, req dto.AdjustBatchRequest) (*dto.StockMovementResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	LowStockAlerts(ctx context.Context) ([]dto.LowStockAlert, error)
	ExpiryAlerts(ctx context.Context, withinDays int) ([]dto.ExpiryAlert, error)
}

type inventoryService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
}

func NewInventoryService(products repository.ProductRepository, movements repository.StockMovementRepository) InventoryService {
	return &inventoryService{products: products, movements: movements}
}

// fifoOrder sorts batches into consumption order: expiring batches first by
// soonest expiry, then non-expiring batches by oldest purchase date.
func fifoOrder(batches []model.Batch) []model.Batch {
	ordered := make([]model.Batch, len(batches))
	copy(ordered, batches)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		switch {
		case a.ExpiresAt != nil && b.ExpiresAt == nil:
			return true
		case a.ExpiresAt == nil && b.ExpiresAt != nil:
			return false
		case a.ExpiresAt != nil && b.ExpiresAt != nil:
			if !a.ExpiresAt.Equal(*b.ExpiresAt) {
				return a.ExpiresAt.Before(*b.ExpiresAt)
			}
			return a.PurchasedAt.Before(b.PurchasedAt)
		default:
			return a.PurchasedAt.Before(b.PurchasedAt)
		}
	})
	return ordered
}

func totalStock(batches []model.Batch) int {
	total := 0
	for _, b := range batches {
		total += b.Stock
	}
	return total
}

func (s *inventoryService) DeductFIFOTx(tx *gorm.DB, product *model.Product, qty int, kind string, refID *uuid.UUID, reason string) (*DeductionResult, error) {
	// Re-read batches inside the transaction: the preloaded ones on product
	// may be stale by now.
	batches, err := s.products.ListBatchesTx(tx, product.ID)
	if err != nil {
		return nil, err
	}

	before := totalStock(batches)
	if before < qty {
		return nil, fmt.Errorf("insufficient stock for %s", product.Name)
	}

	result := &DeductionResult{StockBefore: before, TotalCost: decimal.Zero}
	remaining := qty

	for _, b := range fifoOrder(batches) {
		if remaining == 0 {
			break
		}
		if b.Stock == 0 {
			continue
		}
		take := b.Stock
		if take > remaining {
			take = remaining
		}
		if err := s.products.UpdateBatchStockTx(tx, b.ID, -take); err != nil {
			return nil, fmt.Errorf("insufficient stock for %s", product.Name)
		}
		result.Deductions = append(result.Deductions, BatchDeduction{
			BatchID:  b.ID,
			Quantity: take,
			UnitCost: b.UnitCost,
		})
		result.TotalCost = result.TotalCost.Add(b.UnitCost.Mul(decimal.NewFromInt(int64(take))))
		remaining -= take
	}
	if remaining > 0 {
		return nil, fmt.Errorf("insufficient stock for %s", product.Name)
	}

	result.UnitCost = result.TotalCost.Div(decimal.NewFromInt(int64(qty))).Round(4)

	mov := &model.StockMovement{
		ProductID:   product.ID,
		Kind:        kind,
		Quantity:    -qty,
		StockBefore: before,
		StockAfter:  before - qty,
		Reason:      reason,
		ReferenceID: refID,
	}
	if err := s.movements.CreateTx(tx, mov); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *inventoryService) RestoreStockTx(tx *gorm.DB, productID uuid.UUID, qty int, kind string, refID *uuid.UUID, reason string) error {
	batches, err := s.products.ListBatchesTx(tx, productID)
	if err != nil {
		return err
	}
	before := totalStock(batches)

	var batchID uuid.UUID
	if len(batches) == 0 {
		// All batches are gone (sold out and purged, or never batched).
		// Returned units still need a home.
		b := &model.Batch{
			ProductID:   productID,
			Stock:       qty,
			UnitCost:    decimal.Zero,
			PurchasedAt: nowFunc(),
		}
		if err := s.products.CreateBatchTx(tx, b); err != nil {
			return err
		}
		batchID = b.ID
	} else {
		first := fifoOrder(batches)[0]
		if err := s.products.UpdateBatchStockTx(tx, first.ID, qty); err != nil {
			return err
		}
		batchID = first.ID
	}

	mov := &model.StockMovement{
		ProductID:   productID,
		BatchID:     &batchID,
		Kind:        kind,
		Quantity:    qty,
		StockBefore: before,
		StockAfter:  before + qty,
		Reason:      reason,
		ReferenceID: refID,
	}
	return s.movements.CreateTx(tx, mov)
}

func (s *inventoryService) DeductFromLotTx(tx *gorm.DB, productID uuid.UUID, lotNumber string, qty int, refID *uuid.UUID, reason string) (*model.Batch, error) {
	batches, err := s.products.ListBatchesTx(tx, productID)
	if err != nil {
		return nil, err
	}
	before := totalStock(batches)

	// First batch carrying the lot number wins, matching how goods are
	// physically pulled for a supplier return.
	var match *model.Batch
	for i := range batches {
		if batches[i].LotNumber == lotNumber {
			match = &batches[i]
			break
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no batch with lot %q for this product", lotNumber)
	}
	if match.Stock < qty {
		return nil, fmt.Errorf("lot %q holds %d units, cannot return %d", lotNumber, match.Stock, qty)
	}
	if err := s.products.UpdateBatchStockTx(tx, match.ID, -qty); err != nil {
		return nil, err
	}

	mov := &model.StockMovement{
		ProductID:   productID,
		BatchID:     &match.ID,
		Kind:        model.MovementPurchaseReturn,
		Quantity:    -qty,
		StockBefore: before,
		StockAfter:  before - qty,
		Reason:      reason,
		ReferenceID: refID,
	}
	if err := s.movements.CreateTx(tx, mov); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *inventoryService) AdjustBatch(ctx context.Context, req dto.AdjustBatchRequest) (*dto.StockMovementResponse, error) {
	batchID, err := uuid.Parse(req.BatchID)
	if err != nil {
		return nil, fmt.Errorf("invalid batch_id: %w", err)
	}
	batch, err := s.products.FindBatchByID(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("batch not found")
	}
	if batch.Stock+req.Delta < 0 {
		return nil, fmt.Errorf("adjustment would leave batch stock negative")
	}

	var mov *model.StockMovement
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		batches, err := s.products.ListBatchesTx(tx, batch.ProductID)
		if err != nil {
			return err
		}
		before := totalStock(batches)

		if err := s.products.UpdateBatchStockTx(tx, batchID, req.Delta); err != nil {
			return fmt.Errorf("adjustment would leave batch stock negative")
		}
		mov = &model.StockMovement{
			ProductID:   batch.ProductID,
			BatchID:     &batchID,
			Kind:        model.MovementAdjustment,
			Quantity:    req.Delta,
			StockBefore: before,
			StockAfter:  before + req.Delta,
			Reason:      req.Reason,
		}
		return s.movements.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := movementToResponse(mov)
	return &resp, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *inventoryService) LowStockAlerts(ctx context.Context) ([]dto.LowStockAlert, error) {
	products, err := s.products.LowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.LowStockAlert, 0, len(products))
	for i := range products {
		p := &products[i]
		alerts = append(alerts, dto.LowStockAlert{
			ProductID:  p.ID.String(),
			Name:       p.Name,
			TotalStock: p.TotalStock(),
			MinStock:   p.MinStock,
		})
	}
	return alerts, nil
}

func (s *inventoryService) ExpiryAlerts(ctx context.Context, withinDays int) ([]dto.ExpiryAlert, error) {
	if withinDays < 1 {
		withinDays = 30
	}
	batches, err := s.products.ExpiringBatches(ctx, withinDays)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.ExpiryAlert, 0, len(batches))
	for _, b := range batches {
		name := ""
		if p, err := s.products.FindByID(ctx, b.ProductID); err == nil {
			name = p.Name
		}
		alerts = append(alerts, dto.ExpiryAlert{
			ProductID:   b.ProductID.String(),
			ProductName: name,
			BatchID:     b.ID.String(),
			LotNumber:   b.LotNumber,
			Stock:       b.Stock,
			UnitCost:    b.UnitCost,
			ExpiresAt:   b.ExpiresAt.Format("2006-01-02"),
		})
	}
	return alerts, nil
}

func movementToResponse(m *model.StockMovement) dto.StockMovementResponse {
	resp := dto.StockMovementResponse{
		ID:          m.ID.String(),
		ProductID:   m.ProductID.String(),
		Kind:        m.Kind,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
	}
	if m.BatchID != nil {
		id := m.BatchID.String()
		resp.BatchID = &id
	}
	if m.ReferenceID != nil {
		id := m.ReferenceID.String()
		resp.ReferenceID = &id
	}
	return resp
}
