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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseService interface {
	// CreatePurchase posts a supplier invoice: one batch per line, exchange
	// conversion applied once at entry, and a credit entry on the supplier
	// ledger in base currency.
	CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error)
	ReturnPurchase(ctx context.Context, req dto.ReturnPurchaseRequest) (*dto.PurchaseResponse, error)
	// DeletePurchase rolls a purchase back entirely. Allowed only while every
	// batch it created is still untouched.
	DeletePurchase(ctx context.Context, id uuid.UUID) error
	GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	ListPurchases(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error)
}

type purchaseService struct {
	purchases repository.PurchaseRepository
	products  repository.ProductRepository
	parties   repository.PartyRepository
	ledgers   repository.LedgerRepository
	movements repository.StockMovementRepository
	inventory InventoryService
}

func NewPurchaseService(
	purchases repository.PurchaseRepository,
	products repository.ProductRepository,
	parties repository.PartyRepository,
	ledgers repository.LedgerRepository,
	movements repository.StockMovementRepository,
	inventory InventoryService,
) PurchaseService {
	return &purchaseService{
		purchases: purchases,
		products:  products,
		parties:   parties,
		ledgers:   ledgers,
		movements: movements,
		inventory: inventory,
	}
}

func (s *purchaseService) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier_id: %w", err)
	}
	if _, err := s.parties.FindByID(ctx, model.PartySupplier, supplierID); err != nil {
		return nil, errors.New("supplier not found")
	}

	rate := req.ExchangeRate
	switch req.Currency {
	case "AFN":
		if !rate.Equal(decimal.NewFromInt(1)) {
			return nil, errors.New("exchange_rate must be 1 for AFN invoices")
		}
	case "USD":
		if !rate.IsPositive() {
			return nil, errors.New("exchange_rate must be positive")
		}
	default:
		return nil, fmt.Errorf("unsupported currency %q", req.Currency)
	}

	// Resolve products and parse expiry dates before opening the transaction.
	type resolvedPurchaseLine struct {
		product      *model.Product
		quantity     int
		unitCost     decimal.Decimal // invoice currency
		unitCostBase decimal.Decimal
		lotNumber    string
		expiresAt    *time.Time
	}
	resolved := make([]resolvedPurchaseLine, 0, len(req.Lines))
	for i, line := range req.Lines {
		pid, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid product_id: %w", i+1, err)
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("line %d: product not found", i+1)
		}
		rl := resolvedPurchaseLine{
			product:      p,
			quantity:     line.Quantity,
			unitCost:     line.UnitCost,
			unitCostBase: line.UnitCost.Mul(rate).Round(4),
			lotNumber:    line.LotNumber,
		}
		if line.ExpiresAt != nil && *line.ExpiresAt != "" {
			exp, err := time.Parse("2006-01-02", *line.ExpiresAt)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid expires_at: %w", i+1, err)
			}
			rl.expiresAt = &exp
		}
		resolved = append(resolved, rl)
	}

	total, totalBase := decimal.Zero, decimal.Zero
	for _, rl := range resolved {
		qty := decimal.NewFromInt(int64(rl.quantity))
		total = total.Add(rl.unitCost.Mul(qty))
		totalBase = totalBase.Add(rl.unitCostBase.Mul(qty))
	}
	total = total.Round(2)
	totalBase = totalBase.Round(2)

	inv := model.PurchaseInvoice{
		ID:           uuid.New(),
		Kind:         model.PurchaseKindPurchase,
		SupplierID:   supplierID,
		Currency:     req.Currency,
		ExchangeRate: rate,
		Total:        total,
		TotalBase:    totalBase,
	}

	txErr := runTx(ctx, s.purchases.DB(), func(tx *gorm.DB) error {
		number, err := s.purchases.NextInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}
		inv.Number = number

		receivedAt := nowFunc()
		for _, rl := range resolved {
			// Stock before, for the movement row.
			batchesBefore, err := s.products.ListBatchesTx(tx, rl.product.ID)
			if err != nil {
				return err
			}
			before := totalStock(batchesBefore)

			batch := &model.Batch{
				ProductID:   rl.product.ID,
				LotNumber:   rl.lotNumber,
				Stock:       rl.quantity,
				UnitCost:    rl.unitCostBase,
				PurchasedAt: receivedAt,
				ExpiresAt:   rl.expiresAt,
			}
			if err := s.products.CreateBatchTx(tx, batch); err != nil {
				return err
			}

			batchID := batch.ID
			inv.Lines = append(inv.Lines, model.PurchaseLine{
				ProductID:    rl.product.ID,
				Quantity:     rl.quantity,
				UnitCost:     rl.unitCost,
				UnitCostBase: rl.unitCostBase,
				LotNumber:    rl.lotNumber,
				ExpiresAt:    rl.expiresAt,
				BatchID:      &batchID,
			})

			mov := &model.StockMovement{
				ProductID:   rl.product.ID,
				BatchID:     &batchID,
				Kind:        model.MovementPurchase,
				Quantity:    rl.quantity,
				StockBefore: before,
				StockAfter:  before + rl.quantity,
				Reason:      fmt.Sprintf("purchase #%d", number),
				ReferenceID: &inv.ID,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		if err := s.purchases.Create(ctx, tx, &inv); err != nil {
			return err
		}

		entry := &model.LedgerEntry{
			PartyType:   model.PartySupplier,
			PartyID:     supplierID,
			Kind:        model.LedgerCreditPurchase,
			Amount:      totalBase,
			Currency:    req.Currency,
			FaceAmount:  total,
			Date:        nowFunc(),
			Description: fmt.Sprintf("Purchase invoice #%d", number),
			InvoiceID:   &inv.ID,
		}
		if err := s.ledgers.CreateTx(tx, entry); err != nil {
			return err
		}
		return s.parties.UpdateBalanceTx(tx, model.PartySupplier, supplierID, totalBase)
	})
	if txErr != nil {
		return nil, txErr
	}
	return purchaseToResponse(&inv), nil
}

func (s *purchaseService) ReturnPurchase(ctx context.Context, req dto.ReturnPurchaseRequest) (*dto.PurchaseResponse, error) {
	origID, err := uuid.Parse(req.OriginalID)
	if err != nil {
		return nil, fmt.Errorf("invalid original_id: %w", err)
	}
	orig, err := s.purchases.FindByID(ctx, origID)
	if err != nil {
		return nil, errors.New("original invoice not found")
	}
	if orig.Kind != model.PurchaseKindPurchase {
		return nil, errors.New("returns can only reference purchase invoices")
	}

	// Match each return line to an original line by product (and lot when
	// given) to recover the costs it was received at.
	type retLine struct {
		productID uuid.UUID
		quantity  int
		src       *model.PurchaseLine
	}
	retLines := make([]retLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		pid, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		var src *model.PurchaseLine
		for i := range orig.Lines {
			ol := &orig.Lines[i]
			if ol.ProductID != pid {
				continue
			}
			if line.LotNumber != "" && ol.LotNumber != line.LotNumber {
				continue
			}
			src = ol
			break
		}
		if src == nil {
			return nil, errors.New("product was not on the original invoice")
		}
		if line.Quantity > src.Quantity {
			return nil, errors.New("return quantity exceeds purchased quantity")
		}
		retLines = append(retLines, retLine{productID: pid, quantity: line.Quantity, src: src})
	}

	inv := model.PurchaseInvoice{
		ID:           uuid.New(),
		Kind:         model.PurchaseKindReturn,
		OriginalID:   &origID,
		SupplierID:   orig.SupplierID,
		Currency:     orig.Currency,
		ExchangeRate: orig.ExchangeRate,
	}

	total, totalBase := decimal.Zero, decimal.Zero
	for _, rl := range retLines {
		qty := decimal.NewFromInt(int64(rl.quantity))
		total = total.Add(rl.src.UnitCost.Mul(qty))
		totalBase = totalBase.Add(rl.src.UnitCostBase.Mul(qty))
		inv.Lines = append(inv.Lines, model.PurchaseLine{
			ProductID:    rl.productID,
			Quantity:     rl.quantity,
			UnitCost:     rl.src.UnitCost,
			UnitCostBase: rl.src.UnitCostBase,
			LotNumber:    rl.src.LotNumber,
		})
	}
	inv.Total = total.Round(2)
	inv.TotalBase = totalBase.Round(2)

	txErr := runTx(ctx, s.purchases.DB(), func(tx *gorm.DB) error {
		number, err := s.purchases.NextInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}
		inv.Number = number

		for _, rl := range retLines {
			if _, err := s.inventory.DeductFromLotTx(tx, rl.productID, rl.src.LotNumber,
				rl.quantity, &inv.ID, fmt.Sprintf("return of purchase #%d", orig.Number)); err != nil {
				return err
			}
		}
		if err := s.purchases.Create(ctx, tx, &inv); err != nil {
			return err
		}

		entry := &model.LedgerEntry{
			PartyType:   model.PartySupplier,
			PartyID:     orig.SupplierID,
			Kind:        model.LedgerReturn,
			Amount:      inv.TotalBase.Neg(),
			Currency:    orig.Currency,
			FaceAmount:  inv.Total,
			Date:        nowFunc(),
			Description: fmt.Sprintf("Return against purchase #%d", orig.Number),
			InvoiceID:   &inv.ID,
		}
		if err := s.ledgers.CreateTx(tx, entry); err != nil {
			return err
		}
		return s.parties.UpdateBalanceTx(tx, model.PartySupplier, orig.SupplierID, inv.TotalBase.Neg())
	})
	if txErr != nil {
		return nil, txErr
	}
	return purchaseToResponse(&inv), nil
}

func (s *purchaseService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	inv, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return errors.New("invoice not found")
	}
	if inv.Kind != model.PurchaseKindPurchase {
		return errors.New("only purchase invoices can be deleted")
	}
	if has, err := s.purchases.HasReturns(ctx, id); err != nil {
		return err
	} else if has {
		return errors.New("invoice has returns and cannot be deleted")
	}

	// Every created batch must still hold its full quantity; once any unit
	// has been sold the purchase is part of history.
	for _, line := range inv.Lines {
		if line.BatchID == nil {
			return errors.New("invoice batches are no longer traceable; cannot delete")
		}
		batch, err := s.products.FindBatchByID(ctx, *line.BatchID)
		if err != nil {
			return errors.New("invoice batch no longer exists; cannot delete")
		}
		if batch.Stock != line.Quantity {
			return errors.New("stock from this purchase has already moved; cannot delete")
		}
	}

	return runTx(ctx, s.purchases.DB(), func(tx *gorm.DB) error {
		for _, line := range inv.Lines {
			batchesBefore, err := s.products.ListBatchesTx(tx, line.ProductID)
			if err != nil {
				return err
			}
			before := totalStock(batchesBefore)

			if err := s.products.DeleteBatchTx(tx, *line.BatchID); err != nil {
				return err
			}
			mov := &model.StockMovement{
				ProductID:   line.ProductID,
				BatchID:     line.BatchID,
				Kind:        model.MovementAdjustment,
				Quantity:    -line.Quantity,
				StockBefore: before,
				StockAfter:  before - line.Quantity,
				Reason:      fmt.Sprintf("purchase #%d deleted", inv.Number),
				ReferenceID: &inv.ID,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		if err := s.parties.UpdateBalanceTx(tx, model.PartySupplier, inv.SupplierID, inv.TotalBase.Neg()); err != nil {
			return err
		}
		if err := s.ledgers.DeleteByInvoiceTx(tx, inv.ID); err != nil {
			return err
		}
		return s.purchases.DeleteTx(tx, inv.ID)
	})
}

func (s *purchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	inv, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("invoice not found")
	}
	return purchaseToResponse(inv), nil
}

func (s *purchaseService) ListPurchases(ctx context.Context, filter dto.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Kind == "" {
		filter.Kind = model.PurchaseKindPurchase
	}
	invoices, total, err := s.purchases.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, *purchaseToResponse(&invoices[i]))
	}
	return &dto.PurchaseListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func purchaseToResponse(inv *model.PurchaseInvoice) *dto.PurchaseResponse {
	lines := make([]dto.PurchaseLineResponse, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		lr := dto.PurchaseLineResponse{
			ProductID:    line.ProductID.String(),
			Quantity:     line.Quantity,
			UnitCost:     line.UnitCost,
			UnitCostBase: line.UnitCostBase,
			LotNumber:    line.LotNumber,
		}
		if line.Product != nil {
			lr.ProductName = line.Product.Name
		}
		if line.ExpiresAt != nil {
			exp := line.ExpiresAt.Format("2006-01-02")
			lr.ExpiresAt = &exp
		}
		lines = append(lines, lr)
	}
	resp := &dto.PurchaseResponse{
		ID:           inv.ID.String(),
		Number:       inv.Number,
		Kind:         inv.Kind,
		SupplierID:   inv.SupplierID.String(),
		Currency:     inv.Currency,
		ExchangeRate: inv.ExchangeRate,
		Total:        inv.Total,
		TotalBase:    inv.TotalBase,
		Lines:        lines,
		CreatedAt:    inv.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if inv.OriginalID != nil {
		id := inv.OriginalID.String()
		resp.OriginalID = &id
	}
	if inv.Supplier != nil {
		resp.SupplierName = inv.Supplier.Name
	}
	return resp
}
