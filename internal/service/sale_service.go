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
	"github.com/wali1264/ketabestan2/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	CreateSale(ctx context.Context, cashierID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	// EditSale replaces the invoice's lines wholesale: old stock is restored,
	// new lines are re-deducted FIFO, and the linked credit entry (if any) is
	// adjusted by the delta between old and new totals.
	EditSale(ctx context.Context, id uuid.UUID, req dto.EditSaleRequest) (*dto.SaleResponse, error)
	ReturnSale(ctx context.Context, cashierID uuid.UUID, req dto.ReturnSaleRequest) (*dto.SaleResponse, error)
	VoidSale(ctx context.Context, id uuid.UUID, reason string) error
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	sales      repository.SaleRepository
	products   repository.ProductRepository
	parties    repository.PartyRepository
	ledgers    repository.LedgerRepository
	inventory  InventoryService
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	parties repository.PartyRepository,
	ledgers repository.LedgerRepository,
	inventory InventoryService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		sales:      sales,
		products:   products,
		parties:    parties,
		ledgers:    ledgers,
		inventory:  inventory,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// nowFunc is swapped in tests for deterministic timestamps.
var nowFunc = time.Now

// resolvedLine is a sale line after product lookup, before persistence.
type resolvedLine struct {
	product       *model.Product // nil for service lines
	description   string
	quantity      int
	unitPrice     decimal.Decimal
	overridePrice *decimal.Decimal
}

func (l *resolvedLine) effective() decimal.Decimal {
	if l.overridePrice != nil {
		return *l.overridePrice
	}
	return l.unitPrice
}

func (l *resolvedLine) lineTotal() decimal.Decimal {
	return l.effective().Mul(decimal.NewFromInt(int64(l.quantity)))
}

// resolveLines validates and prices request lines. Product lines take the
// catalog price; service lines (no product) must carry their own description
// and price.
func (s *saleService) resolveLines(ctx context.Context, lines []dto.SaleLineRequest) ([]resolvedLine, error) {
	resolved := make([]resolvedLine, 0, len(lines))
	for i, line := range lines {
		if line.ProductID != nil {
			pid, err := uuid.Parse(*line.ProductID)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid product_id: %w", i+1, err)
			}
			p, err := s.products.FindByID(ctx, pid)
			if err != nil {
				return nil, fmt.Errorf("line %d: product not found", i+1)
			}
			if !p.Active {
				return nil, fmt.Errorf("product %s is inactive and cannot be sold", p.Name)
			}
			resolved = append(resolved, resolvedLine{
				product:       p,
				description:   p.Name,
				quantity:      line.Quantity,
				unitPrice:     p.SalePrice,
				overridePrice: line.OverridePrice,
			})
			continue
		}
		// Ad-hoc service line: photocopies, gift wrapping - no stock involved.
		if line.Description == nil || *line.Description == "" {
			return nil, fmt.Errorf("line %d: either product_id or description is required", i+1)
		}
		if line.UnitPrice == nil {
			return nil, fmt.Errorf("line %d: unit_price is required for service lines", i+1)
		}
		resolved = append(resolved, resolvedLine{
			description:   *line.Description,
			quantity:      line.Quantity,
			unitPrice:     *line.UnitPrice,
			overridePrice: line.OverridePrice,
		})
	}
	return resolved, nil
}

// sumTotals returns (subtotal, total, discount). Subtotal sums list prices,
// total sums effective prices; discount keeps its sign, so an override above
// list price shows up as a negative discount (surcharge).
func sumTotals(lines []resolvedLine) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	subtotal, total := decimal.Zero, decimal.Zero
	for i := range lines {
		qty := decimal.NewFromInt(int64(lines[i].quantity))
		subtotal = subtotal.Add(lines[i].unitPrice.Mul(qty))
		total = total.Add(lines[i].lineTotal())
	}
	return subtotal, total, subtotal.Sub(total)
}

func (s *saleService) CreateSale(ctx context.Context, cashierID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	resolved, err := s.resolveLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer_id: %w", err)
		}
		if _, err := s.parties.FindByID(ctx, model.PartyCustomer, cid); err != nil {
			return nil, errors.New("customer not found")
		}
		customerID = &cid
	}

	subtotal, total, discount := sumTotals(resolved)

	inv := model.SaleInvoice{
		ID:         uuid.New(),
		Kind:       model.SaleKindSale,
		CashierID:  cashierID,
		CustomerID: customerID,
		Subtotal:   subtotal,
		Discount:   discount,
		Total:      total,
		Note:       req.Note,
	}

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		number, err := s.sales.NextInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}
		inv.Number = number

		for i := range resolved {
			r := &resolved[i]
			line := model.SaleLine{
				Description:   r.description,
				Quantity:      r.quantity,
				UnitPrice:     r.unitPrice,
				OverridePrice: r.overridePrice,
				LineTotal:     r.lineTotal(),
				UnitCost:      decimal.Zero,
			}
			if r.product != nil {
				pid := r.product.ID
				line.ProductID = &pid
				ded, err := s.inventory.DeductFIFOTx(tx, r.product, r.quantity,
					model.MovementSale, &inv.ID, fmt.Sprintf("sale #%d", number))
				if err != nil {
					return err
				}
				line.UnitCost = ded.UnitCost
			}
			inv.Lines = append(inv.Lines, line)
		}

		if err := s.sales.Create(ctx, tx, &inv); err != nil {
			return err
		}

		// A sale attached to a customer goes on the customer's account.
		if customerID != nil {
			entry := &model.LedgerEntry{
				PartyType:   model.PartyCustomer,
				PartyID:     *customerID,
				Kind:        model.LedgerCreditSale,
				Amount:      total,
				Currency:    "AFN",
				FaceAmount:  total,
				Date:        nowFunc(),
				Description: fmt.Sprintf("Sale invoice #%d", number),
				InvoiceID:   &inv.ID,
			}
			if err := s.ledgers.CreateTx(tx, entry); err != nil {
				return err
			}
			if err := s.parties.UpdateBalanceTx(tx, model.PartyCustomer, *customerID, total); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Receipt generation happens off the request path; the PDF worker picks
	// this up from Redis.
	if s.dispatcher != nil {
		payload := worker.ReceiptJobPayload{SaleID: inv.ID.String()}
		if req.CustomerEmail != nil && *req.CustomerEmail != "" {
			payload.CustomerEmail = req.CustomerEmail
		}
		_ = s.dispatcher.EnqueueReceipt(ctx, payload)
	}

	return saleToResponse(&inv), nil
}

func (s *saleService) EditSale(ctx context.Context, id uuid.UUID, req dto.EditSaleRequest) (*dto.SaleResponse, error) {
	inv, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("invoice not found")
	}
	if inv.Kind != model.SaleKindSale {
		return nil, errors.New("only sale invoices can be edited")
	}
	if has, err := s.sales.HasReturns(ctx, id); err != nil {
		return nil, err
	} else if has {
		return nil, errors.New("invoice has returns and can no longer be edited")
	}

	resolved, err := s.resolveLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	var ledgerEntry *model.LedgerEntry
	if inv.CustomerID != nil {
		ledgerEntry, err = s.ledgers.FindByInvoice(ctx, inv.ID, model.LedgerCreditSale)
		if err != nil {
			return nil, fmt.Errorf("credit entry for invoice #%d not found", inv.Number)
		}
	}

	oldTotal := inv.Total
	subtotal, total, discount := sumTotals(resolved)

	newLines := make([]model.SaleLine, 0, len(resolved))

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		// 1. Put back everything the original lines consumed.
		for _, line := range inv.Lines {
			if line.ProductID == nil {
				continue
			}
			if err := s.inventory.RestoreStockTx(tx, *line.ProductID, line.Quantity,
				model.MovementEditRestore, &inv.ID, fmt.Sprintf("edit of sale #%d", inv.Number)); err != nil {
				return err
			}
		}

		// 2. Re-deduct for the new lines, re-snapshotting unit costs.
		for i := range resolved {
			r := &resolved[i]
			line := model.SaleLine{
				Description:   r.description,
				Quantity:      r.quantity,
				UnitPrice:     r.unitPrice,
				OverridePrice: r.overridePrice,
				LineTotal:     r.lineTotal(),
				UnitCost:      decimal.Zero,
			}
			if r.product != nil {
				pid := r.product.ID
				line.ProductID = &pid
				ded, err := s.inventory.DeductFIFOTx(tx, r.product, r.quantity,
					model.MovementSale, &inv.ID, fmt.Sprintf("edit of sale #%d", inv.Number))
				if err != nil {
					return err
				}
				line.UnitCost = ded.UnitCost
			}
			newLines = append(newLines, line)
		}

		// 3. Rewrite lines and header.
		if err := s.sales.ReplaceLinesTx(tx, inv.ID, newLines); err != nil {
			return err
		}
		inv.Subtotal = subtotal
		inv.Discount = discount
		inv.Total = total
		if req.Note != nil {
			inv.Note = req.Note
		}
		if err := s.sales.UpdateHeaderTx(tx, inv); err != nil {
			return err
		}

		// 4. Adjust the credit entry and customer balance by the delta.
		if ledgerEntry != nil {
			delta := total.Sub(oldTotal)
			if err := s.ledgers.UpdateAmountTx(tx, ledgerEntry.ID,
				ledgerEntry.Amount.Add(delta), ledgerEntry.FaceAmount.Add(delta)); err != nil {
				return err
			}
			if err := s.parties.UpdateBalanceTx(tx, model.PartyCustomer, *inv.CustomerID, delta); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	inv.Lines = newLines
	return saleToResponse(inv), nil
}

func (s *saleService) ReturnSale(ctx context.Context, cashierID uuid.UUID, req dto.ReturnSaleRequest) (*dto.SaleResponse, error) {
	origID, err := uuid.Parse(req.OriginalID)
	if err != nil {
		return nil, fmt.Errorf("invalid original_id: %w", err)
	}
	orig, err := s.sales.FindByID(ctx, origID)
	if err != nil {
		return nil, errors.New("original invoice not found")
	}
	if orig.Kind != model.SaleKindSale {
		return nil, errors.New("returns can only reference sale invoices")
	}

	// Per-product sold quantities and pricing from the original lines.
	type soldLine struct {
		quantity      int
		unitPrice     decimal.Decimal
		overridePrice *decimal.Decimal
		unitCost      decimal.Decimal
		description   string
	}
	sold := map[uuid.UUID]*soldLine{}
	for _, line := range orig.Lines {
		if line.ProductID == nil {
			continue
		}
		if sl, ok := sold[*line.ProductID]; ok {
			sl.quantity += line.Quantity
		} else {
			sold[*line.ProductID] = &soldLine{
				quantity:      line.Quantity,
				unitPrice:     line.UnitPrice,
				overridePrice: line.OverridePrice,
				unitCost:      line.UnitCost,
				description:   line.Description,
			}
		}
	}

	// Quantities already returned against this invoice count toward the cap.
	returned := map[uuid.UUID]int{}
	priorReturns, err := s.sales.ListReturns(ctx, origID)
	if err != nil {
		return nil, err
	}
	for _, ret := range priorReturns {
		for _, line := range ret.Lines {
			if line.ProductID != nil {
				returned[*line.ProductID] += line.Quantity
			}
		}
	}

	type retLine struct {
		productID uuid.UUID
		quantity  int
		src       *soldLine
	}
	retLines := make([]retLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		pid, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		src, ok := sold[pid]
		if !ok {
			return nil, errors.New("product was not on the original invoice")
		}
		if line.Quantity > src.quantity-returned[pid] {
			return nil, fmt.Errorf("return quantity exceeds remaining sold quantity for %s", src.description)
		}
		retLines = append(retLines, retLine{productID: pid, quantity: line.Quantity, src: src})
	}

	inv := model.SaleInvoice{
		ID:         uuid.New(),
		Kind:       model.SaleKindReturn,
		OriginalID: &origID,
		CashierID:  cashierID,
		CustomerID: orig.CustomerID,
		Discount:   decimal.Zero,
		Note:       req.Note,
	}

	total := decimal.Zero
	for _, rl := range retLines {
		pid := rl.productID
		effective := rl.src.unitPrice
		if rl.src.overridePrice != nil {
			effective = *rl.src.overridePrice
		}
		lineTotal := effective.Mul(decimal.NewFromInt(int64(rl.quantity)))
		total = total.Add(lineTotal)
		inv.Lines = append(inv.Lines, model.SaleLine{
			ProductID:     &pid,
			Description:   rl.src.description,
			Quantity:      rl.quantity,
			UnitPrice:     rl.src.unitPrice,
			OverridePrice: rl.src.overridePrice,
			UnitCost:      rl.src.unitCost,
			LineTotal:     lineTotal,
		})
	}
	// Refund is at the price actually paid, so subtotal equals total here.
	inv.Subtotal = total
	inv.Total = total

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		number, err := s.sales.NextInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}
		inv.Number = number

		for _, rl := range retLines {
			if err := s.inventory.RestoreStockTx(tx, rl.productID, rl.quantity,
				model.MovementSaleReturn, &inv.ID, fmt.Sprintf("return of sale #%d", orig.Number)); err != nil {
				return err
			}
		}
		if err := s.sales.Create(ctx, tx, &inv); err != nil {
			return err
		}

		if orig.CustomerID != nil {
			entry := &model.LedgerEntry{
				PartyType:   model.PartyCustomer,
				PartyID:     *orig.CustomerID,
				Kind:        model.LedgerReturn,
				Amount:      total.Neg(),
				Currency:    "AFN",
				FaceAmount:  total,
				Date:        nowFunc(),
				Description: fmt.Sprintf("Return against sale #%d", orig.Number),
				InvoiceID:   &inv.ID,
			}
			if err := s.ledgers.CreateTx(tx, entry); err != nil {
				return err
			}
			if err := s.parties.UpdateBalanceTx(tx, model.PartyCustomer, *orig.CustomerID, total.Neg()); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return saleToResponse(&inv), nil
}

func (s *saleService) VoidSale(ctx context.Context, id uuid.UUID, reason string) error {
	inv, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return errors.New("invoice not found")
	}
	if inv.Kind != model.SaleKindSale {
		return errors.New("only sale invoices can be voided")
	}
	if has, err := s.sales.HasReturns(ctx, id); err != nil {
		return err
	} else if has {
		return errors.New("invoice has returns and cannot be voided")
	}

	var ledgerEntry *model.LedgerEntry
	if inv.CustomerID != nil {
		if e, err := s.ledgers.FindByInvoice(ctx, inv.ID, model.LedgerCreditSale); err == nil {
			ledgerEntry = e
		}
	}

	return runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		for _, line := range inv.Lines {
			if line.ProductID == nil {
				continue
			}
			if err := s.inventory.RestoreStockTx(tx, *line.ProductID, line.Quantity,
				model.MovementVoidRestore, &inv.ID,
				fmt.Sprintf("void of sale #%d: %s", inv.Number, reason)); err != nil {
				return err
			}
		}
		if ledgerEntry != nil {
			if err := s.parties.UpdateBalanceTx(tx, model.PartyCustomer, *inv.CustomerID, ledgerEntry.Amount.Neg()); err != nil {
				return err
			}
			if err := s.ledgers.DeleteByInvoiceTx(tx, inv.ID); err != nil {
				return err
			}
		}
		return s.sales.DeleteTx(tx, inv.ID)
	})
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	inv, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("invoice not found")
	}
	return saleToResponse(inv), nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Kind == "" {
		filter.Kind = model.SaleKindSale
	}
	if filter.Date != "" && filter.Calendar == "jalali" {
		day, err := calendar.ParseDate(filter.Date, true)
		if err != nil {
			return nil, err
		}
		filter.Date = day.Format("2006-01-02")
	}

	invoices, total, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, *saleToResponse(&invoices[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(inv *model.SaleInvoice) *dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		lr := dto.SaleLineResponse{
			Description:   line.Description,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			OverridePrice: line.OverridePrice,
			UnitCost:      line.UnitCost,
			LineTotal:     line.LineTotal,
		}
		if line.ProductID != nil {
			id := line.ProductID.String()
			lr.ProductID = &id
		}
		lines = append(lines, lr)
	}
	resp := &dto.SaleResponse{
		ID:        inv.ID.String(),
		Number:    inv.Number,
		Kind:      inv.Kind,
		CashierID: inv.CashierID.String(),
		Lines:     lines,
		Subtotal:  inv.Subtotal,
		Discount:  inv.Discount,
		Total:     inv.Total,
		Note:      inv.Note,
		CreatedAt: inv.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if inv.OriginalID != nil {
		id := inv.OriginalID.String()
		resp.OriginalID = &id
	}
	if inv.CustomerID != nil {
		id := inv.CustomerID.String()
		resp.CustomerID = &id
	}
	return resp
}
