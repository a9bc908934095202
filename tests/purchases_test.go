package tests

// Purchase service tests: currency conversion at entry, batch creation per
// line, supplier ledger postings, lot-matched returns and full deletion.

import (
	"context"
	"testing"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purchaseEnv struct {
	purchases *stubPurchaseRepo
	products  *stubProductRepo
	parties   *stubPartyRepo
	ledgers   *stubLedgerRepo
	movements *stubMovementRepo
	svc       service.PurchaseService
}

func newPurchaseEnv() *purchaseEnv {
	e := &purchaseEnv{
		purchases: newStubPurchaseRepo(),
		products:  newStubProductRepo(),
		parties:   newStubPartyRepo(),
		ledgers:   newStubLedgerRepo(),
		movements: newStubMovementRepo(),
	}
	inv := service.NewInventoryService(e.products, e.movements)
	e.svc = service.NewPurchaseService(e.purchases, e.products, e.parties, e.ledgers, e.movements, inv)
	return e
}

func (e *purchaseEnv) seedProduct(t *testing.T, name string) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, SalePrice: d("100"), Active: true}
	require.NoError(t, e.products.Create(context.Background(), p))
	return p
}

func (e *purchaseEnv) seedSupplier(t *testing.T, name string) uuid.UUID {
	t.Helper()
	p := &repository.Party{Name: name}
	require.NoError(t, e.parties.Create(context.Background(), model.PartySupplier, p))
	return p.ID
}

func TestCreatePurchaseAFNCreatesBatchesAndCredit(t *testing.T) {
	e := newPurchaseEnv()
	p := e.seedProduct(t, "Copy Paper A4")
	supplierID := e.seedSupplier(t, "Herat Stationery Wholesale")

	resp, err := e.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID:   supplierID.String(),
		Currency:     "AFN",
		ExchangeRate: d("1"),
		Lines: []dto.PurchaseLineRequest{
			{ProductID: p.ID.String(), Quantity: 20, UnitCost: d("250"), LotNumber: "LOT-01"},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(d("5000")))
	assert.True(t, resp.TotalBase.Equal(d("5000")))

	batches, _ := e.products.ListBatches(context.Background(), p.ID)
	require.Len(t, batches, 1)
	assert.Equal(t, 20, batches[0].Stock)
	assert.Equal(t, "LOT-01", batches[0].LotNumber)
	assert.True(t, batches[0].UnitCost.Equal(d("250")))

	sup, _ := e.parties.FindByID(context.Background(), model.PartySupplier, supplierID)
	assert.True(t, sup.Balance.Equal(d("5000")), "balance = %s", sup.Balance)

	entries, _ := e.ledgers.ListByParty(context.Background(), model.PartySupplier, supplierID)
	require.Len(t, entries, 1)
	assert.Equal(t, model.LedgerCreditPurchase, entries[0].Kind)
	assert.Equal(t, "AFN", entries[0].Currency)

	require.Len(t, e.movements.byKind(model.MovementPurchase), 1)
}

func TestCreatePurchaseUSDConvertsAtEntry(t *testing.T) {
	e := newPurchaseEnv()
	p := e.seedProduct(t, "Imported Ink Cartridge")
	supplierID := e.seedSupplier(t, "Dubai Trading Co")

	resp, err := e.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID:   supplierID.String(),
		Currency:     "USD",
		ExchangeRate: d("70.5"),
		Lines: []dto.PurchaseLineRequest{
			{ProductID: p.ID.String(), Quantity: 10, UnitCost: d("3.2")},
		},
	})
	require.NoError(t, err)

	// 3.2 USD * 70.5 = 225.6 AFN per unit; batch cost is stored in base.
	assert.True(t, resp.Total.Equal(d("32")), "face total = %s", resp.Total)
	assert.True(t, resp.TotalBase.Equal(d("2256")), "base total = %s", resp.TotalBase)
	require.Len(t, resp.Lines, 1)
	assert.True(t, resp.Lines[0].UnitCostBase.Equal(d("225.6")))

	batches, _ := e.products.ListBatches(context.Background(), p.ID)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].UnitCost.Equal(d("225.6")), "batch cost in base currency")

	// Supplier is owed the base amount; the ledger keeps the USD face.
	sup, _ := e.parties.FindByID(context.Background(), model.PartySupplier, supplierID)
	assert.True(t, sup.Balance.Equal(d("2256")))

	entries, _ := e.ledgers.ListByParty(context.Background(), model.PartySupplier, supplierID)
	require.Len(t, entries, 1)
	assert.Equal(t, "USD", entries[0].Currency)
	assert.True(t, entries[0].FaceAmount.Equal(d("32")))
	assert.True(t, entries[0].Amount.Equal(d("2256")))
}

func TestCreatePurchaseRejectsBadRates(t *testing.T) {
	e := newPurchaseEnv()
	p := e.seedProduct(t, "Whiteboard")
	supplierID := e.seedSupplier(t, "Kabul Supplies")

	line := dto.PurchaseLineRequest{ProductID: p.ID.String(), Quantity: 1, UnitCost: d("10")}

	_, err := e.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplierID.String(), Currency: "AFN", ExchangeRate: d("70"),
		Lines: []dto.PurchaseLineRequest{line},
	})
	require.EqualError(t, err, "exchange_rate must be 1 for AFN invoices")

	_, err = e.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplierID.String(), Currency: "USD", ExchangeRate: d("0"),
		Lines: []dto.PurchaseLineRequest{line},
	})
	require.EqualError(t, err, "exchange_rate must be positive")

	_, err = e.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID: supplierID.String(), Currency: "EUR", ExchangeRate: d("75"),
		Lines: []dto.PurchaseLineRequest{line},
	})
	require.EqualError(t, err, `unsupported currency "EUR"`)
}

func TestReturnPurchaseDeductsMatchedLot(t *testing.T) {
	e := newPurchaseEnv()
	p := e.seedProduct(t, "Sketchbook")
	supplierID := e.seedSupplier(t, "Mazar Paper Mill")

	created, err := e.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID:   supplierID.String(),
		Currency:     "USD",
		ExchangeRate: d("70"),
		Lines: []dto.PurchaseLineRequest{
			{ProductID: p.ID.String(), Quantity: 12, UnitCost: d("2"), LotNumber: "SK-7"},
		},
	})
	require.NoError(t, err)

	ret, err := e.svc.ReturnPurchase(context.Background(), dto.ReturnPurchaseRequest{
		OriginalID: created.ID,
		Lines: []dto.ReturnPurchaseLineRequest{
			{ProductID: p.ID.String(), LotNumber: "SK-7", Quantity: 5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseKindReturn, ret.Kind)
	assert.True(t, ret.Total.Equal(d("10")), "face = %s", ret.Total)
	assert.True(t, ret.TotalBase.Equal(d("700")), "base = %s", ret.TotalBase)

	batches, _ := e.products.ListBatches(context.Background(), p.ID)
	require.Len(t, batches, 1)
	assert.Equal(t, 7, batches[0].Stock)

	// Credit 840, return -700: supplier is still owed 140.
	sup, _ := e.parties.FindByID(context.Background(), model.PartySupplier, supplierID)
	assert.True(t, sup.Balance.Equal(d("140")), "balance = %s", sup.Balance)

	entries, _ := e.ledgers.ListByParty(context.Background(), model.PartySupplier, supplierID)
	require.Len(t, entries, 2)
	assert.Equal(t, model.LedgerReturn, entries[1].Kind)
	assert.True(t, entries[1].Amount.Equal(d("-700")))
}

func TestReturnPurchaseRejectsOverAndUnknown(t *testing.T) {
	e := newPurchaseEnv()
	p := e.seedProduct(t, "Paint Brush")
	other := e.seedProduct(t, "Canvas")
	supplierID := e.seedSupplier(t, "Art Depot")

	created, err := e.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID:   supplierID.String(),
		Currency:     "AFN",
		ExchangeRate: d("1"),
		Lines: []dto.PurchaseLineRequest{
			{ProductID: p.ID.String(), Quantity: 6, UnitCost: d("30")},
		},
	})
	require.NoError(t, err)

	_, err = e.svc.ReturnPurchase(context.Background(), dto.ReturnPurchaseRequest{
		OriginalID: created.ID,
		Lines:      []dto.ReturnPurchaseLineRequest{{ProductID: p.ID.String(), Quantity: 7}},
	})
	require.EqualError(t, err, "return quantity exceeds purchased quantity")

	_, err = e.svc.ReturnPurchase(context.Background(), dto.ReturnPurchaseRequest{
		OriginalID: created.ID,
		Lines:      []dto.ReturnPurchaseLineRequest{{ProductID: other.ID.String(), Quantity: 1}},
	})
	require.EqualError(t, err, "product was not on the original invoice")
}

func TestDeletePurchaseOnlyWhileUntouched(t *testing.T) {
	e := newPurchaseEnv()
	p := e.seedProduct(t, "Highlighter")
	supplierID := e.seedSupplier(t, "Office Mart")

	created, err := e.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID:   supplierID.String(),
		Currency:     "AFN",
		ExchangeRate: d("1"),
		Lines: []dto.PurchaseLineRequest{
			{ProductID: p.ID.String(), Quantity: 8, UnitCost: d("15")},
		},
	})
	require.NoError(t, err)
	purchaseID := uuid.MustParse(created.ID)

	// Simulate a sale out of the new batch; the purchase is now history.
	batches, _ := e.products.ListBatches(context.Background(), p.ID)
	require.NoError(t, e.products.UpdateBatchStockTx(nil, batches[0].ID, -1))

	err = e.svc.DeletePurchase(context.Background(), purchaseID)
	require.EqualError(t, err, "stock from this purchase has already moved; cannot delete")

	// Put the unit back: deletion must now succeed and reverse everything.
	require.NoError(t, e.products.UpdateBatchStockTx(nil, batches[0].ID, 1))
	require.NoError(t, e.svc.DeletePurchase(context.Background(), purchaseID))

	batches, _ = e.products.ListBatches(context.Background(), p.ID)
	assert.Empty(t, batches, "batch removed with the invoice")

	sup, _ := e.parties.FindByID(context.Background(), model.PartySupplier, supplierID)
	assert.True(t, sup.Balance.IsZero(), "balance = %s", sup.Balance)

	entries, _ := e.ledgers.ListByParty(context.Background(), model.PartySupplier, supplierID)
	assert.Empty(t, entries, "ledger entry removed with the invoice")

	_, err = e.purchases.FindByID(context.Background(), purchaseID)
	assert.Error(t, err)
}

func TestDeletePurchaseRejectedAfterReturn(t *testing.T) {
	e := newPurchaseEnv()
	p := e.seedProduct(t, "Clipboard")
	supplierID := e.seedSupplier(t, "Office Mart")

	created, err := e.svc.CreatePurchase(context.Background(), dto.CreatePurchaseRequest{
		SupplierID:   supplierID.String(),
		Currency:     "AFN",
		ExchangeRate: d("1"),
		Lines: []dto.PurchaseLineRequest{
			{ProductID: p.ID.String(), Quantity: 4, UnitCost: d("45")},
		},
	})
	require.NoError(t, err)

	_, err = e.svc.ReturnPurchase(context.Background(), dto.ReturnPurchaseRequest{
		OriginalID: created.ID,
		Lines:      []dto.ReturnPurchaseLineRequest{{ProductID: p.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	err = e.svc.DeletePurchase(context.Background(), uuid.MustParse(created.ID))
	require.EqualError(t, err, "invoice has returns and cannot be deleted")
}
