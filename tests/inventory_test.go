package tests

// Inventory service tests: FIFO consumption order, lot deduction, stock
// restoration, manual adjustments and alert queries.

import (
	"context"
	"testing"
	"time"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventoryEnv struct {
	products  *stubProductRepo
	movements *stubMovementRepo
	svc       service.InventoryService
}

func newInventoryEnv() *inventoryEnv {
	e := &inventoryEnv{
		products:  newStubProductRepo(),
		movements: newStubMovementRepo(),
	}
	e.svc = service.NewInventoryService(e.products, e.movements)
	return e
}

func (e *inventoryEnv) seedProduct(t *testing.T, name string, minStock int, batches ...model.Batch) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, SalePrice: d("100"), Active: true, MinStock: minStock}
	require.NoError(t, e.products.Create(context.Background(), p))
	for i := range batches {
		batches[i].ProductID = p.ID
		require.NoError(t, e.products.CreateBatchTx(nil, &batches[i]))
	}
	return p
}

func TestDeductFIFOPrefersSoonestExpiry(t *testing.T) {
	e := newInventoryEnv()
	soon := day("2026-09-15")
	later := day("2027-01-01")
	p := e.seedProduct(t, "Correction Fluid", 2,
		model.Batch{Stock: 4, UnitCost: d("20"), PurchasedAt: day("2024-01-01")},
		model.Batch{Stock: 4, UnitCost: d("22"), PurchasedAt: day("2025-03-01"), ExpiresAt: &later},
		model.Batch{Stock: 4, UnitCost: d("25"), PurchasedAt: day("2025-06-01"), ExpiresAt: &soon},
	)

	res, err := e.svc.DeductFIFOTx(nil, p, 6, model.MovementSale, nil, "test sale")
	require.NoError(t, err)
	require.Len(t, res.Deductions, 2)

	// 4 from the soonest-expiring batch, 2 from the later-expiring one; the
	// non-expiring batch is only touched when the dated ones run out.
	assert.Equal(t, 4, res.Deductions[0].Quantity)
	assert.True(t, res.Deductions[0].UnitCost.Equal(d("25")))
	assert.Equal(t, 2, res.Deductions[1].Quantity)
	assert.True(t, res.Deductions[1].UnitCost.Equal(d("22")))

	// (4*25 + 2*22) / 6 = 144/6 = 24
	assert.True(t, res.UnitCost.Equal(d("24")), "blended cost = %s", res.UnitCost)
	assert.Equal(t, 12, res.StockBefore)

	batches, _ := e.products.ListBatches(context.Background(), p.ID)
	assert.Equal(t, 4, batches[0].Stock)
	assert.Equal(t, 2, batches[1].Stock)
	assert.Equal(t, 0, batches[2].Stock)
}

func TestDeductFIFOSkipsEmptyBatches(t *testing.T) {
	e := newInventoryEnv()
	p := e.seedProduct(t, "Binder Clips", 1,
		model.Batch{Stock: 0, UnitCost: d("5"), PurchasedAt: day("2024-01-01")},
		model.Batch{Stock: 10, UnitCost: d("6"), PurchasedAt: day("2024-06-01")},
	)

	res, err := e.svc.DeductFIFOTx(nil, p, 3, model.MovementSale, nil, "test sale")
	require.NoError(t, err)
	require.Len(t, res.Deductions, 1)
	assert.True(t, res.Deductions[0].UnitCost.Equal(d("6")))
}

func TestRestoreStockGoesToFirstFIFOBatch(t *testing.T) {
	e := newInventoryEnv()
	p := e.seedProduct(t, "Envelopes", 1,
		model.Batch{Stock: 2, UnitCost: d("3"), PurchasedAt: day("2024-01-01")},
		model.Batch{Stock: 9, UnitCost: d("4"), PurchasedAt: day("2024-06-01")},
	)

	require.NoError(t, e.svc.RestoreStockTx(nil, p.ID, 3, model.MovementSaleReturn, nil, "test return"))

	batches, _ := e.products.ListBatches(context.Background(), p.ID)
	assert.Equal(t, 5, batches[0].Stock, "oldest batch absorbs the return")
	assert.Equal(t, 9, batches[1].Stock)
}

func TestRestoreStockCreatesZeroCostBatchWhenNoneExist(t *testing.T) {
	e := newInventoryEnv()
	p := e.seedProduct(t, "Discontinued Diary", 0)

	require.NoError(t, e.svc.RestoreStockTx(nil, p.ID, 2, model.MovementSaleReturn, nil, "late return"))

	batches, _ := e.products.ListBatches(context.Background(), p.ID)
	require.Len(t, batches, 1)
	assert.Equal(t, 2, batches[0].Stock)
	assert.True(t, batches[0].UnitCost.IsZero(), "returned units carry no cost basis")
}

func TestDeductFromLotMatchesAndCaps(t *testing.T) {
	e := newInventoryEnv()
	p := e.seedProduct(t, "Printer Toner", 1,
		model.Batch{Stock: 5, UnitCost: d("900"), PurchasedAt: day("2024-01-01"), LotNumber: "TN-1"},
		model.Batch{Stock: 5, UnitCost: d("950"), PurchasedAt: day("2024-02-01"), LotNumber: "TN-2"},
	)

	batch, err := e.svc.DeductFromLotTx(nil, p.ID, "TN-2", 4, nil, "supplier return")
	require.NoError(t, err)
	assert.Equal(t, "TN-2", batch.LotNumber)

	batches, _ := e.products.ListBatches(context.Background(), p.ID)
	assert.Equal(t, 5, batches[0].Stock)
	assert.Equal(t, 1, batches[1].Stock)

	_, err = e.svc.DeductFromLotTx(nil, p.ID, "TN-2", 2, nil, "supplier return")
	require.EqualError(t, err, `lot "TN-2" holds 1 units, cannot return 2`)

	_, err = e.svc.DeductFromLotTx(nil, p.ID, "TN-9", 1, nil, "supplier return")
	require.EqualError(t, err, `no batch with lot "TN-9" for this product`)
}

func TestAdjustBatchGuardsNegativeStock(t *testing.T) {
	e := newInventoryEnv()
	p := e.seedProduct(t, "Flip Chart", 1,
		model.Batch{Stock: 3, UnitCost: d("200"), PurchasedAt: day("2024-01-01")},
	)
	batches, _ := e.products.ListBatches(context.Background(), p.ID)
	batchID := batches[0].ID.String()

	_, err := e.svc.AdjustBatch(context.Background(), dto.AdjustBatchRequest{
		BatchID: batchID, Delta: -5, Reason: "damaged in storage",
	})
	require.EqualError(t, err, "adjustment would leave batch stock negative")

	mov, err := e.svc.AdjustBatch(context.Background(), dto.AdjustBatchRequest{
		BatchID: batchID, Delta: -2, Reason: "damaged in storage",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MovementAdjustment, mov.Kind)
	assert.Equal(t, -2, mov.Quantity)
	assert.Equal(t, 3, mov.StockBefore)
	assert.Equal(t, 1, mov.StockAfter)
}

func TestLowStockAlerts(t *testing.T) {
	e := newInventoryEnv()
	e.seedProduct(t, "Plenty", 5,
		model.Batch{Stock: 50, UnitCost: d("10"), PurchasedAt: day("2024-01-01")},
	)
	low := e.seedProduct(t, "Running Out", 10,
		model.Batch{Stock: 3, UnitCost: d("10"), PurchasedAt: day("2024-01-01")},
	)

	alerts, err := e.svc.LowStockAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, low.ID.String(), alerts[0].ProductID)
	assert.Equal(t, 3, alerts[0].TotalStock)
	assert.Equal(t, 10, alerts[0].MinStock)
}

func TestExpiryAlertsWindow(t *testing.T) {
	e := newInventoryEnv()
	within := time.Now().AddDate(0, 0, 10)
	beyond := time.Now().AddDate(0, 0, 90)
	p := e.seedProduct(t, "Glue Pot", 1,
		model.Batch{Stock: 4, UnitCost: d("30"), PurchasedAt: day("2024-01-01"), ExpiresAt: &within},
		model.Batch{Stock: 6, UnitCost: d("30"), PurchasedAt: day("2024-01-01"), ExpiresAt: &beyond},
		model.Batch{Stock: 8, UnitCost: d("30"), PurchasedAt: day("2024-01-01")},
	)

	alerts, err := e.svc.ExpiryAlerts(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, p.Name, alerts[0].ProductName)
	assert.Equal(t, 4, alerts[0].Stock)
}
