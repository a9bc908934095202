package tests

// Report and expense service tests: sales aggregation with snapshotted COGS,
// stock valuation, balance summaries and per-category expense totals.

import (
	"context"
	"testing"
	"time"

	"github.com/wali1264/ketabestan2/internal/calendar"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesReportAggregates(t *testing.T) {
	sales := newStubSaleRepo()
	products := newStubProductRepo()
	parties := newStubPartyRepo()
	svc := service.NewReportService(sales, products, parties)

	cashier := uuid.New()
	seed := func(kind string, total, discount string, qty int, unitCost string) {
		inv := &model.SaleInvoice{
			Kind:      kind,
			CashierID: cashier,
			Subtotal:  d(total).Add(d(discount)),
			Discount:  d(discount),
			Total:     d(total),
			Lines:     []model.SaleLine{{Quantity: qty, UnitCost: d(unitCost), UnitPrice: d("0")}},
		}
		require.NoError(t, sales.Create(context.Background(), nil, inv))
	}
	seed(model.SaleKindSale, "1000", "50", 5, "120")
	seed(model.SaleKindSale, "400", "0", 2, "100")
	seed(model.SaleKindReturn, "300", "0", 1, "120")

	today := time.Now().Format("2006-01-02")
	resp, err := svc.SalesReport(context.Background(), dto.ReportFilter{From: today, To: today})
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.InvoiceCount, "returns are not invoices")
	assert.True(t, resp.GrossSales.Equal(d("1400")), "gross = %s", resp.GrossSales)
	assert.True(t, resp.Discounts.Equal(d("50")))
	assert.True(t, resp.Returns.Equal(d("300")))
	assert.True(t, resp.NetSales.Equal(d("1100")))
	// 5*120 + 2*100 - 1*120 = 680
	assert.True(t, resp.CostOfGoods.Equal(d("680")), "cogs = %s", resp.CostOfGoods)
	assert.True(t, resp.GrossProfit.Equal(d("420")), "profit = %s", resp.GrossProfit)
}

func TestSalesReportRejectsInvertedRange(t *testing.T) {
	svc := service.NewReportService(newStubSaleRepo(), newStubProductRepo(), newStubPartyRepo())
	_, err := svc.SalesReport(context.Background(), dto.ReportFilter{
		From: "2026-08-20", To: "2026-08-10",
	})
	require.EqualError(t, err, "to must not be before from")
}

func TestStockValuationSumsBatchCosts(t *testing.T) {
	products := newStubProductRepo()
	svc := service.NewReportService(newStubSaleRepo(), products, newStubPartyRepo())

	p := &model.Product{Name: "Ledger Book", SalePrice: d("120"), Active: true}
	require.NoError(t, products.Create(context.Background(), p))
	for _, b := range []model.Batch{
		{ProductID: p.ID, Stock: 3, UnitCost: d("10"), PurchasedAt: day("2024-01-01")},
		{ProductID: p.ID, Stock: 4, UnitCost: d("2.5"), PurchasedAt: day("2024-02-01")},
		{ProductID: p.ID, Stock: 0, UnitCost: d("99"), PurchasedAt: day("2024-03-01")},
	} {
		batch := b
		require.NoError(t, products.CreateBatchTx(nil, &batch))
	}

	resp, err := svc.StockValuation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, resp.TotalUnits, "empty batches carry no units")
	assert.True(t, resp.TotalValue.Equal(d("40")), "value = %s", resp.TotalValue)
}

func TestBalancesSummaryCountsPositiveOnly(t *testing.T) {
	parties := newStubPartyRepo()
	svc := service.NewReportService(newStubSaleRepo(), newStubProductRepo(), parties)

	seed := func(partyType, name, balance string) {
		p := &repository.Party{Name: name, Active: true}
		require.NoError(t, parties.Create(context.Background(), partyType, p))
		require.NoError(t, parties.UpdateBalanceTx(nil, partyType, p.ID, d(balance)))
	}
	seed(model.PartyCustomer, "Owes Us", "500")
	seed(model.PartyCustomer, "We Owe", "-200")
	seed(model.PartySupplier, "Wholesaler", "300")
	seed(model.PartyEmployee, "Advanced", "100")

	resp, err := svc.BalancesSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.CustomersOwed.Equal(d("500")), "negative balances excluded")
	assert.True(t, resp.SuppliersOwed.Equal(d("300")))
	assert.True(t, resp.AdvancesOwed.Equal(d("100")))
}

func TestExpenseSummaryGroupsByCategory(t *testing.T) {
	expenses := newStubExpenseRepo()
	svc := service.NewExpenseService(expenses)
	userID := uuid.New()

	for _, e := range []struct{ cat, amount, date string }{
		{"rent", "5000", "2026-08-01"},
		{"utilities", "1200", "2026-08-05"},
		{"utilities", "800", "2026-08-20"},
		{"rent", "5000", "2026-09-01"}, // outside range
	} {
		dateStr := e.date
		_, err := svc.CreateExpense(context.Background(), userID, dto.CreateExpenseRequest{
			Category: e.cat, Amount: d(e.amount), Date: &dateStr,
		})
		require.NoError(t, err)
	}

	resp, err := svc.Summarize(context.Background(), dto.ReportFilter{
		From: "2026-08-01", To: "2026-08-31",
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(d("7000")), "total = %s", resp.Total)
	assert.True(t, resp.ByCategory["rent"].Equal(d("5000")))
	assert.True(t, resp.ByCategory["utilities"].Equal(d("2000")))
}

func TestExpenseSummaryAcceptsJalaliRange(t *testing.T) {
	expenses := newStubExpenseRepo()
	svc := service.NewExpenseService(expenses)

	dateStr := "2026-08-10"
	_, err := svc.CreateExpense(context.Background(), uuid.New(), dto.CreateExpenseRequest{
		Category: "repairs", Amount: d("750"), Date: &dateStr,
	})
	require.NoError(t, err)

	// Same window expressed in Solar Hijri.
	from := calendar.FormatJalali(day("2026-08-01"))
	to := calendar.FormatJalali(day("2026-08-31"))
	resp, err := svc.Summarize(context.Background(), dto.ReportFilter{
		From: from, To: to, Calendar: "jalali",
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(d("750")), "total = %s", resp.Total)
}

func TestCreateExpenseRejectsNonPositiveAmount(t *testing.T) {
	svc := service.NewExpenseService(newStubExpenseRepo())
	_, err := svc.CreateExpense(context.Background(), uuid.New(), dto.CreateExpenseRequest{
		Category: "misc", Amount: d("0"),
	})
	require.EqualError(t, err, "amount must be positive")
}
