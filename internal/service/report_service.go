package service

import (
	"context"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"

	"github.com/shopspring/decimal"
)

type ReportService interface {
	// SalesReport aggregates sales, returns, discounts and profit for a date
	// range. Cost of goods comes straight from the unit costs snapshotted on
	// the lines, so later cost changes never rewrite history.
	SalesReport(ctx context.Context, filter dto.ReportFilter) (*dto.SalesReportResponse, error)
	// StockValuation prices the whole warehouse at batch purchase costs.
	StockValuation(ctx context.Context) (*dto.StockValuationResponse, error)
	BalancesSummary(ctx context.Context) (*dto.BalancesSummaryResponse, error)
}

type reportService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	parties  repository.PartyRepository
}

func NewReportService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	parties repository.PartyRepository,
) ReportService {
	return &reportService{sales: sales, products: products, parties: parties}
}

func (s *reportService) SalesReport(ctx context.Context, filter dto.ReportFilter) (*dto.SalesReportResponse, error) {
	from, to, err := parseReportRange(filter)
	if err != nil {
		return nil, err
	}
	invoices, err := s.sales.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.SalesReportResponse{
		From:        filter.From,
		To:          filter.To,
		GrossSales:  decimal.Zero,
		Discounts:   decimal.Zero,
		Returns:     decimal.Zero,
		CostOfGoods: decimal.Zero,
	}

	for i := range invoices {
		inv := &invoices[i]
		switch inv.Kind {
		case model.SaleKindSale:
			resp.InvoiceCount++
			resp.GrossSales = resp.GrossSales.Add(inv.Total)
			resp.Discounts = resp.Discounts.Add(inv.Discount)
			for _, line := range inv.Lines {
				qty := decimal.NewFromInt(int64(line.Quantity))
				resp.CostOfGoods = resp.CostOfGoods.Add(line.UnitCost.Mul(qty))
			}
		case model.SaleKindReturn:
			resp.Returns = resp.Returns.Add(inv.Total)
			// Returned goods come back at their snapshotted cost.
			for _, line := range inv.Lines {
				qty := decimal.NewFromInt(int64(line.Quantity))
				resp.CostOfGoods = resp.CostOfGoods.Sub(line.UnitCost.Mul(qty))
			}
		}
	}

	resp.NetSales = resp.GrossSales.Sub(resp.Returns)
	resp.GrossProfit = resp.NetSales.Sub(resp.CostOfGoods)
	return resp, nil
}

func (s *reportService) StockValuation(ctx context.Context) (*dto.StockValuationResponse, error) {
	batches, err := s.products.AllBatches(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockValuationResponse{TotalValue: decimal.Zero}
	for _, b := range batches {
		resp.TotalUnits += b.Stock
		resp.TotalValue = resp.TotalValue.Add(b.UnitCost.Mul(decimal.NewFromInt(int64(b.Stock))))
	}
	resp.TotalValue = resp.TotalValue.Round(2)
	return resp, nil
}

func (s *reportService) BalancesSummary(ctx context.Context) (*dto.BalancesSummaryResponse, error) {
	customers, err := s.parties.SumPositiveBalances(ctx, model.PartyCustomer)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.parties.SumPositiveBalances(ctx, model.PartySupplier)
	if err != nil {
		return nil, err
	}
	employees, err := s.parties.SumPositiveBalances(ctx, model.PartyEmployee)
	if err != nil {
		return nil, err
	}
	return &dto.BalancesSummaryResponse{
		CustomersOwed: customers,
		SuppliersOwed: suppliers,
		AdvancesOwed:  employees,
	}, nil
}
