package dto

import "github.com/shopspring/decimal"

type ReportFilter struct {
	From     string `form:"from" validate:"required"`
	To       string `form:"to"   validate:"required"`
	Calendar string `form:"cal"` // "jalali" = dates given in Solar Hijri
}

// SalesReportResponse aggregates sales between From and To.
// COGS comes from the unit costs snapshotted on sale lines at sale time.
type SalesReportResponse struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	InvoiceCount  int64           `json:"invoice_count"`
	GrossSales    decimal.Decimal `json:"gross_sales"`
	Discounts     decimal.Decimal `json:"discounts"`
	Returns       decimal.Decimal `json:"returns"`
	NetSales      decimal.Decimal `json:"net_sales"`
	CostOfGoods   decimal.Decimal `json:"cost_of_goods"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
}

type StockValuationResponse struct {
	TotalUnits int             `json:"total_units"`
	TotalValue decimal.Decimal `json:"total_value"` // Σ batch stock × unit cost, base currency
}

type BalancesSummaryResponse struct {
	CustomersOwed  decimal.Decimal `json:"customers_owed"`  // Σ positive customer balances
	SuppliersOwed  decimal.Decimal `json:"suppliers_owed"`  // Σ positive supplier balances
	AdvancesOwed   decimal.Decimal `json:"advances_owed"`   // Σ positive employee balances
}
