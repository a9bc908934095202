package dto

import "github.com/wali1264/ketabestan2/internal/model"

// BackupDocument is the single-JSON-document backup/restore format: the full
// persisted state, verbatim. Import wipes every table and reinserts in
// dependency order, so restoring an export reproduces identical state.
type BackupDocument struct {
	Version    int    `json:"version"`
	ExportedAt string `json:"exported_at"`

	Settings  *model.StoreSettings    `json:"settings"`
	Users     []model.User            `json:"users"`
	Customers []model.Customer        `json:"customers"`
	Suppliers []model.Supplier        `json:"suppliers"`
	Employees []model.Employee        `json:"employees"`
	Products  []model.Product         `json:"products"`
	Batches   []model.Batch           `json:"batches"`
	Sales     []model.SaleInvoice     `json:"sales"`
	SaleLines []model.SaleLine        `json:"sale_lines"`
	Purchases []model.PurchaseInvoice `json:"purchases"`
	PurchaseLines []model.PurchaseLine `json:"purchase_lines"`
	Ledger    []model.LedgerEntry     `json:"ledger"`
	Movements []model.StockMovement   `json:"movements"`
	Expenses  []model.ExpenseEntry    `json:"expenses"`
}

// BackupVersion is bumped when the document layout changes.
const BackupVersion = 1
