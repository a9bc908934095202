package repository

import (
	"context"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"

	"gorm.io/gorm"
)

// BackupRepository reads and writes the full persisted state as one document.
// RestoreTx runs inside a single transaction: every table is wiped and
// reinserted in dependency order, so a failed restore leaves the old data.
type BackupRepository interface {
	Snapshot(ctx context.Context) (*dto.BackupDocument, error)
	RestoreTx(tx *gorm.DB, doc *dto.BackupDocument) error
	DB() *gorm.DB
}

type backupRepo struct{ db *gorm.DB }

func NewBackupRepository(db *gorm.DB) BackupRepository { return &backupRepo{db: db} }

func (r *backupRepo) DB() *gorm.DB { return r.db }

func (r *backupRepo) Snapshot(ctx context.Context) (*dto.BackupDocument, error) {
	doc := &dto.BackupDocument{Version: dto.BackupVersion}
	q := r.db.WithContext(ctx)

	var settings model.StoreSettings
	if err := q.First(&settings, 1).Error; err == nil {
		doc.Settings = &settings
	}

	steps := []error{
		q.Order("username ASC").Find(&doc.Users).Error,
		q.Order("created_at ASC").Find(&doc.Customers).Error,
		q.Order("created_at ASC").Find(&doc.Suppliers).Error,
		q.Order("created_at ASC").Find(&doc.Employees).Error,
		q.Order("created_at ASC").Find(&doc.Products).Error,
		q.Order("created_at ASC").Find(&doc.Batches).Error,
		q.Order("number ASC").Find(&doc.Sales).Error,
		q.Find(&doc.SaleLines).Error,
		q.Order("number ASC").Find(&doc.Purchases).Error,
		q.Find(&doc.PurchaseLines).Error,
		q.Order("created_at ASC").Find(&doc.Ledger).Error,
		q.Order("created_at ASC").Find(&doc.Movements).Error,
		q.Order("created_at ASC").Find(&doc.Expenses).Error,
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (r *backupRepo) RestoreTx(tx *gorm.DB, doc *dto.BackupDocument) error {
	// Wipe in reverse dependency order
	wipe := []string{
		"receipts", "expense_entries", "stock_movements", "ledger_entries",
		"purchase_lines", "purchase_invoices", "sale_lines", "sale_invoices",
		"batches", "products", "employees", "suppliers", "customers", "users",
	}
	for _, table := range wipe {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}

	// Reinsert in dependency order: settings → users/parties →
	// products/batches → invoices/lines → ledgers/movements/expenses.
	if doc.Settings != nil {
		doc.Settings.ID = 1
		if err := tx.Save(doc.Settings).Error; err != nil {
			return err
		}
	}

	inserts := []struct {
		rows interface{}
		n    int
	}{
		{&doc.Users, len(doc.Users)},
		{&doc.Customers, len(doc.Customers)},
		{&doc.Suppliers, len(doc.Suppliers)},
		{&doc.Employees, len(doc.Employees)},
		{&doc.Products, len(doc.Products)},
		{&doc.Batches, len(doc.Batches)},
		{&doc.Sales, len(doc.Sales)},
		{&doc.SaleLines, len(doc.SaleLines)},
		{&doc.Purchases, len(doc.Purchases)},
		{&doc.PurchaseLines, len(doc.PurchaseLines)},
		{&doc.Ledger, len(doc.Ledger)},
		{&doc.Movements, len(doc.Movements)},
		{&doc.Expenses, len(doc.Expenses)},
	}
	for _, ins := range inserts {
		if ins.n == 0 {
			continue
		}
		if err := tx.Session(&gorm.Session{FullSaveAssociations: false}).
			Omit("Batches", "Lines", "Customer", "Supplier", "Cashier", "Product").
			CreateInBatches(ins.rows, 200).Error; err != nil {
			return err
		}
	}

	// Re-anchor the invoice number sequences past the restored maximums.
	seqs := []string{
		`SELECT setval('sale_invoice_number_seq', GREATEST((SELECT COALESCE(MAX(number), 0) FROM sale_invoices), 1))`,
		`SELECT setval('purchase_invoice_number_seq', GREATEST((SELECT COALESCE(MAX(number), 0) FROM purchase_invoices), 1))`,
	}
	for _, sql := range seqs {
		if err := tx.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}
