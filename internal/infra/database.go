package infra

import (
	"fmt"

	"github.com/wali1264/ketabestan2/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate,
// then applies the idempotent SQL patches that AutoMigrate cannot express
// (the invoice number sequences and the settings singleton).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates all tables and applies schema patches.
// Also used by integration tests against a scratch database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.StoreSettings{},
		&model.Customer{},
		&model.Supplier{},
		&model.Employee{},
		&model.Product{},
		&model.Batch{},
		&model.SaleInvoice{},
		&model.SaleLine{},
		&model.PurchaseInvoice{},
		&model.PurchaseLine{},
		&model.LedgerEntry{},
		&model.StockMovement{},
		&model.ExpenseEntry{},
		&model.Receipt{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that GORM cannot fully handle:
// sequential invoice numbering and the settings singleton row.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`CREATE SEQUENCE IF NOT EXISTS sale_invoice_number_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS purchase_invoice_number_seq START 1`,
		// store_settings is a singleton - seed row 1 if missing
		`INSERT INTO store_settings (id, store_name, address, phone, base_currency, default_usd_rate)
		 VALUES (1, 'Ketabestan', '', '', 'AFN', 1)
		 ON CONFLICT (id) DO NOTHING`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
