package repository

import (
	"context"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products and their
// stock batches. Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasInvoiceLines(ctx context.Context, id uuid.UUID) (bool, error)

	// Batches
	CreateBatchTx(tx *gorm.DB, b *model.Batch) error
	FindBatchByID(ctx context.Context, id uuid.UUID) (*model.Batch, error)
	ListBatches(ctx context.Context, productID uuid.UUID) ([]model.Batch, error)
	// ListBatchesTx re-reads batches inside a transaction so deductions never
	// operate on stale stock.
	ListBatchesTx(tx *gorm.DB, productID uuid.UUID) ([]model.Batch, error)
	// UpdateBatchStockTx applies a signed delta; the WHERE guard keeps stock
	// from going negative under concurrent writers.
	UpdateBatchStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
	DeleteBatchTx(tx *gorm.DB, id uuid.UUID) error
	ExpiringBatches(ctx context.Context, withinDays int) ([]model.Batch, error)
	// AllBatches loads every batch with remaining stock; feeds the stock
	// valuation report.
	AllBatches(ctx context.Context) ([]model.Batch, error)
	LowStockProducts(ctx context.Context) ([]model.Product, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Batches").First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Batches").
		Where("barcode = ? AND active = true", barcode).First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	// Active filter: "false" = inactive, "all" = everything, default = active
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Barcode != "" {
		q = q.Where("barcode = ?", filter.Barcode)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Batches").Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Omit("Batches").Save(p).Error
}

func (r *productRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Update("active", active).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("product_id = ?", id).Delete(&model.Batch{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepo) HasInvoiceLines(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.SaleLine{}).
		Where("product_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	err := r.db.WithContext(ctx).Model(&model.PurchaseLine{}).
		Where("product_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *productRepo) CreateBatchTx(tx *gorm.DB, b *model.Batch) error {
	return tx.Create(b).Error
}

func (r *productRepo) FindBatchByID(ctx context.Context, id uuid.UUID) (*model.Batch, error) {
	var b model.Batch
	err := r.db.WithContext(ctx).First(&b, id).Error
	return &b, err
}

func (r *productRepo) ListBatches(ctx context.Context, productID uuid.UUID) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).
		Order("purchased_at ASC").Find(&batches).Error
	return batches, err
}

func (r *productRepo) ListBatchesTx(tx *gorm.DB, productID uuid.UUID) ([]model.Batch, error) {
	var batches []model.Batch
	err := tx.Where("product_id = ?", productID).
		Order("purchased_at ASC").Find(&batches).Error
	return batches, err
}

func (r *productRepo) UpdateBatchStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Batch{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) DeleteBatchTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Batch{}, id).Error
}

func (r *productRepo) ExpiringBatches(ctx context.Context, withinDays int) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND stock > 0 AND expires_at <= NOW() + make_interval(days => ?)", withinDays).
		Order("expires_at ASC").Find(&batches).Error
	return batches, err
}

func (r *productRepo) AllBatches(ctx context.Context) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.WithContext(ctx).Where("stock > 0").Find(&batches).Error
	return batches, err
}

func (r *productRepo) LowStockProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Batches").
		Where("active = true").
		Where("min_stock > COALESCE((SELECT SUM(stock) FROM batches WHERE batches.product_id = products.id), 0)").
		Find(&products).Error
	return products, err
}

func (r *productRepo) DB() *gorm.DB { return r.db }
