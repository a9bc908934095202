package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PriceCacheKeyPrefix namespaces the barcode price cache in Redis.
const PriceCacheKeyPrefix = "price:"

type ProductService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	// DeleteProduct hard-deletes only products that never appeared on an
	// invoice; anything with history is deactivated instead.
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ReactivateProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewProductService(repo repository.ProductRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, rdb: rdb}
}

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		Barcode:      req.Barcode,
		Name:         req.Name,
		Category:     req.Category,
		SalePrice:    req.SalePrice,
		PackSize:     req.PackSize,
		Manufacturer: req.Manufacturer,
		Active:       true,
	}
	if p.Category == "" {
		p.Category = "general"
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	} else {
		p.MinStock = 5
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}
	return productToResponse(p), nil
}

func (s *productService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("product not found")
	}

	oldBarcode := p.Barcode
	if req.Barcode != nil {
		p.Barcode = req.Barcode
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.SalePrice != nil {
		p.SalePrice = *req.SalePrice
	}
	if req.PackSize != nil {
		p.PackSize = req.PackSize
	}
	if req.Manufacturer != nil {
		p.Manufacturer = req.Manufacturer
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidatePriceCache(ctx, oldBarcode, p.Barcode)
	return productToResponse(p), nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("product not found")
	}
	has, err := s.repo.HasInvoiceLines(ctx, id)
	if err != nil {
		return err
	}
	if has {
		// Invoices reference it - keep the row, hide it from sale.
		if err := s.repo.SetActive(ctx, id, false); err != nil {
			return err
		}
		s.invalidatePriceCache(ctx, p.Barcode, nil)
		return nil
	}
	if p.TotalStock() > 0 {
		return fmt.Errorf("product %s still has stock and cannot be deleted", p.Name)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidatePriceCache(ctx, p.Barcode, nil)
	return nil
}

func (s *productService) ReactivateProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, true)
}

// invalidatePriceCache drops stale price-check entries; best effort.
func (s *productService) invalidatePriceCache(ctx context.Context, barcodes ...*string) {
	if s.rdb == nil {
		return
	}
	for _, b := range barcodes {
		if b != nil && *b != "" {
			_ = s.rdb.Del(ctx, PriceCacheKeyPrefix+*b).Err()
		}
	}
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	batches := make([]dto.BatchResponse, 0, len(p.Batches))
	for _, b := range p.Batches {
		br := dto.BatchResponse{
			ID:          b.ID.String(),
			LotNumber:   b.LotNumber,
			Stock:       b.Stock,
			UnitCost:    b.UnitCost,
			PurchasedAt: b.PurchasedAt.Format("2006-01-02"),
		}
		if b.ExpiresAt != nil {
			exp := b.ExpiresAt.Format("2006-01-02")
			br.ExpiresAt = &exp
		}
		batches = append(batches, br)
	}
	return &dto.ProductResponse{
		ID:           p.ID.String(),
		Barcode:      p.Barcode,
		Name:         p.Name,
		Category:     p.Category,
		SalePrice:    p.SalePrice,
		PackSize:     p.PackSize,
		Manufacturer: p.Manufacturer,
		MinStock:     p.MinStock,
		TotalStock:   p.TotalStock(),
		Active:       p.Active,
		Batches:      batches,
	}
}
