package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wali1264/ketabestan2/internal/apierror"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/repository"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const priceCacheTTL = 4 * time.Hour

// PriceCheckHandler serves the customer-facing price scanner. It is the one
// unauthenticated endpoint besides health, so it answers from Redis when it
// can and touches the database only on a miss.
type PriceCheckHandler struct {
	products repository.ProductRepository
	rdb      *redis.Client
}

func NewPriceCheckHandler(products repository.ProductRepository, rdb *redis.Client) *PriceCheckHandler {
	return &PriceCheckHandler{products: products, rdb: rdb}
}

// Check
// @Summary      Look up name, price and availability by barcode
// @Tags         price-check
// @Produce      json
// @Param        barcode path string true "Product barcode"
// @Success      200 {object} dto.PriceCheckResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/price-check/{barcode} [get]
func (h *PriceCheckHandler) Check(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, apierror.New("barcode is required"))
		return
	}
	ctx := c.Request.Context()
	key := service.PriceCacheKeyPrefix + barcode

	if cached, err := h.rdb.Get(ctx, key).Result(); err == nil {
		var resp dto.PriceCheckResponse
		if json.Unmarshal([]byte(cached), &resp) == nil {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	product, err := h.products.FindByBarcode(ctx, barcode)
	if err != nil || !product.Active {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}
	resp := dto.PriceCheckResponse{
		Name:           product.Name,
		SalePrice:      product.SalePrice,
		StockAvailable: product.TotalStock(),
		Category:       product.Category,
	}

	// Cache best-effort; a Redis hiccup must not break the lookup.
	if raw, err := json.Marshal(resp); err == nil {
		if err := h.rdb.Set(ctx, key, raw, priceCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("barcode", barcode).Msg("price cache set failed")
		}
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, resp)
}
