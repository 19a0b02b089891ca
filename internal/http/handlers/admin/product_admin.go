package admin

import (
	"errors"
	"strconv"

	"github.com/craftmart-shop/internal/http/response"
	"github.com/craftmart-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	CategoryID    uint                   `json:"category_id" binding:"required"`
	Slug          string                 `json:"slug" binding:"required"`
	SKU           string                 `json:"sku"`
	Name          string                 `json:"name" binding:"required"`
	Description   string                 `json:"description"`
	SeoMeta       map[string]interface{} `json:"seo_meta"`
	Price         string                 `json:"price" binding:"required"`
	Images        []string               `json:"images"`
	Tags          []string               `json:"tags"`
	StockQuantity *int                   `json:"stock_quantity"`
	WeightGrams   int                    `json:"weight_grams"`
	IsActive      *bool                  `json:"is_active"`
	SortOrder     int                    `json:"sort_order"`
}

func (r ProductRequest) toInput() (service.CreateProductInput, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return service.CreateProductInput{}, service.ErrProductPriceInvalid
	}
	return service.CreateProductInput{
		CategoryID:    r.CategoryID,
		Slug:          r.Slug,
		SKU:           r.SKU,
		Name:          r.Name,
		Description:   r.Description,
		SeoMetaJSON:   r.SeoMeta,
		Price:         price,
		Images:        r.Images,
		Tags:          r.Tags,
		StockQuantity: r.StockQuantity,
		WeightGrams:   r.WeightGrams,
		IsActive:      r.IsActive,
		SortOrder:     r.SortOrder,
	}, nil
}

// GetAdminProducts 获取商品列表 (Admin)
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	categoryID := c.Query("category_id")
	search := c.Query("search")

	products, total, err := h.ProductService.ListAdmin(categoryID, search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.GetAdminByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.product_price_invalid", nil)
		return
	}

	product, err := h.ProductService.Create(input)
	if err != nil {
		respondProductMutationError(c, err, "error.product_create_failed")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.product_price_invalid", nil)
		return
	}

	product, err := h.ProductService.Update(uint(id), input)
	if err != nil {
		respondProductMutationError(c, err, "error.product_update_failed")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.ProductService.Delete(uint(id)); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.product_delete_failed", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func respondProductMutationError(c *gin.Context, err error, fallbackKey string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
	case errors.Is(err, service.ErrSlugExists):
		respondError(c, response.CodeBadRequest, "error.slug_exists", nil)
	case errors.Is(err, service.ErrProductPriceInvalid):
		respondError(c, response.CodeBadRequest, "error.product_price_invalid", nil)
	case errors.Is(err, service.ErrStockInvalid):
		respondError(c, response.CodeBadRequest, "error.stock_invalid", nil)
	default:
		respondError(c, response.CodeInternal, fallbackKey, err)
	}
}
