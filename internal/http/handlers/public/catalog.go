package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/craftmart-shop/internal/cache"
	"github.com/craftmart-shop/internal/http/response"
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	categoryListCacheKey = "catalog:categories"
	categoryListCacheTTL = 5 * time.Minute
)

// GetCategories 获取分类列表。列表很少变化，走 Redis 短缓存。
func (h *Handler) GetCategories(c *gin.Context) {
	var cached []models.Category
	if hit, err := cache.GetJSON(c.Request.Context(), categoryListCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	_ = cache.SetJSON(c.Request.Context(), categoryListCacheKey, categories, categoryListCacheTTL)
	response.Success(c, categories)
}

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	categoryID := c.Query("category_id")
	search := strings.TrimSpace(c.Query("search"))
	inStockOnly := c.Query("in_stock") == "true"

	products, total, err := h.ProductService.ListPublic(categoryID, search, inStockOnly, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// GetProductBySlug 获取商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	product, err := h.ProductService.GetPublicBySlug(slug)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
		}, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, product)
}
