package admin

import (
	"errors"
	"strings"

	"github.com/craftmart-shop/internal/cache"
	"github.com/craftmart-shop/internal/http/response"
	"github.com/craftmart-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// 公共分类列表缓存键，分类有增删改时失效。
const categoryListCacheKey = "catalog:categories"

// CategoryRequest 分类创建/更新请求
type CategoryRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
}

// GetAdminCategories 获取分类列表 (Admin)，附带商品数
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListWithProductCounts()
	if err != nil {
		respondError(c, response.CodeInternal, "error.category_fetch_failed", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	category, err := h.CategoryService.Create(service.CreateCategoryInput{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		if errors.Is(err, service.ErrSlugExists) {
			respondError(c, response.CodeBadRequest, "error.slug_exists", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.category_create_failed", err)
		return
	}
	_ = cache.Del(c.Request.Context(), categoryListCacheKey)
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	category, err := h.CategoryService.Update(id, service.CreateCategoryInput{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.category_not_found", nil)
			return
		}
		if errors.Is(err, service.ErrSlugExists) {
			respondError(c, response.CodeBadRequest, "error.slug_exists", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.category_update_failed", err)
		return
	}
	_ = cache.Del(c.Request.Context(), categoryListCacheKey)
	response.Success(c, category)
}

// DeleteCategory 删除分类（挂有商品的分类不可删除）
func (h *Handler) DeleteCategory(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.CategoryService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.category_not_found", nil)
			return
		}
		if errors.Is(err, service.ErrCategoryInUse) {
			respondError(c, response.CodeBadRequest, "error.category_in_use", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.category_delete_failed", err)
		return
	}
	_ = cache.Del(c.Request.Context(), categoryListCacheKey)
	response.Success(c, gin.H{"deleted": true})
}
