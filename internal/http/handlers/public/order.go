package public

import (
	"strconv"
	"strings"

	"github.com/craftmart-shop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListMyOrders 用户订单历史（按创建时间倒序分页）
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersByUser(userID, page, pageSize)
	if err != nil {
		respondOrderQueryError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetMyOrder 用户订单详情
func (h *Handler) GetMyOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.GetOrderByUser(uint(orderID), userID)
	if err != nil {
		respondOrderQueryError(c, err)
		return
	}
	response.Success(c, order)
}

// GetMyOrderByNumber 用户凭订单号查询自己的订单
func (h *Handler) GetMyOrderByNumber(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	number := strings.TrimSpace(c.Param("number"))
	if number == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	order, err := h.OrderService.GetOrderByNumberAndUser(number, userID)
	if err != nil {
		respondOrderQueryError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelMyOrder 用户取消订单（仅待支付/处理中可取消，已支付订单回补库存）
func (h *Handler) CancelMyOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.CancelOrder(uint(orderID), userID)
	if err != nil {
		respondOrderCancelError(c, err)
		return
	}
	response.Success(c, order)
}

// GuestOrderLookupRequest 游客订单查询请求
type GuestOrderLookupRequest struct {
	OrderNumber string `json:"order_number" binding:"required"`
	Email       string `json:"email" binding:"required"`
}

// GuestOrderLookup 游客凭订单号 + 下单邮箱查询订单
func (h *Handler) GuestOrderLookup(c *gin.Context) {
	var req GuestOrderLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.GetGuestOrder(req.OrderNumber, req.Email)
	if err != nil {
		respondOrderQueryError(c, err)
		return
	}
	response.Success(c, order)
}
