package public

import (
	"strconv"

	"github.com/craftmart-shop/internal/constants"
	"github.com/craftmart-shop/internal/http/response"
	"github.com/craftmart-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加购请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CartLineUpdateRequest 购物车行更新请求
type CartLineUpdateRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart 获取当前购物车（用户或游客）
func (h *Handler) GetCart(c *gin.Context) {
	identity := cartIdentity(c)
	if identity.UserID == 0 && identity.SessionID == "" {
		// 无会话游客直接发新会话并返回空购物车
		sessionID := service.NewGuestSessionID()
		c.Header(constants.GuestSessionHeader, sessionID)
		cart, err := h.CartService.Get(service.CartIdentity{SessionID: sessionID})
		if err != nil {
			respondCartError(c, err)
			return
		}
		response.Success(c, cart)
		return
	}

	cart, err := h.CartService.Get(identity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// AddCartItem 加购
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	identity := cartIdentity(c)
	if identity.UserID == 0 && identity.SessionID == "" {
		identity.SessionID = service.NewGuestSessionID()
		c.Header(constants.GuestSessionHeader, identity.SessionID)
	}

	cart, err := h.CartService.AddItem(service.AddCartItemInput{
		Identity:  identity,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// UpdateCartLine 更新购物车行数量（0 表示移除）
func (h *Handler) UpdateCartLine(c *gin.Context) {
	lineID, err := strconv.ParseUint(c.Param("line_id"), 10, 64)
	if err != nil || lineID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req CartLineUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	cart, err := h.CartService.UpdateLine(service.UpdateCartLineInput{
		Identity: cartIdentity(c),
		LineID:   uint(lineID),
		Quantity: *req.Quantity,
	})
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// RemoveCartLine 移除购物车行
func (h *Handler) RemoveCartLine(c *gin.Context) {
	lineID, err := strconv.ParseUint(c.Param("line_id"), 10, 64)
	if err != nil || lineID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	cart, err := h.CartService.RemoveLine(cartIdentity(c), uint(lineID))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.CartService.Clear(cartIdentity(c)); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
