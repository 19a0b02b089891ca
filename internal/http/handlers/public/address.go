package public

import (
	"strconv"

	"github.com/craftmart-shop/internal/http/response"
	"github.com/craftmart-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 地址创建/更新请求
type AddressRequest struct {
	Type         string `json:"type"`
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Company      string `json:"company"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code" binding:"required"`
	Country      string `json:"country" binding:"required"`
	Phone        string `json:"phone"`
	IsDefault    bool   `json:"is_default"`
}

func (r AddressRequest) toInput() service.AddressInput {
	return service.AddressInput{
		Type:         r.Type,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Company:      r.Company,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
		Phone:        r.Phone,
		IsDefault:    r.IsDefault,
	}
}

// ListAddresses 当前用户地址簿
func (h *Handler) ListAddresses(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	addresses, err := h.AddressService.ListByUser(userID)
	if err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, addresses)
}

// CreateAddress 新建地址
func (h *Handler) CreateAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	address, err := h.AddressService.Create(userID, req.toInput())
	if err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, address)
}

// UpdateAddress 更新地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	address, err := h.AddressService.Update(uint(addressID), userID, req.toInput())
	if err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, address)
}

// DeleteAddress 删除地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AddressService.Delete(uint(addressID), userID); err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// SetDefaultAddress 设为同类型默认地址（互斥，旧默认自动取消）
func (h *Handler) SetDefaultAddress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	address, err := h.AddressService.SetDefault(uint(addressID), userID)
	if err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, address)
}
