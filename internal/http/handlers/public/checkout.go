package public

import (
	"errors"
	"strings"

	"github.com/craftmart-shop/internal/constants"
	"github.com/craftmart-shop/internal/http/handlers/shared"
	"github.com/craftmart-shop/internal/http/response"
	"github.com/craftmart-shop/internal/i18n"
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	GuestEmail         string                       `json:"guest_email"`
	ShippingAddressID  uint                         `json:"shipping_address_id"`
	BillingAddressID   uint                         `json:"billing_address_id"`
	PaymentMethod      string                       `json:"payment_method" binding:"required"`
	ShippingMethodName string                       `json:"shipping_method_name"`
	Notes              string                       `json:"notes"`
	CaptchaPayload     shared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// Checkout 结算下单：库存预检 → 建单 → 支付尝试 → 落账。
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	identity := cartIdentity(c)
	if identity.UserID == 0 && h.CaptchaService != nil && h.CaptchaService.IsSceneEnabled(constants.CaptchaSceneGuestCheckout) {
		if err := h.CaptchaService.Verify(constants.CaptchaSceneGuestCheckout, req.CaptchaPayload.ToServicePayload()); err != nil {
			respondCaptchaError(c, err)
			return
		}
	}

	result, shortages, err := h.OrderService.Checkout(c.Request.Context(), service.CheckoutInput{
		Identity:           identity,
		GuestEmail:         req.GuestEmail,
		ShippingAddressID:  req.ShippingAddressID,
		BillingAddressID:   req.BillingAddressID,
		PaymentMethod:      req.PaymentMethod,
		ShippingCost:       h.shippingCost(),
		ShippingMethodName: req.ShippingMethodName,
		Notes:              req.Notes,
		ClientIP:           c.ClientIP(),
	})
	if err != nil {
		if errors.Is(err, service.ErrInsufficientStock) && len(shortages) > 0 {
			respondStockShortages(c, shortages)
			return
		}
		// 支付被拒与落账冲突时订单已以 cancelled 终结，把订单一并带回。
		if result != nil && (errors.Is(err, service.ErrPaymentDeclined) || errors.Is(err, service.ErrStockConflict)) {
			respondCheckoutFailure(c, err, result)
			return
		}
		respondCheckoutError(c, err)
		return
	}

	response.Success(c, result)
}

var captchaErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
}

func respondCaptchaError(c *gin.Context, err error) {
	respondWithMappedError(c, err, captchaErrorRules, response.CodeBadRequest, "error.captcha_invalid")
}

func respondStockShortages(c *gin.Context, shortages []service.StockShortage) {
	locale := i18n.ResolveLocale(c)
	response.ErrorWithData(c, response.CodeBadRequest, i18n.T(locale, "error.insufficient_stock"), gin.H{
		"shortages": shortages,
	})
}

func respondCheckoutFailure(c *gin.Context, err error, result *service.CheckoutResult) {
	locale := i18n.ResolveLocale(c)
	code := response.CodeBadRequest
	key := "error.payment_declined"
	if errors.Is(err, service.ErrStockConflict) {
		code = response.CodeConflict
		key = "error.stock_conflict"
	}
	response.ErrorWithData(c, code, i18n.T(locale, key), result)
}

// shippingCost 统一运费：取店铺配置的固定运费，配置缺失或非法按 0 处理。
func (h *Handler) shippingCost() models.Money {
	raw := ""
	if h.Config != nil {
		raw = strings.TrimSpace(h.Config.Shop.ShippingFlatCost)
	}
	if raw == "" {
		return models.NewMoneyFromDecimal(decimal.Zero)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || amount.IsNegative() {
		return models.NewMoneyFromDecimal(decimal.Zero)
	}
	return models.NewMoneyFromDecimal(amount)
}

// GuestAddressRequest 游客一次性地址请求
type GuestAddressRequest struct {
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
}

// CreateGuestAddress 游客结算用一次性收货地址
func (h *Handler) CreateGuestAddress(c *gin.Context) {
	var req GuestAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	address, err := h.AddressService.CreateGuestOneOff(service.AddressInput{
		Type:         req.Type,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Company:      req.Company,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Phone:        req.Phone,
	})
	if err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, address)
}
