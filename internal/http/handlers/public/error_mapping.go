package public

import (
	"errors"

	"github.com/craftmart-shop/internal/http/response"
	"github.com/craftmart-shop/internal/i18n"
	"github.com/craftmart-shop/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		respondValidationError(c, verr)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

// respondValidationError 渲染字段级校验错误，逐字段附带本地化文案。
func respondValidationError(c *gin.Context, verr *service.ValidationError) {
	locale := i18n.ResolveLocale(c)
	fields := make([]gin.H, 0, len(verr.Fields))
	for _, field := range verr.Fields {
		fields = append(fields, gin.H{
			"field":   field.Field,
			"message": i18n.T(locale, field.Key),
		})
	}
	response.ErrorWithData(c, response.CodeBadRequest, i18n.T(locale, "error.validation_failed"), gin.H{
		"fields": fields,
	})
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrQuantityInvalid, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.insufficient_stock"},
	{target: service.ErrCartLineNotFound, code: response.CodeNotFound, key: "error.cart_line_not_found"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.insufficient_stock"},
	{target: service.ErrStockConflict, code: response.CodeConflict, key: "error.stock_conflict"},
	{target: service.ErrPaymentDeclined, code: response.CodeBadRequest, key: "error.payment_declined"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, key: "error.payment_method_invalid"},
	{target: service.ErrGuestEmailRequired, code: response.CodeBadRequest, key: "error.guest_email_required"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrAddressNotFound, code: response.CodeBadRequest, key: "error.address_not_found"},
	{target: service.ErrAddressForbidden, code: response.CodeForbidden, key: "error.address_forbidden"},
}

var orderQueryErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderFetchFailed, code: response.CodeInternal, key: "error.order_fetch_failed"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrGuestEmailRequired, code: response.CodeBadRequest, key: "error.guest_email_required"},
}

var orderCancelErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderCancelNotAllowed, code: response.CodeBadRequest, key: "error.order_cancel_not_allowed"},
	{target: service.ErrOrderFetchFailed, code: response.CodeInternal, key: "error.order_fetch_failed"},
	{target: service.ErrOrderUpdateFailed, code: response.CodeInternal, key: "error.order_update_failed"},
}

var addressErrorRules = []mappedHandlerError{
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, key: "error.address_not_found"},
	{target: service.ErrAddressTypeInvalid, code: response.CodeBadRequest, key: "error.address_type_invalid"},
	{target: service.ErrAddressForbidden, code: response.CodeForbidden, key: "error.address_forbidden"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondOrderQueryError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderQueryErrorRules, response.CodeInternal, "error.order_fetch_failed")
}

func respondOrderCancelError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderCancelErrorRules, response.CodeInternal, "error.order_update_failed")
}

func respondAddressError(c *gin.Context, err error) {
	respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "error.internal")
}
