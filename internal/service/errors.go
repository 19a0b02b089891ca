package service

import "errors"

// 业务错误定义。handler 层通过 errors.Is 映射为响应码与文案。
var (
	ErrNotFound            = errors.New("resource not found")
	ErrSlugExists          = errors.New("slug already exists")
	ErrSKUExists           = errors.New("sku already exists")
	ErrCategoryInUse       = errors.New("category has products")
	ErrProductPriceInvalid = errors.New("product price invalid")
	ErrProductNotAvailable = errors.New("product not available")
	ErrStockInvalid        = errors.New("stock quantity invalid")

	ErrCartLineNotFound  = errors.New("cart line not found")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrQuantityInvalid   = errors.New("quantity invalid")
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrStockConflict 表示结算落库时条件扣减未命中：
	// 校验与扣减之间库存被并发耗尽。
	ErrStockConflict = errors.New("stock changed during checkout")

	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderFetchFailed      = errors.New("order fetch failed")
	ErrOrderCreateFailed     = errors.New("order create failed")
	ErrOrderUpdateFailed     = errors.New("order update failed")
	ErrOrderStatusInvalid    = errors.New("order status invalid")
	ErrOrderCancelNotAllowed = errors.New("order cancel not allowed")
	ErrPaymentDeclined       = errors.New("payment declined")
	ErrPaymentMethodInvalid  = errors.New("payment method invalid")
	ErrPaymentNotFound       = errors.New("payment not found")

	ErrAddressNotFound    = errors.New("address not found")
	ErrAddressForbidden   = errors.New("address belongs to another user")
	ErrAddressInvalid     = errors.New("address invalid")
	ErrAddressTypeInvalid = errors.New("address type invalid")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("weak password")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrGuestEmailRequired = errors.New("guest email required")
	ErrUserDisabled       = errors.New("user disabled")

	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)
