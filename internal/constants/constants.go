package constants

// 订单状态常量
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusProcessing     = "processing"
	OrderStatusShipped        = "shipped"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// 支付状态常量
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// 支付方式常量
const (
	PaymentMethodPayPal = "paypal"
)

// 支付网关结果常量
const (
	PaymentResultSuccess  = "success"
	PaymentResultDeclined = "declined"
)

// 地址类型常量
const (
	AddressTypeShipping = "shipping"
	AddressTypeBilling  = "billing"
)

// 商品状态常量
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin         = "login"
	CaptchaSceneRegister      = "register"
	CaptchaSceneGuestCheckout = "guest_checkout"
)

// 队列常量
const (
	QueueDefault              = "default"
	TaskOrderConfirmEmail     = "order:confirm_email"
	TaskOrderStatusEmail      = "order:status_email"
	TaskGuestCartCleanup      = "cart:guest_cleanup"
	GuestCartCleanupBatchSize = 200
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "cm"
)

// 币种常量
const (
	SiteCurrencyDefault = "USD"
)

// 站点语言常量
const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleEnUS, LocaleZhCN}

// 游客会话请求头常量
const (
	GuestSessionHeader = "X-Guest-Session"
)
