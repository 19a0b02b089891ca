package i18n

// catalogs 全量文案。error.* 由 handler 层使用，email.* 由邮件服务使用。
var catalogs = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":       "Invalid request",
		"error.unauthorized":      "Unauthorized",
		"error.forbidden":         "Forbidden",
		"error.not_found":         "Not found",
		"error.internal":          "Internal server error",
		"error.validation_failed": "Validation failed",
		"error.field_required":    "This field is required",
		"error.country_invalid":   "Country must be a two-letter code",
		"error.rate_limited":      "Too many requests, please retry in %d seconds",
		"error.save_failed":       "Failed to save changes",

		"error.auth_header_missing":      "Authorization header is missing",
		"error.auth_header_invalid":      "Authorization header is malformed",
		"error.jwt_secret_missing":       "Authentication is not configured",
		"error.token_invalid":            "Token is invalid or expired",
		"error.token_revoked":            "Token has been revoked",
		"error.invalid_credentials":      "Invalid email or password",
		"error.login_invalid":            "Invalid email or password",
		"error.login_failed":             "Login failed, please try again",
		"error.login_too_many":           "Too many login attempts, please retry in %d seconds",
		"error.admin_login_invalid":      "Invalid username or password",
		"error.register_failed":          "Registration failed, please try again",
		"error.user_disabled":            "Account is disabled",
		"error.email_exists":             "Email is already registered",
		"error.email_invalid":            "Invalid email address",
		"error.user_id_invalid":          "User identity is missing",
		"error.user_id_type_invalid":     "User identity is malformed",
		"error.admin_id_invalid":         "Admin identity is missing",
		"error.admin_id_type_invalid":    "Admin identity is malformed",
		"error.user_not_found":           "User not found",
		"error.user_fetch_failed":        "Failed to load user",
		"error.user_update_failed":       "Failed to update user",
		"error.profile_update_failed":    "Failed to update profile",
		"error.change_password_failed":   "Failed to change password",
		"error.password_invalid":         "Current password is incorrect",
		"error.password_old_invalid":     "Current password is incorrect",
		"error.password_weak":            "Password does not meet the policy",
		"error.weak_password":            "Password does not meet the policy",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_max_length":      "Password must be at most %d bytes",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a digit",
		"error.password_require_special": "Password must contain a special character",

		"error.captcha_required":        "Captcha is required",
		"error.captcha_invalid":         "Captcha verification failed",
		"error.captcha_unavailable":     "Captcha service is unavailable",
		"error.captcha_generate_failed": "Failed to generate captcha",
		"error.captcha_verify_failed":   "Failed to verify captcha",

		"error.product_not_found":      "Product not found",
		"error.product_not_available":  "Product is not available",
		"error.product_price_invalid":  "Product price is invalid",
		"error.product_fetch_failed":   "Failed to load products",
		"error.product_create_failed":  "Failed to create product",
		"error.product_update_failed":  "Failed to update product",
		"error.product_delete_failed":  "Failed to delete product",
		"error.stock_invalid":          "Stock quantity is invalid",
		"error.slug_exists":            "Slug is already in use",
		"error.category_not_found":     "Category not found",
		"error.category_in_use":        "Category still has products",
		"error.category_fetch_failed":  "Failed to load categories",
		"error.category_create_failed": "Failed to create category",
		"error.category_update_failed": "Failed to update category",
		"error.category_delete_failed": "Failed to delete category",

		"error.cart_empty":          "Cart is empty",
		"error.cart_line_not_found": "Cart item not found",
		"error.quantity_invalid":    "Quantity is invalid",
		"error.insufficient_stock":  "Insufficient stock",
		"error.stock_conflict":      "Stock was depleted during checkout, please try again",

		"error.order_not_found":          "Order not found",
		"error.order_fetch_failed":       "Failed to load orders",
		"error.order_create_failed":      "Failed to create order",
		"error.order_update_failed":      "Failed to update order",
		"error.order_status_invalid":     "Order status transition is not allowed",
		"error.order_cancel_not_allowed": "Order can no longer be cancelled",
		"error.checkout_too_many":        "Too many checkout attempts, please retry in %d seconds",

		"error.payment_declined":       "Payment was declined",
		"error.payment_method_invalid": "Payment method is not supported",
		"error.payment_not_found":      "Payment not found",
		"error.payment_fetch_failed":   "Failed to load payments",

		"error.shipping_address_required": "Shipping address is required",
		"error.shipping_cost_invalid":     "Shipping cost is invalid",
		"error.guest_email_required":      "Email is required for guest checkout",
		"error.guest_email_conflict":      "Guest email must not be set for a signed-in checkout",
		"error.address_not_found":         "Address not found",
		"error.address_forbidden":         "Address belongs to another user",
		"error.address_type_invalid":      "Address type is invalid",

		"error.authz_fetch_failed":     "Failed to load permissions",
		"error.authz_role_invalid":     "Role name is invalid",
		"error.authz_policy_invalid":   "Policy rule is invalid",
		"error.rate_limit_unavailable": "Rate limiter is unavailable",

		"error.admin_login_failed": "Login failed, please try again",

		"email.order_confirm.subject":   "Order %s confirmed",
		"email.order_confirm.body":      "Thank you for your purchase!\n\nOrder number: %s\nTotal: %s %s\n\nWe are preparing your items for shipment.",
		"email.order_status.subject":    "Order update: %s",
		"email.order_status.body":       "Order number: %s\nNew status: %s\nTotal: %s %s",
		"email.order_status.shipped":    "shipped",
		"email.order_status.delivered":  "delivered",
		"email.order_status.cancelled":  "cancelled",
		"email.order_status.processing": "processing",
		"email.guest_tip":               "Keep your order number and this email address to look up the order later.",
	},
	LocaleZH: {
		"error.bad_request":       "请求无效",
		"error.unauthorized":      "未登录或登录已过期",
		"error.forbidden":         "没有权限",
		"error.not_found":         "资源不存在",
		"error.internal":          "服务器内部错误",
		"error.validation_failed": "参数校验失败",
		"error.field_required":    "该字段必填",
		"error.country_invalid":   "国家必须是两位字母代码",
		"error.rate_limited":      "请求过于频繁，请 %d 秒后重试",
		"error.save_failed":       "保存失败",

		"error.auth_header_missing":      "缺少认证头",
		"error.auth_header_invalid":      "认证头格式错误",
		"error.jwt_secret_missing":       "认证服务未配置",
		"error.token_invalid":            "令牌无效或已过期",
		"error.token_revoked":            "令牌已失效",
		"error.invalid_credentials":      "邮箱或密码错误",
		"error.login_invalid":            "邮箱或密码错误",
		"error.login_failed":             "登录失败，请重试",
		"error.login_too_many":           "登录尝试过于频繁，请 %d 秒后重试",
		"error.admin_login_invalid":      "用户名或密码错误",
		"error.register_failed":          "注册失败，请重试",
		"error.user_disabled":            "账号已被禁用",
		"error.email_exists":             "邮箱已被注册",
		"error.email_invalid":            "邮箱格式不正确",
		"error.user_id_invalid":          "缺少用户身份",
		"error.user_id_type_invalid":     "用户身份格式错误",
		"error.admin_id_invalid":         "缺少管理员身份",
		"error.admin_id_type_invalid":    "管理员身份格式错误",
		"error.user_not_found":           "用户不存在",
		"error.user_fetch_failed":        "用户查询失败",
		"error.user_update_failed":       "用户更新失败",
		"error.profile_update_failed":    "资料更新失败",
		"error.change_password_failed":   "密码修改失败",
		"error.password_invalid":         "当前密码不正确",
		"error.password_old_invalid":     "当前密码不正确",
		"error.password_weak":            "密码不符合安全策略",
		"error.weak_password":            "密码不符合安全策略",
		"error.password_min_length":      "密码长度至少 %d 位",
		"error.password_max_length":      "密码长度不能超过 %d 字节",
		"error.password_require_upper":   "密码需包含大写字母",
		"error.password_require_lower":   "密码需包含小写字母",
		"error.password_require_number":  "密码需包含数字",
		"error.password_require_special": "密码需包含特殊字符",

		"error.captcha_required":        "请填写验证码",
		"error.captcha_invalid":         "验证码校验失败",
		"error.captcha_unavailable":     "验证码服务不可用",
		"error.captcha_generate_failed": "验证码生成失败",
		"error.captcha_verify_failed":   "验证码校验异常",

		"error.product_not_found":      "商品不存在",
		"error.product_not_available":  "商品已下架",
		"error.product_price_invalid":  "商品价格无效",
		"error.product_fetch_failed":   "商品查询失败",
		"error.product_create_failed":  "商品创建失败",
		"error.product_update_failed":  "商品更新失败",
		"error.product_delete_failed":  "商品删除失败",
		"error.stock_invalid":          "库存数量无效",
		"error.slug_exists":            "Slug 已被占用",
		"error.category_not_found":     "分类不存在",
		"error.category_in_use":        "分类下仍有商品",
		"error.category_fetch_failed":  "分类查询失败",
		"error.category_create_failed": "分类创建失败",
		"error.category_update_failed": "分类更新失败",
		"error.category_delete_failed": "分类删除失败",

		"error.cart_empty":          "购物车为空",
		"error.cart_line_not_found": "购物车项不存在",
		"error.quantity_invalid":    "数量无效",
		"error.insufficient_stock":  "库存不足",
		"error.stock_conflict":      "结算时库存被抢空，请重试",

		"error.order_not_found":          "订单不存在",
		"error.order_fetch_failed":       "订单查询失败",
		"error.order_create_failed":      "订单创建失败",
		"error.order_update_failed":      "订单更新失败",
		"error.order_status_invalid":     "订单状态不允许该变更",
		"error.order_cancel_not_allowed": "订单已不可取消",
		"error.checkout_too_many":        "结算过于频繁，请 %d 秒后重试",

		"error.payment_declined":       "支付被拒绝",
		"error.payment_method_invalid": "不支持的支付方式",
		"error.payment_not_found":      "支付记录不存在",
		"error.payment_fetch_failed":   "支付记录查询失败",

		"error.shipping_address_required": "请选择收货地址",
		"error.shipping_cost_invalid":     "运费无效",
		"error.guest_email_required":      "游客结算需要填写邮箱",
		"error.guest_email_conflict":      "登录用户结算不应携带游客邮箱",
		"error.address_not_found":         "地址不存在",
		"error.address_forbidden":         "地址不属于当前用户",
		"error.address_type_invalid":      "地址类型无效",

		"error.authz_fetch_failed":     "权限信息获取失败",
		"error.authz_role_invalid":     "角色名称无效",
		"error.authz_policy_invalid":   "策略规则无效",
		"error.rate_limit_unavailable": "限流服务不可用",

		"error.admin_login_failed": "登录失败，请重试",

		"email.order_confirm.subject":   "订单 %s 已确认",
		"email.order_confirm.body":      "感谢您的购买！\n\n订单号：%s\n金额：%s %s\n\n我们正在为您备货。",
		"email.order_status.subject":    "订单状态更新：%s",
		"email.order_status.body":       "订单号：%s\n最新状态：%s\n金额：%s %s",
		"email.order_status.shipped":    "已发货",
		"email.order_status.delivered":  "已签收",
		"email.order_status.cancelled":  "已取消",
		"email.order_status.processing": "备货中",
		"email.guest_tip":               "请保存订单号与该邮箱地址，以便后续查询订单。",
	},
}
