package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/craftmart-shop/internal/config"
	"github.com/craftmart-shop/internal/constants"
	"github.com/craftmart-shop/internal/logger"
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/payment"
	"github.com/craftmart-shop/internal/queue"
	"github.com/craftmart-shop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderNumberMaxAttempts = 5

// CheckoutInput 结算输入
type CheckoutInput struct {
	Identity           CartIdentity
	GuestEmail         string
	ShippingAddressID  uint
	BillingAddressID   uint // 0 表示与收货地址一致
	PaymentMethod      string
	ShippingCost       models.Money
	ShippingMethodName string
	Notes              string
	ClientIP           string
}

// CheckoutResult 结算输出：订单 + 本次支付结果
type CheckoutResult struct {
	Order   *models.Order   `json:"order"`
	Payment *models.Payment `json:"payment"`
}

// OrderService 订单服务
type OrderService struct {
	cfg            *config.Config
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	cartRepo       repository.CartRepository
	addressRepo    repository.AddressRepository
	paymentRepo    repository.PaymentRepository
	stockValidator *StockValidator
	gateway        payment.Gateway
	queueClient    *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	paymentRepo repository.PaymentRepository,
	gateway payment.Gateway,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		cfg:            cfg,
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		cartRepo:       cartRepo,
		addressRepo:    addressRepo,
		paymentRepo:    paymentRepo,
		stockValidator: NewStockValidator(productRepo),
		gateway:        gateway,
		queueClient:    queueClient,
	}
}

// Checkout 完整结算流程：库存预检 → 创建订单 → 支付尝试 → 落账。
// 支付被拒绝时订单以 cancelled 终结并返回 ErrPaymentDeclined；
// 预检与落账之间库存被并发耗尽时返回 ErrStockConflict。
func (s *OrderService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, []StockShortage, error) {
	cart, err := s.resolveCart(input.Identity)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil || len(cart.Lines) == 0 {
		return nil, nil, ErrCartEmpty
	}

	shortages, err := s.stockValidator.Validate(cart.Lines)
	if err != nil {
		return nil, nil, err
	}
	if len(shortages) > 0 {
		return nil, shortages, ErrInsufficientStock
	}

	order, err := s.CreateFromCart(cart, input)
	if err != nil {
		return nil, nil, err
	}

	paymentRow, result, err := s.attemptPayment(ctx, order)
	if err != nil {
		// 网关不可达也按支付失败终结本次尝试，原因入单。
		if cancelErr := s.markPaymentFailed(order, paymentRow, err.Error()); cancelErr != nil {
			logger.Errorw("order_payment_fail_mark_failed",
				"order_id", order.ID,
				"order_number", order.OrderNumber,
				"error", cancelErr,
			)
		}
		return &CheckoutResult{Order: order, Payment: paymentRow}, nil, ErrPaymentDeclined
	}

	if result.Status != constants.PaymentResultSuccess {
		if cancelErr := s.markPaymentFailed(order, paymentRow, result.Reason); cancelErr != nil {
			logger.Errorw("order_payment_fail_mark_failed",
				"order_id", order.ID,
				"order_number", order.OrderNumber,
				"error", cancelErr,
			)
		}
		return &CheckoutResult{Order: order, Payment: paymentRow}, nil, ErrPaymentDeclined
	}

	if err := s.FinalizePayment(order, paymentRow, result.TransactionID, cart); err != nil {
		return &CheckoutResult{Order: order, Payment: paymentRow}, nil, err
	}

	s.enqueueConfirmEmail(order)
	return &CheckoutResult{Order: order, Payment: paymentRow}, nil, nil
}

// CreateFromCart 把购物车装配为订单。金额从明细行重新推导，
// 订单与订单项在同一事务内写入。
func (s *OrderService) CreateFromCart(cart *models.Cart, input CheckoutInput) (*models.Order, error) {
	if cart == nil || len(cart.Lines) == 0 {
		return nil, ErrCartEmpty
	}
	if err := s.validateCheckoutInput(input); err != nil {
		return nil, err
	}

	userID := input.Identity.UserID
	guestEmail := ""
	if userID == 0 {
		normalized, err := normalizeGuestEmail(input.GuestEmail)
		if err != nil {
			return nil, err
		}
		guestEmail = normalized
	}

	shippingAddr, err := s.resolveAddress(input.ShippingAddressID, userID)
	if err != nil {
		return nil, err
	}
	billingAddr := shippingAddr
	billingAddressID := input.BillingAddressID
	if billingAddressID != 0 && billingAddressID != input.ShippingAddressID {
		billingAddr, err = s.resolveAddress(billingAddressID, userID)
		if err != nil {
			return nil, err
		}
	} else {
		billingAddressID = input.ShippingAddressID
	}

	items, subtotal, err := s.buildOrderItems(cart.Lines)
	if err != nil {
		return nil, err
	}

	shippingCost := input.ShippingCost
	if shippingCost.IsNegative() {
		return nil, newValidationError(FieldError{Field: "shipping_cost", Key: "error.shipping_cost_invalid"})
	}
	total := subtotal.Add(shippingCost.Decimal)

	orderNumber, err := s.generateOrderNumber()
	if err != nil {
		return nil, ErrOrderCreateFailed
	}

	now := time.Now()
	order := &models.Order{
		OrderNumber:         orderNumber,
		UserID:              userID,
		GuestEmail:          guestEmail,
		Status:              constants.OrderStatusPendingPayment,
		PaymentStatus:       constants.PaymentStatusPending,
		PaymentMethod:       strings.ToLower(strings.TrimSpace(input.PaymentMethod)),
		Currency:            s.currency(),
		SubtotalAmount:      models.NewMoneyFromDecimal(subtotal),
		ShippingCost:        shippingCost,
		TotalAmount:         models.NewMoneyFromDecimal(total),
		ShippingMethodName:  s.shippingMethodName(input.ShippingMethodName),
		ShippingAddressID:   input.ShippingAddressID,
		BillingAddressID:    billingAddressID,
		ShippingAddressJSON: shippingAddr.Snapshot(),
		BillingAddressJSON:  billingAddr.Snapshot(),
		Notes:               strings.TrimSpace(input.Notes),
		ClientIP:            strings.TrimSpace(input.ClientIP),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(order, items)
	})
	if err != nil {
		logger.Errorw("order_create_failed",
			"order_number", orderNumber,
			"user_id", userID,
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}
	order.Items = items
	return order, nil
}

// FinalizePayment 支付成功落账：条件扣减库存、订单转 processing、
// 支付记录转 paid、清空来源购物车。任一商品扣减未命中则整体回滚，
// 订单以 cancelled 终结，库存与购物车保持原状。
func (s *OrderService) FinalizePayment(order *models.Order, paymentRow *models.Payment, transactionID string, cart *models.Cart) error {
	if order == nil {
		return ErrOrderNotFound
	}
	now := time.Now()
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		for _, item := range order.Items {
			affected, err := productRepo.DecrementStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrStockConflict
			}
		}

		orderRepo := s.orderRepo.WithTx(tx)
		updates := map[string]interface{}{
			"payment_status": constants.PaymentStatusPaid,
			"payment_id":     transactionID,
			"paid_at":        now,
			"updated_at":     now,
		}
		if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusProcessing, updates); err != nil {
			return err
		}

		if paymentRow != nil {
			paymentRepo := s.paymentRepo.WithTx(tx)
			paymentRow.Status = constants.PaymentStatusPaid
			paymentRow.TransactionID = transactionID
			paymentRow.PaidAt = &now
			paymentRow.UpdatedAt = now
			if err := paymentRepo.Update(paymentRow); err != nil {
				return err
			}
		}

		if cart != nil && cart.ID != 0 {
			cartRepo := s.cartRepo.WithTx(tx)
			if err := cartRepo.DeleteLines(cart.ID); err != nil {
				return err
			}
			if err := cartRepo.UpdateDerived(cart.ID, models.NewMoneyFromDecimal(decimal.Zero), 0, cart.ExpiresAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		order.Status = constants.OrderStatusProcessing
		order.PaymentStatus = constants.PaymentStatusPaid
		order.PaymentID = transactionID
		order.PaidAt = &now
		return nil
	}

	if errors.Is(err, ErrStockConflict) {
		if cancelErr := s.markPaymentFailed(order, paymentRow, "insufficient stock at payment commit"); cancelErr != nil {
			logger.Errorw("order_stock_conflict_cancel_failed",
				"order_id", order.ID,
				"order_number", order.OrderNumber,
				"error", cancelErr,
			)
		}
		logger.Warnw("order_stock_conflict",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
		)
		return ErrStockConflict
	}
	logger.Errorw("order_finalize_failed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"error", err,
	)
	return ErrOrderUpdateFailed
}

// CancelOrder 用户取消订单（仅 pending_payment / processing）
func (s *OrderService) CancelOrder(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !canTransition(order.Status, constants.OrderStatusCancelled) {
		return nil, ErrOrderCancelNotAllowed
	}
	restoreStock := order.PaymentStatus == constants.PaymentStatusPaid
	if err := s.cancel(order, "cancelled by customer", restoreStock); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	s.enqueueStatusEmail(order.ID, constants.OrderStatusCancelled)
	return order, nil
}

// UpdateOrderStatus 管理端驱动状态机（shipped / delivered / cancelled）
func (s *OrderService) UpdateOrderStatus(orderID uint, targetStatus string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	target := strings.ToLower(strings.TrimSpace(targetStatus))
	if target == "" {
		return nil, ErrOrderStatusInvalid
	}
	if order.Status == target {
		return order, nil
	}
	if !canTransition(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	switch target {
	case constants.OrderStatusShipped:
		updates["shipped_at"] = now
	case constants.OrderStatusDelivered:
		updates["delivered_at"] = now
	case constants.OrderStatusCancelled:
		restoreStock := order.PaymentStatus == constants.PaymentStatusPaid
		if err := s.cancel(order, "cancelled by admin", restoreStock); err != nil {
			return nil, ErrOrderUpdateFailed
		}
		s.enqueueStatusEmail(order.ID, constants.OrderStatusCancelled)
		return order, nil
	}

	if err := s.orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	order.Status = target
	order.UpdatedAt = now
	switch target {
	case constants.OrderStatusShipped:
		order.ShippedAt = &now
	case constants.OrderStatusDelivered:
		order.DeliveredAt = &now
	}
	s.enqueueStatusEmail(order.ID, target)
	return order, nil
}

// cancel 取消订单。已扣减过库存的订单回补库存。
func (s *OrderService) cancel(order *models.Order, reason string, restoreStock bool) error {
	now := time.Now()
	return models.DB.Transaction(func(tx *gorm.DB) error {
		if restoreStock {
			productRepo := s.productRepo.WithTx(tx)
			for _, item := range order.Items {
				if _, err := productRepo.RestoreStock(item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}
		notes := order.Notes
		if reason != "" {
			if notes != "" {
				notes += "\n"
			}
			notes += reason
		}
		updates := map[string]interface{}{
			"cancelled_at": now,
			"notes":        notes,
			"updated_at":   now,
		}
		if err := s.orderRepo.WithTx(tx).UpdateStatus(order.ID, constants.OrderStatusCancelled, updates); err != nil {
			return err
		}
		order.Status = constants.OrderStatusCancelled
		order.CancelledAt = &now
		order.Notes = notes
		order.UpdatedAt = now
		return nil
	})
}

// markPaymentFailed 支付失败终结：订单 cancelled、原因入单、支付记录 failed。
// 库存与购物车不动。
func (s *OrderService) markPaymentFailed(order *models.Order, paymentRow *models.Payment, reason string) error {
	now := time.Now()
	return models.DB.Transaction(func(tx *gorm.DB) error {
		notes := order.Notes
		line := "payment failed"
		if strings.TrimSpace(reason) != "" {
			line = "payment failed: " + strings.TrimSpace(reason)
		}
		if notes != "" {
			notes += "\n"
		}
		notes += line

		updates := map[string]interface{}{
			"payment_status": constants.PaymentStatusFailed,
			"cancelled_at":   now,
			"notes":          notes,
			"updated_at":     now,
		}
		if err := s.orderRepo.WithTx(tx).UpdateStatus(order.ID, constants.OrderStatusCancelled, updates); err != nil {
			return err
		}

		if paymentRow != nil {
			paymentRow.Status = constants.PaymentStatusFailed
			paymentRow.FailureReason = strings.TrimSpace(reason)
			paymentRow.UpdatedAt = now
			if err := s.paymentRepo.WithTx(tx).Update(paymentRow); err != nil {
				return err
			}
		}

		order.Status = constants.OrderStatusCancelled
		order.PaymentStatus = constants.PaymentStatusFailed
		order.CancelledAt = &now
		order.Notes = notes
		order.UpdatedAt = now
		return nil
	})
}

func (s *OrderService) attemptPayment(ctx context.Context, order *models.Order) (*models.Payment, *payment.AttemptResult, error) {
	paymentRow := &models.Payment{
		OrderID:   order.ID,
		PaymentNo: generatePaymentNo(order.OrderNumber),
		Method:    order.PaymentMethod,
		Gateway:   s.gateway.Name(),
		Amount:    order.TotalAmount,
		Currency:  order.Currency,
		Status:    constants.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(paymentRow); err != nil {
		return nil, nil, err
	}

	result, err := s.gateway.Attempt(ctx, payment.AttemptInput{
		OrderNumber: order.OrderNumber,
		PaymentNo:   paymentRow.PaymentNo,
		Amount:      order.TotalAmount,
		Currency:    order.Currency,
		Description: fmt.Sprintf("order %s", order.OrderNumber),
	})
	if err != nil {
		return paymentRow, nil, err
	}
	return paymentRow, result, nil
}

func (s *OrderService) validateCheckoutInput(input CheckoutInput) error {
	var fields []FieldError
	if input.ShippingAddressID == 0 {
		fields = append(fields, FieldError{Field: "shipping_address_id", Key: "error.shipping_address_required"})
	}
	method := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if method != constants.PaymentMethodPayPal {
		fields = append(fields, FieldError{Field: "payment_method", Key: "error.payment_method_invalid"})
	}
	if input.Identity.UserID != 0 && strings.TrimSpace(input.GuestEmail) != "" {
		fields = append(fields, FieldError{Field: "guest_email", Key: "error.guest_email_conflict"})
	}
	if len(fields) > 0 {
		return newValidationError(fields...)
	}
	return nil
}

func (s *OrderService) resolveCart(identity CartIdentity) (*models.Cart, error) {
	if identity.UserID != 0 {
		return s.cartRepo.GetByUserID(identity.UserID)
	}
	sessionID := strings.TrimSpace(identity.SessionID)
	if sessionID == "" {
		return nil, nil
	}
	return s.cartRepo.GetBySessionID(sessionID)
}

func (s *OrderService) resolveAddress(addressID, userID uint) (*models.Address, error) {
	address, err := s.addressRepo.GetByID(addressID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	if address.UserID != userID {
		return nil, ErrAddressForbidden
	}
	return address, nil
}

// buildOrderItems 按当前明细行生成订单项快照并重算小计。
func (s *OrderService) buildOrderItems(lines []models.CartLine) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		product := line.Product
		if product == nil || product.ID == 0 {
			fetched, err := s.productRepo.GetByID(line.ProductID)
			if err != nil {
				return nil, decimal.Zero, err
			}
			product = fetched
		}
		if product == nil || !product.IsActive {
			return nil, decimal.Zero, ErrProductNotAvailable
		}
		lineTotal := line.UnitPrice.MulQuantity(line.Quantity)
		subtotal = subtotal.Add(lineTotal.Decimal)
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			ProductSlug: product.Slug,
			Tags:        product.Tags,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			TotalPrice:  lineTotal,
		})
	}
	return items, subtotal, nil
}

// generateOrderNumber 生成 CM-<年份>-<随机8位大写字母数字> 格式的订单号，
// 撞号时重试。
func (s *OrderService) generateOrderNumber() (string, error) {
	prefix := "CM"
	if s.cfg != nil && strings.TrimSpace(s.cfg.Order.NumberPrefix) != "" {
		prefix = strings.ToUpper(strings.TrimSpace(s.cfg.Order.NumberPrefix))
	}
	year := time.Now().Year()
	for attempt := 0; attempt < orderNumberMaxAttempts; attempt++ {
		suffix, err := randUpperAlnum(8)
		if err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%s-%d-%s", prefix, year, suffix)
		count, err := s.orderRepo.CountByNumber(candidate)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("order number collision after %d attempts", orderNumberMaxAttempts)
}

func (s *OrderService) currency() string {
	if s.cfg != nil && strings.TrimSpace(s.cfg.Shop.Currency) != "" {
		return strings.ToUpper(strings.TrimSpace(s.cfg.Shop.Currency))
	}
	return constants.SiteCurrencyDefault
}

func (s *OrderService) shippingMethodName(raw string) string {
	name := strings.TrimSpace(raw)
	if name != "" {
		return name
	}
	if s.cfg != nil && strings.TrimSpace(s.cfg.Shop.DefaultShippingMethod) != "" {
		return strings.TrimSpace(s.cfg.Shop.DefaultShippingMethod)
	}
	return "standard"
}

func (s *OrderService) enqueueConfirmEmail(order *models.Order) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderConfirmEmail(queue.OrderConfirmEmailPayload{OrderID: order.ID}); err != nil {
		logger.Warnw("order_enqueue_confirm_email_failed",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"error", err,
		)
	}
}

func (s *OrderService) enqueueStatusEmail(orderID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{OrderID: orderID, Status: status}); err != nil {
		logger.Warnw("order_enqueue_status_email_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}

func generatePaymentNo(orderNumber string) string {
	suffix, err := randUpperAlnum(6)
	if err != nil {
		suffix = fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("PAY-%s-%s", orderNumber, suffix)
}

const upperAlnumCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randUpperAlnum(length int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(upperAlnumCharset)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(upperAlnumCharset[n.Int64()])
	}
	return b.String(), nil
}

// normalizeGuestEmail 规范化游客邮箱
func normalizeGuestEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrGuestEmailRequired
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
