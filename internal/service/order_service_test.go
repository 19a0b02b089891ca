package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/craftmart-shop/internal/config"
	"github.com/craftmart-shop/internal/constants"
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/payment/paypal"
	"github.com/craftmart-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderServiceFixture struct {
	db      *gorm.DB
	svc     *OrderService
	cartSvc *CartService
}

func setupOrderServiceTest(t *testing.T, gatewayMode string) *orderServiceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	gateway, err := paypal.NewClient(paypal.Config{Mode: gatewayMode, Currency: "USD"})
	if err != nil {
		t.Fatalf("new paypal client failed: %v", err)
	}

	cfg := &config.Config{}
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	svc := NewOrderService(
		cfg,
		repository.NewOrderRepository(db),
		productRepo,
		cartRepo,
		repository.NewAddressRepository(db),
		repository.NewPaymentRepository(db),
		gateway,
		nil,
	)
	return &orderServiceFixture{
		db:      db,
		svc:     svc,
		cartSvc: NewCartService(cfg, cartRepo, productRepo),
	}
}

func (f *orderServiceFixture) createProduct(t *testing.T, slug string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:    1,
		Slug:          slug,
		SKU:           "SKU-" + strings.ToUpper(slug),
		Name:          "手工陶瓷杯",
		Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (f *orderServiceFixture) createAddress(t *testing.T, userID uint) *models.Address {
	t.Helper()
	address := &models.Address{
		UserID:       userID,
		Type:         constants.AddressTypeShipping,
		FirstName:    "San",
		LastName:     "Zhang",
		AddressLine1: "100 Market St",
		City:         "Springfield",
		PostalCode:   "12345",
		Country:      "US",
	}
	if err := f.db.Create(address).Error; err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	return address
}

func (f *orderServiceFixture) fillCart(t *testing.T, identity CartIdentity, productID uint, quantity int) *models.Cart {
	t.Helper()
	cart, err := f.cartSvc.AddItem(AddCartItemInput{
		Identity:  identity,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		t.Fatalf("add cart item failed: %v", err)
	}
	return cart
}

func (f *orderServiceFixture) reloadProduct(t *testing.T, id uint) *models.Product {
	t.Helper()
	var product models.Product
	if err := f.db.First(&product, id).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return &product
}

func (f *orderServiceFixture) reloadCartLines(t *testing.T, cartID uint) []models.CartLine {
	t.Helper()
	var lines []models.CartLine
	if err := f.db.Where("cart_id = ?", cartID).Find(&lines).Error; err != nil {
		t.Fatalf("reload cart lines failed: %v", err)
	}
	return lines
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeSuccess)

	_, _, err := f.svc.Checkout(context.Background(), CheckoutInput{
		Identity:          CartIdentity{UserID: 1},
		ShippingAddressID: 1,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected cart empty, got: %v", err)
	}

	var count int64
	if err := f.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orders, got %d", count)
	}
}

func TestCheckoutValidationErrors(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeSuccess)
	product := f.createProduct(t, "validation-mug", 100, 10)
	identity := CartIdentity{UserID: 7}
	cart := f.fillCart(t, identity, product.ID, 1)

	_, err := f.svc.CreateFromCart(cart, CheckoutInput{
		Identity:      identity,
		PaymentMethod: "bank_transfer",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got: %v", err)
	}
	gotFields := map[string]bool{}
	for _, field := range verr.Fields {
		gotFields[field.Field] = true
	}
	if !gotFields["shipping_address_id"] {
		t.Fatalf("expected shipping_address_id field error, got: %+v", verr.Fields)
	}
	if !gotFields["payment_method"] {
		t.Fatalf("expected payment_method field error, got: %+v", verr.Fields)
	}
}

func TestCheckoutGuestEmailRequired(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeSuccess)
	product := f.createProduct(t, "guest-mug", 50, 5)
	address := f.createAddress(t, 0)
	identity := CartIdentity{SessionID: NewGuestSessionID()}
	cart := f.fillCart(t, identity, product.ID, 1)

	_, err := f.svc.CreateFromCart(cart, CheckoutInput{
		Identity:          identity,
		ShippingAddressID: address.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if !errors.Is(err, ErrGuestEmailRequired) {
		t.Fatalf("expected guest email required, got: %v", err)
	}

	_, err = f.svc.CreateFromCart(cart, CheckoutInput{
		Identity:          identity,
		GuestEmail:        "not-an-email",
		ShippingAddressID: address.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got: %v", err)
	}
}

func TestCheckoutGuestSuccess(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeSuccess)
	product := f.createProduct(t, "guest-bowl", 30, 8)
	address := f.createAddress(t, 0)
	identity := CartIdentity{SessionID: NewGuestSessionID()}
	f.fillCart(t, identity, product.ID, 2)

	result, shortages, err := f.svc.Checkout(context.Background(), CheckoutInput{
		Identity:          identity,
		GuestEmail:        " Guest@Example.COM ",
		ShippingAddressID: address.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if err != nil {
		t.Fatalf("guest checkout failed: %v", err)
	}
	if len(shortages) != 0 {
		t.Fatalf("unexpected shortages: %+v", shortages)
	}
	if result.Order.UserID != 0 {
		t.Fatalf("guest order user id want 0 got %d", result.Order.UserID)
	}
	if result.Order.GuestEmail != "guest@example.com" {
		t.Fatalf("guest email want normalized, got %q", result.Order.GuestEmail)
	}
	if result.Order.Status != constants.OrderStatusProcessing {
		t.Fatalf("order status want processing got %s", result.Order.Status)
	}
}

func TestCheckoutTotals(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeSuccess)
	product := f.createProduct(t, "totals-vase", 100, 10)
	address := f.createAddress(t, 3)
	identity := CartIdentity{UserID: 3}
	f.fillCart(t, identity, product.ID, 2)

	result, _, err := f.svc.Checkout(context.Background(), CheckoutInput{
		Identity:          identity,
		ShippingAddressID: address.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
		ShippingCost:      models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	order := result.Order
	if order.SubtotalAmount.String() != "200.00" {
		t.Fatalf("subtotal want 200.00 got %s", order.SubtotalAmount.String())
	}
	if order.ShippingCost.String() != "15.00" {
		t.Fatalf("shipping cost want 15.00 got %s", order.ShippingCost.String())
	}
	if order.TotalAmount.String() != "215.00" {
		t.Fatalf("total want 215.00 got %s", order.TotalAmount.String())
	}
	if len(order.Items) != 1 {
		t.Fatalf("order items want 1 got %d", len(order.Items))
	}
	if order.Items[0].TotalPrice.String() != "200.00" {
		t.Fatalf("item total want 200.00 got %s", order.Items[0].TotalPrice.String())
	}
	if !strings.HasPrefix(order.OrderNumber, fmt.Sprintf("CM-%d-", time.Now().Year())) {
		t.Fatalf("order number format unexpected: %s", order.OrderNumber)
	}
	suffix := order.OrderNumber[strings.LastIndex(order.OrderNumber, "-")+1:]
	if len(suffix) != 8 {
		t.Fatalf("order number suffix want 8 chars got %q", suffix)
	}
}

func TestCheckoutSuccessDecrementsStockAndClearsCart(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeSuccess)
	product := f.createProduct(t, "success-plate", 25, 10)
	address := f.createAddress(t, 4)
	identity := CartIdentity{UserID: 4}
	cart := f.fillCart(t, identity, product.ID, 3)

	result, _, err := f.svc.Checkout(context.Background(), CheckoutInput{
		Identity:          identity,
		ShippingAddressID: address.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if got := f.reloadProduct(t, product.ID).StockQuantity; got != 7 {
		t.Fatalf("stock want 7 got %d", got)
	}
	if lines := f.reloadCartLines(t, cart.ID); len(lines) != 0 {
		t.Fatalf("cart should be cleared, got %d lines", len(lines))
	}

	var reloadedCart models.Cart
	if err := f.db.First(&reloadedCart, cart.ID).Error; err != nil {
		t.Fatalf("reload cart failed: %v", err)
	}
	if reloadedCart.TotalItems != 0 {
		t.Fatalf("cart total items want 0 got %d", reloadedCart.TotalItems)
	}

	order := result.Order
	if order.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("payment status want paid got %s", order.PaymentStatus)
	}
	if order.PaymentID == "" || order.PaidAt == nil {
		t.Fatalf("expected payment id and paid_at set, got %q %v", order.PaymentID, order.PaidAt)
	}
	if result.Payment == nil || result.Payment.Status != constants.PaymentStatusPaid {
		t.Fatalf("payment row want paid got %+v", result.Payment)
	}
	if result.Payment.TransactionID != order.PaymentID {
		t.Fatalf("transaction id mismatch: %q vs %q", result.Payment.TransactionID, order.PaymentID)
	}
}

func TestCheckoutDeclinedLeavesStockAndCart(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeDeclined)
	product := f.createProduct(t, "declined-cup", 40, 6)
	address := f.createAddress(t, 5)
	identity := CartIdentity{UserID: 5}
	cart := f.fillCart(t, identity, product.ID, 2)

	result, _, err := f.svc.Checkout(context.Background(), CheckoutInput{
		Identity:          identity,
		ShippingAddressID: address.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if !errors.Is(err, ErrPaymentDeclined) {
		t.Fatalf("expected payment declined, got: %v", err)
	}

	if got := f.reloadProduct(t, product.ID).StockQuantity; got != 6 {
		t.Fatalf("stock must stay 6, got %d", got)
	}
	if lines := f.reloadCartLines(t, cart.ID); len(lines) != 1 {
		t.Fatalf("cart must stay intact, got %d lines", len(lines))
	}

	order := result.Order
	if order.Status != constants.OrderStatusCancelled {
		t.Fatalf("order status want cancelled got %s", order.Status)
	}
	if order.PaymentStatus != constants.PaymentStatusFailed {
		t.Fatalf("payment status want failed got %s", order.PaymentStatus)
	}
	if !strings.Contains(order.Notes, "payment failed") {
		t.Fatalf("notes must record failure reason, got %q", order.Notes)
	}
	if result.Payment == nil || result.Payment.Status != constants.PaymentStatusFailed {
		t.Fatalf("payment row want failed got %+v", result.Payment)
	}
}

func TestCheckoutInsufficientStockPrecheck(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeSuccess)
	product := f.createProduct(t, "scarce-teapot", 80, 5)
	address := f.createAddress(t, 6)
	identity := CartIdentity{UserID: 6}
	cart := f.fillCart(t, identity, product.ID, 5)

	// 加购后库存被后台改小，预检必须报缺口。
	if err := f.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("stock_quantity", 2).Error; err != nil {
		t.Fatalf("shrink stock failed: %v", err)
	}

	_, shortages, err := f.svc.Checkout(context.Background(), CheckoutInput{
		Identity:          identity,
		ShippingAddressID: address.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}
	if len(shortages) != 1 {
		t.Fatalf("shortages want 1 got %d", len(shortages))
	}
	if shortages[0].Requested != 5 || shortages[0].Available != 2 {
		t.Fatalf("shortage detail unexpected: %+v", shortages[0])
	}

	var count int64
	if err := f.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("precheck failure must not create orders, got %d", count)
	}
	if lines := f.reloadCartLines(t, cart.ID); len(lines) != 1 {
		t.Fatalf("cart must stay intact, got %d lines", len(lines))
	}
}

func TestFinalizePaymentStockConflictRollsBack(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeSuccess)
	cheap := f.createProduct(t, "conflict-spoon", 10, 5)
	scarce := f.createProduct(t, "conflict-kettle", 60, 1)
	address := f.createAddress(t, 8)
	identity := CartIdentity{UserID: 8}
	f.fillCart(t, identity, cheap.ID, 2)
	cart := f.fillCart(t, identity, scarce.ID, 1)

	order, err := f.svc.CreateFromCart(cart, CheckoutInput{
		Identity:          identity,
		ShippingAddressID: address.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 预检之后、落账之前，最后一件被并发买走。
	if err := f.db.Model(&models.Product{}).Where("id = ?", scarce.ID).
		Update("stock_quantity", 0).Error; err != nil {
		t.Fatalf("drain stock failed: %v", err)
	}

	err = f.svc.FinalizePayment(order, nil, "PAYPAL-TEST", cart)
	if !errors.Is(err, ErrStockConflict) {
		t.Fatalf("expected stock conflict, got: %v", err)
	}

	// 先扣成功的商品必须回滚
	if got := f.reloadProduct(t, cheap.ID).StockQuantity; got != 5 {
		t.Fatalf("rolled back stock want 5 got %d", got)
	}
	if got := f.reloadProduct(t, scarce.ID).StockQuantity; got != 0 {
		t.Fatalf("drained stock want 0 got %d", got)
	}
	if lines := f.reloadCartLines(t, cart.ID); len(lines) != 2 {
		t.Fatalf("cart must stay intact, got %d lines", len(lines))
	}

	var reloaded models.Order
	if err := f.db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCancelled {
		t.Fatalf("order status want cancelled got %s", reloaded.Status)
	}
	if !strings.Contains(reloaded.Notes, "insufficient stock") {
		t.Fatalf("notes must record stock conflict, got %q", reloaded.Notes)
	}
}

func TestCheckoutLastUnitRace(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeSuccess)
	product := f.createProduct(t, "last-unit-jug", 90, 1)
	firstAddress := f.createAddress(t, 11)
	secondAddress := f.createAddress(t, 12)

	first := CartIdentity{UserID: 11}
	second := CartIdentity{UserID: 12}
	firstCart := f.fillCart(t, first, product.ID, 1)
	secondCart := f.fillCart(t, second, product.ID, 1)

	firstOrder, err := f.svc.CreateFromCart(firstCart, CheckoutInput{
		Identity:          first,
		ShippingAddressID: firstAddress.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if err != nil {
		t.Fatalf("first create order failed: %v", err)
	}
	secondOrder, err := f.svc.CreateFromCart(secondCart, CheckoutInput{
		Identity:          second,
		ShippingAddressID: secondAddress.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if err != nil {
		t.Fatalf("second create order failed: %v", err)
	}

	if err := f.svc.FinalizePayment(firstOrder, nil, "PAYPAL-A", firstCart); err != nil {
		t.Fatalf("first finalize failed: %v", err)
	}
	err = f.svc.FinalizePayment(secondOrder, nil, "PAYPAL-B", secondCart)
	if !errors.Is(err, ErrStockConflict) {
		t.Fatalf("second finalize expected stock conflict, got: %v", err)
	}

	if got := f.reloadProduct(t, product.ID).StockQuantity; got != 0 {
		t.Fatalf("stock must end at exactly 0, got %d", got)
	}
	if firstOrder.Status != constants.OrderStatusProcessing {
		t.Fatalf("first order want processing got %s", firstOrder.Status)
	}
	if secondOrder.Status != constants.OrderStatusCancelled {
		t.Fatalf("second order want cancelled got %s", secondOrder.Status)
	}
}

func TestCheckoutRejectsOtherUsersAddress(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeSuccess)
	product := f.createProduct(t, "address-box", 20, 4)
	otherAddress := f.createAddress(t, 99)
	identity := CartIdentity{UserID: 13}
	cart := f.fillCart(t, identity, product.ID, 1)

	_, err := f.svc.CreateFromCart(cart, CheckoutInput{
		Identity:          identity,
		ShippingAddressID: otherAddress.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if !errors.Is(err, ErrAddressForbidden) {
		t.Fatalf("expected address forbidden, got: %v", err)
	}

	_, err = f.svc.CreateFromCart(cart, CheckoutInput{
		Identity:          identity,
		ShippingAddressID: otherAddress.ID + 1000,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("expected address not found, got: %v", err)
	}
}

func TestCancelOrderTransitions(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeSuccess)
	product := f.createProduct(t, "cancel-pot", 35, 10)
	address := f.createAddress(t, 14)
	identity := CartIdentity{UserID: 14}
	cart := f.fillCart(t, identity, product.ID, 2)

	result, _, err := f.svc.Checkout(context.Background(), CheckoutInput{
		Identity:          identity,
		ShippingAddressID: address.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	_ = cart

	cancelled, err := f.svc.CancelOrder(result.Order.ID, 14)
	if err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("status want cancelled got %s", cancelled.Status)
	}
	// 已支付订单取消后库存回补
	if got := f.reloadProduct(t, product.ID).StockQuantity; got != 10 {
		t.Fatalf("restored stock want 10 got %d", got)
	}

	_, err = f.svc.CancelOrder(result.Order.ID, 14)
	if !errors.Is(err, ErrOrderCancelNotAllowed) {
		t.Fatalf("expected cancel not allowed, got: %v", err)
	}
}

func TestUpdateOrderStatusMachine(t *testing.T) {
	f := setupOrderServiceTest(t, paypal.ModeSuccess)
	product := f.createProduct(t, "status-tray", 45, 10)
	address := f.createAddress(t, 15)
	identity := CartIdentity{UserID: 15}
	f.fillCart(t, identity, product.ID, 1)

	result, _, err := f.svc.Checkout(context.Background(), CheckoutInput{
		Identity:          identity,
		ShippingAddressID: address.ID,
		PaymentMethod:     constants.PaymentMethodPayPal,
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	orderID := result.Order.ID

	// processing 不能直接 delivered
	if _, err := f.svc.UpdateOrderStatus(orderID, constants.OrderStatusDelivered); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected invalid transition, got: %v", err)
	}

	shipped, err := f.svc.UpdateOrderStatus(orderID, constants.OrderStatusShipped)
	if err != nil {
		t.Fatalf("ship failed: %v", err)
	}
	if shipped.ShippedAt == nil {
		t.Fatalf("shipped_at must be set")
	}

	delivered, err := f.svc.UpdateOrderStatus(orderID, constants.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if delivered.DeliveredAt == nil {
		t.Fatalf("delivered_at must be set")
	}

	// delivered 为终态
	if _, err := f.svc.UpdateOrderStatus(orderID, constants.OrderStatusCancelled); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected terminal status rejection, got: %v", err)
	}
}
