package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/craftmart-shop/internal/config"
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type cartServiceFixture struct {
	db  *gorm.DB
	svc *CartService
}

func setupCartServiceTest(t *testing.T) *cartServiceFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartLine{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	return &cartServiceFixture{
		db:  db,
		svc: NewCartService(&config.Config{}, repository.NewCartRepository(db), repository.NewProductRepository(db)),
	}
}

func (f *cartServiceFixture) createProduct(t *testing.T, slug string, price int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:    1,
		Slug:          slug,
		SKU:           "SKU-" + slug,
		Name:          "手工茶壶",
		Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := f.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestAddItemMergesQuantity(t *testing.T) {
	f := setupCartServiceTest(t)
	product := f.createProduct(t, "merge-mug", 25, 10)
	identity := CartIdentity{UserID: 1}

	cart, err := f.svc.AddItem(AddCartItemInput{Identity: identity, ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 2 {
		t.Fatalf("expected single line qty 2, got %+v", cart.Lines)
	}

	// 涨价后再加购，行单价保持首次加入时的快照
	if err := f.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", models.NewMoneyFromDecimal(decimal.NewFromInt(40))).Error; err != nil {
		t.Fatalf("raise price failed: %v", err)
	}

	cart, err = f.svc.AddItem(AddCartItemInput{Identity: identity, ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("lines want 1 got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 5 {
		t.Fatalf("merged quantity want 5 got %d", cart.Lines[0].Quantity)
	}
	if cart.Lines[0].UnitPrice.String() != "25.00" {
		t.Fatalf("unit price snapshot want 25.00 got %s", cart.Lines[0].UnitPrice.String())
	}
	if cart.TotalAmount.String() != "125.00" {
		t.Fatalf("total want 125.00 got %s", cart.TotalAmount.String())
	}
	if cart.TotalItems != 5 {
		t.Fatalf("total items want 5 got %d", cart.TotalItems)
	}
}

func TestAddItemRejectsOverStock(t *testing.T) {
	f := setupCartServiceTest(t)
	product := f.createProduct(t, "scarce-mug", 25, 3)
	identity := CartIdentity{UserID: 2}

	if _, err := f.svc.AddItem(AddCartItemInput{Identity: identity, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	// 已有 2 件，再加 2 件超出库存 3
	_, err := f.svc.AddItem(AddCartItemInput{Identity: identity, ProductID: product.ID, Quantity: 2})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}

	_, err = f.svc.AddItem(AddCartItemInput{Identity: identity, ProductID: product.ID, Quantity: 0})
	if !errors.Is(err, ErrQuantityInvalid) {
		t.Fatalf("expected quantity invalid, got: %v", err)
	}
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	f := setupCartServiceTest(t)
	product := f.createProduct(t, "inactive-mug", 25, 10)
	if err := f.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	_, err := f.svc.AddItem(AddCartItemInput{Identity: CartIdentity{UserID: 3}, ProductID: product.ID, Quantity: 1})
	if !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("expected product not available, got: %v", err)
	}
}

func TestUpdateLineZeroRemoves(t *testing.T) {
	f := setupCartServiceTest(t)
	product := f.createProduct(t, "remove-mug", 30, 10)
	identity := CartIdentity{UserID: 4}

	cart, err := f.svc.AddItem(AddCartItemInput{Identity: identity, ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	lineID := cart.Lines[0].ID

	cart, err = f.svc.UpdateLine(UpdateCartLineInput{Identity: identity, LineID: lineID, Quantity: 0})
	if err != nil {
		t.Fatalf("update to zero failed: %v", err)
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("line must be removed, got %d lines", len(cart.Lines))
	}
	if cart.TotalItems != 0 || cart.TotalAmount.String() != "0.00" {
		t.Fatalf("derived totals must reset, got %d %s", cart.TotalItems, cart.TotalAmount.String())
	}

	_, err = f.svc.UpdateLine(UpdateCartLineInput{Identity: identity, LineID: lineID, Quantity: 1})
	if !errors.Is(err, ErrCartLineNotFound) {
		t.Fatalf("expected cart line not found, got: %v", err)
	}
}

func TestUpdateLineRejectsOverStock(t *testing.T) {
	f := setupCartServiceTest(t)
	product := f.createProduct(t, "limit-mug", 30, 4)
	identity := CartIdentity{UserID: 5}

	cart, err := f.svc.AddItem(AddCartItemInput{Identity: identity, ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	_, err = f.svc.UpdateLine(UpdateCartLineInput{Identity: identity, LineID: cart.Lines[0].ID, Quantity: 5})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}
	_, err = f.svc.UpdateLine(UpdateCartLineInput{Identity: identity, LineID: cart.Lines[0].ID, Quantity: -1})
	if !errors.Is(err, ErrQuantityInvalid) {
		t.Fatalf("expected quantity invalid, got: %v", err)
	}
}

func TestGuestCartLifecycle(t *testing.T) {
	f := setupCartServiceTest(t)
	product := f.createProduct(t, "guest-mug", 20, 10)
	sessionID := NewGuestSessionID()
	identity := CartIdentity{SessionID: sessionID}

	// 不存在时 Get 返回空视图且不落库
	view, err := f.svc.Get(identity)
	if err != nil {
		t.Fatalf("get empty failed: %v", err)
	}
	if view.ID != 0 || len(view.Lines) != 0 {
		t.Fatalf("expected transient empty cart, got %+v", view)
	}
	var count int64
	if err := f.db.Model(&models.Cart{}).Count(&count).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("empty view must not persist, got %d carts", count)
	}

	cart, err := f.svc.AddItem(AddCartItemInput{Identity: identity, ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("guest add failed: %v", err)
	}
	if cart.ExpiresAt == nil {
		t.Fatalf("guest cart must carry expiry")
	}
	if cart.UserID != nil {
		t.Fatalf("guest cart must not hold a user id")
	}
}

func TestMergeGuestCartIntoUserCart(t *testing.T) {
	f := setupCartServiceTest(t)
	shared := f.createProduct(t, "shared-mug", 25, 4)
	guestOnly := f.createProduct(t, "guest-only-mug", 15, 10)
	gone := f.createProduct(t, "gone-mug", 10, 10)

	sessionID := NewGuestSessionID()
	guest := CartIdentity{SessionID: sessionID}
	user := CartIdentity{UserID: 9}

	if _, err := f.svc.AddItem(AddCartItemInput{Identity: guest, ProductID: shared.ID, Quantity: 3}); err != nil {
		t.Fatalf("guest add shared failed: %v", err)
	}
	if _, err := f.svc.AddItem(AddCartItemInput{Identity: guest, ProductID: guestOnly.ID, Quantity: 2}); err != nil {
		t.Fatalf("guest add exclusive failed: %v", err)
	}
	if _, err := f.svc.AddItem(AddCartItemInput{Identity: guest, ProductID: gone.ID, Quantity: 1}); err != nil {
		t.Fatalf("guest add doomed failed: %v", err)
	}
	if _, err := f.svc.AddItem(AddCartItemInput{Identity: user, ProductID: shared.ID, Quantity: 2}); err != nil {
		t.Fatalf("user add shared failed: %v", err)
	}

	// 合并前该商品下架
	if err := f.db.Model(&models.Product{}).Where("id = ?", gone.ID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	merged, err := f.svc.MergeGuestCart(9, sessionID)
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	byProduct := map[uint]models.CartLine{}
	for _, line := range merged.Lines {
		byProduct[line.ProductID] = line
	}
	// 2 + 3 超出库存 4，截断到 4
	if got := byProduct[shared.ID].Quantity; got != 4 {
		t.Fatalf("merged shared quantity want 4 got %d", got)
	}
	if got := byProduct[guestOnly.ID].Quantity; got != 2 {
		t.Fatalf("merged exclusive quantity want 2 got %d", got)
	}
	if _, ok := byProduct[gone.ID]; ok {
		t.Fatalf("inactive product must not survive merge")
	}

	// 游客购物车随合并删除
	var guestCount int64
	if err := f.db.Model(&models.Cart{}).Where("session_id = ?", sessionID).Count(&guestCount).Error; err != nil {
		t.Fatalf("count guest carts failed: %v", err)
	}
	if guestCount != 0 {
		t.Fatalf("guest cart must be deleted after merge, got %d", guestCount)
	}
}

func TestCleanupExpiredGuestCarts(t *testing.T) {
	f := setupCartServiceTest(t)
	product := f.createProduct(t, "expired-mug", 10, 10)

	expired := CartIdentity{SessionID: NewGuestSessionID()}
	fresh := CartIdentity{SessionID: NewGuestSessionID()}
	expiredCart, err := f.svc.AddItem(AddCartItemInput{Identity: expired, ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("expired add failed: %v", err)
	}
	if _, err := f.svc.AddItem(AddCartItemInput{Identity: fresh, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("fresh add failed: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	if err := f.db.Model(&models.Cart{}).Where("id = ?", expiredCart.ID).
		Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate expiry failed: %v", err)
	}

	removed, err := f.svc.CleanupExpiredGuestCarts(time.Now(), 100)
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed want 1 got %d", removed)
	}

	var count int64
	if err := f.db.Model(&models.Cart{}).Count(&count).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("remaining carts want 1 got %d", count)
	}
}
