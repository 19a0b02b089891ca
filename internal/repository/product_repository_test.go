package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/craftmart-shop/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:product_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("migrate product failed: %v", err)
	}
	return NewProductRepository(db), db
}

func createStockedProduct(t *testing.T, repo *GormProductRepository, slug string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID:    1,
		Slug:          slug,
		SKU:           "SKU-" + slug,
		Name:          "手工陶瓷杯",
		Description:   "handmade ceramic mug",
		Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestDecrementStockConditional(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createStockedProduct(t, repo, "decrement-stock", 10)

	affected, err := repo.DecrementStock(product.ID, 3)
	if err != nil {
		t.Fatalf("decrement stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("decrement affected want 1 got %d", affected)
	}

	// 剩余 7，再扣 8 必须失败且不改动库存
	affected, err = repo.DecrementStock(product.ID, 8)
	if err != nil {
		t.Fatalf("decrement over available failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("decrement over available affected want 0 got %d", affected)
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.StockQuantity != 7 {
		t.Fatalf("stock want 7 got %d", got.StockQuantity)
	}

	affected, err = repo.DecrementStock(product.ID, 7)
	if err != nil {
		t.Fatalf("decrement to zero failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("decrement to zero affected want 1 got %d", affected)
	}
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.StockQuantity != 0 {
		t.Fatalf("stock want 0 got %d", got.StockQuantity)
	}
}

func TestDecrementStockLastUnitOnlyOneSucceeds(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createStockedProduct(t, repo, "last-unit", 1)

	first, err := repo.DecrementStock(product.ID, 1)
	if err != nil {
		t.Fatalf("first decrement failed: %v", err)
	}
	second, err := repo.DecrementStock(product.ID, 1)
	if err != nil {
		t.Fatalf("second decrement failed: %v", err)
	}
	if first+second != 1 {
		t.Fatalf("exactly one decrement should succeed, got first=%d second=%d", first, second)
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.StockQuantity != 0 {
		t.Fatalf("stock must not go negative, got %d", got.StockQuantity)
	}
}

func TestRestoreStock(t *testing.T) {
	repo, db := setupProductRepositoryTest(t)
	product := createStockedProduct(t, repo, "restore-stock", 2)

	if _, err := repo.DecrementStock(product.ID, 2); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	affected, err := repo.RestoreStock(product.ID, 2)
	if err != nil {
		t.Fatalf("restore stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("restore affected want 1 got %d", affected)
	}

	var got models.Product
	if err := db.First(&got, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if got.StockQuantity != 2 {
		t.Fatalf("stock want 2 got %d", got.StockQuantity)
	}
}

func TestProductListSearchAndFilters(t *testing.T) {
	repo, _ := setupProductRepositoryTest(t)
	createStockedProduct(t, repo, "walnut-board", 5)
	out := createStockedProduct(t, repo, "oak-tray", 0)
	_ = out

	rows, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 20, Search: "walnut"})
	if err != nil {
		t.Fatalf("list search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Slug != "walnut-board" {
		t.Fatalf("search want walnut-board, got total=%d rows=%d", total, len(rows))
	}

	rows, total, err = repo.List(ProductListFilter{Page: 1, PageSize: 20, InStockOnly: true})
	if err != nil {
		t.Fatalf("list in-stock failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Slug != "walnut-board" {
		t.Fatalf("in-stock filter want 1 row, got total=%d rows=%d", total, len(rows))
	}
}
