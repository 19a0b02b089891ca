package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCatalogServiceTest(t *testing.T) (*ProductService, *CategoryService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewProductService(repository.NewProductRepository(db)),
		NewCategoryService(repository.NewCategoryRepository(db)),
		db
}

func TestProductCreateValidation(t *testing.T) {
	productSvc, categorySvc, _ := setupCatalogServiceTest(t)

	category, err := categorySvc.Create(CreateCategoryInput{Slug: "ceramics", Name: "陶瓷器"})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	stock := 5
	input := CreateProductInput{
		CategoryID:    category.ID,
		Slug:          "glazed-mug",
		SKU:           "MUG-001",
		Name:          "釉面马克杯",
		Price:         decimal.NewFromInt(30),
		StockQuantity: &stock,
	}

	zero := input
	zero.Price = decimal.Zero
	if _, err := productSvc.Create(zero); !errors.Is(err, ErrProductPriceInvalid) {
		t.Fatalf("expected price invalid, got: %v", err)
	}

	negativeStock := -1
	bad := input
	bad.StockQuantity = &negativeStock
	if _, err := productSvc.Create(bad); !errors.Is(err, ErrStockInvalid) {
		t.Fatalf("expected stock invalid, got: %v", err)
	}

	product, err := productSvc.Create(input)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if !product.IsActive {
		t.Fatalf("product must default to active")
	}

	if _, err := productSvc.Create(input); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected slug exists, got: %v", err)
	}
}

func TestProductPublicListingHidesInactive(t *testing.T) {
	productSvc, categorySvc, db := setupCatalogServiceTest(t)

	category, err := categorySvc.Create(CreateCategoryInput{Slug: "woodwork", Name: "木作"})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	for i, slug := range []string{"oak-bowl", "walnut-tray"} {
		stock := 3
		if _, err := productSvc.Create(CreateProductInput{
			CategoryID:    category.ID,
			Slug:          slug,
			SKU:           fmt.Sprintf("WOOD-%03d", i),
			Name:          "木器",
			Price:         decimal.NewFromInt(45),
			StockQuantity: &stock,
		}); err != nil {
			t.Fatalf("create %s failed: %v", slug, err)
		}
	}
	if err := db.Model(&models.Product{}).Where("slug = ?", "walnut-tray").
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	listed, total, err := productSvc.ListPublic("", "", false, 1, 20)
	if err != nil {
		t.Fatalf("public list failed: %v", err)
	}
	if total != 1 || len(listed) != 1 || listed[0].Slug != "oak-bowl" {
		t.Fatalf("public list must hide inactive, got total=%d %+v", total, listed)
	}

	if _, err := productSvc.GetPublicBySlug("walnut-tray"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("inactive product must be hidden, got: %v", err)
	}

	// 后台列表包含下架商品
	_, adminTotal, err := productSvc.ListAdmin("", "", 1, 20)
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if adminTotal != 2 {
		t.Fatalf("admin list total want 2 got %d", adminTotal)
	}
}

func TestCategoryDeleteGuard(t *testing.T) {
	productSvc, categorySvc, _ := setupCatalogServiceTest(t)

	category, err := categorySvc.Create(CreateCategoryInput{Slug: "textiles", Name: "织物"})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	if _, err := categorySvc.Create(CreateCategoryInput{Slug: "textiles", Name: "织物二"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected slug exists, got: %v", err)
	}

	stock := 1
	if _, err := productSvc.Create(CreateProductInput{
		CategoryID:    category.ID,
		Slug:          "linen-runner",
		SKU:           "TEX-001",
		Name:          "亚麻桌旗",
		Price:         decimal.NewFromInt(25),
		StockQuantity: &stock,
	}); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	id := fmt.Sprintf("%d", category.ID)
	if err := categorySvc.Delete(id); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("expected category in use, got: %v", err)
	}

	empty, err := categorySvc.Create(CreateCategoryInput{Slug: "empty-shelf", Name: "空架"})
	if err != nil {
		t.Fatalf("create empty category failed: %v", err)
	}
	if err := categorySvc.Delete(fmt.Sprintf("%d", empty.ID)); err != nil {
		t.Fatalf("delete empty category failed: %v", err)
	}
}
