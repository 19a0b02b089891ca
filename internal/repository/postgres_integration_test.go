//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/craftmart-shop/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.OrderItem{},
		&models.Payment{},
		&models.Order{},
		&models.Product{},
		&models.Category{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresProductSearchAndStock(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	category := &models.Category{Slug: "pg-category", Name: "Woodwork"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	repo := NewProductRepository(db)
	product := &models.Product{
		CategoryID:    category.ID,
		Slug:          "pg-walnut-board",
		SKU:           "PG-WB-001",
		Name:          "Walnut Serving Board",
		Description:   "hand finished walnut board",
		Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(99)),
		StockQuantity: 5,
		IsActive:      true,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	// ILIKE 大小写不敏感匹配
	rows, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 20, Search: "WALNUT"})
	if err != nil {
		t.Fatalf("product search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("product search want 1 got total=%d len=%d", total, len(rows))
	}

	affected, err := repo.DecrementStock(product.ID, 5)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("decrement affected want 1 got %d", affected)
	}
	affected, err = repo.DecrementStock(product.ID, 1)
	if err != nil {
		t.Fatalf("decrement empty failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("decrement on empty stock affected want 0 got %d", affected)
	}
}
