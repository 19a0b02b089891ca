package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/craftmart-shop/internal/constants"
	"github.com/craftmart-shop/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAddressRepositoryTest(t *testing.T) (*GormAddressRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:address_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Address{}); err != nil {
		t.Fatalf("migrate address failed: %v", err)
	}
	return NewAddressRepository(db), db
}

func createShippingAddress(t *testing.T, repo *GormAddressRepository, userID uint, city string, isDefault bool) *models.Address {
	t.Helper()
	address := &models.Address{
		UserID:       userID,
		Type:         constants.AddressTypeShipping,
		FirstName:    "Ada",
		LastName:     "Craft",
		AddressLine1: "12 Kiln Street",
		City:         city,
		PostalCode:   "10001",
		Country:      "US",
		IsDefault:    isDefault,
	}
	if err := repo.Create(address); err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	return address
}

func TestSetDefaultSwapsWithinType(t *testing.T) {
	repo, db := setupAddressRepositoryTest(t)
	first := createShippingAddress(t, repo, 1, "Portland", true)
	second := createShippingAddress(t, repo, 1, "Denver", false)

	if err := repo.SetDefault(second.ID, 1, constants.AddressTypeShipping); err != nil {
		t.Fatalf("set default failed: %v", err)
	}

	var defaults []models.Address
	if err := db.Where("user_id = ? AND type = ? AND is_default = ?", 1, constants.AddressTypeShipping, true).
		Find(&defaults).Error; err != nil {
		t.Fatalf("query defaults failed: %v", err)
	}
	if len(defaults) != 1 {
		t.Fatalf("exactly one default expected, got %d", len(defaults))
	}
	if defaults[0].ID != second.ID {
		t.Fatalf("default want id=%d got id=%d", second.ID, defaults[0].ID)
	}

	var reloaded models.Address
	if err := db.First(&reloaded, first.ID).Error; err != nil {
		t.Fatalf("reload first failed: %v", err)
	}
	if reloaded.IsDefault {
		t.Fatalf("first address should no longer be default")
	}
}

func TestSetDefaultRejectsForeignAddress(t *testing.T) {
	repo, _ := setupAddressRepositoryTest(t)
	other := createShippingAddress(t, repo, 2, "Austin", false)

	err := repo.SetDefault(other.ID, 1, constants.AddressTypeShipping)
	if err == nil {
		t.Fatalf("expected error when setting default on another user's address")
	}
}
