package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/craftmart-shop/internal/constants"
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAddressServiceTest(t *testing.T) (*AddressService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:address_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Address{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return NewAddressService(repository.NewAddressRepository(db)), db
}

func validAddressInput() AddressInput {
	return AddressInput{
		Type:         constants.AddressTypeShipping,
		FirstName:    "San",
		LastName:     "Zhang",
		AddressLine1: "100 Market St",
		City:         "Springfield",
		PostalCode:   "12345",
		Country:      "us",
	}
}

func TestAddressCreateValidation(t *testing.T) {
	svc, _ := setupAddressServiceTest(t)

	input := AddressInput{Country: "USA"}
	_, err := svc.Create(1, input)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got: %v", err)
	}
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Key
	}
	for _, name := range []string{"first_name", "last_name", "address_line1", "city", "postal_code"} {
		if fields[name] != "error.field_required" {
			t.Fatalf("expected %s required, got %+v", name, fields)
		}
	}
	if fields["country"] != "error.country_invalid" {
		t.Fatalf("expected country invalid, got %+v", fields)
	}

	if _, err := svc.Create(1, AddressInput{Type: "warehouse"}); !errors.Is(err, ErrAddressTypeInvalid) {
		t.Fatalf("expected address type invalid, got: %v", err)
	}
}

func TestAddressCreateNormalizesCountry(t *testing.T) {
	svc, _ := setupAddressServiceTest(t)

	address, err := svc.Create(1, validAddressInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if address.Country != "US" {
		t.Fatalf("country want US got %s", address.Country)
	}
	if address.Type != constants.AddressTypeShipping {
		t.Fatalf("type want shipping got %s", address.Type)
	}
}

func TestAddressDefaultIsExclusivePerType(t *testing.T) {
	svc, db := setupAddressServiceTest(t)

	first := validAddressInput()
	first.IsDefault = true
	a, err := svc.Create(1, first)
	if err != nil {
		t.Fatalf("create first failed: %v", err)
	}
	if !a.IsDefault {
		t.Fatalf("first address must be default")
	}

	second := validAddressInput()
	second.IsDefault = true
	b, err := svc.Create(1, second)
	if err != nil {
		t.Fatalf("create second failed: %v", err)
	}
	if !b.IsDefault {
		t.Fatalf("second address must take over default")
	}

	var reloaded models.Address
	if err := db.First(&reloaded, a.ID).Error; err != nil {
		t.Fatalf("reload first failed: %v", err)
	}
	if reloaded.IsDefault {
		t.Fatalf("old default must be cleared")
	}

	// billing 默认互不影响
	billing := validAddressInput()
	billing.Type = constants.AddressTypeBilling
	billing.IsDefault = true
	if _, err := svc.Create(1, billing); err != nil {
		t.Fatalf("create billing failed: %v", err)
	}
	var reloadedSecond models.Address
	if err := db.First(&reloadedSecond, b.ID).Error; err != nil {
		t.Fatalf("reload second failed: %v", err)
	}
	if !reloadedSecond.IsDefault {
		t.Fatalf("shipping default must survive billing default")
	}
}

func TestAddressOwnership(t *testing.T) {
	svc, _ := setupAddressServiceTest(t)

	address, err := svc.Create(1, validAddressInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.GetByIDAndUser(address.ID, 2); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("expected not found for other user, got: %v", err)
	}
	if err := svc.Delete(address.ID, 2); !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("expected delete rejection, got: %v", err)
	}
	if err := svc.Delete(address.ID, 1); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
}

func TestGuestOneOffAddress(t *testing.T) {
	svc, _ := setupAddressServiceTest(t)

	input := validAddressInput()
	input.IsDefault = true
	address, err := svc.CreateGuestOneOff(input)
	if err != nil {
		t.Fatalf("create guest address failed: %v", err)
	}
	if address.UserID != 0 {
		t.Fatalf("guest address user id want 0 got %d", address.UserID)
	}
	if address.IsDefault {
		t.Fatalf("guest address must never be default")
	}

	// 游客地址不出现在任何用户的地址簿里
	list, err := svc.ListByUser(1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("guest address leaked into user list: %+v", list)
	}
}
