package service

import (
	"strings"

	"github.com/craftmart-shop/internal/constants"
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/repository"
)

// AddressInput 创建/更新地址输入
type AddressInput struct {
	Type         string
	FirstName    string
	LastName     string
	Company      string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	Phone        string
	IsDefault    bool
}

// AddressService 地址簿服务
type AddressService struct {
	repo repository.AddressRepository
}

// NewAddressService 创建地址服务
func NewAddressService(repo repository.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

// ListByUser 用户地址列表
func (s *AddressService) ListByUser(userID uint) ([]models.Address, error) {
	return s.repo.ListByUser(userID)
}

// GetByIDAndUser 获取用户地址
func (s *AddressService) GetByIDAndUser(id, userID uint) (*models.Address, error) {
	address, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

// Create 创建用户地址
func (s *AddressService) Create(userID uint, input AddressInput) (*models.Address, error) {
	address, err := buildAddress(userID, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(address); err != nil {
		return nil, err
	}
	if input.IsDefault {
		if err := s.repo.SetDefault(address.ID, userID, address.Type); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}
	return address, nil
}

// CreateGuestOneOff 落库游客一次性地址（user_id 为 0，结算时引用）。
func (s *AddressService) CreateGuestOneOff(input AddressInput) (*models.Address, error) {
	input.IsDefault = false
	address, err := buildAddress(0, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(address); err != nil {
		return nil, err
	}
	return address, nil
}

// Update 更新用户地址
func (s *AddressService) Update(id, userID uint, input AddressInput) (*models.Address, error) {
	address, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	updated, err := buildAddress(userID, input)
	if err != nil {
		return nil, err
	}
	updated.ID = address.ID
	updated.IsDefault = address.IsDefault
	updated.CreatedAt = address.CreatedAt
	if err := s.repo.Update(updated); err != nil {
		return nil, err
	}
	if input.IsDefault && !address.IsDefault {
		if err := s.repo.SetDefault(updated.ID, userID, updated.Type); err != nil {
			return nil, err
		}
		updated.IsDefault = true
	}
	return updated, nil
}

// Delete 删除用户地址
func (s *AddressService) Delete(id, userID uint) error {
	address, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if address == nil {
		return ErrAddressNotFound
	}
	return s.repo.Delete(id, userID)
}

// SetDefault 设为默认地址。同类型原默认地址在同一事务内被取消。
func (s *AddressService) SetDefault(id, userID uint) (*models.Address, error) {
	address, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrAddressNotFound
	}
	if err := s.repo.SetDefault(id, userID, address.Type); err != nil {
		return nil, err
	}
	address.IsDefault = true
	return address, nil
}

func buildAddress(userID uint, input AddressInput) (*models.Address, error) {
	addressType, err := normalizeAddressType(input.Type)
	if err != nil {
		return nil, err
	}

	var fields []FieldError
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		fields = append(fields, FieldError{Field: "first_name", Key: "error.field_required"})
	}
	lastName := strings.TrimSpace(input.LastName)
	if lastName == "" {
		fields = append(fields, FieldError{Field: "last_name", Key: "error.field_required"})
	}
	line1 := strings.TrimSpace(input.AddressLine1)
	if line1 == "" {
		fields = append(fields, FieldError{Field: "address_line1", Key: "error.field_required"})
	}
	city := strings.TrimSpace(input.City)
	if city == "" {
		fields = append(fields, FieldError{Field: "city", Key: "error.field_required"})
	}
	postalCode := strings.TrimSpace(input.PostalCode)
	if postalCode == "" {
		fields = append(fields, FieldError{Field: "postal_code", Key: "error.field_required"})
	}
	country := strings.ToUpper(strings.TrimSpace(input.Country))
	if len(country) != 2 {
		fields = append(fields, FieldError{Field: "country", Key: "error.country_invalid"})
	}
	if len(fields) > 0 {
		return nil, newValidationError(fields...)
	}

	return &models.Address{
		UserID:       userID,
		Type:         addressType,
		FirstName:    firstName,
		LastName:     lastName,
		Company:      strings.TrimSpace(input.Company),
		AddressLine1: line1,
		AddressLine2: strings.TrimSpace(input.AddressLine2),
		City:         city,
		State:        strings.TrimSpace(input.State),
		PostalCode:   postalCode,
		Country:      country,
		Phone:        strings.TrimSpace(input.Phone),
	}, nil
}

func normalizeAddressType(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "", constants.AddressTypeShipping:
		return constants.AddressTypeShipping, nil
	case constants.AddressTypeBilling:
		return constants.AddressTypeBilling, nil
	default:
		return "", ErrAddressTypeInvalid
	}
}
