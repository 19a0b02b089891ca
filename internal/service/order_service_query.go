package service

import (
	"strings"

	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/repository"
)

// GetOrderByUser 获取用户订单详情
func (s *OrderService) GetOrderByUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByNumberAndUser 按订单号获取用户订单
func (s *OrderService) GetOrderByNumberAndUser(orderNumber string, userID uint) (*models.Order, error) {
	orderNumber = strings.ToUpper(strings.TrimSpace(orderNumber))
	if orderNumber == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByNumberAndUser(orderNumber, userID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetGuestOrder 游客按订单号 + 邮箱查询订单
func (s *OrderService) GetGuestOrder(orderNumber, email string) (*models.Order, error) {
	orderNumber = strings.ToUpper(strings.TrimSpace(orderNumber))
	normalized, err := normalizeGuestEmail(email)
	if err != nil {
		return nil, err
	}
	if orderNumber == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByNumberAndGuest(orderNumber, normalized)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 用户订单历史
func (s *OrderService) ListOrdersByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	}
	return s.orderRepo.ListByUser(filter)
}

// ListOrdersAdmin 后台订单列表
func (s *OrderService) ListOrdersAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetOrderAdmin 后台订单详情
func (s *OrderService) GetOrderAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
