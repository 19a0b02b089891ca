package service

import (
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/repository"
)

// PaymentService 支付记录查询服务（后台）
type PaymentService struct {
	paymentRepo repository.PaymentRepository
}

// NewPaymentService 创建支付服务
func NewPaymentService(paymentRepo repository.PaymentRepository) *PaymentService {
	return &PaymentService{paymentRepo: paymentRepo}
}

// ListAdmin 后台支付记录列表
func (s *PaymentService) ListAdmin(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.ListAdmin(filter)
}

// GetByID 支付记录详情
func (s *PaymentService) GetByID(id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// ListByOrder 订单的支付记录
func (s *PaymentService) ListByOrder(orderID uint) ([]models.Payment, error) {
	return s.paymentRepo.ListByOrderID(orderID)
}
