package queue

import (
	"encoding/json"

	"github.com/craftmart-shop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmEmail 订单确认邮件任务
	TaskOrderConfirmEmail = constants.TaskOrderConfirmEmail
	// TaskOrderStatusEmail 订单状态变更邮件任务
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskGuestCartCleanup 过期游客购物车清理任务
	TaskGuestCartCleanup = constants.TaskGuestCartCleanup
)

// OrderConfirmEmailPayload 订单确认邮件任务载荷
type OrderConfirmEmailPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderStatusEmailPayload 订单状态邮件任务载荷
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// GuestCartCleanupPayload 游客购物车清理任务载荷
type GuestCartCleanupPayload struct {
	BatchSize int `json:"batch_size"`
}

// NewOrderConfirmEmailTask 创建订单确认邮件任务
func NewOrderConfirmEmailTask(payload OrderConfirmEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmEmail, body), nil
}

// NewOrderStatusEmailTask 创建订单状态邮件任务
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusEmail, body), nil
}

// NewGuestCartCleanupTask 创建游客购物车清理任务
func NewGuestCartCleanupTask(payload GuestCartCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGuestCartCleanup, body), nil
}
