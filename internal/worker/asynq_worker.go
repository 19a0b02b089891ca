package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/craftmart-shop/internal/logger"
	"github.com/craftmart-shop/internal/models"
	"github.com/craftmart-shop/internal/provider"
	"github.com/craftmart-shop/internal/queue"
	"github.com/craftmart-shop/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmEmail, c.handleOrderConfirmEmail)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskGuestCartCleanup, c.handleGuestCartCleanup)
}

func (c *Consumer) handleOrderConfirmEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_confirm_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderConfirmEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirm_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_confirm_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, receiverEmail, locale, err := c.resolveOrderReceiver(payload.OrderID)
	if err != nil {
		return err
	}
	if order == nil || receiverEmail == "" {
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_confirm_email_skip_email_service_nil", "order_id", order.ID, "order_number", order.OrderNumber)
		return nil
	}
	input := service.OrderEmailInput{
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Amount:      order.TotalAmount,
		Currency:    order.Currency,
		IsGuest:     order.UserID == 0,
	}
	if err := c.EmailService.SendOrderConfirmEmail(receiverEmail, input, locale); err != nil {
		logger.Warnw("worker_order_confirm_email_send_failed",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"receiver_email", receiverEmail,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderStatusEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, receiverEmail, locale, err := c.resolveOrderReceiver(payload.OrderID)
	if err != nil {
		return err
	}
	if order == nil || receiverEmail == "" {
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_order_status_email_skip_email_service_nil", "order_id", order.ID, "order_number", order.OrderNumber)
		return nil
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}
	input := service.OrderEmailInput{
		OrderNumber: order.OrderNumber,
		Status:      status,
		Amount:      order.TotalAmount,
		Currency:    order.Currency,
		IsGuest:     order.UserID == 0,
	}
	if err := c.EmailService.SendOrderStatusEmail(receiverEmail, input, locale); err != nil {
		logger.Warnw("worker_order_status_email_send_failed",
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"receiver_email", receiverEmail,
			"status", status,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleGuestCartCleanup(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_guest_cart_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.GuestCartCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_guest_cart_cleanup_unmarshal_failed", "error", err)
		return err
	}
	if c.CartService == nil {
		logger.Warnw("worker_guest_cart_cleanup_skip_cart_service_nil")
		return nil
	}
	batchSize := payload.BatchSize
	if batchSize <= 0 {
		batchSize = 200
	}
	removed, err := c.CartService.CleanupExpiredGuestCarts(time.Now(), batchSize)
	if err != nil {
		logger.Warnw("worker_guest_cart_cleanup_failed", "removed", removed, "error", err)
		return err
	}
	if removed > 0 {
		logger.Infow("worker_guest_cart_cleanup_done", "removed", removed)
	}
	return nil
}

// resolveOrderReceiver 解析订单通知收件人与语言偏好。
// 游客订单用下单邮箱和店铺默认语言；用户订单用账号邮箱和用户语言。
func (c *Consumer) resolveOrderReceiver(orderID uint) (order *models.Order, email, locale string, err error) {
	row, err := c.OrderRepo.GetByID(orderID)
	if err != nil {
		logger.Warnw("worker_order_email_fetch_order_failed", "order_id", orderID, "error", err)
		return nil, "", "", err
	}
	if row == nil {
		logger.Debugw("worker_order_email_skip_order_not_found", "order_id", orderID)
		return nil, "", "", nil
	}
	if row.UserID == 0 {
		email = strings.TrimSpace(row.GuestEmail)
	} else {
		user, userErr := c.UserRepo.GetByID(row.UserID)
		if userErr != nil {
			logger.Warnw("worker_order_email_fetch_user_failed", "order_id", row.ID, "user_id", row.UserID, "error", userErr)
			return nil, "", "", userErr
		}
		if user != nil {
			email = strings.TrimSpace(user.Email)
			locale = strings.TrimSpace(user.Locale)
		}
	}
	if email == "" {
		logger.Debugw("worker_order_email_skip_empty_receiver", "order_id", row.ID, "order_number", row.OrderNumber)
	}
	return row, email, locale, nil
}
